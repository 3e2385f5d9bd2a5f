package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
	"github.com/gra-app/gra/service"
)

// StationPopulator fills the station table from GO Transit
type StationPopulator interface {
	Populate(ctx context.Context) (*models.StationPopulation, error)
}

// RouteEligibilityChecker checks every trip of a route for refund eligibility
type RouteEligibilityChecker interface {
	CheckRoute(ctx context.Context, routeID int64) (*models.RouteEligibility, error)
}

// SystemHandler handles the privileged system endpoints.
// Mount it behind RequireSecret.
type SystemHandler struct {
	stations    StationPopulator
	eligibility RouteEligibilityChecker
}

// NewSystemHandler creates a new handler with the given services
func NewSystemHandler(stations StationPopulator, eligibility RouteEligibilityChecker) *SystemHandler {
	return &SystemHandler{stations: stations, eligibility: eligibility}
}

// PopulateStations handles POST /portal/api/system/populate-stations/
func (h *SystemHandler) PopulateStations(w http.ResponseWriter, r *http.Request) {
	run, err := h.stations.Populate(r.Context())
	if err != nil {
		msg := "Sorry, unable to store stations due to system issues. Please try again."
		if errors.Is(err, service.ErrStationFetchFailed) {
			msg = MsgGoTransitOffline
		}
		writeJSON(w, http.StatusInternalServerError, Response{
			Content: run,
			Errors:  map[string]string{"system": msg},
		})
		return
	}

	writeContent(w, http.StatusOK, run)
}

// GetRouteEligibility handles GET /portal/api/system/route/{routeID}/eligibility/
func (h *SystemHandler) GetRouteEligibility(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.ParseInt(chi.URLParam(r, "routeID"), 10, 64)
	if err != nil || routeID <= 0 {
		writeErrors(w, http.StatusBadRequest, map[string]string{"route_id": "Not a valid integer."})
		return
	}

	report, err := h.eligibility.CheckRoute(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			writeErrors(w, http.StatusNotFound, map[string]string{"route": "Route not found."})
			return
		}
		log.Printf("Failed to check eligibility for route %d: %v", routeID, err)
		writeSystemError(w, http.StatusInternalServerError, "Sorry, unable to check eligibility. Please try again.")
		return
	}

	writeContent(w, http.StatusOK, report)
}
