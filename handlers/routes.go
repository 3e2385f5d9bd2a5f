package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// RouteService defines the route operations the portal needs
type RouteService interface {
	CreateRouteAndTrips(ctx context.Context, pair models.StationPair, userID string) (int64, error)
	DeleteUserRouteAssociation(ctx context.Context, userID string, routeID int64) error
	GetRoute(ctx context.Context, routeID int64) (*models.RouteDetails, error)
	GetRouteByStations(ctx context.Context, pair models.StationPair) (*models.RouteDetails, error)
	ListStations(ctx context.Context) ([]models.Station, error)
}

// UserIDHeader carries the id of the portal user making the request
const UserIDHeader = "X-USERID"

// RouteHandler handles the portal's station and route endpoints
type RouteHandler struct {
	svc      RouteService
	validate *validator.Validate
}

// NewRouteHandler creates a new handler with the given service
func NewRouteHandler(svc RouteService) *RouteHandler {
	v := validator.New()
	// Report fields by their JSON name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RouteHandler{svc: svc, validate: v}
}

// CreateRouteRequest is the body of POST /portal/api/route/
type CreateRouteRequest struct {
	DepartStationCode  string `json:"depart_station_code" validate:"required,alphanum,max=255"`
	ArrivalStationCode string `json:"arrival_station_code" validate:"required,alphanum,max=255,nefield=DepartStationCode"`
}

// StationsResponse is the content of GET /portal/api/get-stations/
type StationsResponse struct {
	Stations []models.Station `json:"stations"`
}

// CreateRouteResponse is the content of a successful POST /portal/api/route/
type CreateRouteResponse struct {
	RouteID int64 `json:"route_id"`
}

// GetStations handles GET /portal/api/get-stations/
func (h *RouteHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.ListStations(r.Context())
	if err != nil {
		log.Printf("Failed to list stations: %v", err)
		writeSystemError(w, http.StatusInternalServerError, "Sorry, unable to load stations. Please try again.")
		return
	}

	writeContent(w, http.StatusOK, StationsResponse{Stations: stations})
}

// GetRoute handles GET /portal/api/route/{route}/
// {route} is either a route id or a "DEPART-ARRIVAL" station pair
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "route")

	var route *models.RouteDetails
	var err error
	if id, parseErr := strconv.ParseInt(key, 10, 64); parseErr == nil {
		route, err = h.svc.GetRoute(r.Context(), id)
	} else {
		pair, pairErr := models.ParseStationPair(key)
		if pairErr != nil {
			writeErrors(w, http.StatusBadRequest, map[string]string{
				"route": "Expected a route id or DEPART-ARRIVAL station codes.",
			})
			return
		}
		route, err = h.svc.GetRouteByStations(r.Context(), pair)
	}

	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			writeErrors(w, http.StatusNotFound, map[string]string{"route": "Route not found."})
			return
		}
		log.Printf("Failed to get route %s: %v", key, err)
		writeSystemError(w, http.StatusInternalServerError, "Sorry, unable to load route. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, route)
}

// CreateRoute handles POST /portal/api/route/
// It creates or refreshes the route and links it to the X-USERID user when present
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	req, errs := h.decodeCreateRoute(r)
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	pair := models.StationPair{
		DepartStationCode:  req.DepartStationCode,
		ArrivalStationCode: req.ArrivalStationCode,
	}
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))

	routeID, err := h.svc.CreateRouteAndTrips(r.Context(), pair, userID)
	if err != nil {
		if errors.Is(err, goapi.ErrScheduleFetchFailed) {
			writeSystemError(w, http.StatusInternalServerError, MsgGoTransitOffline)
			return
		}
		writeSystemError(w, http.StatusInternalServerError, MsgCreateFailed)
		return
	}

	writeContent(w, http.StatusOK, CreateRouteResponse{RouteID: routeID})
}

// DeleteRoute handles DELETE /portal/api/route/{route}/
// Only the requesting user's association is removed; the route itself stays
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.ParseInt(chi.URLParam(r, "route"), 10, 64)
	if err != nil || routeID <= 0 {
		writeErrors(w, http.StatusBadRequest, map[string]string{"route_id": "Not a valid integer."})
		return
	}

	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		writeErrors(w, http.StatusBadRequest, map[string]string{UserIDHeader: "Missing user id header."})
		return
	}

	if err := h.svc.DeleteUserRouteAssociation(r.Context(), userID, routeID); err != nil {
		log.Printf("Failed to delete route %d for user %s: %v", routeID, userID, err)
		writeSystemError(w, http.StatusInternalServerError, MsgDeleteFailed)
		return
	}

	writeContent(w, http.StatusOK, nil)
}

// decodeCreateRoute parses and validates the request body, returning field-keyed errors
func (h *RouteHandler) decodeCreateRoute(r *http.Request) (CreateRouteRequest, map[string]string) {
	var req CreateRouteRequest
	errs := map[string]string{}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			errs[typeErr.Field] = "Not a valid string."
		} else {
			errs["body"] = "Invalid JSON body."
		}
		return req, errs
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			errs["body"] = err.Error()
			return req, errs
		}
		for _, fe := range validationErrs {
			errs[fe.Field()] = validationMessage(fe)
		}
	}
	return req, errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "alphanum":
		return "Must contain only letters and numbers."
	case "max":
		return "Longer than maximum length " + fe.Param() + "."
	case "nefield":
		return "Must differ from the depart station."
	default:
		return "Invalid value."
	}
}
