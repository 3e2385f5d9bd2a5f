package service

import (
	"context"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// EligibilityChecker asks GO Transit whether a trip qualifies for a refund
type EligibilityChecker interface {
	DateString() string
	CheckEligibility(ctx context.Context, dateStr, arrivalCode, tripNumber string) goapi.EligibilityResult
}

// EligibilityService checks the stored trips of a route against GO Transit
type EligibilityService struct {
	store   Store
	checker EligibilityChecker
}

// NewEligibilityService creates an eligibility service
func NewEligibilityService(store Store, checker EligibilityChecker) *EligibilityService {
	return &EligibilityService{store: store, checker: checker}
}

// CheckRoute checks every stored trip of routeID for today. Trips the operator
// could not answer for are reported as not eligible with their error.
// Returns repository.ErrRouteNotFound when the route does not exist.
func (s *EligibilityService) CheckRoute(ctx context.Context, routeID int64) (*models.RouteEligibility, error) {
	route, err := repository.GetRouteDetails(ctx, s.store.Querier(), routeID)
	if err != nil {
		return nil, err
	}

	report := &models.RouteEligibility{
		RouteID: route.ID,
		Date:    s.checker.DateString(),
		Trips:   make([]models.TripEligibility, 0, len(route.Trips)),
	}

	for _, trip := range route.Trips {
		result := s.checker.CheckEligibility(ctx, report.Date, route.ArrivalStationCode, trip.TripNumber)

		te := models.TripEligibility{
			TripNumber: trip.TripNumber,
			TripTime:   trip.TripTime,
			Eligible:   result.Eligible,
		}
		switch {
		case !result.OK():
			te.Eligible = false
			te.Error = result.Err.Error()
			report.Failed++
		case result.Eligible:
			report.Eligible++
		}
		report.Trips = append(report.Trips, te)
	}

	return report, nil
}
