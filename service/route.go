// Package service holds the route workflows that sit between the HTTP handlers
// and the repository: route creation with trip reconciliation, user route
// associations, station population and eligibility checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// Store is the transactional database handle the services run against
type Store interface {
	Querier() repository.Querier
	InTx(ctx context.Context, fn func(q repository.Querier) error) error
}

// TripFetcher returns today's trips for a station pair
type TripFetcher interface {
	FetchTrips(ctx context.Context, departCode, arrivalCode string) ([]goapi.RawTrip, error)
}

// RouteService creates routes, refreshes their trips and manages user associations
type RouteService struct {
	store        Store
	fetcher      TripFetcher
	reconciler   *TripReconciler
	fetchTimeout time.Duration
}

// NewRouteService creates a route service. A zero fetchTimeout leaves the
// upstream call bounded only by the caller's context and the client timeout.
func NewRouteService(store Store, fetcher TripFetcher, reconciler *TripReconciler, fetchTimeout time.Duration) *RouteService {
	if reconciler == nil {
		reconciler = NewTripReconciler()
	}
	return &RouteService{
		store:        store,
		fetcher:      fetcher,
		reconciler:   reconciler,
		fetchTimeout: fetchTimeout,
	}
}

// CreateRouteAndTrips creates the route for pair if needed, links it to userID when
// one is given, and refreshes its trips from GO Transit, all in one transaction.
// On any error nothing is committed. An upstream failure is reported with
// goapi.ErrScheduleFetchFailed in the error chain.
func (s *RouteService) CreateRouteAndTrips(ctx context.Context, pair models.StationPair, userID string) (int64, error) {
	attempt := uuid.New()
	var routeID int64

	err := s.store.InTx(ctx, func(q repository.Querier) error {
		if err := repository.InsertRoute(ctx, q, pair); err != nil {
			return err
		}

		route, err := repository.FindRoute(ctx, q, pair)
		if err != nil {
			return err
		}

		if userID != "" {
			association := models.UserRoute{UserID: userID, RouteID: route.ID}
			if err := repository.InsertUserRoute(ctx, q, association); err != nil {
				return err
			}
		}

		trips, err := s.fetchTrips(ctx, pair)
		if err != nil {
			return err
		}

		if err := s.reconciler.Reconcile(ctx, q, route.ID, trips); err != nil {
			return err
		}

		routeID = route.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, goapi.ErrScheduleFetchFailed) {
			log.Printf("[%s] Route %s not created, GO Transit unavailable: %v", attempt, pair, err)
		} else {
			log.Printf("[%s] Failed to create route %s: %v", attempt, pair, err)
		}
		return 0, err
	}

	log.Printf("[%s] Route %s (id=%d) refreshed", attempt, pair, routeID)
	return routeID, nil
}

func (s *RouteService) fetchTrips(ctx context.Context, pair models.StationPair) ([]goapi.RawTrip, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	return s.fetcher.FetchTrips(ctx, pair.DepartStationCode, pair.ArrivalStationCode)
}

// DeleteUserRouteAssociation removes the link between userID and routeID.
// The route and its trips stay; deleting a missing association is not an error.
func (s *RouteService) DeleteUserRouteAssociation(ctx context.Context, userID string, routeID int64) error {
	return s.store.InTx(ctx, func(q repository.Querier) error {
		deleted, err := repository.DeleteUserRoute(ctx, q, models.UserRoute{UserID: userID, RouteID: routeID})
		if err != nil {
			return fmt.Errorf("failed to delete route %d for user %s: %w", routeID, userID, err)
		}
		if deleted == 0 {
			log.Printf("No route %d association for user %s to delete", routeID, userID)
		}
		return nil
	})
}

// GetRoute returns a route with its stations and trips
func (s *RouteService) GetRoute(ctx context.Context, routeID int64) (*models.RouteDetails, error) {
	return repository.GetRouteDetails(ctx, s.store.Querier(), routeID)
}

// GetRouteByStations returns the route for a station pair with its stations and trips
func (s *RouteService) GetRouteByStations(ctx context.Context, pair models.StationPair) (*models.RouteDetails, error) {
	return repository.GetRouteDetailsByStations(ctx, s.store.Querier(), pair)
}

// ListStations returns every known station
func (s *RouteService) ListStations(ctx context.Context) ([]models.Station, error) {
	return repository.ListStations(ctx, s.store.Querier())
}
