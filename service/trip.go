package service

import (
	"context"
	"log"
	"strings"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// TripReconciler merges a freshly fetched schedule into the stored trips of a route.
// It never opens a transaction of its own; callers pass the transaction's Querier.
type TripReconciler struct{}

// NewTripReconciler creates a reconciler
func NewTripReconciler() *TripReconciler {
	return &TripReconciler{}
}

// Reconcile upserts raw trips for routeID in a single statement.
// Trips already stored under the same number get their time updated; trips missing
// from raw are left as they are. Storage errors are returned unchanged.
func (r *TripReconciler) Reconcile(ctx context.Context, q repository.Querier, routeID int64, raw []goapi.RawTrip) error {
	return repository.UpsertTrips(ctx, q, normalizeTrips(routeID, raw))
}

// normalizeTrips trims the operator's padded values and maps them onto trip rows.
// A trip number repeated in one payload keeps its last time.
func normalizeTrips(routeID int64, raw []goapi.RawTrip) []models.Trip {
	trips := make([]models.Trip, 0, len(raw))
	index := make(map[string]int, len(raw))

	for _, rt := range raw {
		number := strings.TrimSpace(rt.TripNumber)
		if number == "" {
			log.Printf("Skipping trip without a number for route %d (depart time %q)", routeID, rt.DepartTime)
			continue
		}

		trip := models.Trip{
			RouteID:    routeID,
			TripNumber: number,
			TripTime:   strings.TrimSpace(rt.DepartTime),
		}

		if i, seen := index[number]; seen {
			trips[i] = trip
			continue
		}
		index[number] = len(trips)
		trips = append(trips, trip)
	}

	return trips
}
