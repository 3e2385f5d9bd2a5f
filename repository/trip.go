package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gra-app/gra/models"
)

// UpsertTrips writes trips in a single statement. A trip whose (route_id, trip_number)
// already exists only has its trip_time updated; trips absent from the slice are untouched.
// The slice must not repeat a (route_id, trip_number) pair.
func UpsertTrips(ctx context.Context, q Querier, trips []models.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(trips)*3)
	for _, t := range trips {
		args = append(args, t.RouteID, t.TripNumber, t.TripTime)
	}

	query := q.Rebind(`INSERT INTO trip (route_id, trip_number, trip_time) VALUES ` +
		placeholders(len(trips), 3) +
		` ON CONFLICT (route_id, trip_number) DO UPDATE SET trip_time = excluded.trip_time`)

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert %d trips: %w", len(trips), err)
	}
	return nil
}

// ListTrips returns the stored trips of a route ordered by time
func ListTrips(ctx context.Context, q Querier, routeID int64) ([]models.Trip, error) {
	query := q.Rebind(`
		SELECT id, route_id, trip_number, trip_time FROM trip
		WHERE route_id = ?
		ORDER BY trip_time, trip_number
	`)

	trips := []models.Trip{}
	if err := sqlx.SelectContext(ctx, q, &trips, query, routeID); err != nil {
		return nil, fmt.Errorf("failed to query trips for route %d: %w", routeID, err)
	}
	return trips, nil
}
