package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gra-app/gra/models"
)

// ErrRouteNotFound is returned when no route matches an id or station pair
var ErrRouteNotFound = errors.New("route not found")

// InsertRoute creates the route for a station pair. An existing route for the
// same pair makes this a no-op rather than an error.
func InsertRoute(ctx context.Context, q Querier, pair models.StationPair) error {
	query := q.Rebind(`
		INSERT INTO route (depart_station_code, arrival_station_code)
		VALUES (?, ?)
		ON CONFLICT (depart_station_code, arrival_station_code) DO NOTHING
	`)

	if _, err := q.ExecContext(ctx, query, pair.DepartStationCode, pair.ArrivalStationCode); err != nil {
		return fmt.Errorf("failed to insert route %s: %w", pair, err)
	}
	return nil
}

// FindRoute returns the route row for a station pair
func FindRoute(ctx context.Context, q Querier, pair models.StationPair) (*models.Route, error) {
	query := q.Rebind(`
		SELECT id, depart_station_code, arrival_station_code FROM route
		WHERE depart_station_code = ? AND arrival_station_code = ?
	`)

	var route models.Route
	err := sqlx.GetContext(ctx, q, &route, query, pair.DepartStationCode, pair.ArrivalStationCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to query route %s: %w", pair, err)
	}
	return &route, nil
}

const routeDetailsQuery = `
	SELECT
		r.id,
		dep.name AS depart_station,
		r.depart_station_code,
		arr.name AS arrival_station,
		r.arrival_station_code
	FROM route r
	JOIN station dep ON dep.code = r.depart_station_code
	JOIN station arr ON arr.code = r.arrival_station_code
`

// GetRouteDetails returns a route with its station names and trips.
// It issues exactly two queries: the route header and its trips.
func GetRouteDetails(ctx context.Context, q Querier, routeID int64) (*models.RouteDetails, error) {
	return getRouteDetails(ctx, q, routeDetailsQuery+` WHERE r.id = ?`, routeID)
}

// GetRouteDetailsByStations is GetRouteDetails keyed by station pair
func GetRouteDetailsByStations(ctx context.Context, q Querier, pair models.StationPair) (*models.RouteDetails, error) {
	return getRouteDetails(ctx, q,
		routeDetailsQuery+` WHERE r.depart_station_code = ? AND r.arrival_station_code = ?`,
		pair.DepartStationCode, pair.ArrivalStationCode,
	)
}

func getRouteDetails(ctx context.Context, q Querier, query string, args ...interface{}) (*models.RouteDetails, error) {
	var route models.RouteDetails
	if err := sqlx.GetContext(ctx, q, &route, q.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to query route: %w", err)
	}

	trips := []models.TripTime{}
	tripsQuery := q.Rebind(`
		SELECT trip_number, trip_time FROM trip
		WHERE route_id = ?
		ORDER BY trip_time, trip_number
	`)
	if err := sqlx.SelectContext(ctx, q, &trips, tripsQuery, route.ID); err != nil {
		return nil, fmt.Errorf("failed to query trips for route %d: %w", route.ID, err)
	}
	route.Trips = trips

	return &route, nil
}
