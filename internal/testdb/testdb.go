// Package testdb provides databases for package tests. Every test runs against a
// fresh SQLite file; PostgreSQL is added when DATABASE_URL is set.
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// SQLite opens an empty SQLite database in a temp directory
func SQLite(t *testing.T) *repository.DB {
	t.Helper()
	db, err := repository.Open("sqlite", filepath.Join(t.TempDir(), "gra.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

// Postgres opens DATABASE_URL, drops every table and re-creates the schema
func Postgres(t *testing.T) *repository.DB {
	t.Helper()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping PostgreSQL test")
	}

	db, err := repository.Open("postgres", databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.Querier().ExecContext(ctx, `DROP TABLE IF EXISTS user_route, trip, route, station CASCADE`)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

// ForEach runs fn once per available database as subtests
func ForEach(t *testing.T, fn func(t *testing.T, db *repository.DB)) {
	t.Run("SQLite", func(t *testing.T) { fn(t, SQLite(t)) })
	if os.Getenv("DATABASE_URL") != "" {
		t.Run("Postgres", func(t *testing.T) { fn(t, Postgres(t)) })
	}
}

// Count returns the number of rows in table
func Count(t *testing.T, q repository.Querier, table string) int {
	t.Helper()
	var n int
	require.NoError(t, sqlx.GetContext(context.Background(), q, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)))
	return n
}

// Stations are the two stations most tests route between
var Stations = []models.Station{
	{Code: "A", Name: "Station A"},
	{Code: "B", Name: "Station B"},
}

// PairAB is the route from Station A to Station B
var PairAB = models.StationPair{DepartStationCode: "A", ArrivalStationCode: "B"}

// SeedStations inserts Stations
func SeedStations(t *testing.T, db *repository.DB) {
	t.Helper()
	_, err := repository.InsertStations(context.Background(), db.Querier(), Stations)
	require.NoError(t, err)
}

// SeedRoute inserts Stations and the A-B route and returns the route id
func SeedRoute(t *testing.T, db *repository.DB) int64 {
	t.Helper()
	ctx := context.Background()
	SeedStations(t, db)
	require.NoError(t, repository.InsertRoute(ctx, db.Querier(), PairAB))
	route, err := repository.FindRoute(ctx, db.Querier(), PairAB)
	require.NoError(t, err)
	return route.ID
}

// SeedTrip inserts one trip for routeID
func SeedTrip(t *testing.T, db *repository.DB, routeID int64, number, tripTime string) {
	t.Helper()
	err := repository.UpsertTrips(context.Background(), db.Querier(), []models.Trip{
		{RouteID: routeID, TripNumber: number, TripTime: tripTime},
	})
	require.NoError(t, err)
}
