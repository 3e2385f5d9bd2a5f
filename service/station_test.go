package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/internal/testdb"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

func TestPopulateStations(t *testing.T) {
	testdb.ForEach(t, func(t *testing.T, db *repository.DB) {
		ctx := context.Background()
		_, err := repository.InsertStations(ctx, db.Querier(), []models.Station{{Code: "AC", Name: "Action GO"}})
		require.NoError(t, err)

		svc := NewStationService(db, &fakeStations{result: goapi.StationsResult{Stations: []goapi.RawStation{
			{Code: "AC", Name: "Acton GO"},
			{Code: " UN ", Name: "Union GO "},
			{Code: "UN", Name: "Union Station"},
			{Code: "", Name: "Nowhere"},
		}}})

		run, err := svc.Populate(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, run.RunID)
		assert.Equal(t, 4, run.Fetched)
		assert.Equal(t, 2, run.Skipped)
		assert.EqualValues(t, 1, run.Inserted)

		stations, err := repository.ListStations(ctx, db.Querier())
		require.NoError(t, err)
		assert.Equal(t, []models.Station{
			{Code: "AC", Name: "Action GO"},
			{Code: "UN", Name: "Union GO"},
		}, stations, "existing names are never overwritten")

		// A second run is a no-op
		run, err = svc.Populate(ctx)
		require.NoError(t, err)
		assert.Zero(t, run.Inserted)
	})
}

func TestPopulateStationsUpstreamDown(t *testing.T) {
	db := testdb.SQLite(t)
	down := errors.New("GO Transit returned status 502")
	svc := NewStationService(db, &fakeStations{result: goapi.StationsResult{Err: down}})

	run, err := svc.Populate(context.Background())
	assert.ErrorIs(t, err, down)
	assert.ErrorIs(t, err, ErrStationFetchFailed)
	assert.Zero(t, run.Inserted)
	assert.Zero(t, testdb.Count(t, db.Querier(), "station"))
}

func TestPopulateStationsEmptyList(t *testing.T) {
	db := testdb.SQLite(t)
	svc := NewStationService(db, &fakeStations{result: goapi.StationsResult{}})

	run, err := svc.Populate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, run.Fetched)
	assert.Zero(t, run.Inserted)
}
