package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/models"
	"github.com/gra-app/gra/repository"
)

// ErrStationFetchFailed means GO Transit could not list its stations
var ErrStationFetchFailed = errors.New("unable to fetch stations from GO Transit")

// StationFetcher returns the operator's depart stations
type StationFetcher interface {
	FetchStations(ctx context.Context) goapi.StationsResult
}

// StationService fills the station table from GO Transit
type StationService struct {
	store   Store
	fetcher StationFetcher
}

// NewStationService creates a station service
func NewStationService(store Store, fetcher StationFetcher) *StationService {
	return &StationService{store: store, fetcher: fetcher}
}

// Populate fetches today's depart stations and inserts the ones not stored yet.
// Existing stations keep their names. When the fetch fails nothing is written
// and the fetch error is returned.
func (s *StationService) Populate(ctx context.Context) (*models.StationPopulation, error) {
	run := &models.StationPopulation{RunID: uuid.NewString()}

	result := s.fetcher.FetchStations(ctx)
	if !result.OK() {
		log.Printf("[%s] Station population skipped: %v", run.RunID, result.Err)
		return run, fmt.Errorf("%w: %w", ErrStationFetchFailed, result.Err)
	}
	run.Fetched = len(result.Stations)

	stations := make([]models.Station, 0, len(result.Stations))
	seen := make(map[string]bool, len(result.Stations))
	for _, rs := range result.Stations {
		station := models.Station{
			Code: strings.TrimSpace(rs.Code),
			Name: strings.TrimSpace(rs.Name),
		}
		if err := station.Validate(); err != nil || seen[station.Code] {
			run.Skipped++
			continue
		}
		seen[station.Code] = true
		stations = append(stations, station)
	}

	err := s.store.InTx(ctx, func(q repository.Querier) error {
		inserted, err := repository.InsertStations(ctx, q, stations)
		if err != nil {
			return err
		}
		run.Inserted = inserted
		return nil
	})
	if err != nil {
		log.Printf("[%s] Station population failed: %v", run.RunID, err)
		return run, err
	}

	log.Printf("[%s] Stations populated: fetched=%d inserted=%d skipped=%d",
		run.RunID, run.Fetched, run.Inserted, run.Skipped)
	return run, nil
}
