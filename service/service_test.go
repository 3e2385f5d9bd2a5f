package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/internal/testdb"
	"github.com/gra-app/gra/repository"
)

var errDiskFull = errors.New("disk I/O error")

// fakeFetcher serves canned trips and records the pairs it was asked for
type fakeFetcher struct {
	mu    sync.Mutex
	trips []goapi.RawTrip
	err   error
	fn    func(ctx context.Context) ([]goapi.RawTrip, error)
	pairs []string
}

func (f *fakeFetcher) FetchTrips(ctx context.Context, departCode, arrivalCode string) ([]goapi.RawTrip, error) {
	f.mu.Lock()
	f.pairs = append(f.pairs, departCode+"-"+arrivalCode)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.trips, nil
}

func upstreamDown() error {
	return fmt.Errorf("%w: A-B: GO Transit returned status 503", goapi.ErrScheduleFetchFailed)
}

// failingStore runs transactions on a real database but fails every statement
// whose text contains match
type failingStore struct {
	*repository.DB
	match string
}

func (s *failingStore) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return s.DB.InTx(ctx, func(q repository.Querier) error {
		return fn(&failingQuerier{Querier: q, match: s.match})
	})
}

type failingQuerier struct {
	repository.Querier
	match string
}

func (q *failingQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if strings.Contains(query, q.match) {
		return nil, errDiskFull
	}
	return q.Querier.ExecContext(ctx, query, args...)
}

// fakeStations serves a canned station list
type fakeStations struct {
	result goapi.StationsResult
}

func (f *fakeStations) FetchStations(ctx context.Context) goapi.StationsResult {
	return f.result
}

// fakeChecker answers eligibility per trip number
type fakeChecker struct {
	date    string
	results map[string]goapi.EligibilityResult
	calls   []string
}

func (f *fakeChecker) DateString() string {
	return f.date
}

func (f *fakeChecker) CheckEligibility(ctx context.Context, dateStr, arrivalCode, tripNumber string) goapi.EligibilityResult {
	f.calls = append(f.calls, dateStr+"/"+arrivalCode+"/"+tripNumber)
	return f.results[tripNumber]
}

// storedTrips returns trip number -> trip time for a route
func storedTrips(t *testing.T, db *repository.DB, routeID int64) map[string]string {
	t.Helper()
	trips, err := repository.ListTrips(context.Background(), db.Querier(), routeID)
	require.NoError(t, err)

	byNumber := make(map[string]string, len(trips))
	for _, trip := range trips {
		byNumber[trip.TripNumber] = trip.TripTime
	}
	return byNumber
}

type rowCounts struct {
	routes, userRoutes, trips int
}

func countRows(t *testing.T, db *repository.DB) rowCounts {
	t.Helper()
	return rowCounts{
		routes:     testdb.Count(t, db.Querier(), "route"),
		userRoutes: testdb.Count(t, db.Querier(), "user_route"),
		trips:      testdb.Count(t, db.Querier(), "trip"),
	}
}
