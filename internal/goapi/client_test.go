package goapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	loc, err := LoadLocation("America/Toronto")
	require.NoError(t, err)

	c := NewClient(server.URL+"/", 2*time.Second, loc)
	// 02:30 UTC on March 9th is still March 8th in Toronto
	c.now = func() time.Time { return time.Date(2019, 3, 9, 2, 30, 0, 0, time.UTC) }
	return c
}

func TestDateStringUsesOperatorTimezone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, "03082019", c.DateString())

	c.loc = time.UTC
	assert.Equal(t, "03092019", c.DateString())
}

func TestFetchTrips(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetTrips", r.URL.Path)
		assert.Equal(t, "03082019", r.URL.Query().Get("dateString"))
		assert.Equal(t, "UN", r.URL.Query().Get("departStationCode"))
		assert.Equal(t, "AC", r.URL.Query().Get("arrivalStationCode"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"GetTripsResult": {"Trips": [
			{"TripNumber": "  3806", "DepartTime": "05:45   "},
			{"TripNumber": "3808", "DepartTime": "06:15"}
		], "StatusCode": 200}}`))
	})

	trips, err := c.FetchTrips(context.Background(), "UN", "AC")
	require.NoError(t, err)
	assert.Equal(t, []RawTrip{
		{TripNumber: "  3806", DepartTime: "05:45   "},
		{TripNumber: "3808", DepartTime: "06:15"},
	}, trips, "the client returns values untrimmed")
}

func TestFetchTripsNoTripsToday(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"GetTripsResult": {"Trips": null, "StatusCode": 200}}`))
	})

	trips, err := c.FetchTrips(context.Background(), "UN", "AC")
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestFetchTripsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>maintenance</html>`))
			},
		},
		{
			name: "missing result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Message": "unavailable"}`))
			},
		},
		{
			name: "wrong field types",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"GetTripsResult": {"Trips": "none"}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			trips, err := c.FetchTrips(context.Background(), "UN", "AC")
			assert.Nil(t, trips)
			assert.True(t, errors.Is(err, ErrScheduleFetchFailed), "got %v", err)
		})
	}
}

func TestFetchTripsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(server.URL, time.Second, time.UTC)
	_, err := c.FetchTrips(context.Background(), "UN", "AC")
	assert.ErrorIs(t, err, ErrScheduleFetchFailed)
}

func TestFetchTripsHonoursContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.FetchTrips(ctx, "UN", "AC")
	assert.ErrorIs(t, err, ErrScheduleFetchFailed)
}

func TestFetchStations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetDepartStations", r.URL.Path)
		assert.Equal(t, "03082019", r.URL.Query().Get("dateString"))
		w.Write([]byte(`{"GetDepartStationsResult": {"Stations": [
			{"Code": "AC", "Name": "Acton GO"},
			{"Code": "UN", "Name": "Union GO"}
		], "StatusCode": 200}}`))
	})

	result := c.FetchStations(context.Background())
	require.True(t, result.OK())
	assert.Equal(t, []RawStation{
		{Code: "AC", Name: "Acton GO"},
		{Code: "UN", Name: "Union GO"},
	}, result.Stations)
}

func TestFetchStationsReturnsDegradedResultOnFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	result := c.FetchStations(context.Background())
	assert.False(t, result.OK())
	assert.Empty(t, result.Stations)
}

func TestCheckEligibility(t *testing.T) {
	for _, tt := range []struct {
		resultType int
		expected   bool
	}{
		{resultType: 2, expected: false},
		{resultType: 1, expected: true},
	} {
		t.Run(fmt.Sprintf("ResultType=%d", tt.resultType), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/CheckEligible", r.URL.Path)

				var req eligibilityRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, eligibilityRequest{
					DateString:         "03082019",
					ArrivalStationCode: "UN",
					TripNumber:         "3806",
					Lang:               "en",
				}, req)

				json.NewEncoder(w).Encode(map[string]interface{}{
					"CheckEligibleResult": map[string]interface{}{
						"Reason":     "",
						"ResultType": tt.resultType,
						"StatusCode": 200,
					},
				})
			})

			result := c.CheckEligibility(context.Background(), "03082019", "un", "3806")
			require.True(t, result.OK())
			assert.Equal(t, tt.expected, result.Eligible)
		})
	}
}

func TestCheckEligibilityReturnsFalseOnFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	result := c.CheckEligibility(context.Background(), "03082019", "UN", "3806")
	assert.False(t, result.OK())
	assert.False(t, result.Eligible)
}
