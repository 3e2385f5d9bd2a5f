// Package goapi talks to the GO Transit EligibilityService: today's trips between
// two stations, the list of depart stations, and per-trip refund eligibility.
package goapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"
)

// ErrScheduleFetchFailed means the trip schedule could not be fetched or parsed.
// No partial schedule is ever returned alongside it.
var ErrScheduleFetchFailed = errors.New("unable to fetch trips from GO Transit")

// DateLayout is the operator's MMDDYYYY date format
const DateLayout = "01022006"

// Client issues requests to the GO Transit API. Every query uses today's date
// in the operator's time zone.
type Client struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
	now     func() time.Time
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		loc: loc,
		now: time.Now,
	}
}

// LoadLocation resolves the operator time zone, e.g. "America/Toronto"
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load operator time zone %q: %w", name, err)
	}
	return loc, nil
}

// DateString returns today's date in the operator time zone as MMDDYYYY
func (c *Client) DateString() string {
	return c.now().In(c.loc).Format(DateLayout)
}

// FetchTrips returns today's trips from departCode to arrivalCode.
// Any failure is reported as ErrScheduleFetchFailed; there is no retry.
func (c *Client) FetchTrips(ctx context.Context, departCode, arrivalCode string) ([]RawTrip, error) {
	params := url.Values{}
	params.Set("dateString", c.DateString())
	params.Set("departStationCode", departCode)
	params.Set("arrivalStationCode", arrivalCode)

	var resp tripsResponse
	if err := c.getJSON(ctx, "/GetTrips?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %s-%s: %v", ErrScheduleFetchFailed, departCode, arrivalCode, err)
	}
	if resp.GetTripsResult == nil {
		return nil, fmt.Errorf("%w: %s-%s: response has no GetTripsResult", ErrScheduleFetchFailed, departCode, arrivalCode)
	}

	trips := resp.GetTripsResult.Trips
	if trips == nil {
		trips = []RawTrip{}
	}
	return trips, nil
}

// FetchStations returns the depart stations the operator lists for today.
// Failures are logged and returned in the result rather than as an error.
func (c *Client) FetchStations(ctx context.Context) StationsResult {
	params := url.Values{}
	params.Set("dateString", c.DateString())

	var resp stationsResponse
	err := c.getJSON(ctx, "/GetDepartStations?"+params.Encode(), &resp)
	if err == nil && resp.GetDepartStationsResult == nil {
		err = errors.New("response has no GetDepartStationsResult")
	}
	if err != nil {
		log.Printf("Unable to fetch Stations: %v", err)
		return StationsResult{Err: err}
	}

	return StationsResult{Stations: resp.GetDepartStationsResult.Stations}
}

// CheckEligibility asks whether a trip arriving at arrivalCode on dateStr (MMDDYYYY)
// qualifies for a refund. Failures are logged and returned in the result.
func (c *Client) CheckEligibility(ctx context.Context, dateStr, arrivalCode, tripNumber string) EligibilityResult {
	body, err := json.Marshal(eligibilityRequest{
		DateString:         dateStr,
		ArrivalStationCode: strings.ToUpper(arrivalCode),
		TripNumber:         tripNumber,
		Lang:               "en",
	})
	if err != nil {
		return EligibilityResult{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	var resp eligibilityResponse
	err = c.postJSON(ctx, "/CheckEligible", body, &resp)
	if err == nil && resp.CheckEligibleResult == nil {
		err = errors.New("response has no CheckEligibleResult")
	}
	if err != nil {
		log.Printf("Unable to determine eligibility status: Arrival Station - %s | Trip No. - %s: %v", arrivalCode, tripNumber, err)
		return EligibilityResult{Err: err}
	}

	return EligibilityResult{Eligible: resp.CheckEligibleResult.ResultType == ResultTypeEligible}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GO Transit returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
