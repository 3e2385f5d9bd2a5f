package goapi

// RawTrip is one trip as returned by GetTrips. Values are untrimmed; the
// operator pads times such as "05:45   ".
type RawTrip struct {
	TripNumber string `json:"TripNumber"`
	DepartTime string `json:"DepartTime"`
}

// RawStation is one station as returned by GetDepartStations
type RawStation struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// ResultTypeEligible is the CheckEligible result code meaning "refund eligible"
const ResultTypeEligible = 1

type tripsResponse struct {
	GetTripsResult *struct {
		Trips      []RawTrip `json:"Trips"`
		StatusCode int       `json:"StatusCode"`
	} `json:"GetTripsResult"`
}

type stationsResponse struct {
	GetDepartStationsResult *struct {
		Stations   []RawStation `json:"Stations"`
		StatusCode int          `json:"StatusCode"`
	} `json:"GetDepartStationsResult"`
}

type eligibilityRequest struct {
	DateString         string `json:"dateString"`
	ArrivalStationCode string `json:"arrivalstationCode"`
	TripNumber         string `json:"tripNumber"`
	Lang               string `json:"lang"`
}

type eligibilityResponse struct {
	CheckEligibleResult *struct {
		Reason     string `json:"Reason"`
		ResultType int    `json:"ResultType"`
		StatusCode int    `json:"StatusCode"`
	} `json:"CheckEligibleResult"`
}

// StationsResult is the outcome of FetchStations. A failed fetch carries Err and no stations,
// so callers can tell "the operator lists no stations" from "the operator could not be reached".
type StationsResult struct {
	Stations []RawStation
	Err      error
}

// OK reports whether the fetch succeeded
func (r StationsResult) OK() bool {
	return r.Err == nil
}

// EligibilityResult is the outcome of CheckEligibility. Eligible is false whenever Err is set.
type EligibilityResult struct {
	Eligible bool
	Err      error
}

// OK reports whether the operator answered
func (r EligibilityResult) OK() bool {
	return r.Err == nil
}
