package models

// TripEligibility is the refund eligibility of one trip of a route for today.
// Error is set when the operator could not be asked; Eligible is then false.
type TripEligibility struct {
	TripNumber string `json:"trip_number"`
	TripTime   string `json:"trip_time"`
	Eligible   bool   `json:"eligible"`
	Error      string `json:"error,omitempty"`
}

// RouteEligibility groups the eligibility of every trip of a route
type RouteEligibility struct {
	RouteID  int64             `json:"route_id"`
	Date     string            `json:"date"` // MMDDYYYY
	Trips    []TripEligibility `json:"trips"`
	Eligible int               `json:"eligible_count"`
	Failed   int               `json:"failed_count"`
}

// StationPopulation summarizes one station population run
type StationPopulation struct {
	RunID    string `json:"run_id"`
	Fetched  int    `json:"fetched"`
	Skipped  int    `json:"skipped"`
	Inserted int64  `json:"inserted"`
}
