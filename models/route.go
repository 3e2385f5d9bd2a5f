package models

import (
	"errors"
	"fmt"
	"strings"
)

// Station is a GO Transit stop identified by its short code.
// Rows are append-only reference data shared by every route.
type Station struct {
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Validate checks that the station has both a code and a name
func (s *Station) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return errors.New("station code is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("station name is required")
	}
	return nil
}

// StationPair identifies a route by its depart and arrival station codes
type StationPair struct {
	DepartStationCode  string `db:"depart_station_code" json:"depart_station_code"`
	ArrivalStationCode string `db:"arrival_station_code" json:"arrival_station_code"`
}

// String renders the pair the way it appears in route URLs ("UN-AC")
func (p StationPair) String() string {
	return p.DepartStationCode + "-" + p.ArrivalStationCode
}

// ParseStationPair parses a "DEPART-ARRIVAL" key
func ParseStationPair(key string) (StationPair, error) {
	depart, arrival, ok := strings.Cut(key, "-")
	if !ok || depart == "" || arrival == "" || strings.Contains(arrival, "-") {
		return StationPair{}, fmt.Errorf("invalid station pair %q", key)
	}
	return StationPair{DepartStationCode: depart, ArrivalStationCode: arrival}, nil
}

// Route maps to a row of the route table.
// (depart_station_code, arrival_station_code) is unique.
type Route struct {
	ID int64 `db:"id" json:"id"`
	StationPair
}

// Trip is a scheduled departure belonging to a route.
// (route_id, trip_number) is unique; TripTime is "HH:MM".
type Trip struct {
	ID         int64  `db:"id" json:"-"`
	RouteID    int64  `db:"route_id" json:"-"`
	TripNumber string `db:"trip_number" json:"trip_number"`
	TripTime   string `db:"trip_time" json:"trip_time"`
}

// UserRoute records that a user tracks a route
type UserRoute struct {
	ID      int64  `db:"id" json:"id"`
	UserID  string `db:"user_id" json:"user_id"`
	RouteID int64  `db:"route_id" json:"route_id"`
}

// TripTime is the serialized form of a trip inside RouteDetails
type TripTime struct {
	TripNumber string `db:"trip_number" json:"trip_number"`
	TripTime   string `db:"trip_time" json:"trip_time"`
}

// RouteDetails is a route joined with its station names and trips
type RouteDetails struct {
	ID                 int64      `db:"id" json:"id"`
	DepartStation      string     `db:"depart_station" json:"depart_station"`
	DepartStationCode  string     `db:"depart_station_code" json:"depart_station_code"`
	ArrivalStation     string     `db:"arrival_station" json:"arrival_station"`
	ArrivalStationCode string     `db:"arrival_station_code" json:"arrival_station_code"`
	Trips              []TripTime `db:"-" json:"trips"`
}
