package models

import (
	"fmt"
	"strings"

	"flightsurety/internal/domain"
)

// StatusCode is the outcome oracles report for a flight.
type StatusCode uint8

const (
	StatusUnknown       StatusCode = 0
	StatusOnTime        StatusCode = 10
	StatusLateAirline   StatusCode = 20
	StatusLateWeather   StatusCode = 30
	StatusLateTechnical StatusCode = 40
	StatusLateOther     StatusCode = 50
)

var statusNames = map[StatusCode]string{
	StatusUnknown:       "unknown",
	StatusOnTime:        "on_time",
	StatusLateAirline:   "late_airline",
	StatusLateWeather:   "late_weather",
	StatusLateTechnical: "late_technical",
	StatusLateOther:     "late_other",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsOutcome reports whether s is a reportable outcome (anything known but Unknown).
func (s StatusCode) IsOutcome() bool {
	_, ok := statusNames[s]
	return ok && s != StatusUnknown
}

// ParseStatus accepts either the numeric wire value or the snake_case name.
func ParseStatus(raw string) (StatusCode, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for code, name := range statusNames {
		if raw == name || raw == fmt.Sprintf("%d", uint8(code)) {
			return code, nil
		}
	}
	return StatusUnknown, domain.ValidationError{Field: "status", Msg: "unknown status " + raw}
}

// FlightKey is the identity tuple of a flight.
type FlightKey struct {
	Airline   domain.Principal `json:"airline"`
	Code      string           `json:"code"`
	Timestamp int64            `json:"timestamp"`
}

func (k FlightKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Airline, k.Code, k.Timestamp)
}

// Flight is a registered flight and its resolved status.
type Flight struct {
	Key        FlightKey  `json:"key"`
	Registered bool       `json:"registered"`
	Status     StatusCode `json:"status"`
}

// Resolved reports whether oracles already settled the flight.
func (f Flight) Resolved() bool {
	return f.Status != StatusUnknown
}
