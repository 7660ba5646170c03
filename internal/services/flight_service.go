package services

import (
	"strings"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
)

// FlightReader is the read side of the flight registry used by the escrow
// and oracle components.
type FlightReader interface {
	FlightExists(key models.FlightKey) bool
	GetStatus(key models.FlightKey) models.StatusCode
}

// FlightRegistry owns every registered flight.
type FlightRegistry struct {
	airlines *AirlineRegistry
	flights  map[models.FlightKey]*models.Flight
	order    []models.FlightKey
}

func NewFlightRegistry(airlines *AirlineRegistry) *FlightRegistry {
	return &FlightRegistry{
		airlines: airlines,
		flights:  map[models.FlightKey]*models.Flight{},
	}
}

// Register creates a flight owned by caller with status Unknown.
func (r *FlightRegistry) Register(caller domain.Principal, code string, timestamp int64) (models.FlightKey, error) {
	code = strings.TrimSpace(code)
	key := models.FlightKey{Airline: caller, Code: code, Timestamp: timestamp}
	if !r.airlines.IsAirline(caller) || !r.airlines.IsFunded(caller) {
		return key, domain.Errorf(domain.ErrUnauthorized, "caller %s is not a registered and funded airline", caller)
	}
	if code == "" {
		return key, domain.ValidationError{Field: "code", Msg: "flight code is required"}
	}
	if timestamp <= 0 {
		return key, domain.ValidationError{Field: "timestamp", Msg: "timestamp must be positive"}
	}
	if _, exists := r.flights[key]; exists {
		return key, domain.Errorf(domain.ErrDuplicateFlight, "flight %s is already registered", key)
	}

	r.flights[key] = &models.Flight{Key: key, Registered: true, Status: models.StatusUnknown}
	r.order = append(r.order, key)
	return key, nil
}

// setStatus is only reached from oracle resolution; the flight is known to
// exist and be unresolved at that point.
func (r *FlightRegistry) setStatus(key models.FlightKey, status models.StatusCode) {
	if f, ok := r.flights[key]; ok {
		f.Status = status
	}
}

func (r *FlightRegistry) FlightExists(key models.FlightKey) bool {
	f, ok := r.flights[key]
	return ok && f.Registered
}

func (r *FlightRegistry) GetStatus(key models.FlightKey) models.StatusCode {
	if f, ok := r.flights[key]; ok {
		return f.Status
	}
	return models.StatusUnknown
}

func (r *FlightRegistry) Flight(key models.FlightKey) (models.Flight, bool) {
	f, ok := r.flights[key]
	if !ok {
		return models.Flight{Key: key}, false
	}
	return *f, true
}

// Flights lists flights in registration order, optionally for one airline.
func (r *FlightRegistry) Flights(airline domain.Principal) []models.Flight {
	out := []models.Flight{}
	for _, key := range r.order {
		if !airline.IsZero() && key.Airline != airline {
			continue
		}
		out = append(out, *r.flights[key])
	}
	return out
}
