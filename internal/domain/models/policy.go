package models

import (
	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
)

// Policy is a passenger's capped insurance against one flight.
type Policy struct {
	Passenger domain.Principal `json:"passenger"`
	Flight    FlightKey        `json:"flight"`
	Insured   decimal.Decimal  `json:"insured"`
	Credited  bool             `json:"credited"`
}

// PolicyKey identifies a policy.
type PolicyKey struct {
	Passenger domain.Principal
	Flight    FlightKey
}

func (p Policy) Key() PolicyKey {
	return PolicyKey{Passenger: p.Passenger, Flight: p.Flight}
}
