package models

import (
	"time"

	"flightsurety/internal/domain"
)

// Event kinds emitted after a committed state change.
const (
	EventAccessStatus      = "access.status"
	EventCallerAuthorized  = "access.caller_authorized"
	EventAirlineRegistered = "airline.registered"
	EventAirlineVoted      = "airline.voted"
	EventAirlineApproved   = "airline.approved"
	EventAirlineFunded     = "airline.funded"
	EventFlightRegistered  = "flight.registered"
	EventPolicyPurchased   = "policy.purchased"
	EventOracleRegistered  = "oracle.registered"
	EventOracleRequest     = "oracle.request"
	EventOracleReport      = "oracle.report"
	EventFlightStatus      = "flight.status"
	EventPolicyCredited    = "policy.credited"
	EventPayoutWithdrawn   = "payout.withdrawn"
)

// Event is an append-only record of a committed change.
type Event struct {
	ID         string           `json:"id"`
	Sequence   int64            `json:"sequence"`
	Kind       string           `json:"kind"`
	Principal  domain.Principal `json:"principal"`
	Payload    map[string]any   `json:"payload"`
	OccurredAt time.Time        `json:"occurredAt"`
}
