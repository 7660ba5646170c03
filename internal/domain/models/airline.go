package models

import (
	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
)

// Airline is a snapshot of one airline's admission state.
type Airline struct {
	Principal    domain.Principal   `json:"principal"`
	Registered   bool               `json:"registered"`
	Funded       bool               `json:"funded"`
	Approved     bool               `json:"approved"`
	Votes        []domain.Principal `json:"votes"`
	Deposit      decimal.Decimal    `json:"deposit"`
	RegisteredBy domain.Principal   `json:"registeredBy,omitempty"`
}

// CanVote is the voting-eligible predicate: registered and funded.
func (a Airline) CanVote() bool {
	return a.Registered && a.Funded
}

// Pending reports an airline still waiting for admission votes.
func (a Airline) Pending() bool {
	return a.Registered && !a.Approved
}
