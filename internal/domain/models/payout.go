package models

import (
	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
)

// PayoutAccount is a passenger's withdrawable balance.
type PayoutAccount struct {
	Passenger domain.Principal `json:"passenger"`
	Payable   decimal.Decimal  `json:"payable"`
}

// Withdrawal records a released payout.
type Withdrawal struct {
	Passenger domain.Principal `json:"passenger"`
	Amount    decimal.Decimal  `json:"amount"`
}
