package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Params holds the protocol constants. Zero values are never valid; start
// from DefaultParams and override.
type Params struct {
	FundingThreshold  decimal.Decimal
	InsuranceCap      decimal.Decimal
	PayoutMultiplier  decimal.Decimal
	OracleFee         decimal.Decimal
	OracleQuorum      int
	BootstrapAirlines int
	OracleIndexes     int
	IndexSpace        int
	Seed              uint64
}

// DefaultParams mirrors the deployed protocol: 10 units to fund an airline,
// 1 unit policy cap, 1.5x payout, 1 unit oracle fee, 3 agreeing oracles,
// direct admission for the first 4 airlines.
func DefaultParams() Params {
	return Params{
		FundingThreshold:  decimal.NewFromInt(10),
		InsuranceCap:      decimal.NewFromInt(1),
		PayoutMultiplier:  decimal.RequireFromString("1.5"),
		OracleFee:         decimal.NewFromInt(1),
		OracleQuorum:      3,
		BootstrapAirlines: 4,
		OracleIndexes:     3,
		IndexSpace:        10,
	}
}

func (p Params) Validate() error {
	switch {
	case !p.FundingThreshold.IsPositive():
		return fmt.Errorf("funding threshold must be positive")
	case !p.InsuranceCap.IsPositive():
		return fmt.Errorf("insurance cap must be positive")
	case !p.PayoutMultiplier.IsPositive():
		return fmt.Errorf("payout multiplier must be positive")
	case p.OracleFee.IsNegative():
		return fmt.Errorf("oracle fee must not be negative")
	case p.OracleQuorum < 1:
		return fmt.Errorf("oracle quorum must be at least 1")
	case p.BootstrapAirlines < 1:
		return fmt.Errorf("bootstrap airline count must be at least 1")
	case p.IndexSpace < 1 || p.IndexSpace > 256:
		return fmt.Errorf("index space must be within 1..256")
	case p.OracleIndexes < 1 || p.OracleIndexes > p.IndexSpace:
		return fmt.Errorf("oracle index count must be within 1..%d", p.IndexSpace)
	}
	return nil
}
