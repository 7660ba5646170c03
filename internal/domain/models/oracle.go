package models

import (
	"encoding/json"

	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
)

// IndexSet is an oracle's assigned indexes. It marshals as a number list
// rather than the base64 used for byte slices.
type IndexSet []uint8

func (s IndexSet) MarshalJSON() ([]byte, error) {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(v)
	}
	return json.Marshal(out)
}

// Oracle is a registered status reporter and the indexes it may answer for.
type Oracle struct {
	Principal domain.Principal `json:"principal"`
	Indexes   IndexSet         `json:"indexes"`
	Fee       decimal.Decimal  `json:"fee"`
}

// HasIndex reports whether the oracle holds idx.
func (o Oracle) HasIndex(idx uint8) bool {
	for _, i := range o.Indexes {
		if i == idx {
			return true
		}
	}
	return false
}

// OracleRequest is an open status-collection round.
type OracleRequest struct {
	Index     uint8            `json:"index"`
	Flight    FlightKey        `json:"flight"`
	Requester domain.Principal `json:"requester"`
	Open      bool             `json:"open"`
}

// OracleResponse is one oracle's report in a round.
type OracleResponse struct {
	Oracle domain.Principal `json:"oracle"`
	Index  uint8            `json:"index"`
	Flight FlightKey        `json:"flight"`
	Status StatusCode       `json:"status"`
}

// SubmitResult tells the caller what a report did.
type SubmitResult struct {
	Counted  bool       `json:"counted"`
	Votes    int        `json:"votes"`
	Resolved bool       `json:"resolved"`
	Status   StatusCode `json:"status"`
}
