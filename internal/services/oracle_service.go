package services

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/shopspring/decimal"
)

// IndexGenerator maps (principal, salt, participant count) to an index in
// [0, space). Implementations must be deterministic.
type IndexGenerator interface {
	Index(p domain.Principal, salt uint64, participants int, space int) uint8
}

// HashIndexGenerator derives indexes from SHA-256 over a fixed seed.
type HashIndexGenerator struct {
	Seed uint64
}

func (g HashIndexGenerator) Index(p domain.Principal, salt uint64, participants int, space int) uint8 {
	if space <= 1 {
		return 0
	}
	buf := make([]byte, 0, 24+len(p))
	buf = binary.BigEndian.AppendUint64(buf, g.Seed)
	buf = append(buf, p...)
	buf = binary.BigEndian.AppendUint64(buf, salt)
	buf = binary.BigEndian.AppendUint64(buf, uint64(participants))
	sum := sha256.Sum256(buf)
	return uint8(binary.BigEndian.Uint64(sum[:8]) % uint64(space))
}

// FlightResolver receives the single resolution of a flight.
type FlightResolver interface {
	ResolveFlight(flight models.FlightKey, status models.StatusCode)
}

type requestKey struct {
	index  uint8
	flight models.FlightKey
}

type round struct {
	req        models.OracleRequest
	responders map[domain.Principal]models.StatusCode
	tallies    map[models.StatusCode]int
}

// OracleConsensus registers oracles, opens status rounds and settles a
// flight once enough oracles agree.
type OracleConsensus struct {
	params   *Params
	gen      IndexGenerator
	flights  FlightReader
	resolver FlightResolver
	oracles  map[domain.Principal]*models.Oracle
	order    []domain.Principal
	rounds   map[requestKey]*round
	byFlight map[models.FlightKey][]requestKey
	nonce    uint64
}

func NewOracleConsensus(params *Params, gen IndexGenerator, flights FlightReader, resolver FlightResolver) *OracleConsensus {
	if gen == nil {
		gen = HashIndexGenerator{Seed: params.Seed}
	}
	return &OracleConsensus{
		params:   params,
		gen:      gen,
		flights:  flights,
		resolver: resolver,
		oracles:  map[domain.Principal]*models.Oracle{},
		rounds:   map[requestKey]*round{},
		byFlight: map[models.FlightKey][]requestKey{},
	}
}

func (o *OracleConsensus) nextIndex(p domain.Principal) uint8 {
	idx := o.gen.Index(p, o.nonce, len(o.oracles), o.params.IndexSpace)
	o.nonce++
	return idx
}

// Register admits caller as an oracle and assigns its indexes.
func (o *OracleConsensus) Register(caller domain.Principal, fee decimal.Decimal) (models.Oracle, error) {
	if caller.IsZero() {
		return models.Oracle{}, domain.Errorf(domain.ErrUnauthorized, "caller is required")
	}
	if fee.LessThan(o.params.OracleFee) {
		return models.Oracle{}, domain.Errorf(domain.ErrInsufficientFee, "registration fee %s is below %s", fee, o.params.OracleFee)
	}
	if _, exists := o.oracles[caller]; exists {
		return models.Oracle{}, domain.Errorf(domain.ErrDuplicateOracle, "oracle %s is already registered", caller)
	}

	oracle := &models.Oracle{Principal: caller, Indexes: o.assignIndexes(caller), Fee: fee}
	o.oracles[caller] = oracle
	o.order = append(o.order, caller)
	return copyOracle(oracle), nil
}

func (o *OracleConsensus) assignIndexes(p domain.Principal) []uint8 {
	want := o.params.OracleIndexes
	seen := map[uint8]bool{}
	out := make([]uint8, 0, want)
	for attempts := 0; len(out) < want && attempts < 64*o.params.IndexSpace; attempts++ {
		idx := o.nextIndex(p)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	// a degenerate generator can stall; fill from the low end
	for idx := 0; len(out) < want && idx < o.params.IndexSpace; idx++ {
		if !seen[uint8(idx)] {
			seen[uint8(idx)] = true
			out = append(out, uint8(idx))
		}
	}
	return out
}

func (o *OracleConsensus) Indexes(caller domain.Principal) ([]uint8, error) {
	oracle, ok := o.oracles[caller]
	if !ok {
		return nil, domain.Errorf(domain.ErrUnauthorized, "caller %s is not a registered oracle", caller)
	}
	return copyOracle(oracle).Indexes, nil
}

func (o *OracleConsensus) IsOracle(p domain.Principal) bool {
	_, ok := o.oracles[p]
	return ok
}

func (o *OracleConsensus) Count() int { return len(o.oracles) }

// Fetch opens a round for flight at an index derived from the requester.
// An already open round with the same key is returned as is and created
// is false.
func (o *OracleConsensus) Fetch(caller domain.Principal, flight models.FlightKey) (models.OracleRequest, bool, error) {
	if caller.IsZero() {
		return models.OracleRequest{}, false, domain.Errorf(domain.ErrUnauthorized, "caller is required")
	}
	if !o.flights.FlightExists(flight) {
		return models.OracleRequest{}, false, domain.Errorf(domain.ErrUnknownFlight, "flight %s is not registered", flight)
	}
	if o.flights.GetStatus(flight) != models.StatusUnknown {
		return models.OracleRequest{}, false, domain.Errorf(domain.ErrAlreadyResolved, "flight %s is already resolved", flight)
	}

	key := requestKey{index: o.nextIndex(caller), flight: flight}
	if r, ok := o.rounds[key]; ok && r.req.Open {
		return r.req, false, nil
	}
	r := &round{
		req:        models.OracleRequest{Index: key.index, Flight: flight, Requester: caller, Open: true},
		responders: map[domain.Principal]models.StatusCode{},
		tallies:    map[models.StatusCode]int{},
	}
	o.rounds[key] = r
	o.byFlight[flight] = append(o.byFlight[flight], key)
	return r.req, true, nil
}

// Submit records one oracle report. Repeat reports by the same oracle in a
// round are accepted but not counted. Reaching quorum resolves the flight
// through the resolver exactly once.
func (o *OracleConsensus) Submit(caller domain.Principal, index uint8, flight models.FlightKey, status models.StatusCode) (models.SubmitResult, error) {
	oracle, ok := o.oracles[caller]
	if !ok {
		return models.SubmitResult{}, domain.Errorf(domain.ErrUnauthorized, "caller %s is not a registered oracle", caller)
	}
	if !oracle.HasIndex(index) {
		return models.SubmitResult{}, domain.Errorf(domain.ErrUnauthorized, "index %d does not match oracle %s", index, caller)
	}
	if !status.IsOutcome() {
		return models.SubmitResult{}, domain.ValidationError{Field: "status", Msg: "not a reportable status: " + status.String()}
	}
	if current := o.flights.GetStatus(flight); current != models.StatusUnknown {
		return models.SubmitResult{Resolved: true, Status: current}, domain.Errorf(domain.ErrAlreadyResolved, "flight %s already resolved as %s", flight, current)
	}
	r, ok := o.rounds[requestKey{index: index, flight: flight}]
	if !ok || !r.req.Open {
		return models.SubmitResult{}, domain.Errorf(domain.ErrRequestNotOpen, "no open request for flight %s at index %d", flight, index)
	}

	if _, dup := r.responders[caller]; dup {
		return models.SubmitResult{Counted: false, Votes: r.tallies[status], Status: status}, nil
	}
	r.responders[caller] = status
	r.tallies[status]++

	res := models.SubmitResult{Counted: true, Votes: r.tallies[status], Status: status}
	if r.tallies[status] >= o.params.OracleQuorum {
		for _, k := range o.byFlight[flight] {
			o.rounds[k].req.Open = false
		}
		res.Resolved = true
		if o.resolver != nil {
			o.resolver.ResolveFlight(flight, status)
		}
	}
	return res, nil
}

// Requests lists the rounds opened for a flight.
func (o *OracleConsensus) Requests(flight models.FlightKey) []models.OracleRequest {
	keys := o.byFlight[flight]
	out := make([]models.OracleRequest, 0, len(keys))
	for _, k := range keys {
		out = append(out, o.rounds[k].req)
	}
	return out
}

// Responses lists the counted reports of one round sorted by oracle.
func (o *OracleConsensus) Responses(index uint8, flight models.FlightKey) []models.OracleResponse {
	r, ok := o.rounds[requestKey{index: index, flight: flight}]
	if !ok {
		return nil
	}
	out := make([]models.OracleResponse, 0, len(r.responders))
	for p, status := range r.responders {
		out = append(out, models.OracleResponse{Oracle: p, Index: index, Flight: flight, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Oracle < out[j].Oracle })
	return out
}

func copyOracle(o *models.Oracle) models.Oracle {
	idx := make([]uint8, len(o.Indexes))
	copy(idx, o.Indexes)
	return models.Oracle{Principal: o.Principal, Indexes: idx, Fee: o.Fee}
}
