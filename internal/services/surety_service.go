package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
	"flightsurety/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuretyConfig wires the engine. Owner and Bootstrap are required; every
// other field has a default.
type SuretyConfig struct {
	Owner       domain.Principal
	Bootstrap   domain.Principal
	Params      Params
	Sink        EventSink
	Transferrer Transferrer
	Indexes     IndexGenerator
	Clock       func() time.Time
}

// Surety is the single entry point to the engine. Every public method runs
// under one mutex, so operations are totally ordered and a failed call
// leaves no partial state behind.
type Surety struct {
	mu sync.Mutex

	params   Params
	gate     *AccessGate
	airlines *AirlineRegistry
	flights  *FlightRegistry
	escrow   *InsuranceEscrow
	oracles  *OracleConsensus
	ledger   *PayoutLedger

	treasury decimal.Decimal
	seq      int64
	pending  []models.Event
	resolved *resolution

	sink        EventSink
	transferrer Transferrer
	clock       func() time.Time
}

func NewSurety(cfg SuretyConfig) (*Surety, error) {
	if cfg.Owner.IsZero() {
		return nil, fmt.Errorf("owner principal is required")
	}
	if cfg.Bootstrap.IsZero() {
		return nil, fmt.Errorf("bootstrap airline is required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	s := &Surety{
		params:      cfg.Params,
		treasury:    decimal.Zero,
		sink:        cfg.Sink,
		transferrer: cfg.Transferrer,
		clock:       cfg.Clock,
	}
	if s.sink == nil {
		s.sink = LogSink{}
	}
	if s.transferrer == nil {
		s.transferrer = LogTransferrer{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.gate = NewAccessGate(cfg.Owner)
	s.airlines = NewAirlineRegistry(&s.params, cfg.Bootstrap)
	s.flights = NewFlightRegistry(s.airlines)
	s.ledger = NewPayoutLedger()
	s.escrow = NewInsuranceEscrow(&s.params, s.flights, s.ledger)
	s.oracles = NewOracleConsensus(&s.params, cfg.Indexes, s.flights, flightResolver{s})
	return s, nil
}

// flightResolver applies an oracle decision. It runs with s.mu held and
// leaves the outcome for the submitting call to record.
type flightResolver struct{ s *Surety }

type resolution struct {
	flight   models.FlightKey
	status   models.StatusCode
	credited []models.Policy
}

func (r flightResolver) ResolveFlight(flight models.FlightKey, status models.StatusCode) {
	s := r.s
	s.flights.setStatus(flight, status)
	s.resolved = &resolution{
		flight:   flight,
		status:   status,
		credited: s.escrow.OnFlightResolved(flight, status),
	}
}

// record queues an event; it must be called with s.mu held.
func (s *Surety) record(kind string, principal domain.Principal, payload map[string]any) {
	s.seq++
	s.pending = append(s.pending, models.Event{
		ID:         uuid.NewString(),
		Sequence:   s.seq,
		Kind:       kind,
		Principal:  principal,
		Payload:    payload,
		OccurredAt: s.clock().UTC(),
	})
}

// unlock releases s.mu and publishes whatever the operation recorded.
func (s *Surety) unlock(ctx context.Context) {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(events) == 0 {
		return
	}
	if err := s.sink.Publish(ctx, events); err != nil {
		utils.LogEvent(domain.RequestIDFrom(ctx), "events", "publish_failed", err.Error())
	}
}

func (s *Surety) logf(ctx context.Context, module, action, format string, args ...any) {
	utils.LogEvent(domain.RequestIDFrom(ctx), module, action, fmt.Sprintf(format, args...))
}

// ---- access ----

func (s *Surety) IsOperational() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.IsOperational()
}

func (s *Surety) TestingMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.TestingMode()
}

func (s *Surety) Owner() domain.Principal { return s.gate.Owner() }

func (s *Surety) SetOperatingStatus(ctx context.Context, caller domain.Principal, mode bool) error {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.SetOperatingStatus(caller, mode); err != nil {
		return err
	}
	s.record(models.EventAccessStatus, caller, map[string]any{"operational": mode})
	s.logf(ctx, "access", "set_operating_status", "operational=%t", mode)
	return nil
}

func (s *Surety) SetTestingMode(ctx context.Context, caller domain.Principal, mode bool) error {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.SetTestingMode(caller, mode); err != nil {
		return err
	}
	s.logf(ctx, "access", "set_testing_mode", "testing=%t", mode)
	return nil
}

func (s *Surety) AuthorizeCaller(ctx context.Context, caller, app domain.Principal) error {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.AuthorizeCaller(caller, app); err != nil {
		return err
	}
	s.record(models.EventCallerAuthorized, app, map[string]any{"authorized": true})
	s.logf(ctx, "access", "authorize_caller", "app=%s", app)
	return nil
}

func (s *Surety) DeauthorizeCaller(ctx context.Context, caller, app domain.Principal) error {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.DeauthorizeCaller(caller, app); err != nil {
		return err
	}
	s.record(models.EventCallerAuthorized, app, map[string]any{"authorized": false})
	s.logf(ctx, "access", "deauthorize_caller", "app=%s", app)
	return nil
}

func (s *Surety) IsAuthorizedCaller(p domain.Principal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.IsAuthorizedCaller(p)
}

// ---- airlines ----

func (s *Surety) RegisterAirline(ctx context.Context, caller, candidate domain.Principal) (models.Airline, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Airline{}, err
	}
	approved, err := s.airlines.Register(caller, candidate)
	if err != nil {
		return models.Airline{}, err
	}
	s.record(models.EventAirlineRegistered, candidate, map[string]any{
		"registeredBy": caller,
		"approved":     approved,
	})
	if approved {
		s.record(models.EventAirlineApproved, candidate, map[string]any{"votes": 0})
	}
	s.logf(ctx, "airline", "register", "candidate=%s by=%s approved=%t", candidate, caller, approved)
	a, _ := s.airlines.Airline(candidate)
	return a, nil
}

func (s *Surety) VoteForAirline(ctx context.Context, caller, candidate domain.Principal) (models.Airline, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Airline{}, err
	}
	votes, approved, err := s.airlines.Vote(caller, candidate)
	if err != nil {
		return models.Airline{}, err
	}
	eligible := s.airlines.TotalVotingEligible()
	s.record(models.EventAirlineVoted, candidate, map[string]any{
		"voter":    caller,
		"votes":    votes,
		"eligible": eligible,
	})
	if approved {
		s.record(models.EventAirlineApproved, candidate, map[string]any{"votes": votes, "eligible": eligible})
	}
	s.logf(ctx, "airline", "vote", "candidate=%s voter=%s votes=%d eligible=%d approved=%t", candidate, caller, votes, eligible, approved)
	a, _ := s.airlines.Airline(candidate)
	return a, nil
}

func (s *Surety) FundAirline(ctx context.Context, caller domain.Principal, amount decimal.Decimal) (models.Airline, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Airline{}, err
	}
	already, err := s.airlines.Fund(caller, amount)
	if err != nil {
		return models.Airline{}, err
	}
	s.treasury = s.treasury.Add(amount)
	s.record(models.EventAirlineFunded, caller, map[string]any{
		"amount":        amount.String(),
		"alreadyFunded": already,
	})
	s.logf(ctx, "airline", "fund", "airline=%s amount=%s", caller, utils.FormatAmount(amount))
	a, _ := s.airlines.Airline(caller)
	return a, nil
}

func (s *Surety) Airline(p domain.Principal) (models.Airline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.Airline(p)
}

func (s *Surety) Airlines() []models.Airline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.Airlines()
}

func (s *Surety) IsAirline(p domain.Principal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.IsAirline(p)
}

func (s *Surety) IsFunded(p domain.Principal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.IsFunded(p)
}

func (s *Surety) IsApproved(p domain.Principal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.IsApproved(p)
}

func (s *Surety) VoteCount(p domain.Principal) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.VoteCount(p)
}

func (s *Surety) TotalVotingEligible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airlines.TotalVotingEligible()
}

// ---- flights ----

func (s *Surety) RegisterFlight(ctx context.Context, caller domain.Principal, code string, timestamp int64) (models.Flight, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Flight{}, err
	}
	key, err := s.flights.Register(caller, code, timestamp)
	if err != nil {
		return models.Flight{}, err
	}
	s.record(models.EventFlightRegistered, caller, map[string]any{"flight": key})
	s.logf(ctx, "flight", "register", "flight=%s", key)
	f, _ := s.flights.Flight(key)
	return f, nil
}

func (s *Surety) FlightExists(key models.FlightKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flights.FlightExists(key)
}

func (s *Surety) GetStatus(key models.FlightKey) models.StatusCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flights.GetStatus(key)
}

func (s *Surety) Flight(key models.FlightKey) (models.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flights.Flight(key)
}

func (s *Surety) Flights(airline domain.Principal) []models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flights.Flights(airline)
}

// ---- insurance ----

func (s *Surety) BuyInsurance(ctx context.Context, caller, passenger domain.Principal, flight models.FlightKey, amount decimal.Decimal) (models.Policy, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Policy{}, err
	}
	p, err := s.escrow.Buy(caller, passenger, flight, amount)
	if err != nil {
		return models.Policy{}, err
	}
	s.treasury = s.treasury.Add(amount)
	s.record(models.EventPolicyPurchased, passenger, map[string]any{
		"flight":  flight,
		"insured": amount.String(),
	})
	s.logf(ctx, "insurance", "buy", "passenger=%s flight=%s amount=%s", passenger, flight, utils.FormatAmount(amount))
	return p, nil
}

func (s *Surety) GetInsuredAmount(passenger domain.Principal, flight models.FlightKey) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escrow.GetInsuredAmount(passenger, flight)
}

func (s *Surety) Policy(passenger domain.Principal, flight models.FlightKey) (models.Policy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escrow.Policy(passenger, flight)
}

func (s *Surety) PoliciesOf(passenger domain.Principal) []models.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escrow.PoliciesOf(passenger)
}

func (s *Surety) PoliciesFor(flight models.FlightKey) []models.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escrow.PoliciesFor(flight)
}

// ---- oracles ----

func (s *Surety) RegisterOracle(ctx context.Context, caller domain.Principal, fee decimal.Decimal) (models.Oracle, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.Oracle{}, err
	}
	o, err := s.oracles.Register(caller, fee)
	if err != nil {
		return models.Oracle{}, err
	}
	s.treasury = s.treasury.Add(fee)
	s.record(models.EventOracleRegistered, caller, map[string]any{"indexes": o.Indexes})
	s.logf(ctx, "oracle", "register", "oracle=%s indexes=%v", caller, o.Indexes)
	return o, nil
}

func (s *Surety) GetMyIndexes(caller domain.Principal) ([]uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oracles.Indexes(caller)
}

func (s *Surety) FetchFlightStatus(ctx context.Context, caller domain.Principal, flight models.FlightKey) (models.OracleRequest, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.OracleRequest{}, err
	}
	req, created, err := s.oracles.Fetch(caller, flight)
	if err != nil {
		return models.OracleRequest{}, err
	}
	if created {
		s.record(models.EventOracleRequest, caller, map[string]any{
			"index":  req.Index,
			"flight": flight,
		})
		s.logf(ctx, "oracle", "fetch_status", "flight=%s index=%d", flight, req.Index)
	}
	return req, nil
}

func (s *Surety) SubmitOracleResponse(ctx context.Context, caller domain.Principal, index uint8, flight models.FlightKey, status models.StatusCode) (models.SubmitResult, error) {
	s.mu.Lock()
	defer s.unlock(ctx)
	if err := s.gate.RequireOperational(); err != nil {
		return models.SubmitResult{}, err
	}
	res, err := s.oracles.Submit(caller, index, flight, status)
	if err != nil {
		return res, err
	}
	if res.Counted {
		s.record(models.EventOracleReport, caller, map[string]any{
			"index":  index,
			"flight": flight,
			"status": status,
			"votes":  res.Votes,
		})
	}
	if r := s.resolved; r != nil {
		s.resolved = nil
		s.record(models.EventFlightStatus, r.flight.Airline, map[string]any{
			"flight": r.flight,
			"status": r.status,
		})
		for _, p := range r.credited {
			s.record(models.EventPolicyCredited, p.Passenger, map[string]any{
				"flight":  p.Flight,
				"insured": p.Insured.String(),
				"credit":  s.escrow.Payout(p.Insured).String(),
			})
		}
		s.logf(ctx, "oracle", "resolve", "flight=%s status=%s credited=%d", r.flight, r.status, len(r.credited))
	}
	s.logf(ctx, "oracle", "submit", "oracle=%s flight=%s status=%s counted=%t votes=%d resolved=%t", caller, flight, status, res.Counted, res.Votes, res.Resolved)
	return res, nil
}

func (s *Surety) OracleRequests(flight models.FlightKey) []models.OracleRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oracles.Requests(flight)
}

func (s *Surety) OracleResponses(index uint8, flight models.FlightKey) []models.OracleResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oracles.Responses(index, flight)
}

// ---- payouts ----

// Withdraw zeroes the passenger's balance before the transfer runs. The
// engine lock is released during the transfer; a nested withdraw sees a
// zero balance. A failed transfer restores the balance.
func (s *Surety) Withdraw(ctx context.Context, caller, passenger domain.Principal) (models.Withdrawal, error) {
	s.mu.Lock()
	if err := s.gate.RequireOperational(); err != nil {
		s.mu.Unlock()
		return models.Withdrawal{}, err
	}
	if caller.IsZero() || caller != passenger {
		s.mu.Unlock()
		return models.Withdrawal{}, domain.Errorf(domain.ErrUnauthorized, "caller %s cannot withdraw for %s", caller, passenger)
	}
	owed := s.ledger.GetPayable(passenger)
	if owed.IsPositive() && s.treasury.LessThan(owed) {
		s.mu.Unlock()
		return models.Withdrawal{}, domain.Errorf(domain.ErrInsufficientFunds, "treasury holds %s, %s is owed", s.treasury, owed)
	}
	amount, err := s.ledger.take(caller, passenger)
	if err != nil {
		s.mu.Unlock()
		return models.Withdrawal{}, err
	}
	s.treasury = s.treasury.Sub(amount)
	s.mu.Unlock()

	if err := s.transferrer.Transfer(ctx, passenger, amount); err != nil {
		s.mu.Lock()
		s.ledger.restore(passenger, amount)
		s.treasury = s.treasury.Add(amount)
		s.mu.Unlock()
		s.logf(ctx, "payout", "withdraw_failed", "passenger=%s amount=%s err=%v", passenger, utils.FormatAmount(amount), err)
		return models.Withdrawal{}, domain.InternalError{Msg: "payout transfer failed", Err: err}
	}

	s.mu.Lock()
	s.record(models.EventPayoutWithdrawn, passenger, map[string]any{"amount": amount.String()})
	s.unlock(ctx)
	s.logf(ctx, "payout", "withdraw", "passenger=%s amount=%s", passenger, utils.FormatAmount(amount))
	return models.Withdrawal{Passenger: passenger, Amount: amount}, nil
}

func (s *Surety) GetPayable(passenger domain.Principal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GetPayable(passenger)
}

// Treasury is the value the engine holds: deposits, premiums and oracle
// fees less everything withdrawn.
func (s *Surety) Treasury() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.treasury
}

// Pool is the premium total held in escrow.
func (s *Surety) Pool() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escrow.Pool()
}

func (s *Surety) Params() Params { return s.params }
