package services

import (
	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/shopspring/decimal"
)

// InsuranceEscrow holds policies and the premiums paid for them.
type InsuranceEscrow struct {
	params      *Params
	flights     FlightReader
	ledger      *PayoutLedger
	policies    map[models.PolicyKey]*models.Policy
	byFlight    map[models.FlightKey][]models.PolicyKey
	byPassenger map[domain.Principal][]models.PolicyKey
	settled     map[models.FlightKey]models.StatusCode
	pool        decimal.Decimal
}

func NewInsuranceEscrow(params *Params, flights FlightReader, ledger *PayoutLedger) *InsuranceEscrow {
	return &InsuranceEscrow{
		params:      params,
		flights:     flights,
		ledger:      ledger,
		policies:    map[models.PolicyKey]*models.Policy{},
		byFlight:    map[models.FlightKey][]models.PolicyKey{},
		byPassenger: map[domain.Principal][]models.PolicyKey{},
		settled:     map[models.FlightKey]models.StatusCode{},
		pool:        decimal.Zero,
	}
}

// Buy creates a policy for passenger on flight and takes the premium into
// the pool.
func (e *InsuranceEscrow) Buy(caller, passenger domain.Principal, flight models.FlightKey, amount decimal.Decimal) (models.Policy, error) {
	if caller.IsZero() || caller != passenger {
		return models.Policy{}, domain.Errorf(domain.ErrUnauthorized, "caller %s cannot insure %s", caller, passenger)
	}
	if !e.flights.FlightExists(flight) {
		return models.Policy{}, domain.Errorf(domain.ErrUnknownFlight, "flight %s is not registered", flight)
	}
	if !amount.IsPositive() {
		return models.Policy{}, domain.Errorf(domain.ErrInvalidAmount, "insured amount must be positive")
	}
	if amount.GreaterThan(e.params.InsuranceCap) {
		return models.Policy{}, domain.Errorf(domain.ErrCapExceeded, "insured amount %s exceeds the cap of %s", amount, e.params.InsuranceCap)
	}
	if e.flights.GetStatus(flight) != models.StatusUnknown {
		return models.Policy{}, domain.Errorf(domain.ErrAlreadyResolved, "flight %s is already resolved", flight)
	}
	key := models.PolicyKey{Passenger: passenger, Flight: flight}
	if _, exists := e.policies[key]; exists {
		return models.Policy{}, domain.Errorf(domain.ErrDuplicatePolicy, "%s already insured flight %s", passenger, flight)
	}

	p := &models.Policy{Passenger: passenger, Flight: flight, Insured: amount}
	e.policies[key] = p
	e.byFlight[flight] = append(e.byFlight[flight], key)
	e.byPassenger[passenger] = append(e.byPassenger[passenger], key)
	e.pool = e.pool.Add(amount)
	return *p, nil
}

// OnFlightResolved settles every policy on flight once. Only LateAirline
// credits; any other outcome leaves the policies uncredited for good. It
// returns the policies credited by this call.
func (e *InsuranceEscrow) OnFlightResolved(flight models.FlightKey, status models.StatusCode) []models.Policy {
	if _, done := e.settled[flight]; done || status == models.StatusUnknown {
		return nil
	}
	e.settled[flight] = status
	if status != models.StatusLateAirline {
		return nil
	}

	credited := []models.Policy{}
	for _, key := range e.byFlight[flight] {
		p := e.policies[key]
		if p.Credited {
			continue
		}
		p.Credited = true
		e.ledger.credit(p.Passenger, e.Payout(p.Insured))
		credited = append(credited, *p)
	}
	return credited
}

// Payout is the credit owed for an insured amount.
func (e *InsuranceEscrow) Payout(insured decimal.Decimal) decimal.Decimal {
	return insured.Mul(e.params.PayoutMultiplier)
}

// GetInsuredAmount returns zero when no policy exists.
func (e *InsuranceEscrow) GetInsuredAmount(passenger domain.Principal, flight models.FlightKey) decimal.Decimal {
	if p, ok := e.policies[models.PolicyKey{Passenger: passenger, Flight: flight}]; ok {
		return p.Insured
	}
	return decimal.Zero
}

func (e *InsuranceEscrow) Policy(passenger domain.Principal, flight models.FlightKey) (models.Policy, bool) {
	p, ok := e.policies[models.PolicyKey{Passenger: passenger, Flight: flight}]
	if !ok {
		return models.Policy{}, false
	}
	return *p, true
}

func (e *InsuranceEscrow) PoliciesFor(flight models.FlightKey) []models.Policy {
	return e.collect(e.byFlight[flight])
}

func (e *InsuranceEscrow) PoliciesOf(passenger domain.Principal) []models.Policy {
	return e.collect(e.byPassenger[passenger])
}

func (e *InsuranceEscrow) collect(keys []models.PolicyKey) []models.Policy {
	out := make([]models.Policy, 0, len(keys))
	for _, k := range keys {
		out = append(out, *e.policies[k])
	}
	return out
}

// Pool is the total premium held.
func (e *InsuranceEscrow) Pool() decimal.Decimal { return e.pool }
