package services

import (
	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/shopspring/decimal"
)

type airlineRecord struct {
	registered   bool
	funded       bool
	approved     bool
	votes        map[domain.Principal]struct{}
	voteOrder    []domain.Principal
	deposit      decimal.Decimal
	registeredBy domain.Principal
}

// AirlineRegistry tracks airline admission and the votes behind it.
type AirlineRegistry struct {
	params   *Params
	airlines map[domain.Principal]*airlineRecord
	order    []domain.Principal
}

// NewAirlineRegistry seeds bootstrap as registered, approved and funded.
func NewAirlineRegistry(params *Params, bootstrap domain.Principal) *AirlineRegistry {
	r := &AirlineRegistry{
		params:   params,
		airlines: map[domain.Principal]*airlineRecord{},
	}
	if !bootstrap.IsZero() {
		r.add(bootstrap, "", true)
		r.airlines[bootstrap].funded = true
	}
	return r
}

func (r *AirlineRegistry) add(p, by domain.Principal, approved bool) {
	r.airlines[p] = &airlineRecord{
		registered:   true,
		approved:     approved,
		votes:        map[domain.Principal]struct{}{},
		deposit:      decimal.Zero,
		registeredBy: by,
	}
	r.order = append(r.order, p)
}

func (r *AirlineRegistry) requireVotingEligible(caller domain.Principal) error {
	rec, ok := r.airlines[caller]
	if !ok || !rec.registered {
		return domain.Errorf(domain.ErrUnauthorized, "caller %s is not a registered airline", caller)
	}
	if !rec.funded {
		return domain.Errorf(domain.ErrUnauthorized, "airline %s has not provided funding", caller)
	}
	return nil
}

// Register admits candidate directly while the registry is below the
// bootstrap size and records it as pending afterwards. It reports whether
// the candidate was approved immediately.
func (r *AirlineRegistry) Register(caller, candidate domain.Principal) (bool, error) {
	if err := r.requireVotingEligible(caller); err != nil {
		return false, err
	}
	if candidate.IsZero() {
		return false, domain.ValidationError{Field: "candidate", Msg: "principal is required"}
	}
	if _, exists := r.airlines[candidate]; exists {
		return false, domain.Errorf(domain.ErrDuplicateAirline, "airline %s is already registered", candidate)
	}

	approved := r.RegisteredCount() < r.params.BootstrapAirlines
	r.add(candidate, caller, approved)
	return approved, nil
}

// Vote records caller's approval of candidate and returns the live vote
// count and whether the candidate is now approved.
func (r *AirlineRegistry) Vote(caller, candidate domain.Principal) (int, bool, error) {
	if err := r.requireVotingEligible(caller); err != nil {
		return 0, false, err
	}
	if caller == candidate {
		return 0, false, domain.Errorf(domain.ErrUnauthorized, "airline %s cannot vote for itself", caller)
	}
	rec, ok := r.airlines[candidate]
	if !ok {
		return 0, false, domain.Errorf(domain.ErrUnknownAirline, "airline %s is not registered", candidate)
	}
	if rec.approved {
		return len(rec.votes), true, domain.Errorf(domain.ErrAlreadyApproved, "airline %s is already approved", candidate)
	}
	if _, voted := rec.votes[caller]; voted {
		return len(rec.votes), false, domain.Errorf(domain.ErrDuplicateVote, "airline %s already voted for %s", caller, candidate)
	}

	rec.votes[caller] = struct{}{}
	rec.voteOrder = append(rec.voteOrder, caller)
	if HasAirlineQuorum(len(rec.votes), r.TotalVotingEligible()) {
		rec.approved = true
	}
	return len(rec.votes), rec.approved, nil
}

// HasAirlineQuorum is the admission rule: votes >= ceil(eligible/2).
func HasAirlineQuorum(votes, eligible int) bool {
	if eligible <= 0 || votes <= 0 {
		return false
	}
	return votes >= (eligible+1)/2
}

// Fund marks caller funded once amount reaches the threshold. It returns
// true when the airline was already funded.
func (r *AirlineRegistry) Fund(caller domain.Principal, amount decimal.Decimal) (bool, error) {
	rec, ok := r.airlines[caller]
	if !ok || !rec.registered {
		return false, domain.Errorf(domain.ErrUnauthorized, "caller %s is not a registered airline", caller)
	}
	if !rec.approved {
		return false, domain.Errorf(domain.ErrUnauthorized, "airline %s is awaiting approval", caller)
	}
	if amount.LessThan(r.params.FundingThreshold) {
		return false, domain.Errorf(domain.ErrInsufficientFunds, "funding of %s is below the required %s", amount, r.params.FundingThreshold)
	}

	already := rec.funded
	rec.funded = true
	rec.deposit = rec.deposit.Add(amount)
	return already, nil
}

func (r *AirlineRegistry) IsAirline(p domain.Principal) bool {
	rec, ok := r.airlines[p]
	return ok && rec.registered
}

func (r *AirlineRegistry) IsFunded(p domain.Principal) bool {
	rec, ok := r.airlines[p]
	return ok && rec.funded
}

func (r *AirlineRegistry) IsApproved(p domain.Principal) bool {
	rec, ok := r.airlines[p]
	return ok && rec.approved
}

// CanVote reports whether p counts in the quorum denominator.
func (r *AirlineRegistry) CanVote(p domain.Principal) bool {
	rec, ok := r.airlines[p]
	return ok && rec.registered && rec.funded
}

func (r *AirlineRegistry) VoteCount(p domain.Principal) int {
	rec, ok := r.airlines[p]
	if !ok {
		return 0
	}
	return len(rec.votes)
}

func (r *AirlineRegistry) TotalVotingEligible() int {
	n := 0
	for _, rec := range r.airlines {
		if rec.registered && rec.funded {
			n++
		}
	}
	return n
}

func (r *AirlineRegistry) RegisteredCount() int {
	n := 0
	for _, rec := range r.airlines {
		if rec.registered {
			n++
		}
	}
	return n
}

func (r *AirlineRegistry) Airline(p domain.Principal) (models.Airline, bool) {
	rec, ok := r.airlines[p]
	if !ok {
		return models.Airline{Principal: p, Deposit: decimal.Zero}, false
	}
	return snapshotAirline(p, rec), true
}

// Airlines lists every airline in registration order.
func (r *AirlineRegistry) Airlines() []models.Airline {
	out := make([]models.Airline, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, snapshotAirline(p, r.airlines[p]))
	}
	return out
}

func snapshotAirline(p domain.Principal, rec *airlineRecord) models.Airline {
	votes := make([]domain.Principal, len(rec.voteOrder))
	copy(votes, rec.voteOrder)
	return models.Airline{
		Principal:    p,
		Registered:   rec.registered,
		Funded:       rec.funded,
		Approved:     rec.approved,
		Votes:        votes,
		Deposit:      rec.deposit,
		RegisteredBy: rec.registeredBy,
	}
}
