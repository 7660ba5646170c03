package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner = domain.Principal("0xowner")
	air1  = domain.Principal("0xair1")
	air2  = domain.Principal("0xair2")
	air3  = domain.Principal("0xair3")
	air4  = domain.Principal("0xair4")
	air5  = domain.Principal("0xair5")
	air6  = domain.Principal("0xair6")
	pax   = domain.Principal("0xpax")
	orc1  = domain.Principal("0xoracle1")
	orc2  = domain.Principal("0xoracle2")
	orc3  = domain.Principal("0xoracle3")
	orc4  = domain.Principal("0xoracle4")
)

var (
	ten        = decimal.NewFromInt(10)
	one        = decimal.NewFromInt(1)
	oneAndHalf = decimal.RequireFromString("1.5")
)

// cyclicIndexes hands every oracle the same small index set so tests can
// drive rounds without depending on hash output.
type cyclicIndexes struct{ n uint64 }

func (c cyclicIndexes) Index(_ domain.Principal, salt uint64, _ int, _ int) uint8 {
	return uint8(salt % c.n)
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingSink) Publish(_ context.Context, events []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingSink) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type countingTransfer struct {
	calls int
	err   error
}

func (c *countingTransfer) Transfer(context.Context, domain.Principal, decimal.Decimal) error {
	c.calls++
	return c.err
}

func newTestSurety(t *testing.T, opts ...func(*SuretyConfig)) *Surety {
	t.Helper()
	cfg := SuretyConfig{
		Owner:     owner,
		Bootstrap: air1,
		Params:    DefaultParams(),
		Indexes:   cyclicIndexes{n: 3},
	}
	for _, o := range opts {
		o(&cfg)
	}
	s, err := NewSurety(cfg)
	require.NoError(t, err)
	return s
}

var ctx = context.Background()

// admitFunded registers and funds airlines while the registry is still
// below the bootstrap size.
func admitFunded(t *testing.T, s *Surety, airlines ...domain.Principal) {
	t.Helper()
	for _, a := range airlines {
		got, err := s.RegisterAirline(ctx, air1, a)
		require.NoError(t, err)
		require.True(t, got.Approved, "airline %s should be admitted directly", a)
		_, err = s.FundAirline(ctx, a, ten)
		require.NoError(t, err)
	}
}

func registerFlight(t *testing.T, s *Surety) models.FlightKey {
	t.Helper()
	f, err := s.RegisterFlight(ctx, air1, "ND1309", 1700000000)
	require.NoError(t, err)
	return f.Key
}

func registerOracles(t *testing.T, s *Surety, oracles ...domain.Principal) {
	t.Helper()
	for _, o := range oracles {
		_, err := s.RegisterOracle(ctx, o, one)
		require.NoError(t, err)
	}
}

func TestNewSuretyValidatesConfig(t *testing.T) {
	_, err := NewSurety(SuretyConfig{Bootstrap: air1, Params: DefaultParams()})
	require.Error(t, err)

	_, err = NewSurety(SuretyConfig{Owner: owner, Params: DefaultParams()})
	require.Error(t, err)

	bad := DefaultParams()
	bad.OracleQuorum = 0
	_, err = NewSurety(SuretyConfig{Owner: owner, Bootstrap: air1, Params: bad})
	require.Error(t, err)
}

func TestBootstrapAirlineIsSeeded(t *testing.T) {
	s := newTestSurety(t)

	assert.True(t, s.IsAirline(air1))
	assert.True(t, s.IsFunded(air1))
	assert.True(t, s.IsApproved(air1))
	assert.Equal(t, 1, s.TotalVotingEligible())
	assert.True(t, s.IsOperational())
}

func TestHasAirlineQuorum(t *testing.T) {
	cases := []struct {
		votes, eligible int
		want            bool
	}{
		{0, 0, false},
		{1, 1, true},
		{1, 4, false},
		{2, 4, true},
		{2, 5, false},
		{3, 5, true},
		{2, 6, false},
		{3, 6, true},
		{4, 7, true},
		{3, 7, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HasAirlineQuorum(tc.votes, tc.eligible), "votes=%d eligible=%d", tc.votes, tc.eligible)
	}
}

func TestAirlineAdmissionByVote(t *testing.T) {
	s := newTestSurety(t)
	admitFunded(t, s, air2, air3, air4)
	require.Equal(t, 4, s.TotalVotingEligible())

	// registry is full, the fifth waits for votes
	pending, err := s.RegisterAirline(ctx, air1, air5)
	require.NoError(t, err)
	assert.True(t, pending.Registered)
	assert.False(t, pending.Approved)
	assert.Empty(t, pending.Votes)

	a, err := s.VoteForAirline(ctx, air1, air5)
	require.NoError(t, err)
	assert.False(t, a.Approved)

	a, err = s.VoteForAirline(ctx, air2, air5)
	require.NoError(t, err)
	assert.True(t, a.Approved, "2 of 4 eligible is a quorum")
	assert.Equal(t, 2, s.VoteCount(air5))

	_, err = s.FundAirline(ctx, air5, ten)
	require.NoError(t, err)
	require.Equal(t, 5, s.TotalVotingEligible())

	_, err = s.RegisterAirline(ctx, air5, air6)
	require.NoError(t, err)
	for _, voter := range []domain.Principal{air1, air2} {
		a, err = s.VoteForAirline(ctx, voter, air6)
		require.NoError(t, err)
		assert.False(t, a.Approved)
	}
	a, err = s.VoteForAirline(ctx, air3, air6)
	require.NoError(t, err)
	assert.True(t, a.Approved, "3 of 5 eligible is a quorum")
}

func TestAirlineVoteRejections(t *testing.T) {
	s := newTestSurety(t)
	admitFunded(t, s, air2, air3)
	_, err := s.RegisterAirline(ctx, air1, air4)
	require.NoError(t, err)
	_, err = s.RegisterAirline(ctx, air1, air5)
	require.NoError(t, err)
	require.False(t, s.IsApproved(air5))

	_, err = s.VoteForAirline(ctx, air1, air5)
	require.NoError(t, err)

	_, err = s.VoteForAirline(ctx, air1, air5)
	require.ErrorIs(t, err, domain.ErrDuplicateVote)
	assert.Equal(t, 1, s.VoteCount(air5))

	_, err = s.VoteForAirline(ctx, air2, air2)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// air4 is approved but has not funded yet
	_, err = s.VoteForAirline(ctx, air4, air5)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.VoteForAirline(ctx, air1, "0xghost")
	require.ErrorIs(t, err, domain.ErrUnknownAirline)

	_, err = s.VoteForAirline(ctx, air1, air2)
	require.ErrorIs(t, err, domain.ErrAlreadyApproved)

	_, err = s.RegisterAirline(ctx, air1, air2)
	require.ErrorIs(t, err, domain.ErrDuplicateAirline)

	_, err = s.RegisterAirline(ctx, air4, air6)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFundAirline(t *testing.T) {
	s := newTestSurety(t)
	admitFunded(t, s, air2, air3, air4)
	_, err := s.RegisterAirline(ctx, air1, air5)
	require.NoError(t, err)

	_, err = s.FundAirline(ctx, air5, ten)
	require.ErrorIs(t, err, domain.ErrUnauthorized, "pending airlines cannot fund")

	_, err = s.FundAirline(ctx, "0xghost", ten)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.FundAirline(ctx, air2, decimal.RequireFromString("9.99"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	before := s.Treasury()
	a, err := s.FundAirline(ctx, air2, ten)
	require.NoError(t, err)
	assert.True(t, a.Funded)
	assert.True(t, a.Deposit.Equal(decimal.NewFromInt(20)))
	assert.True(t, s.Treasury().Equal(before.Add(ten)))
	assert.Equal(t, 4, s.TotalVotingEligible(), "repeat funding does not change eligibility")
}

func TestOperatingStatusGate(t *testing.T) {
	s := newTestSurety(t)

	require.ErrorIs(t, s.SetOperatingStatus(ctx, air1, false), domain.ErrUnauthorized)
	require.True(t, s.IsOperational())

	require.NoError(t, s.SetOperatingStatus(ctx, owner, false))
	assert.False(t, s.IsOperational())

	_, err := s.RegisterAirline(ctx, air1, air2)
	require.ErrorIs(t, err, domain.ErrSystemPaused)
	assert.False(t, s.IsAirline(air2))

	_, err = s.RegisterFlight(ctx, air1, "ND1309", 1700000000)
	require.ErrorIs(t, err, domain.ErrSystemPaused)
	_, err = s.RegisterOracle(ctx, orc1, one)
	require.ErrorIs(t, err, domain.ErrSystemPaused)
	_, err = s.Withdraw(ctx, pax, pax)
	require.ErrorIs(t, err, domain.ErrSystemPaused)
	require.ErrorIs(t, s.SetTestingMode(ctx, owner, true), domain.ErrSystemPaused)

	// reads stay available
	assert.True(t, s.IsFunded(air1))
	assert.True(t, s.GetPayable(pax).IsZero())

	require.NoError(t, s.SetOperatingStatus(ctx, owner, true))
	_, err = s.RegisterAirline(ctx, air1, air2)
	require.NoError(t, err)
}

func TestAuthorizeCaller(t *testing.T) {
	s := newTestSurety(t)
	app := domain.Principal("0xapp")

	require.ErrorIs(t, s.AuthorizeCaller(ctx, air1, app), domain.ErrUnauthorized)
	require.NoError(t, s.AuthorizeCaller(ctx, owner, app))
	assert.True(t, s.IsAuthorizedCaller(app))
	assert.True(t, s.IsAuthorizedCaller(owner))

	require.NoError(t, s.DeauthorizeCaller(ctx, owner, app))
	assert.False(t, s.IsAuthorizedCaller(app))

	require.NoError(t, s.SetTestingMode(ctx, owner, true))
	assert.True(t, s.TestingMode())
}

func TestRegisterFlight(t *testing.T) {
	s := newTestSurety(t)
	_, err := s.RegisterAirline(ctx, air1, air2)
	require.NoError(t, err)

	_, err = s.RegisterFlight(ctx, air2, "ND1309", 1700000000)
	require.ErrorIs(t, err, domain.ErrUnauthorized, "unfunded airline")

	key := registerFlight(t, s)
	assert.True(t, s.FlightExists(key))
	assert.Equal(t, models.StatusUnknown, s.GetStatus(key))

	_, err = s.RegisterFlight(ctx, air1, "ND1309", 1700000000)
	require.ErrorIs(t, err, domain.ErrDuplicateFlight)

	_, err = s.RegisterFlight(ctx, air1, "  ", 1700000000)
	assert.True(t, domain.IsValidation(err))
	_, err = s.RegisterFlight(ctx, air1, "ND1310", 0)
	assert.True(t, domain.IsValidation(err))

	assert.Len(t, s.Flights(air1), 1)
	assert.Empty(t, s.Flights(air2))
}

func TestBuyInsurance(t *testing.T) {
	s := newTestSurety(t)
	key := registerFlight(t, s)

	_, err := s.BuyInsurance(ctx, air1, pax, key, one)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.BuyInsurance(ctx, pax, pax, models.FlightKey{Airline: air1, Code: "NOPE", Timestamp: 1}, one)
	require.ErrorIs(t, err, domain.ErrUnknownFlight)

	_, err = s.BuyInsurance(ctx, pax, pax, key, decimal.RequireFromString("1.01"))
	require.ErrorIs(t, err, domain.ErrCapExceeded)

	_, err = s.BuyInsurance(ctx, pax, pax, key, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	p, err := s.BuyInsurance(ctx, pax, pax, key, one)
	require.NoError(t, err)
	assert.False(t, p.Credited)
	assert.True(t, s.GetInsuredAmount(pax, key).Equal(one))
	assert.True(t, s.Pool().Equal(one))

	_, err = s.BuyInsurance(ctx, pax, pax, key, decimal.RequireFromString("0.5"))
	require.ErrorIs(t, err, domain.ErrDuplicatePolicy)
	assert.True(t, s.GetInsuredAmount(pax, key).Equal(one))
	assert.Len(t, s.PoliciesOf(pax), 1)
}

func TestRegisterOracle(t *testing.T) {
	s := newTestSurety(t, func(c *SuretyConfig) { c.Indexes = nil })

	_, err := s.RegisterOracle(ctx, orc1, decimal.RequireFromString("0.5"))
	require.ErrorIs(t, err, domain.ErrInsufficientFee)

	o, err := s.RegisterOracle(ctx, orc1, one)
	require.NoError(t, err)
	require.Len(t, o.Indexes, 3)
	seen := map[uint8]bool{}
	for _, idx := range o.Indexes {
		assert.Less(t, idx, uint8(10))
		assert.False(t, seen[idx], "indexes must be distinct")
		seen[idx] = true
	}

	mine, err := s.GetMyIndexes(orc1)
	require.NoError(t, err)
	assert.Equal(t, []uint8(o.Indexes), mine)

	_, err = s.RegisterOracle(ctx, orc1, one)
	require.ErrorIs(t, err, domain.ErrDuplicateOracle)

	_, err = s.GetMyIndexes(orc2)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHashIndexGeneratorIsDeterministic(t *testing.T) {
	g := HashIndexGenerator{Seed: 7}
	for salt := uint64(0); salt < 50; salt++ {
		a := g.Index(orc1, salt, 3, 10)
		assert.Equal(t, a, g.Index(orc1, salt, 3, 10))
		assert.Less(t, a, uint8(10))
	}
	assert.Equal(t, uint8(0), g.Index(orc1, 1, 1, 1))
}

func TestOracleResolutionCreditsLateAirline(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSurety(t, func(c *SuretyConfig) { c.Sink = sink })
	key := registerFlight(t, s)
	_, err := s.BuyInsurance(ctx, pax, pax, key, one)
	require.NoError(t, err)
	registerOracles(t, s, orc1, orc2, orc3, orc4)

	req, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)
	require.True(t, req.Open)

	again, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)
	assert.Equal(t, req.Flight, again.Flight)

	for i, o := range []domain.Principal{orc1, orc2} {
		res, err := s.SubmitOracleResponse(ctx, o, req.Index, key, models.StatusLateAirline)
		require.NoError(t, err)
		assert.True(t, res.Counted)
		assert.Equal(t, i+1, res.Votes)
		assert.False(t, res.Resolved)
	}
	assert.Equal(t, models.StatusUnknown, s.GetStatus(key))

	res, err := s.SubmitOracleResponse(ctx, orc3, req.Index, key, models.StatusLateAirline)
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, models.StatusLateAirline, s.GetStatus(key))
	assert.True(t, s.GetPayable(pax).Equal(oneAndHalf))

	p, ok := s.Policy(pax, key)
	require.True(t, ok)
	assert.True(t, p.Credited)

	// a late fourth report changes nothing
	_, err = s.SubmitOracleResponse(ctx, orc4, req.Index, key, models.StatusOnTime)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)
	assert.Equal(t, models.StatusLateAirline, s.GetStatus(key))
	assert.True(t, s.GetPayable(pax).Equal(oneAndHalf))

	_, err = s.FetchFlightStatus(ctx, pax, key)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)
	_, err = s.BuyInsurance(ctx, air1, air1, key, one)
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)

	kinds := sink.kinds()
	tail := kinds[len(kinds)-3:]
	assert.Equal(t, []string{models.EventOracleReport, models.EventFlightStatus, models.EventPolicyCredited}, tail)
	for i := 1; i < len(sink.events); i++ {
		assert.Equal(t, sink.events[i-1].Sequence+1, sink.events[i].Sequence)
	}
}

func TestOracleResolutionWithoutCredit(t *testing.T) {
	s := newTestSurety(t)
	key := registerFlight(t, s)
	_, err := s.BuyInsurance(ctx, pax, pax, key, one)
	require.NoError(t, err)
	registerOracles(t, s, orc1, orc2, orc3)

	req, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)
	for _, o := range []domain.Principal{orc1, orc2, orc3} {
		_, err := s.SubmitOracleResponse(ctx, o, req.Index, key, models.StatusLateWeather)
		require.NoError(t, err)
	}
	assert.Equal(t, models.StatusLateWeather, s.GetStatus(key))
	assert.True(t, s.GetPayable(pax).IsZero())

	p, _ := s.Policy(pax, key)
	assert.False(t, p.Credited)
}

func TestOracleSubmissionRules(t *testing.T) {
	s := newTestSurety(t)
	key := registerFlight(t, s)
	registerOracles(t, s, orc1, orc2, orc3)

	_, err := s.SubmitOracleResponse(ctx, orc1, 0, key, models.StatusOnTime)
	require.ErrorIs(t, err, domain.ErrRequestNotOpen)

	req, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)

	_, err = s.SubmitOracleResponse(ctx, orc4, req.Index, key, models.StatusOnTime)
	require.ErrorIs(t, err, domain.ErrUnauthorized, "unregistered oracle")

	_, err = s.SubmitOracleResponse(ctx, orc1, 7, key, models.StatusOnTime)
	require.ErrorIs(t, err, domain.ErrUnauthorized, "index not held")

	_, err = s.SubmitOracleResponse(ctx, orc1, req.Index, key, models.StatusUnknown)
	assert.True(t, domain.IsValidation(err))

	res, err := s.SubmitOracleResponse(ctx, orc1, req.Index, key, models.StatusOnTime)
	require.NoError(t, err)
	assert.True(t, res.Counted)

	// repeats by the same oracle are tolerated but never counted
	res, err = s.SubmitOracleResponse(ctx, orc1, req.Index, key, models.StatusOnTime)
	require.NoError(t, err)
	assert.False(t, res.Counted)
	assert.Equal(t, 1, res.Votes)

	// split reports do not resolve
	_, err = s.SubmitOracleResponse(ctx, orc2, req.Index, key, models.StatusLateAirline)
	require.NoError(t, err)
	_, err = s.SubmitOracleResponse(ctx, orc3, req.Index, key, models.StatusLateOther)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnknown, s.GetStatus(key))
	assert.Len(t, s.OracleResponses(req.Index, key), 3)

	_, err = s.FetchFlightStatus(ctx, pax, models.FlightKey{Airline: air1, Code: "NOPE", Timestamp: 1})
	require.ErrorIs(t, err, domain.ErrUnknownFlight)
}

func creditedSurety(t *testing.T, tr Transferrer) (*Surety, models.FlightKey) {
	t.Helper()
	s := newTestSurety(t, func(c *SuretyConfig) { c.Transferrer = tr })
	key := registerFlight(t, s)
	_, err := s.BuyInsurance(ctx, pax, pax, key, one)
	require.NoError(t, err)
	registerOracles(t, s, orc1, orc2, orc3)
	req, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)
	for _, o := range []domain.Principal{orc1, orc2, orc3} {
		_, err := s.SubmitOracleResponse(ctx, o, req.Index, key, models.StatusLateAirline)
		require.NoError(t, err)
	}
	require.True(t, s.GetPayable(pax).Equal(oneAndHalf))
	return s, key
}

func TestWithdrawOnce(t *testing.T) {
	tr := &countingTransfer{}
	s, _ := creditedSurety(t, tr)
	treasury := s.Treasury()

	_, err := s.Withdraw(ctx, air1, pax)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	w, err := s.Withdraw(ctx, pax, pax)
	require.NoError(t, err)
	assert.True(t, w.Amount.Equal(oneAndHalf))
	assert.True(t, s.GetPayable(pax).IsZero())
	assert.True(t, s.Treasury().Equal(treasury.Sub(oneAndHalf)))

	_, err = s.Withdraw(ctx, pax, pax)
	require.ErrorIs(t, err, domain.ErrZeroBalance)
	assert.Equal(t, 1, tr.calls)
}

func TestWithdrawReentrantSeesZero(t *testing.T) {
	var (
		s         *Surety
		nestedErr error
		calls     int
	)
	tr := TransferFunc(func(ctx context.Context, p domain.Principal, amount decimal.Decimal) error {
		calls++
		if calls == 1 {
			_, nestedErr = s.Withdraw(ctx, p, p)
		}
		return nil
	})
	s, _ = creditedSurety(t, tr)

	w, err := s.Withdraw(ctx, pax, pax)
	require.NoError(t, err)
	assert.True(t, w.Amount.Equal(oneAndHalf))
	require.ErrorIs(t, nestedErr, domain.ErrZeroBalance)
	assert.Equal(t, 1, calls)
}

func TestWithdrawRestoresOnTransferFailure(t *testing.T) {
	tr := &countingTransfer{err: errors.New("rail down")}
	s, _ := creditedSurety(t, tr)
	treasury := s.Treasury()

	_, err := s.Withdraw(ctx, pax, pax)
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.True(t, s.GetPayable(pax).Equal(oneAndHalf))
	assert.True(t, s.Treasury().Equal(treasury))

	tr.err = nil
	_, err = s.Withdraw(ctx, pax, pax)
	require.NoError(t, err)
}

func TestWithdrawNeedsTreasury(t *testing.T) {
	s := newTestSurety(t, func(c *SuretyConfig) { c.Params.OracleFee = decimal.Zero })
	key := registerFlight(t, s)
	_, err := s.BuyInsurance(ctx, pax, pax, key, one)
	require.NoError(t, err)
	for _, o := range []domain.Principal{orc1, orc2, orc3} {
		_, err := s.RegisterOracle(ctx, o, decimal.Zero)
		require.NoError(t, err)
	}
	req, err := s.FetchFlightStatus(ctx, pax, key)
	require.NoError(t, err)
	for _, o := range []domain.Principal{orc1, orc2, orc3} {
		_, err := s.SubmitOracleResponse(ctx, o, req.Index, key, models.StatusLateAirline)
		require.NoError(t, err)
	}

	// only the 1 unit premium is held against a 1.5 credit
	_, err = s.Withdraw(ctx, pax, pax)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, s.GetPayable(pax).Equal(oneAndHalf))

	_, err = s.FundAirline(ctx, air1, ten)
	require.NoError(t, err)
	_, err = s.Withdraw(ctx, pax, pax)
	require.NoError(t, err)
}

func TestConcurrentWithdrawPaysOnce(t *testing.T) {
	tr := &syncTransfer{}
	s, _ := creditedSurety(t, tr)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Withdraw(ctx, pax, pax); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, tr.count())
}

type syncTransfer struct {
	mu    sync.Mutex
	calls int
}

func (s *syncTransfer) Transfer(context.Context, domain.Principal, decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func (s *syncTransfer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
