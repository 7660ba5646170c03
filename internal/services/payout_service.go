package services

import (
	"flightsurety/internal/domain"

	"github.com/shopspring/decimal"
)

// PayoutLedger holds each passenger's withdrawable balance. Balances grow
// only through credit and shrink only through take.
type PayoutLedger struct {
	payable map[domain.Principal]decimal.Decimal
}

func NewPayoutLedger() *PayoutLedger {
	return &PayoutLedger{payable: map[domain.Principal]decimal.Decimal{}}
}

func (l *PayoutLedger) GetPayable(passenger domain.Principal) decimal.Decimal {
	if v, ok := l.payable[passenger]; ok {
		return v
	}
	return decimal.Zero
}

func (l *PayoutLedger) credit(passenger domain.Principal, amount decimal.Decimal) {
	l.payable[passenger] = l.GetPayable(passenger).Add(amount)
}

// take zeroes the balance and returns what it held. Callers release funds
// only after take returns.
func (l *PayoutLedger) take(caller, passenger domain.Principal) (decimal.Decimal, error) {
	if caller.IsZero() || caller != passenger {
		return decimal.Zero, domain.Errorf(domain.ErrUnauthorized, "caller %s cannot withdraw for %s", caller, passenger)
	}
	amount := l.GetPayable(passenger)
	if !amount.IsPositive() {
		return decimal.Zero, domain.Errorf(domain.ErrZeroBalance, "no payable balance for %s", passenger)
	}
	l.payable[passenger] = decimal.Zero
	return amount, nil
}

// restore puts back an amount whose transfer failed.
func (l *PayoutLedger) restore(passenger domain.Principal, amount decimal.Decimal) {
	l.credit(passenger, amount)
}

// Total sums every outstanding balance.
func (l *PayoutLedger) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range l.payable {
		sum = sum.Add(v)
	}
	return sum
}
