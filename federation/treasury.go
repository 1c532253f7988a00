// Package federation keeps the named treasury balances: plain bookkeeping
// with deposits, withdrawals and an equal abundance fan-out.
package federation

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient treasury balance")
	ErrNoRecipients        = errors.New("no recipients provided")
)

// Treasury maintains named numeric balances. All methods are safe for
// concurrent use.
type Treasury struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func NewTreasury() *Treasury {
	return &Treasury{balances: make(map[string]decimal.Decimal)}
}

// Deposit credits amount to the named balance and returns the new balance.
func (t *Treasury) Deposit(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	balance := t.balances[name].Add(amount)
	t.balances[name] = balance
	return balance, nil
}

// Withdraw debits amount from the named balance and returns the new balance.
// Balances never go negative.
func (t *Treasury) Withdraw(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	balance := t.balances[name]
	if balance.LessThan(amount) {
		return balance, errors.Wrapf(ErrInsufficientBalance, "%s holds %s, needs %s", name, balance, amount)
	}
	balance = balance.Sub(amount)
	t.balances[name] = balance
	return balance, nil
}

// Balance returns the named balance, zero if never touched.
func (t *Treasury) Balance(name string) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[name]
}

// Balances returns a copy of every named balance.
func (t *Treasury) Balances() map[string]decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(t.balances))
	for name, balance := range t.balances {
		out[name] = balance
	}
	return out
}

// DistributeAbundance debits total from the named treasury and splits it
// equally across recipients, returning the per-recipient allocation.
func (t *Treasury) DistributeAbundance(from string, total decimal.Decimal, recipients []string) (map[string]decimal.Decimal, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if !total.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	balance := t.balances[from]
	if balance.LessThan(total) {
		return nil, errors.Wrapf(ErrInsufficientBalance, "%s holds %s, needs %s", from, balance, total)
	}

	share := total.Div(decimal.NewFromInt(int64(len(recipients))))
	allocation := make(map[string]decimal.Decimal, len(recipients))
	for _, recipient := range recipients {
		allocation[recipient] = share
	}
	t.balances[from] = balance.Sub(total)
	return allocation, nil
}
