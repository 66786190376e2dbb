// Package balances implements the account ledger pallet: a mapping
// from account to balance with a checked, all-or-nothing transfer.
//
// An account that has never been written holds the zero balance and
// is not stored.
package balances

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/blockberries/frame"
)

var (
	// ErrInsufficientFunds is returned when the caller's balance is
	// lower than the transferred amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrOverflow is returned when crediting the recipient would
	// overflow the balance type.
	ErrOverflow = errors.New("balance overflow")
	// ErrMalformedCall is returned for a call with no operation set.
	ErrMalformedCall = errors.New("balances: call selects no operation")
)

// Pallet holds the ledger. It is not safe for concurrent use.
type Pallet[A cmp.Ordered, B frame.Balance[B]] struct {
	balances map[A]B
}

// New creates an empty ledger.
func New[A cmp.Ordered, B frame.Balance[B]]() *Pallet[A, B] {
	return &Pallet[A, B]{
		balances: make(map[A]B),
	}
}

// Balance returns the balance of who, or zero if who was never
// written.
func (p *Pallet[A, B]) Balance(who A) B {
	return p.balances[who]
}

// SetBalance overwrites the balance of who. It bypasses every check
// and is meant for genesis, restore and tests.
func (p *Pallet[A, B]) SetBalance(who A, amount B) {
	p.balances[who] = amount
}

// Transfer moves amount from caller to to. Both new balances are
// computed before anything is written, so a failed transfer leaves
// the ledger untouched and a transfer to self is a no-op.
func (p *Pallet[A, B]) Transfer(caller, to A, amount B) error {
	callerBalance := p.Balance(caller)
	toBalance := p.Balance(to)

	newCallerBalance, ok := callerBalance.CheckedSub(amount)
	if !ok {
		return ErrInsufficientFunds
	}
	if caller == to {
		return nil
	}
	newToBalance, ok := toBalance.CheckedAdd(amount)
	if !ok {
		return ErrOverflow
	}

	p.balances[caller] = newCallerBalance
	p.balances[to] = newToBalance
	return nil
}

// Accounts yields every stored balance in ascending account order.
func (p *Pallet[A, B]) Accounts() iter.Seq2[A, B] {
	return func(yield func(A, B) bool) {
		for _, who := range slices.Sorted(maps.Keys(p.balances)) {
			if !yield(who, p.balances[who]) {
				return
			}
		}
	}
}

// Total sums every stored balance. It returns false if the sum does
// not fit in B.
func (p *Pallet[A, B]) Total() (B, bool) {
	var total B
	for _, v := range p.Accounts() {
		next, ok := total.CheckedAdd(v)
		if !ok {
			return total, false
		}
		total = next
	}
	return total, true
}
