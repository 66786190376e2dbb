package balances

import (
	"cmp"

	"github.com/blockberries/frame"
)

// Transfer moves Amount from the caller to To.
type Transfer[A cmp.Ordered, B frame.Balance[B]] struct {
	To     A `cramberry:"1"`
	Amount B `cramberry:"2"`
}

// Call is the tagged union of ledger operations. Exactly one field
// must be set.
type Call[A cmp.Ordered, B frame.Balance[B]] struct {
	Transfer *Transfer[A, B] `cramberry:"1"`
}

// Validate reports whether exactly one operation is selected.
func (c Call[A, B]) Validate() error {
	if c.Transfer == nil {
		return ErrMalformedCall
	}
	return nil
}

// Dispatch routes call to the matching operation.
func (p *Pallet[A, B]) Dispatch(caller A, call Call[A, B]) error {
	switch {
	case call.Transfer != nil:
		return p.Transfer(caller, call.Transfer.To, call.Transfer.Amount)
	default:
		return ErrMalformedCall
	}
}
