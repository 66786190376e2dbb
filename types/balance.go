package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Balance is an unsigned 256-bit amount stored big-endian. The zero
// value is a zero balance, and equal amounts have equal encodings.
type Balance [32]byte

// NewBalance returns v as a Balance.
func NewBalance(v uint64) Balance {
	return Balance(uint256.NewInt(v).Bytes32())
}

// MaxBalance returns the largest representable balance.
func MaxBalance() Balance {
	var b Balance
	for i := range b {
		b[i] = 0xff
	}
	return b
}

// ParseBalance parses a base-10 amount.
func ParseBalance(s string) (Balance, error) {
	if s == "" {
		return Balance{}, fmt.Errorf("parse balance: empty string")
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, fmt.Errorf("parse balance %q: %w", s, err)
	}
	return Balance(v.Bytes32()), nil
}

func (b Balance) int() *uint256.Int {
	return new(uint256.Int).SetBytes32(b[:])
}

// CheckedAdd returns b+o, or b and false on overflow.
func (b Balance) CheckedAdd(o Balance) (Balance, bool) {
	sum, overflow := new(uint256.Int).AddOverflow(b.int(), o.int())
	if overflow {
		return b, false
	}
	return Balance(sum.Bytes32()), true
}

// CheckedSub returns b-o, or b and false on underflow.
func (b Balance) CheckedSub(o Balance) (Balance, bool) {
	diff, underflow := new(uint256.Int).SubOverflow(b.int(), o.int())
	if underflow {
		return b, false
	}
	return Balance(diff.Bytes32()), true
}

// Cmp compares b and o and returns -1, 0 or +1.
func (b Balance) Cmp(o Balance) int {
	return b.int().Cmp(o.int())
}

// IsZero reports whether b is zero.
func (b Balance) IsZero() bool {
	return b == Balance{}
}

// String returns the base-10 representation.
func (b Balance) String() string {
	return b.int().Dec()
}
