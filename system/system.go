// Package system implements the chain metadata pallet: the current
// block number and a per-account nonce counting the extrinsics each
// account has issued.
package system

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/blockberries/frame"
)

var (
	// ErrBlockNumberOverflow is returned when the block number cannot
	// be incremented without wrapping.
	ErrBlockNumberOverflow = errors.New("block number overflow")
	// ErrNonceOverflow is returned when an account's nonce cannot be
	// incremented without wrapping.
	ErrNonceOverflow = errors.New("nonce overflow")
	// ErrMalformedCall is returned for a call with no operation set.
	ErrMalformedCall = errors.New("system: call selects no operation")
)

// Pallet holds the chain metadata. It is not safe for concurrent use.
type Pallet[A cmp.Ordered, BN, N frame.Unsigned] struct {
	blockNumber BN
	nonces      map[A]N
}

// New creates a pallet at block zero with no nonces.
func New[A cmp.Ordered, BN, N frame.Unsigned]() *Pallet[A, BN, N] {
	return &Pallet[A, BN, N]{
		nonces: make(map[A]N),
	}
}

// BlockNumber returns the number of the last applied block.
func (p *Pallet[A, BN, N]) BlockNumber() BN {
	return p.blockNumber
}

// NextBlockNumber returns the block number the next block must carry,
// without changing state.
func (p *Pallet[A, BN, N]) NextBlockNumber() (BN, error) {
	next, ok := frame.CheckedInc(p.blockNumber)
	if !ok {
		return p.blockNumber, ErrBlockNumberOverflow
	}
	return next, nil
}

// IncBlockNumber advances the block number by one.
func (p *Pallet[A, BN, N]) IncBlockNumber() error {
	next, err := p.NextBlockNumber()
	if err != nil {
		return err
	}
	p.blockNumber = next
	return nil
}

// SetBlockNumber overwrites the block number. Used when restoring
// persisted state.
func (p *Pallet[A, BN, N]) SetBlockNumber(n BN) {
	p.blockNumber = n
}

// Nonce returns the nonce of who, or zero if who has never issued an
// extrinsic.
func (p *Pallet[A, BN, N]) Nonce(who A) N {
	return p.nonces[who]
}

// IncNonce advances the nonce of who by one.
func (p *Pallet[A, BN, N]) IncNonce(who A) error {
	next, ok := frame.CheckedInc(p.nonces[who])
	if !ok {
		return ErrNonceOverflow
	}
	p.nonces[who] = next
	return nil
}

// SetNonce overwrites the nonce of who. Used when restoring persisted
// state.
func (p *Pallet[A, BN, N]) SetNonce(who A, n N) {
	p.nonces[who] = n
}

// Nonces yields every stored nonce in ascending account order.
func (p *Pallet[A, BN, N]) Nonces() iter.Seq2[A, N] {
	return func(yield func(A, N) bool) {
		for _, who := range slices.Sorted(maps.Keys(p.nonces)) {
			if !yield(who, p.nonces[who]) {
				return
			}
		}
	}
}
