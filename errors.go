package frame

import (
	"errors"
	"fmt"
)

// BlockErrorKind identifies why a block was rejected as a whole.
type BlockErrorKind uint8

const (
	// KindBlockNumberMismatch: the header does not carry the next
	// expected block number.
	KindBlockNumberMismatch BlockErrorKind = iota + 1
	// KindBlockNumberOverflow: the block number counter is exhausted.
	KindBlockNumberOverflow
	// KindMalformedCall: an extrinsic's call selects no pallet or no
	// operation.
	KindMalformedCall
)

func (k BlockErrorKind) String() string {
	switch k {
	case KindBlockNumberMismatch:
		return "BlockNumberMismatch"
	case KindBlockNumberOverflow:
		return "BlockNumberOverflow"
	case KindMalformedCall:
		return "MalformedCall"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// BlockError signals that a block is structurally invalid. It is
// fatal for the block: no extrinsic of the block is applied and the
// error is returned to the caller of ExecuteBlock.
type BlockError struct {
	Kind     BlockErrorKind
	Expected uint64
	Got      uint64
	// Index of the offending extrinsic for KindMalformedCall.
	Index int
}

func (e *BlockError) Error() string {
	switch e.Kind {
	case KindBlockNumberMismatch:
		return fmt.Sprintf("block number mismatch: expected %d, got %d", e.Expected, e.Got)
	case KindBlockNumberOverflow:
		return fmt.Sprintf("block number overflow after %d", e.Got)
	case KindMalformedCall:
		return fmt.Sprintf("malformed call in extrinsic %d", e.Index)
	default:
		return fmt.Sprintf("invalid block: %s", e.Kind)
	}
}

// NewMismatchError creates a KindBlockNumberMismatch error.
func NewMismatchError(expected, got uint64) *BlockError {
	return &BlockError{Kind: KindBlockNumberMismatch, Expected: expected, Got: got}
}

// IsBlockError checks whether an error is a BlockError and returns it.
func IsBlockError(err error) (*BlockError, bool) {
	var b *BlockError
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}

// ExtrinsicError records the failure of a single extrinsic. It never
// aborts the block: the runtime reports it and moves on to the next
// extrinsic.
type ExtrinsicError struct {
	Block uint64
	Index int
	Err   error
}

func (e *ExtrinsicError) Error() string {
	return fmt.Sprintf("extrinsic %d in block %d: %v", e.Index, e.Block, e.Err)
}

func (e *ExtrinsicError) Unwrap() error { return e.Err }
