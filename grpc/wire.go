package framegrpc

import (
	"github.com/blockberries/frame"
	"github.com/blockberries/frame/types"
)

// Transport-specific wrapper types for RPC results that carry more
// than a single domain struct. They exist only at the gRPC
// serialization boundary.

// ExecuteBlockResponse is a tagged union: exactly one of Outcome
// (block applied) or Rejection (block refused as a whole) is set.
type ExecuteBlockResponse struct {
	Outcome   *types.BlockOutcome `cramberry:"1"`
	Rejection *BlockRejection     `cramberry:"2"`
}

// BlockRejection is the wire form of *frame.BlockError.
type BlockRejection struct {
	Kind     uint32 `cramberry:"1"`
	Expected uint64 `cramberry:"2"`
	Got      uint64 `cramberry:"3"`
	Index    uint32 `cramberry:"4"`
}

func rejectionFromError(e *frame.BlockError) *BlockRejection {
	return &BlockRejection{
		Kind:     uint32(e.Kind),
		Expected: e.Expected,
		Got:      e.Got,
		Index:    uint32(e.Index),
	}
}

// Err rebuilds the block error carried by r.
func (r *BlockRejection) Err() *frame.BlockError {
	return &frame.BlockError{
		Kind:     frame.BlockErrorKind(r.Kind),
		Expected: r.Expected,
		Got:      r.Got,
		Index:    int(r.Index),
	}
}
