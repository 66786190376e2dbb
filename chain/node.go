package chain

import (
	"context"

	"github.com/blockberries/frame/types"
)

// Node is a transport-agnostic handle to a running runtime. The
// in-process server, the local adapter and the gRPC client all
// implement it.
//
// Handshake is called once, before anything else. ExecuteBlock calls
// are serialized by the implementation. Query may be called
// concurrently at any time after Handshake.
type Node interface {
	// Handshake restores persisted state if any exists, and applies
	// the genesis in req otherwise.
	Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error)

	// ExecuteBlock applies a block. A rejected block returns a
	// *frame.BlockError; failed extrinsics are reported in the
	// outcome only.
	ExecuteBlock(ctx context.Context, block Block) (types.BlockOutcome, error)

	// Query reads the state left by the last applied block.
	Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error)

	// Close releases the node's resources.
	Close() error
}
