// Package chain composes the system and balances pallets into a
// runtime and implements block execution.
//
// A block is validated as a whole before anything is written: a
// block with the wrong number or a malformed call is rejected with a
// *frame.BlockError and leaves state untouched. Once a block is
// accepted its extrinsics are applied in order. A failing extrinsic
// is reported and skipped; it never aborts the block and never rolls
// back the extrinsics around it.
package chain

import (
	"errors"
	"log/slog"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/balances"
	"github.com/blockberries/frame/system"
	"github.com/blockberries/frame/types"
)

var errNoPallet = errors.New("chain: call must select exactly one pallet")

// Compile-time interface check.
var _ frame.Dispatch[types.AccountID, Call] = (*Runtime)(nil)

// Runtime owns the pallets and applies blocks to them. It is not safe
// for concurrent use; see package server for a serialized wrapper.
type Runtime struct {
	system   *SystemPallet
	balances *BalancesPallet
	reporter Reporter
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithReporter sets the sink for extrinsic failures.
func WithReporter(r Reporter) Option {
	return func(rt *Runtime) { rt.reporter = r }
}

// WithLogger reports extrinsic failures to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) { rt.reporter = NewLogReporter(logger) }
}

// New creates a runtime at block zero with an empty ledger.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		system:   system.New[types.AccountID, types.BlockNumber, types.Nonce](),
		balances: balances.New[types.AccountID, types.Balance](),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.reporter == nil {
		rt.reporter = NewLogReporter(slog.Default())
	}
	return rt
}

// Dispatch routes an aggregated call to the pallet that owns it.
// Panics unless call selects exactly one pallet, the same rule
// Call.Validate enforces; ExecuteBlock rejects such calls before they
// get here.
func (rt *Runtime) Dispatch(caller types.AccountID, call Call) error {
	switch {
	case call.System != nil && call.Balances == nil:
		return rt.system.Dispatch(caller, *call.System)
	case call.Balances != nil && call.System == nil:
		return rt.balances.Dispatch(caller, *call.Balances)
	default:
		panic("frame: dispatch of a call that does not select exactly one pallet")
	}
}

// ExecuteBlock validates block and applies its extrinsics in order.
//
// A structurally invalid block returns a *frame.BlockError and
// changes nothing. Otherwise the block number advances, every
// extrinsic bumps its caller's nonce and is dispatched, and failures
// are reported and recorded in the outcome without stopping the
// block.
func (rt *Runtime) ExecuteBlock(block Block) (types.BlockOutcome, error) {
	if err := rt.validateBlock(block); err != nil {
		return types.BlockOutcome{}, err
	}
	if err := rt.system.IncBlockNumber(); err != nil {
		return types.BlockOutcome{}, err
	}

	number := block.Header.BlockNumber
	outcome := types.BlockOutcome{
		BlockNumber: number,
		Results:     make([]types.ExtrinsicResult, len(block.Extrinsics)),
	}
	for i, xt := range block.Extrinsics {
		outcome.Results[i] = types.ExtrinsicResult{Index: uint32(i)}

		err := rt.applyExtrinsic(xt)
		if err == nil {
			continue
		}
		rt.reporter.ExtrinsicFailed(xt.Caller, &frame.ExtrinsicError{
			Block: uint64(number),
			Index: i,
			Err:   err,
		})
		outcome.Results[i].Code = resultCode(err)
		outcome.Results[i].Info = err.Error()
	}
	return outcome, nil
}

func (rt *Runtime) validateBlock(block Block) error {
	next, err := rt.system.NextBlockNumber()
	if err != nil {
		return &frame.BlockError{
			Kind: frame.KindBlockNumberOverflow,
			Got:  uint64(rt.system.BlockNumber()),
		}
	}
	if block.Header.BlockNumber != next {
		return frame.NewMismatchError(uint64(next), uint64(block.Header.BlockNumber))
	}
	for i, xt := range block.Extrinsics {
		if err := xt.Call.Validate(); err != nil {
			return &frame.BlockError{Kind: frame.KindMalformedCall, Index: i}
		}
	}
	return nil
}

// applyExtrinsic bumps the caller's nonce whether or not the call
// succeeds. A nonce that cannot be bumped fails the extrinsic before
// dispatch.
func (rt *Runtime) applyExtrinsic(xt Extrinsic) error {
	if err := rt.system.IncNonce(xt.Caller); err != nil {
		return err
	}
	return rt.Dispatch(xt.Caller, xt.Call)
}

func resultCode(err error) uint32 {
	switch {
	case errors.Is(err, balances.ErrInsufficientFunds):
		return types.CodeInsufficientFunds
	case errors.Is(err, balances.ErrOverflow):
		return types.CodeOverflow
	case errors.Is(err, system.ErrNonceOverflow):
		return types.CodeNonceOverflow
	default:
		return types.CodeUnknown
	}
}
