package chain

import (
	"github.com/blockberries/frame"
	"github.com/blockberries/frame/balances"
	"github.com/blockberries/frame/system"
	"github.com/blockberries/frame/types"
)

type (
	// SystemPallet is the system pallet bound to the chain's types.
	SystemPallet = system.Pallet[types.AccountID, types.BlockNumber, types.Nonce]
	// BalancesPallet is the balances pallet bound to the chain's types.
	BalancesPallet = balances.Pallet[types.AccountID, types.Balance]
	// BalancesCall is the balances call bound to the chain's types.
	BalancesCall = balances.Call[types.AccountID, types.Balance]

	// Header is the block header bound to the chain's types.
	Header = frame.Header[types.BlockNumber]
	// Extrinsic is an aggregated call attributed to a caller.
	Extrinsic = frame.Extrinsic[types.AccountID, Call]
	// Block is a header plus its ordered extrinsics.
	Block = frame.Block[types.BlockNumber, Extrinsic]
)

// Call is the aggregated call: one field per pallet, each wrapping
// that pallet's own call type. Exactly one field must be set.
type Call struct {
	System   *system.Call  `cramberry:"1"`
	Balances *BalancesCall `cramberry:"2"`
}

// Validate reports whether the call selects exactly one pallet and
// the pallet's call selects exactly one operation.
func (c Call) Validate() error {
	switch {
	case c.System != nil && c.Balances == nil:
		return c.System.Validate()
	case c.Balances != nil && c.System == nil:
		return c.Balances.Validate()
	default:
		return errNoPallet
	}
}

// TransferCall builds a balances transfer.
func TransferCall(to types.AccountID, amount types.Balance) Call {
	return Call{Balances: &BalancesCall{
		Transfer: &balances.Transfer[types.AccountID, types.Balance]{To: to, Amount: amount},
	}}
}

// RemarkCall builds a system remark.
func RemarkCall(data []byte) Call {
	return Call{System: &system.Call{Remark: &system.Remark{Data: data}}}
}
