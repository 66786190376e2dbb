package chain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/blockberries/frame/balances"
	"github.com/blockberries/frame/system"
	"github.com/blockberries/frame/types"
)

// ErrGenesisAfterStart is returned when genesis is applied after the
// first block.
var ErrGenesisAfterStart = errors.New("chain: genesis after first block")

// Genesis seeds balances. It is only valid before the first block.
func (rt *Runtime) Genesis(g types.Genesis) error {
	if rt.system.BlockNumber() != 0 {
		return ErrGenesisAfterStart
	}
	for _, b := range g.Balances {
		rt.balances.SetBalance(b.Account, b.Amount)
	}
	return nil
}

// Balance returns the balance of who.
func (rt *Runtime) Balance(who types.AccountID) types.Balance {
	return rt.balances.Balance(who)
}

// Nonce returns the nonce of who.
func (rt *Runtime) Nonce(who types.AccountID) types.Nonce {
	return rt.system.Nonce(who)
}

// BlockNumber returns the number of the last applied block.
func (rt *Runtime) BlockNumber() types.BlockNumber {
	return rt.system.BlockNumber()
}

// State returns a snapshot of every stored account, sorted by ID.
func (rt *Runtime) State() types.State {
	byID := make(map[types.AccountID]*types.AccountState)
	entry := func(id types.AccountID) *types.AccountState {
		a, ok := byID[id]
		if !ok {
			a = &types.AccountState{ID: id}
			byID[id] = a
		}
		return a
	}
	for id, b := range rt.balances.Accounts() {
		entry(id).Balance = b
	}
	for id, n := range rt.system.Nonces() {
		entry(id).Nonce = n
	}

	s := types.State{
		BlockNumber: rt.system.BlockNumber(),
		Accounts:    make([]types.AccountState, 0, len(byID)),
	}
	for _, a := range byID {
		s.Accounts = append(s.Accounts, *a)
	}
	slices.SortFunc(s.Accounts, func(a, b types.AccountState) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return s
}

// Restore replaces all state with s. Accounts must be in strictly
// ascending ID order; a duplicate ID is an error.
func (rt *Runtime) Restore(s types.State) error {
	for i := 1; i < len(s.Accounts); i++ {
		if cmp.Compare(s.Accounts[i-1].ID, s.Accounts[i].ID) >= 0 {
			return fmt.Errorf("chain: restore: account %s out of order or duplicated", s.Accounts[i].ID)
		}
	}
	sys := system.New[types.AccountID, types.BlockNumber, types.Nonce]()
	bal := balances.New[types.AccountID, types.Balance]()

	sys.SetBlockNumber(s.BlockNumber)
	for _, a := range s.Accounts {
		bal.SetBalance(a.ID, a.Balance)
		sys.SetNonce(a.ID, a.Nonce)
	}
	rt.system = sys
	rt.balances = bal
	return nil
}

// Query answers a state query against the current state.
func (rt *Runtime) Query(q types.StateQuery) types.StateQueryResult {
	res := types.StateQueryResult{Height: rt.BlockNumber()}
	switch q.Path {
	case types.QueryBalance:
		res.Balance = rt.Balance(q.Account)
	case types.QueryNonce:
		res.Nonce = rt.Nonce(q.Account)
	case types.QueryBlockNumber:
	case types.QueryState:
		s := rt.State()
		res.State = &s
	default:
		res.Code = types.QueryUnknownPath
		res.Info = fmt.Sprintf("unknown query path %q", q.Path)
	}
	return res
}
