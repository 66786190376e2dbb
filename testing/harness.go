package frametest

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"testing"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/types"
)

// Harness drives a chain.Node from a test and fails the test on any
// unexpected error.
type Harness struct {
	t    *testing.T
	node chain.Node
}

// NewHarness creates a test harness around node. The node is closed
// when the test ends.
func NewHarness(t *testing.T, node chain.Node) *Harness {
	t.Helper()
	t.Cleanup(func() {
		if err := node.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return &Harness{t: t, node: node}
}

// Node returns the underlying node for direct access.
func (h *Harness) Node() chain.Node {
	return h.node
}

// Genesis performs the handshake with the given balances.
func (h *Harness) Genesis(balances map[types.AccountID]uint64) types.HandshakeResponse {
	h.t.Helper()
	g := GenesisOf(balances)
	resp, err := h.node.Handshake(context.Background(), types.HandshakeRequest{Genesis: &g})
	if err != nil {
		h.t.Fatalf("Handshake failed: %v", err)
	}
	return resp
}

// ExecuteBlock applies a block and fails the test if it is rejected.
func (h *Harness) ExecuteBlock(block chain.Block) types.BlockOutcome {
	h.t.Helper()
	outcome, err := h.node.ExecuteBlock(context.Background(), block)
	if err != nil {
		h.t.Fatalf("ExecuteBlock (block=%d) failed: %v", block.Header.BlockNumber, err)
	}
	return outcome
}

// MustRejectBlock asserts that block is rejected with a block error
// and returns it.
func (h *Harness) MustRejectBlock(block chain.Block) *frame.BlockError {
	h.t.Helper()
	_, err := h.node.ExecuteBlock(context.Background(), block)
	if err == nil {
		h.t.Fatalf("expected block %d rejected, got accepted", block.Header.BlockNumber)
	}
	blockErr, ok := frame.IsBlockError(err)
	if !ok {
		h.t.Fatalf("expected block error, got %v", err)
	}
	return blockErr
}

// Query reads node state.
func (h *Harness) Query(q types.StateQuery) types.StateQueryResult {
	h.t.Helper()
	res, err := h.node.Query(context.Background(), q)
	if err != nil {
		h.t.Fatalf("Query(%s) failed: %v", q.Path, err)
	}
	return res
}

// Balance returns the balance of who.
func (h *Harness) Balance(who types.AccountID) types.Balance {
	h.t.Helper()
	return h.Query(types.StateQuery{Path: types.QueryBalance, Account: who}).Balance
}

// Nonce returns the nonce of who.
func (h *Harness) Nonce(who types.AccountID) types.Nonce {
	h.t.Helper()
	return h.Query(types.StateQuery{Path: types.QueryNonce, Account: who}).Nonce
}

// BlockNumber returns the number of the last applied block.
func (h *Harness) BlockNumber() types.BlockNumber {
	h.t.Helper()
	return h.Query(types.StateQuery{Path: types.QueryBlockNumber}).Height
}

// State returns a full state snapshot.
func (h *Harness) State() types.State {
	h.t.Helper()
	res := h.Query(types.StateQuery{Path: types.QueryState})
	if res.State == nil {
		h.t.Fatalf("Query(%s) returned no state", types.QueryState)
	}
	return *res.State
}

// --- Helper Factories ---

// GenesisOf builds a genesis document from account balances, sorted
// by account.
func GenesisOf(balances map[types.AccountID]uint64) types.Genesis {
	ids := slices.SortedFunc(maps.Keys(balances), cmp.Compare[types.AccountID])
	g := types.Genesis{Balances: make([]types.GenesisBalance, 0, len(ids))}
	for _, id := range ids {
		g.Balances = append(g.Balances, types.GenesisBalance{
			Account: id,
			Amount:  types.NewBalance(balances[id]),
		})
	}
	return g
}

// MakeBlock creates a block with the given number and extrinsics.
func MakeBlock(n types.BlockNumber, xts ...chain.Extrinsic) chain.Block {
	return chain.Block{
		Header:     chain.Header{BlockNumber: n},
		Extrinsics: xts,
	}
}

// Transfer creates a balances transfer extrinsic.
func Transfer(from, to types.AccountID, amount uint64) chain.Extrinsic {
	return chain.Extrinsic{
		Caller: from,
		Call:   chain.TransferCall(to, types.NewBalance(amount)),
	}
}

// Remark creates a system remark extrinsic.
func Remark(from types.AccountID, data string) chain.Extrinsic {
	return chain.Extrinsic{
		Caller: from,
		Call:   chain.RemarkCall([]byte(data)),
	}
}
