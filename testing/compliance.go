package frametest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/types"
)

// RunComplianceSuite runs a standard compliance test suite against a
// chain.Node implementation to verify block execution and lifecycle
// behavior end to end.
//
// The factory function should return a fresh node, not yet
// handshaken, for each call.
func RunComplianceSuite(t *testing.T, factory func(t *testing.T) chain.Node) {
	t.Helper()

	t.Run("genesis_handshake", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		resp := h.Genesis(map[types.AccountID]uint64{"alice": 100})
		if resp.BlockNumber != 0 {
			t.Errorf("expected block 0, got %d", resp.BlockNumber)
		}
		if resp.Restored {
			t.Error("fresh node should not report restored state")
		}
		if got := h.Balance("alice"); got != types.NewBalance(100) {
			t.Errorf("alice: expected 100, got %s", got)
		}
	})

	t.Run("transfers", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(map[types.AccountID]uint64{"alice": 100})

		outcome := h.ExecuteBlock(MakeBlock(1,
			Transfer("alice", "bob", 30),
			Transfer("alice", "charlie", 20),
		))
		if outcome.Failed() != 0 {
			t.Errorf("expected no failures, got %+v", outcome.Results)
		}

		want := map[types.AccountID]uint64{"alice": 50, "bob": 30, "charlie": 20}
		for who, amount := range want {
			if got := h.Balance(who); got != types.NewBalance(amount) {
				t.Errorf("%s: expected %d, got %s", who, amount, got)
			}
		}
		if n := h.Nonce("alice"); n != 2 {
			t.Errorf("alice nonce: expected 2, got %d", n)
		}
		if n := h.BlockNumber(); n != 1 {
			t.Errorf("block number: expected 1, got %d", n)
		}
	})

	t.Run("failed_extrinsic_reported", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(map[types.AccountID]uint64{"alice": 10})

		outcome := h.ExecuteBlock(MakeBlock(1,
			Transfer("alice", "bob", 11),
			Transfer("alice", "bob", 10),
		))
		if len(outcome.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(outcome.Results))
		}
		if outcome.Results[0].Code != types.CodeInsufficientFunds {
			t.Errorf("expected insufficient funds, got code=%d info=%q",
				outcome.Results[0].Code, outcome.Results[0].Info)
		}
		if !outcome.Results[1].OK() {
			t.Errorf("second transfer failed: %q", outcome.Results[1].Info)
		}
		if n := h.Nonce("alice"); n != 2 {
			t.Errorf("alice nonce: expected 2, got %d", n)
		}
	})

	t.Run("block_number_mismatch", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(map[types.AccountID]uint64{"alice": 100})
		before := h.State()

		blockErr := h.MustRejectBlock(MakeBlock(5, Transfer("alice", "bob", 30)))
		if blockErr.Kind != frame.KindBlockNumberMismatch {
			t.Errorf("expected mismatch, got %s", blockErr.Kind)
		}
		if blockErr.Expected != 1 || blockErr.Got != 5 {
			t.Errorf("expected 1/5, got %d/%d", blockErr.Expected, blockErr.Got)
		}
		if !statesEqual(before, h.State()) {
			t.Error("rejected block changed state")
		}

		// The node recovers and accepts the expected block.
		h.ExecuteBlock(MakeBlock(1))
	})

	t.Run("malformed_call_rejected", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(map[types.AccountID]uint64{"alice": 100})

		blockErr := h.MustRejectBlock(MakeBlock(1,
			Transfer("alice", "bob", 1),
			chain.Extrinsic{Caller: "alice"},
		))
		if blockErr.Kind != frame.KindMalformedCall || blockErr.Index != 1 {
			t.Errorf("expected malformed call at 1, got %v", blockErr)
		}
		if n := h.Nonce("alice"); n != 0 {
			t.Errorf("rejected block bumped nonce to %d", n)
		}
	})

	t.Run("sequential_blocks", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(nil)
		for n := types.BlockNumber(1); n <= 5; n++ {
			outcome := h.ExecuteBlock(MakeBlock(n, Remark("alice", "tick")))
			if outcome.BlockNumber != n {
				t.Errorf("outcome block: expected %d, got %d", n, outcome.BlockNumber)
			}
		}
		if n := h.Nonce("alice"); n != 5 {
			t.Errorf("alice nonce: expected 5, got %d", n)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		genesis := map[types.AccountID]uint64{"alice": 100, "dave": 3}
		blocks := []chain.Block{
			MakeBlock(1, Transfer("alice", "bob", 30), Transfer("dave", "erin", 4)),
			MakeBlock(2, Transfer("bob", "charlie", 10), Remark("charlie", "gm")),
		}

		h1 := NewHarness(t, factory(t))
		h1.Genesis(genesis)
		h2 := NewHarness(t, factory(t))
		h2.Genesis(genesis)

		for _, b := range blocks {
			o1 := h1.ExecuteBlock(b)
			o2 := h2.ExecuteBlock(b)
			if o1.Failed() != o2.Failed() || len(o1.Results) != len(o2.Results) {
				t.Errorf("block %d: outcomes differ: %+v != %+v",
					b.Header.BlockNumber, o1, o2)
			}
		}
		if !statesEqual(h1.State(), h2.State()) {
			t.Error("non-deterministic state after identical blocks")
		}
	})

	t.Run("unknown_query_path", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(nil)
		res := h.Query(types.StateQuery{Path: "/nope"})
		if res.Code != types.QueryUnknownPath {
			t.Errorf("expected unknown path code, got %d", res.Code)
		}
	})

	t.Run("query_before_handshake", func(t *testing.T) {
		node := factory(t)
		defer node.Close()
		if _, err := node.Query(context.Background(), types.StateQuery{Path: types.QueryBlockNumber}); err == nil {
			t.Error("expected error for query before handshake")
		}
	})

	t.Run("execute_before_handshake", func(t *testing.T) {
		node := factory(t)
		defer node.Close()
		_, err := node.ExecuteBlock(context.Background(), MakeBlock(1))
		if err == nil {
			t.Fatal("expected error for ExecuteBlock before handshake")
		}
		if _, ok := frame.IsBlockError(err); ok {
			t.Errorf("expected lifecycle error, got block error %v", err)
		}
	})

	t.Run("double_handshake", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(nil)
		_, err := h.Node().Handshake(context.Background(), types.HandshakeRequest{})
		if err == nil {
			t.Error("expected error for second handshake")
		}
	})

	t.Run("canceled_context", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := h.Node().ExecuteBlock(ctx, MakeBlock(1))
		if err == nil {
			t.Fatal("expected error for canceled context")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancellation, got %v", err)
		}
		if n := h.BlockNumber(); n != 0 {
			t.Errorf("canceled block applied: block number %d", n)
		}
	})

	t.Run("concurrent_query_during_execution", func(t *testing.T) {
		h := NewHarness(t, factory(t))
		h.Genesis(map[types.AccountID]uint64{"alice": 1000})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Node().Query(context.Background(), types.StateQuery{
					Path:    types.QueryBalance,
					Account: "alice",
				})
				if err != nil {
					t.Errorf("concurrent Query failed: %v", err)
				}
			}()
		}
		for n := types.BlockNumber(1); n <= 10; n++ {
			h.ExecuteBlock(MakeBlock(n, Transfer("alice", "bob", 1)))
		}
		wg.Wait()

		if got := h.Balance("bob"); got != types.NewBalance(10) {
			t.Errorf("bob: expected 10, got %s", got)
		}
	})
}

func statesEqual(a, b types.State) bool {
	if a.BlockNumber != b.BlockNumber || len(a.Accounts) != len(b.Accounts) {
		return false
	}
	for i := range a.Accounts {
		if a.Accounts[i] != b.Accounts[i] {
			return false
		}
	}
	return true
}
