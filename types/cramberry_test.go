package types_test

import (
	"testing"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/blockberries/frame/types"
)

// roundTrip marshals v, unmarshals into a new T, and returns it.
func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	data, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out T
	if err := cramberry.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func TestBalance_RoundTrip(t *testing.T) {
	v, err := types.ParseBalance("123456789012345678901234567890")
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, v)
	if got != v {
		t.Fatalf("Balance round-trip failed: got %s, want %s", got, v)
	}
}

func TestState_RoundTrip(t *testing.T) {
	v := types.State{
		BlockNumber: 7,
		Accounts: []types.AccountState{
			{ID: "alice", Balance: types.NewBalance(50), Nonce: 2},
			{ID: "bob", Balance: types.MaxBalance(), Nonce: 0},
		},
	}
	got := roundTrip(t, v)
	if got.BlockNumber != v.BlockNumber || len(got.Accounts) != 2 {
		t.Fatalf("State round-trip failed: got %+v", got)
	}
	for i := range v.Accounts {
		if got.Accounts[i] != v.Accounts[i] {
			t.Fatalf("State.Accounts[%d] mismatch: got %+v", i, got.Accounts[i])
		}
	}
}

func TestStateQueryResult_RoundTrip(t *testing.T) {
	v := types.StateQueryResult{
		Code:   types.QueryOK,
		Height: 4,
		State:  &types.State{BlockNumber: 4},
	}
	got := roundTrip(t, v)
	if got.Height != 4 || got.State == nil || got.State.BlockNumber != 4 {
		t.Fatalf("StateQueryResult round-trip failed: got %+v", got)
	}
}

// TestDeterminism verifies that the same state always produces the
// same bytes, which lets two nodes compare snapshots byte for byte.
func TestDeterminism(t *testing.T) {
	v := types.State{
		BlockNumber: 42,
		Accounts: []types.AccountState{
			{ID: "alice", Balance: types.NewBalance(1000), Nonce: 5},
			{ID: "bob", Balance: types.NewBalance(1), Nonce: 1},
		},
	}
	data1, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	data2, err := cramberry.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if len(data1) != len(data2) {
		t.Fatalf("non-deterministic: len %d vs %d", len(data1), len(data2))
	}
	for i := range data1 {
		if data1[i] != data2[i] {
			t.Fatalf("non-deterministic at byte %d: 0x%02x vs 0x%02x", i, data1[i], data2[i])
		}
	}
}
