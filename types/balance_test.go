package types_test

import (
	"testing"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// satisfiesBalance fails to compile if B is not a ledger amount.
func satisfiesBalance[B frame.Balance[B]]() {}

func TestBalance_SatisfiesBound(t *testing.T) {
	satisfiesBalance[types.Balance]()
}

func TestBalance_ZeroValue(t *testing.T) {
	var b types.Balance
	assert.True(t, b.IsZero())
	assert.Equal(t, "0", b.String())
	assert.Equal(t, types.NewBalance(0), b)
}

func TestBalance_CheckedArithmetic(t *testing.T) {
	a := types.NewBalance(100)

	sum, ok := a.CheckedAdd(types.NewBalance(23))
	require.True(t, ok)
	assert.Equal(t, "123", sum.String())

	diff, ok := a.CheckedSub(types.NewBalance(30))
	require.True(t, ok)
	assert.Equal(t, types.NewBalance(70), diff)

	_, ok = a.CheckedSub(types.NewBalance(101))
	assert.False(t, ok, "underflow must be reported")
}

func TestBalance_Overflow(t *testing.T) {
	max := types.MaxBalance()
	got, ok := max.CheckedAdd(types.NewBalance(1))
	assert.False(t, ok)
	assert.Equal(t, max, got, "failed add must return the receiver")

	_, ok = max.CheckedAdd(types.Balance{})
	assert.True(t, ok)
}

func TestBalance_BeyondUint64(t *testing.T) {
	b, err := types.ParseBalance("340282366920938463463374607431768211455") // 2^128-1
	require.NoError(t, err)

	next, ok := b.CheckedAdd(types.NewBalance(1))
	require.True(t, ok)
	assert.Equal(t, "340282366920938463463374607431768211456", next.String())
	assert.Equal(t, 1, next.Cmp(b))
	assert.Equal(t, -1, b.Cmp(next))
	assert.Equal(t, 0, b.Cmp(b))
}

func TestParseBalance_Invalid(t *testing.T) {
	for _, s := range []string{"", "-1", "12abc", "0x10"} {
		_, err := types.ParseBalance(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestState_Account(t *testing.T) {
	s := types.State{
		BlockNumber: 3,
		Accounts: []types.AccountState{
			{ID: "alice", Balance: types.NewBalance(50), Nonce: 2},
		},
	}
	assert.Equal(t, types.Nonce(2), s.Account("alice").Nonce)

	missing := s.Account("bob")
	assert.Equal(t, types.AccountID("bob"), missing.ID)
	assert.True(t, missing.Balance.IsZero())
}

func TestBlockOutcome_Failed(t *testing.T) {
	o := types.BlockOutcome{Results: []types.ExtrinsicResult{
		{Index: 0},
		{Index: 1, Code: types.CodeInsufficientFunds, Info: "insufficient funds"},
		{Index: 2},
	}}
	assert.Equal(t, 1, o.Failed())
	assert.False(t, o.Results[1].OK())
}
