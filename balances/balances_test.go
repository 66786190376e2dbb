package balances

import (
	"math"
	"testing"

	"github.com/blockberries/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// amount is a narrow balance type so overflow is easy to reach.
type amount uint8

func (a amount) CheckedAdd(b amount) (amount, bool) {
	s := a + b
	return s, s >= a
}

func (a amount) CheckedSub(b amount) (amount, bool) {
	if b > a {
		return a, false
	}
	return a - b, true
}

var _ frame.Dispatch[string, Call[string, amount]] = (*Pallet[string, amount])(nil)

func newTestPallet() *Pallet[string, amount] {
	return New[string, amount]()
}

func TestInitBalances(t *testing.T) {
	p := newTestPallet()
	assert.Equal(t, amount(0), p.Balance("alice"))

	p.SetBalance("alice", 100)
	assert.Equal(t, amount(100), p.Balance("alice"))
	assert.Equal(t, amount(0), p.Balance("bob"))
}

func TestTransferBalance(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 0)
	p.SetBalance("bob", 0)
	assert.ErrorIs(t, p.Transfer("alice", "bob", 10), ErrInsufficientFunds)

	p.SetBalance("alice", 10)
	require.NoError(t, p.Transfer("alice", "bob", 10))
	assert.Equal(t, amount(10), p.Balance("bob"))
	assert.Equal(t, amount(0), p.Balance("alice"))
}

func TestTransferConservesTotal(t *testing.T) {
	cases := []struct {
		name     string
		from, to amount
		value    amount
		wantFrom amount
		wantTo   amount
	}{
		{"partial", 100, 0, 30, 70, 30},
		{"all", 50, 5, 50, 0, 55},
		{"zero", 7, 3, 0, 7, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPallet()
			p.SetBalance("a", tc.from)
			p.SetBalance("b", tc.to)
			before, ok := p.Total()
			require.True(t, ok)

			require.NoError(t, p.Transfer("a", "b", tc.value))

			assert.Equal(t, tc.wantFrom, p.Balance("a"))
			assert.Equal(t, tc.wantTo, p.Balance("b"))
			after, ok := p.Total()
			require.True(t, ok)
			assert.Equal(t, before, after)
		})
	}
}

func TestSelfTransferIsNoop(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 40)

	require.NoError(t, p.Transfer("alice", "alice", 25))
	assert.Equal(t, amount(40), p.Balance("alice"))

	// Near the top of the range the credit side would overflow if it
	// were applied separately.
	p.SetBalance("alice", math.MaxUint8)
	require.NoError(t, p.Transfer("alice", "alice", 10))
	assert.Equal(t, amount(math.MaxUint8), p.Balance("alice"))
}

func TestSelfTransferInsufficientFunds(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 5)

	assert.ErrorIs(t, p.Transfer("alice", "alice", 6), ErrInsufficientFunds)
	assert.Equal(t, amount(5), p.Balance("alice"))
}

func TestInsufficientFundsLeavesState(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 9)
	p.SetBalance("bob", 1)

	assert.ErrorIs(t, p.Transfer("alice", "bob", 10), ErrInsufficientFunds)
	assert.Equal(t, amount(9), p.Balance("alice"))
	assert.Equal(t, amount(1), p.Balance("bob"))
}

func TestOverflowLeavesState(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 20)
	p.SetBalance("bob", math.MaxUint8-5)

	assert.ErrorIs(t, p.Transfer("alice", "bob", 10), ErrOverflow)
	assert.Equal(t, amount(20), p.Balance("alice"))
	assert.Equal(t, amount(math.MaxUint8-5), p.Balance("bob"))
}

func TestFailedTransferDoesNotMaterializeAccounts(t *testing.T) {
	p := newTestPallet()
	assert.ErrorIs(t, p.Transfer("ghost", "bob", 1), ErrInsufficientFunds)

	count := 0
	for range p.Accounts() {
		count++
	}
	assert.Zero(t, count)
}

func TestAccountsSorted(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("charlie", 3)
	p.SetBalance("alice", 1)
	p.SetBalance("bob", 2)

	var got []string
	for who, v := range p.Accounts() {
		got = append(got, who)
		assert.NotZero(t, v)
	}
	assert.Equal(t, []string{"alice", "bob", "charlie"}, got)
}

func TestTotalOverflow(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("a", 200)
	p.SetBalance("b", 100)

	_, ok := p.Total()
	assert.False(t, ok)
}

func TestDispatchTransfer(t *testing.T) {
	p := newTestPallet()
	p.SetBalance("alice", 100)

	call := Call[string, amount]{Transfer: &Transfer[string, amount]{To: "bob", Amount: 30}}
	require.NoError(t, call.Validate())
	require.NoError(t, p.Dispatch("alice", call))
	assert.Equal(t, amount(70), p.Balance("alice"))
	assert.Equal(t, amount(30), p.Balance("bob"))

	big := Call[string, amount]{Transfer: &Transfer[string, amount]{To: "bob", Amount: 71}}
	assert.ErrorIs(t, p.Dispatch("alice", big), ErrInsufficientFunds)
}

func TestDispatchEmptyCall(t *testing.T) {
	p := newTestPallet()
	assert.ErrorIs(t, p.Dispatch("alice", Call[string, amount]{}), ErrMalformedCall)
	assert.ErrorIs(t, Call[string, amount]{}.Validate(), ErrMalformedCall)
}
