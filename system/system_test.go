package system

import (
	"math"
	"testing"

	"github.com/blockberries/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ frame.Dispatch[string, Call] = (*Pallet[string, uint32, uint32])(nil)

func newTestPallet() *Pallet[string, uint32, uint32] {
	return New[string, uint32, uint32]()
}

func TestInitSystem(t *testing.T) {
	p := newTestPallet()
	assert.Equal(t, uint32(0), p.BlockNumber())

	require.NoError(t, p.IncBlockNumber())
	assert.Equal(t, uint32(1), p.BlockNumber())

	require.NoError(t, p.IncNonce("alice"))
	assert.Equal(t, uint32(1), p.Nonce("alice"))
}

func TestUnknownAccountNonceIsZero(t *testing.T) {
	p := newTestPallet()
	for _, who := range []string{"", "alice", "nobody"} {
		assert.Equal(t, uint32(0), p.Nonce(who), "account %q", who)
	}
	// Reading does not materialize the account.
	count := 0
	for range p.Nonces() {
		count++
	}
	assert.Zero(t, count)
}

func TestNextBlockNumberDoesNotMutate(t *testing.T) {
	p := newTestPallet()
	next, err := p.NextBlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), next)
	assert.Equal(t, uint32(0), p.BlockNumber())
}

func TestBlockNumberOverflow(t *testing.T) {
	p := New[string, uint8, uint32]()
	p.SetBlockNumber(math.MaxUint8)

	_, err := p.NextBlockNumber()
	assert.ErrorIs(t, err, ErrBlockNumberOverflow)
	assert.ErrorIs(t, p.IncBlockNumber(), ErrBlockNumberOverflow)
	assert.Equal(t, uint8(math.MaxUint8), p.BlockNumber(), "counter must not wrap")
}

func TestNonceIncrementsPerAccount(t *testing.T) {
	p := newTestPallet()
	for range 3 {
		require.NoError(t, p.IncNonce("alice"))
	}
	require.NoError(t, p.IncNonce("bob"))

	assert.Equal(t, uint32(3), p.Nonce("alice"))
	assert.Equal(t, uint32(1), p.Nonce("bob"))
}

func TestNonceOverflow(t *testing.T) {
	p := New[string, uint32, uint8]()
	p.SetNonce("alice", math.MaxUint8)

	assert.ErrorIs(t, p.IncNonce("alice"), ErrNonceOverflow)
	assert.Equal(t, uint8(math.MaxUint8), p.Nonce("alice"))
}

func TestNoncesSorted(t *testing.T) {
	p := newTestPallet()
	for _, who := range []string{"charlie", "alice", "bob"} {
		require.NoError(t, p.IncNonce(who))
	}

	var order []string
	for who := range p.Nonces() {
		order = append(order, who)
	}
	assert.Equal(t, []string{"alice", "bob", "charlie"}, order)
}

func TestDispatchRemark(t *testing.T) {
	p := newTestPallet()
	err := p.Dispatch("alice", Call{Remark: &Remark{Data: []byte("hello")}})
	require.NoError(t, err)

	// A remark touches nothing the pallet owns.
	assert.Equal(t, uint32(0), p.Nonce("alice"))
	assert.Equal(t, uint32(0), p.BlockNumber())
}

func TestDispatchEmptyCall(t *testing.T) {
	p := newTestPallet()
	assert.ErrorIs(t, p.Dispatch("alice", Call{}), ErrMalformedCall)
	assert.ErrorIs(t, Call{}.Validate(), ErrMalformedCall)
	assert.NoError(t, Call{Remark: &Remark{}}.Validate())
}
