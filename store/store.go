// Package store persists the state committed after each block.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/blockberries/frame/types"
)

// Store loads and saves the full committed state. Save replaces
// whatever was stored before.
type Store interface {
	// Load returns the stored state. ok is false if nothing has been
	// saved yet.
	Load(ctx context.Context) (state types.State, ok bool, err error)
	Save(ctx context.Context, state types.State) error
	Close() error
}

// Compile-time interface check.
var _ Store = (*Memory)(nil)

// Memory is a Store that keeps state in process memory. It is safe
// for concurrent use.
type Memory struct {
	mu    sync.Mutex
	state *types.State
	saves int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (types.State, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.State{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return types.State{}, false, nil
	}
	return clone(*m.state), true, nil
}

func (m *Memory) Save(ctx context.Context, state types.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := clone(state)
	m.mu.Lock()
	m.state = &s
	m.saves++
	m.mu.Unlock()
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }

func clone(s types.State) types.State {
	s.Accounts = slices.Clone(s.Accounts)
	return s
}
