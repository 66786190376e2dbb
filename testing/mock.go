// Package frametest provides test utilities for runtime and node
// development: a configurable mock store, a recording reporter, a
// test harness and a compliance suite for chain.Node implementations.
package frametest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/store"
	"github.com/blockberries/frame/types"
)

// Compile-time interface checks.
var (
	_ store.Store    = (*MockStore)(nil)
	_ chain.Reporter = (*RecordingReporter)(nil)
)

// MockStore is a configurable mock store for server testing.
// All methods are configurable via function fields. Unconfigured
// methods keep state in memory.
type MockStore struct {
	mu    sync.Mutex
	state *types.State

	// Configurable handlers. If nil, defaults are used.
	LoadFn  func(context.Context) (types.State, bool, error)
	SaveFn  func(context.Context, types.State) error
	CloseFn func() error

	// Call counters (atomic for concurrent access).
	LoadCalls  atomic.Int64
	SaveCalls  atomic.Int64
	CloseCalls atomic.Int64
}

func (m *MockStore) Load(ctx context.Context) (types.State, bool, error) {
	m.LoadCalls.Add(1)
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return types.State{}, false, nil
	}
	return *m.state, true, nil
}

func (m *MockStore) Save(ctx context.Context, state types.State) error {
	m.SaveCalls.Add(1)
	if m.SaveFn != nil {
		return m.SaveFn(ctx, state)
	}
	m.mu.Lock()
	m.state = &state
	m.mu.Unlock()
	return nil
}

func (m *MockStore) Close() error {
	m.CloseCalls.Add(1)
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// Saved returns the last state written by the default Save handler.
func (m *MockStore) Saved() (types.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return types.State{}, false
	}
	return *m.state, true
}

// Failure is one reported extrinsic failure.
type Failure struct {
	Caller types.AccountID
	Err    *frame.ExtrinsicError
}

// RecordingReporter collects extrinsic failures in order. It is safe
// for concurrent use.
type RecordingReporter struct {
	mu       sync.Mutex
	failures []Failure
}

func (r *RecordingReporter) ExtrinsicFailed(caller types.AccountID, err *frame.ExtrinsicError) {
	r.mu.Lock()
	r.failures = append(r.failures, Failure{Caller: caller, Err: err})
	r.mu.Unlock()
}

// Failures returns a copy of the recorded failures.
func (r *RecordingReporter) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

// Len returns the number of recorded failures.
func (r *RecordingReporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}
