// Package server wraps a runtime with the node lifecycle: a single
// handshake, then blocks applied one at a time while queries read
// concurrently.
package server

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNotReady is returned by calls made before Handshake completed.
var ErrNotReady = errors.New("server: handshake not completed")

// lifecycleState represents a state in the node lifecycle.
type lifecycleState uint32

const (
	// stateInit: Waiting for Handshake. No other calls allowed.
	stateInit lifecycleState = iota
	// stateHandshaking: Handshake is restoring or seeding state.
	stateHandshaking
	// stateReady: Handshake complete. Queries may run at any time;
	// ExecuteBlock may start.
	stateReady
	// stateExecuting: A block is being applied and persisted. Other
	// ExecuteBlock calls wait on the sequential mutex.
	stateExecuting
)

func (s lifecycleState) String() string {
	switch s {
	case stateInit:
		return "Init"
	case stateHandshaking:
		return "Handshaking"
	case stateReady:
		return "Ready"
	case stateExecuting:
		return "Executing"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// LifecycleError reports a call made in a state that does not allow
// it.
type LifecycleError struct {
	Call  string
	State string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("server: %s called in state %s", e.Call, e.State)
}

// IsLifecycleError checks if an error is (or wraps) a LifecycleError.
func IsLifecycleError(err error) (*LifecycleError, bool) {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// LifecycleGuard enforces the lifecycle state machine. Misordered
// calls get a *LifecycleError back instead of a panic, since they may
// come from a remote peer.
type LifecycleGuard struct {
	state atomic.Uint32
	// Mutex for sequential calls (ExecuteBlock).
	seqMu sync.Mutex
	// Tracks whether Handshake has completed (for concurrent
	// call gating).
	handshakeDone atomic.Bool
}

// NewLifecycleGuard creates a guard in the Init state.
func NewLifecycleGuard() *LifecycleGuard {
	g := &LifecycleGuard{}
	g.state.Store(uint32(stateInit))
	return g
}

// State returns the current lifecycle state.
func (g *LifecycleGuard) State() string {
	return lifecycleState(g.state.Load()).String()
}

// AcquireHandshake transitions Init → Handshaking.
func (g *LifecycleGuard) AcquireHandshake() error {
	if !g.state.CompareAndSwap(uint32(stateInit), uint32(stateHandshaking)) {
		return &LifecycleError{Call: "Handshake", State: g.State()}
	}
	return nil
}

// CompleteHandshake transitions Handshaking → Ready and enables
// concurrent calls.
func (g *LifecycleGuard) CompleteHandshake() {
	g.handshakeDone.Store(true)
	g.state.Store(uint32(stateReady))
}

// FailHandshake rolls back state to Init if handshake fails.
func (g *LifecycleGuard) FailHandshake() {
	g.state.Store(uint32(stateInit))
}

// AcquireExecute transitions Ready → Executing.
// Blocks while another block is being applied.
func (g *LifecycleGuard) AcquireExecute() error {
	g.seqMu.Lock()
	if state := lifecycleState(g.state.Load()); state != stateReady {
		g.seqMu.Unlock()
		return &LifecycleError{Call: "ExecuteBlock", State: state.String()}
	}
	g.state.Store(uint32(stateExecuting))
	return nil
}

// ReleaseExecute transitions Executing → Ready. It is called whether
// or not the block was accepted.
func (g *LifecycleGuard) ReleaseExecute() {
	g.state.Store(uint32(stateReady))
	g.seqMu.Unlock()
}

// CheckConcurrent verifies that concurrent calls are allowed
// (any state after Handshake).
func (g *LifecycleGuard) CheckConcurrent() error {
	if !g.handshakeDone.Load() {
		return ErrNotReady
	}
	return nil
}

// IsReady returns true if the guard is in the Ready state.
func (g *LifecycleGuard) IsReady() bool {
	return lifecycleState(g.state.Load()) == stateReady
}
