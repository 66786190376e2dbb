package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/store"
	"github.com/blockberries/frame/types"
)

// Compile-time interface check.
var _ chain.Node = (*Server)(nil)

// Server wraps a runtime with lifecycle enforcement and optional
// persistence. Transports and in-process callers interact with the
// runtime exclusively through this server.
type Server struct {
	guard  *LifecycleGuard
	store  store.Store
	logger *slog.Logger

	// mu guards rt. ExecuteBlock holds it for writing, Query for
	// reading.
	mu sync.RWMutex
	rt *chain.Runtime
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists the state after every applied block and restores
// it on Handshake.
func WithStore(st store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a new Server wrapping rt.
func New(rt *chain.Runtime, opts ...Option) *Server {
	s := &Server{
		rt:     rt,
		guard:  NewLifecycleGuard(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handshake restores persisted state if the store holds any, and
// applies the requested genesis otherwise. It must be called exactly
// once before anything else.
func (s *Server) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	if err := s.guard.AcquireHandshake(); err != nil {
		return types.HandshakeResponse{}, err
	}

	resp, err := s.handshake(ctx, req)
	if err != nil {
		s.guard.FailHandshake()
		return resp, err
	}

	s.guard.CompleteHandshake()
	s.logger.Info("handshake complete",
		slog.Uint64("block", uint64(resp.BlockNumber)),
		slog.Bool("restored", resp.Restored),
	)
	return resp, nil
}

func (s *Server) handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		st, ok, err := s.store.Load(ctx)
		if err != nil {
			return types.HandshakeResponse{}, fmt.Errorf("server: load state: %w", err)
		}
		if ok {
			if err := s.rt.Restore(st); err != nil {
				return types.HandshakeResponse{}, fmt.Errorf("server: restore state: %w", err)
			}
			return types.HandshakeResponse{BlockNumber: st.BlockNumber, Restored: true}, nil
		}
	}

	if req.Genesis != nil {
		if err := s.rt.Genesis(*req.Genesis); err != nil {
			return types.HandshakeResponse{}, err
		}
	}
	if s.store != nil {
		if err := s.store.Save(ctx, s.rt.State()); err != nil {
			return types.HandshakeResponse{}, fmt.Errorf("server: save genesis: %w", err)
		}
	}
	return types.HandshakeResponse{BlockNumber: s.rt.BlockNumber()}, nil
}

// ExecuteBlock applies block and persists the resulting state. Calls
// are serialized; a second caller waits for the first to finish.
//
// A block is only kept if it was persisted: when the store fails the
// runtime is rolled back to the state before the block.
func (s *Server) ExecuteBlock(ctx context.Context, block chain.Block) (types.BlockOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.BlockOutcome{}, err
	}
	if err := s.guard.AcquireExecute(); err != nil {
		return types.BlockOutcome{}, err
	}
	defer s.guard.ReleaseExecute()

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev types.State
	if s.store != nil {
		prev = s.rt.State()
	}

	outcome, err := s.rt.ExecuteBlock(block)
	if err != nil {
		s.logger.Warn("block rejected",
			slog.Uint64("block", uint64(block.Header.BlockNumber)),
			slog.String("error", err.Error()),
		)
		return outcome, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, s.rt.State()); err != nil {
			if rerr := s.rt.Restore(prev); rerr != nil {
				return types.BlockOutcome{}, fmt.Errorf("server: roll back block %d: %w", block.Header.BlockNumber, rerr)
			}
			return types.BlockOutcome{}, fmt.Errorf("server: persist block %d: %w", block.Header.BlockNumber, err)
		}
	}

	s.logger.Debug("block applied",
		slog.Uint64("block", uint64(outcome.BlockNumber)),
		slog.Int("extrinsics", len(outcome.Results)),
		slog.Int("failed", outcome.Failed()),
	)
	return outcome, nil
}

// Query reads the state left by the last applied block. Safe for
// concurrent use.
func (s *Server) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	if err := s.guard.CheckConcurrent(); err != nil {
		return types.StateQueryResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.StateQueryResult{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rt.Query(req), nil
}

// State returns the lifecycle state name, for diagnostics.
func (s *Server) State() string {
	return s.guard.State()
}

// Close releases the store, if any.
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
