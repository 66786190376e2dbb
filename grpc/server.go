package framegrpc

import (
	"context"
	"errors"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/server"
	"github.com/blockberries/frame/types"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Compile-time interface check.
var _ RuntimeServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a server.Server over gRPC. No type conversion is
// needed beyond block rejections: domain types are serialized directly
// via cramberry.
type GRPCServer struct {
	srv *server.Server
}

// NewGRPCServer creates a gRPC service backed by srv.
func NewGRPCServer(srv *server.Server) *GRPCServer {
	return &GRPCServer{srv: srv}
}

// Register adds the runtime service to a gRPC server.
func (s *GRPCServer) Register(gs grpc.ServiceRegistrar) {
	RegisterRuntimeServiceServer(gs, s)
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

func (s *GRPCServer) Handshake(ctx context.Context, req *types.HandshakeRequest) (*types.HandshakeResponse, error) {
	resp, err := s.srv.Handshake(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (s *GRPCServer) ExecuteBlock(ctx context.Context, block *chain.Block) (*ExecuteBlockResponse, error) {
	outcome, err := s.srv.ExecuteBlock(ctx, *block)
	if blockErr, ok := frame.IsBlockError(err); ok {
		return &ExecuteBlockResponse{Rejection: rejectionFromError(blockErr)}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return &ExecuteBlockResponse{Outcome: &outcome}, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *types.StateQuery) (*types.StateQueryResult, error) {
	result, err := s.srv.Query(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &result, nil
}

// toStatus maps server errors onto gRPC status codes.
func toStatus(err error) error {
	if _, ok := server.IsLifecycleError(err); ok {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	switch {
	case errors.Is(err, server.ErrNotReady), errors.Is(err, chain.ErrGenesisAfterStart):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
