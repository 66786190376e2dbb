package framegrpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/types"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// Compile-time interface check.
var _ chain.Node = (*Client)(nil)

// errEmptyResponse is returned when ExecuteBlock gets neither an
// outcome nor a rejection back.
var errEmptyResponse = errors.New("frame client: empty ExecuteBlock response")

// Client implements chain.Node for a remote node over gRPC using
// cramberry serialization. Lifecycle ordering is enforced by the
// remote server.
type Client struct {
	cc *grpc.ClientConn
}

// Dial creates a client for the node at addr. The connection is
// established lazily on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts,
		grpc.WithDefaultCallOptions(grpc.ForceCodec(CramberryCodec{})),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("frame client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.HandshakeResponse{}, err
	}
	resp := new(types.HandshakeResponse)
	if err := c.cc.Invoke(ctx, fullMethod("Handshake"), &req, resp); err != nil {
		return types.HandshakeResponse{}, err
	}
	return *resp, nil
}

// ExecuteBlock applies block remotely. A rejection from the server is
// returned as a *frame.BlockError.
func (c *Client) ExecuteBlock(ctx context.Context, block chain.Block) (types.BlockOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.BlockOutcome{}, err
	}
	resp := new(ExecuteBlockResponse)
	if err := c.cc.Invoke(ctx, fullMethod("ExecuteBlock"), &block, resp); err != nil {
		return types.BlockOutcome{}, err
	}
	switch {
	case resp.Rejection != nil:
		return types.BlockOutcome{}, resp.Rejection.Err()
	case resp.Outcome != nil:
		return *resp.Outcome, nil
	default:
		return types.BlockOutcome{}, errEmptyResponse
	}
}

func (c *Client) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	if err := ctx.Err(); err != nil {
		return types.StateQueryResult{}, err
	}
	resp := new(types.StateQueryResult)
	if err := c.cc.Invoke(ctx, fullMethod("Query"), &req, resp); err != nil {
		return types.StateQueryResult{}, err
	}
	// An empty state is elided on the wire.
	if req.Path == types.QueryState && resp.Code == types.QueryOK && resp.State == nil {
		resp.State = &types.State{BlockNumber: resp.Height}
	}
	return *resp, nil
}
