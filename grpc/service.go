package framegrpc

import (
	"context"
	"fmt"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/types"

	"google.golang.org/grpc"
)

const serviceName = "frame.v1.RuntimeService"

// RuntimeServiceServer is the server-side interface for the runtime
// gRPC service.
type RuntimeServiceServer interface {
	Handshake(context.Context, *types.HandshakeRequest) (*types.HandshakeResponse, error)
	ExecuteBlock(context.Context, *chain.Block) (*ExecuteBlockResponse, error)
	Query(context.Context, *types.StateQuery) (*types.StateQueryResult, error)
}

// RegisterRuntimeServiceServer registers the RuntimeServiceServer on a
// gRPC server.
func RegisterRuntimeServiceServer(s grpc.ServiceRegistrar, srv RuntimeServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerHandshake(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.HandshakeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuntimeServiceServer).Handshake(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Handshake")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RuntimeServiceServer).Handshake(ctx, req.(*types.HandshakeRequest))
	})
}

func handlerExecuteBlock(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(chain.Block)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuntimeServiceServer).ExecuteBlock(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ExecuteBlock")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RuntimeServiceServer).ExecuteBlock(ctx, req.(*chain.Block))
	})
}

func handlerQuery(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.StateQuery)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuntimeServiceServer).Query(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Query")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RuntimeServiceServer).Query(ctx, req.(*types.StateQuery))
	})
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for the runtime.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RuntimeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Handshake", Handler: handlerHandshake},
		{MethodName: "ExecuteBlock", Handler: handlerExecuteBlock},
		{MethodName: "Query", Handler: handlerQuery},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "frame/v1/service.cram",
}
