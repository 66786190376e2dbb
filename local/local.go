// Package local provides an in-process chain.Node.
//
// For runtimes compiled into the same binary as their driver, this
// adapter applies the node lifecycle and optional persistence with no
// serialization overhead.
package local

import (
	"context"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/server"
	"github.com/blockberries/frame/types"
)

// Compile-time interface check.
var _ chain.Node = (*Connection)(nil)

// Connection wraps a runtime with lifecycle enforcement.
type Connection struct {
	srv *server.Server
}

// NewConnection creates an in-process connection to rt.
func NewConnection(rt *chain.Runtime, opts ...server.Option) *Connection {
	return &Connection{srv: server.New(rt, opts...)}
}

func (c *Connection) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	return c.srv.Handshake(ctx, req)
}

func (c *Connection) ExecuteBlock(ctx context.Context, block chain.Block) (types.BlockOutcome, error) {
	return c.srv.ExecuteBlock(ctx, block)
}

func (c *Connection) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	return c.srv.Query(ctx, req)
}

func (c *Connection) Close() error {
	return c.srv.Close()
}

// Server returns the underlying server for advanced use cases.
func (c *Connection) Server() *server.Server {
	return c.srv
}
