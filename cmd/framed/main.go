// Command framed serves a frame runtime over gRPC.
//
// Configuration comes from the environment; see package config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/config"
	framegrpc "github.com/blockberries/frame/grpc"
	"github.com/blockberries/frame/server"
	"github.com/blockberries/frame/store"
	"github.com/blockberries/frame/store/sqlite"
	"github.com/blockberries/frame/types"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfg, err := config.LoadNode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "framed: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("framed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Node, logger *slog.Logger) error {
	genesis, err := cfg.GenesisDoc()
	if err != nil {
		return err
	}

	st, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	srv := server.New(
		chain.New(chain.WithLogger(logger)),
		server.WithStore(st),
		server.WithLogger(logger),
	)
	defer srv.Close()

	// The node handshakes itself so it can answer queries as soon as
	// it listens.
	resp, err := srv.Handshake(ctx, types.HandshakeRequest{Genesis: &genesis})
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}

	gs := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	framegrpc.NewGRPCServer(srv).Register(gs)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	logger.Info("framed listening",
		slog.String("addr", lis.Addr().String()),
		slog.Uint64("block", uint64(resp.BlockNumber)),
		slog.Bool("persistent", cfg.DBPath != ""),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- gs.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		healthServer.Shutdown()
		gs.GracefulStop()
		err = <-serveErr
	case err = <-serveErr:
	}
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		return store.NewMemory(), nil
	}
	st, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
