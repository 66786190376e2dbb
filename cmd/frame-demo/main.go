// Command frame-demo runs the transfer example against an in-process
// node and prints the outcomes and final state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/example/transfer"
	"github.com/blockberries/frame/local"
)

func main() {
	// Failed extrinsics are logged to stderr; the tables go to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	node := local.NewConnection(chain.New(chain.WithLogger(logger)))
	defer node.Close()

	outcomes, st, err := transfer.Run(context.Background(), node)
	if err != nil {
		logger.Error("run example", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := transfer.Print(os.Stdout, outcomes, st); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
