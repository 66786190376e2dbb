// Package config loads node configuration from the environment.
package config

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/blockberries/frame/types"
	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Node configures a frame node.
type Node struct {
	// ListenAddr is the gRPC listen address.
	ListenAddr string `env:"FRAME_LISTEN_ADDR" envDefault:"127.0.0.1:9090"`
	// DBPath is the SQLite database file. Empty keeps state in memory.
	DBPath   string     `env:"FRAME_DB_PATH"`
	LogLevel slog.Level `env:"FRAME_LOG_LEVEL" envDefault:"INFO"`
	// Genesis seeds balances on first start, as account=amount pairs
	// separated by commas.
	Genesis map[string]string `env:"FRAME_GENESIS" envKeyValSeparator:"="`
}

// LoadNode reads the node configuration from the environment.
func LoadNode() (Node, error) {
	var cfg Node
	if err := ParseEnv(&cfg); err != nil {
		return Node{}, err
	}
	return cfg, nil
}

// GenesisDoc converts the configured genesis balances into a genesis
// document sorted by account.
func (n Node) GenesisDoc() (types.Genesis, error) {
	accounts := slices.SortedFunc(maps.Keys(n.Genesis), cmp.Compare[string])
	g := types.Genesis{Balances: make([]types.GenesisBalance, 0, len(accounts))}
	for _, account := range accounts {
		id := strings.TrimSpace(account)
		if id == "" {
			return types.Genesis{}, fmt.Errorf("genesis: empty account name")
		}
		amount, err := types.ParseBalance(strings.TrimSpace(n.Genesis[account]))
		if err != nil {
			return types.Genesis{}, fmt.Errorf("genesis: account %s: %w", id, err)
		}
		g.Balances = append(g.Balances, types.GenesisBalance{
			Account: types.AccountID(id),
			Amount:  amount,
		})
	}
	return g, nil
}
