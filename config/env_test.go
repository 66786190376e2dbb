package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/blockberries/frame/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadNodeDefaults(t *testing.T) {
	for _, key := range []string{"FRAME_LISTEN_ADDR", "FRAME_DB_PATH", "FRAME_LOG_LEVEL", "FRAME_GENESIS"} {
		unsetenv(t, key)
	}

	cfg, err := LoadNode()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)

	g, err := cfg.GenesisDoc()
	require.NoError(t, err)
	assert.Empty(t, g.Balances)
}

func TestLoadNodeFromEnv(t *testing.T) {
	t.Setenv("FRAME_LISTEN_ADDR", ":7000")
	t.Setenv("FRAME_DB_PATH", "/var/lib/frame/state.db")
	t.Setenv("FRAME_LOG_LEVEL", "debug")
	t.Setenv("FRAME_GENESIS", "bob=5,alice=100")

	cfg, err := LoadNode()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/frame/state.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	g, err := cfg.GenesisDoc()
	require.NoError(t, err)
	assert.Equal(t, []types.GenesisBalance{
		{Account: "alice", Amount: types.NewBalance(100)},
		{Account: "bob", Amount: types.NewBalance(5)},
	}, g.Balances)
}

func TestLoadNodeInvalidLevel(t *testing.T) {
	unsetenv(t, "FRAME_GENESIS")
	t.Setenv("FRAME_LOG_LEVEL", "loud")

	_, err := LoadNode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestGenesisDocInvalidAmount(t *testing.T) {
	cfg := Node{Genesis: map[string]string{"alice": "lots"}}
	_, err := cfg.GenesisDoc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account alice")
}

func TestGenesisDocEmptyAccount(t *testing.T) {
	cfg := Node{Genesis: map[string]string{" ": "1"}}
	_, err := cfg.GenesisDoc()
	assert.Error(t, err)
}
