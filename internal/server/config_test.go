package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-table/internal/game"
)

func TestDefaultServerConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultServerConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:5001", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Table.SmallBlind)
	assert.Equal(t, 20, cfg.Table.BigBlind)
	assert.Equal(t, "You", cfg.Table.HumanName)
	require.Len(t, cfg.Bots, 3)
	for _, b := range cfg.Bots {
		assert.Equal(t, "heuristic", b.Strategy)
		assert.Equal(t, 1000, b.Chips)
	}
}

func TestParseServerConfig(t *testing.T) {
	t.Parallel()

	src := `
server {
  port      = 8080
  log_level = "debug"
}

table {
  small_blind    = 25
  big_blind      = 50
  starting_chips = 2000
  human_name     = "Hero"
  action_timeout = "0"
  split_policy   = "dealer-left"
  bot_delay      = "0s"
  action_delay   = "250ms"
}

bot "Caller" {
  strategy = "call"
}

bot "Shark" {
  chips = 5000
}
`
	cfg, err := ParseServerConfig([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, BotConfig{Name: "Caller", Strategy: "call", Chips: 2000}, cfg.Bots[0])
	assert.Equal(t, BotConfig{Name: "Shark", Strategy: "heuristic", Chips: 5000}, cfg.Bots[1])

	sc, err := cfg.SessionConfig(42)
	require.NoError(t, err)
	assert.Equal(t, "Hero", sc.HumanName)
	assert.Equal(t, 2000, sc.HumanChips)
	assert.Equal(t, 25, sc.SmallBlind)
	assert.Equal(t, 50, sc.BigBlind)
	assert.Equal(t, int64(42), sc.Seed)
	assert.Zero(t, sc.ActionTimeout)
	assert.Equal(t, game.SplitRemainderToDealerLeft, sc.SplitPolicy)
	assert.Zero(t, sc.Pacing.BotDelay)
	assert.Equal(t, 250*time.Millisecond, sc.Pacing.ActionDelay)
	assert.Equal(t, 5, sc.Pacing.IntermissionTicks)
	require.Len(t, sc.Bots, 2)
	assert.Equal(t, "Shark", sc.Bots[1].Name)
}

func TestParseServerConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseServerConfig([]byte(`server {`), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")

	_, err = ParseServerConfig([]byte(`unknown = 1`), "extra.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL")
}

func TestLoadServerConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file uses defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		require.NoError(t, err)
		assert.Equal(t, DefaultServerConfig(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "server.hcl")
		require.NoError(t, os.WriteFile(path, []byte("server {\n  port = 9000\n}\n"), 0o600))

		cfg, err := LoadServerConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 20, cfg.Table.BigBlind)
	})
}

func TestServerConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*ServerConfig)
		errMsg string
	}{
		{"bad port", func(c *ServerConfig) { c.Server.Port = 70000 }, "invalid port"},
		{"bad log level", func(c *ServerConfig) { c.Server.LogLevel = "loud" }, "invalid log level"},
		{"negative blind", func(c *ServerConfig) { c.Table.SmallBlind = -1 }, "blinds must be positive"},
		{"inverted blinds", func(c *ServerConfig) { c.Table.SmallBlind = 40 }, "exceeds big blind"},
		{"no chips", func(c *ServerConfig) { c.Table.StartingChips = -5 }, "starting chips"},
		{"split policy", func(c *ServerConfig) { c.Table.SplitPolicy = "random" }, "unknown split policy"},
		{"timeout", func(c *ServerConfig) { c.Table.ActionTimeout = "soon" }, "invalid action_timeout"},
		{"negative delay", func(c *ServerConfig) { c.Table.BotDelay = "-1s" }, "invalid bot_delay"},
		{"too many bots", func(c *ServerConfig) {
			c.Bots = append(c.Bots, BotConfig{Name: "Bot Dave", Strategy: "call", Chips: 100})
		}, "need 1 to 3 bots"},
		{"no bots", func(c *ServerConfig) { c.Bots = nil }, "need 1 to 3 bots"},
		{"duplicate name", func(c *ServerConfig) { c.Bots[1].Name = "Bot Alice" }, "duplicate player name"},
		{"bot named like human", func(c *ServerConfig) { c.Bots[0].Name = "You" }, "duplicate player name"},
		{"strategy", func(c *ServerConfig) { c.Bots[0].Strategy = "gto" }, "unknown strategy"},
		{"bot chips", func(c *ServerConfig) { c.Bots[2].Chips = -1 }, "chips must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultServerConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExampleConfigMatchesDefaultTable(t *testing.T) {
	t.Parallel()

	cfg, err := LoadServerConfig(filepath.Join("..", "..", "holdem-server.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	def := DefaultServerConfig()
	assert.Equal(t, def.Table, cfg.Table)
	require.Len(t, cfg.Bots, 3)
	for i, b := range cfg.Bots {
		assert.Equal(t, def.Bots[i], b)
	}
}
