package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-table/internal/bot"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/session"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
	Bots   []BotConfig     `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings describes the single table the server hosts
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	HumanName     string `hcl:"human_name,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"` // Go duration, "0" waits forever
	SplitPolicy   string `hcl:"split_policy,optional"`   // "floor" or "dealer-left"
	BotDelay      string `hcl:"bot_delay,optional"`
	ActionDelay   string `hcl:"action_delay,optional"`
	Intermission  int    `hcl:"intermission_seconds,optional"`
}

// BotConfig defines one automated opponent
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Chips    int    `hcl:"chips,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *ServerConfig) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5001
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = 10
	}
	if t.BigBlind == 0 {
		t.BigBlind = 20
	}
	if t.StartingChips == 0 {
		t.StartingChips = 1000
	}
	if t.HumanName == "" {
		t.HumanName = "You"
	}
	if t.ActionTimeout == "" {
		t.ActionTimeout = "60s"
	}
	if t.SplitPolicy == "" {
		t.SplitPolicy = game.SplitFloor.String()
	}
	if t.BotDelay == "" {
		t.BotDelay = "1.5s"
	}
	if t.ActionDelay == "" {
		t.ActionDelay = "1s"
	}
	if t.Intermission == 0 {
		t.Intermission = 5
	}

	if len(c.Bots) == 0 {
		c.Bots = []BotConfig{{Name: "Bot Alice"}, {Name: "Bot Bob"}, {Name: "Bot Charlie"}}
	}
	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = bot.StrategyHeuristic
		}
		if c.Bots[i].Chips == 0 {
			c.Bots[i].Chips = t.StartingChips
		}
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultServerConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseServerConfig(src, filename)
}

// ParseServerConfig decodes HCL source and applies defaults
func ParseServerConfig(src []byte, filename string) (*ServerConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// Validate checks the configuration for errors
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	t := c.Table
	if t.SmallBlind <= 0 || t.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive: %d/%d", t.SmallBlind, t.BigBlind)
	}
	if t.SmallBlind > t.BigBlind {
		return fmt.Errorf("small blind %d exceeds big blind %d", t.SmallBlind, t.BigBlind)
	}
	if t.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive: %d", t.StartingChips)
	}
	if t.Intermission < 0 {
		return fmt.Errorf("intermission_seconds must not be negative: %d", t.Intermission)
	}
	if _, err := game.ParseSplitPolicy(t.SplitPolicy); err != nil {
		return err
	}
	for name, value := range map[string]string{
		"action_timeout": t.ActionTimeout,
		"bot_delay":      t.BotDelay,
		"action_delay":   t.ActionDelay,
	} {
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("invalid %s: %q", name, value)
		}
	}

	if len(c.Bots) < 1 || len(c.Bots) > 3 {
		return fmt.Errorf("need 1 to 3 bots, got %d", len(c.Bots))
	}
	names := map[string]bool{t.HumanName: true}
	for _, b := range c.Bots {
		if names[b.Name] {
			return fmt.Errorf("duplicate player name: %s", b.Name)
		}
		names[b.Name] = true
		if !bot.Valid(b.Strategy) {
			return fmt.Errorf("bot %s: unknown strategy %q (valid: %v)", b.Name, b.Strategy, bot.Strategies())
		}
		if b.Chips <= 0 {
			return fmt.Errorf("bot %s: chips must be positive", b.Name)
		}
	}
	return nil
}

// Addr returns the host:port the server listens on
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// SessionConfig converts the table settings for the session manager. The
// config must be valid.
func (c *ServerConfig) SessionConfig(seed int64) (session.Config, error) {
	t := c.Table

	split, err := game.ParseSplitPolicy(t.SplitPolicy)
	if err != nil {
		return session.Config{}, err
	}
	timeout, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return session.Config{}, fmt.Errorf("action_timeout: %w", err)
	}
	botDelay, err := time.ParseDuration(t.BotDelay)
	if err != nil {
		return session.Config{}, fmt.Errorf("bot_delay: %w", err)
	}
	actionDelay, err := time.ParseDuration(t.ActionDelay)
	if err != nil {
		return session.Config{}, fmt.Errorf("action_delay: %w", err)
	}

	pacing := game.DefaultPacing()
	pacing.BotDelay = botDelay
	pacing.ActionDelay = actionDelay
	pacing.IntermissionTicks = t.Intermission

	cfg := session.Config{
		HumanName:     t.HumanName,
		HumanChips:    t.StartingChips,
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		Seed:          seed,
		ActionTimeout: timeout,
		SplitPolicy:   split,
		Pacing:        pacing,
	}
	for _, b := range c.Bots {
		cfg.Bots = append(cfg.Bots, session.BotSeat{Name: b.Name, Strategy: b.Strategy, Chips: b.Chips})
	}
	return cfg, nil
}
