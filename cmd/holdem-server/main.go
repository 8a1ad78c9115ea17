package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/internal/server"
	"github.com/lox/holdem-table/internal/session"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to, host:port (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Debug    bool   `short:"d" help:"Shorthand for --log-level=debug"`
	Seed     *int64 `long:"seed" help:"Random seed for reproducible games"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("holdem-server"),
		kong.Description("Texas Hold'em table: one human against bots over websockets"))

	// Load configuration
	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		host, port, err := net.SplitHostPort(CLI.Addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid address %q: %v\n", CLI.Addr, err)
			ctx.Exit(1)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid port %q\n", port)
			ctx.Exit(1)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Debug {
		cfg.Server.LogLevel = "debug"
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := newLogger(os.Stderr, cfg.Server.LogLevel)

	seed := randutil.Seed(CLI.Seed)
	sessionCfg, err := cfg.SessionConfig(seed)
	if err != nil {
		logger.Error("Invalid table settings", "error", err)
		ctx.Exit(1)
	}

	logger.Info("Starting Holdem Server",
		"addr", cfg.Addr(),
		"stakes", fmt.Sprintf("%d/%d", sessionCfg.SmallBlind, sessionCfg.BigBlind),
		"bots", len(sessionCfg.Bots),
		"seed", seed)

	manager := session.NewManager(sessionCfg, logger)
	wsServer := server.NewServer(manager, logger)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return wsServer.Start(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := wsServer.Shutdown(shutdownCtx)
		manager.Close()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
	logger.Info("Server stopped")
}
