package main

import (
	"context"
	"fmt"

	"github.com/lox/memori/cmd/memori/shared"
	"github.com/lox/memori/internal/client"
	"github.com/lox/memori/internal/server"
	"github.com/lox/memori/internal/tui"
)

// JoinCmd plays a game hosted by a memori server.
type JoinCmd struct {
	TUIFlags `embed:""`

	Config  string `short:"c" default:"memori.hcl" env:"MEMORI_CLIENT_CONFIG" help:"Path to HCL configuration file"`
	Server  string `short:"S" env:"MEMORI_SERVER" help:"Server URL to connect to (overrides config)"`
	Set     string `short:"s" help:"Symbol set to request (default: the server's)"`
	Symbols string `help:"Comma separated custom symbols"`
	Pairs   int    `short:"p" help:"Number of pairs (default: the server's)"`
}

func (c *JoinCmd) Run() error {
	cfg, err := client.LoadClientConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
	if c.NoColor {
		cfg.UI.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.TUIFlags.Theme = cfg.UI.Theme
	c.TUIFlags.NoColor = cfg.UI.NoColor
	if err := c.apply(); err != nil {
		return err
	}

	logger, closer, err := shared.SetupFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	logger.Info("Starting memori client", "server", cfg.Server.URL, "config", c.Config)

	wsClient := client.NewClient(cfg.Server.URL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()

	if err := wsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer func() { _ = wsClient.Close() }()

	if _, err := wsClient.NewGame(ctx, server.NewGameData{
		SymbolSet: c.Set,
		Symbols:   c.Symbols,
		Pairs:     c.Pairs,
	}); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	return tui.Run(wsClient, logger, tui.WithColumns(c.Columns))
}
