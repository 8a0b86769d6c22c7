package main

import (
	"fmt"
	"os"

	"github.com/lox/memori/cmd/memori/shared"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/server"
	qrcode "github.com/skip2/go-qrcode"
)

// ServeCmd hosts games for remote players.
type ServeCmd struct {
	Config    string `short:"c" default:"memori-server.hcl" env:"MEMORI_SERVER_CONFIG" help:"Path to HCL configuration file"`
	Addr      string `short:"a" help:"Address to bind to (overrides config)"`
	Port      int    `help:"Port to listen on (overrides config)"`
	PublicURL string `env:"MEMORI_PUBLIC_URL" help:"URL players use to reach the server (overrides config)"`
	LogLevel  string `short:"l" env:"MEMORI_LOG_LEVEL" help:"Log level (overrides config)"`
	Seed      *int64 `help:"Deterministic RNG seed for the server (optional)"`
	QR        string `help:"Write a PNG QR code of the public URL to this path"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.PublicURL != "" {
		cfg.Server.PublicURL = c.PublicURL
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting memori server",
		"addr", cfg.GetServerAddress(),
		"symbolSet", cfg.Game.SymbolSet,
		"maxSessions", cfg.Game.MaxSessions,
		"revealDelay", cfg.RevealDelay(),
		"seed", seed,
		"config", c.Config)

	if c.QR != "" {
		if err := qrcode.WriteFile(cfg.GetPublicURL(), qrcode.Medium, 256, c.QR); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}
		logger.Info("Wrote join QR code", "path", c.QR, "url", cfg.GetPublicURL())
	}

	gameService := server.NewGameService(cfg, nil, seed, logger)
	srv := server.NewServer(cfg, gameService, logger)

	ctx := shared.SetupSignalHandler(logger)
	return srv.Start(ctx)
}
