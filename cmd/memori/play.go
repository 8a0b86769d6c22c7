package main

import (
	"fmt"
	"time"

	"github.com/lox/memori/cmd/memori/shared"
	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/session"
	"github.com/lox/memori/internal/tui"
)

// TUIFlags are shared by every command that opens the game board.
type TUIFlags struct {
	Columns  int    `default:"4" help:"Cards per row"`
	Theme    string `env:"MEMORI_THEME" help:"Colour theme (default, dark, light)"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colour output"`
	LogFile  string `env:"MEMORI_LOG_FILE" help:"Log file path"`
	LogLevel string `env:"MEMORI_LOG_LEVEL" help:"Log level"`
}

func (f *TUIFlags) apply() error {
	if f.NoColor {
		tui.DisableColor()
	}
	if f.Theme == "" {
		return nil
	}
	return tui.ApplyTheme(f.Theme)
}

// PlayCmd plays a game in process.
type PlayCmd struct {
	TUIFlags `embed:""`

	Set         string        `short:"s" default:"faces" env:"MEMORI_SYMBOL_SET" help:"Symbol set to deal from (see 'memori sets')"`
	Symbols     string        `help:"Comma separated custom symbols, overrides --set"`
	Pairs       int           `short:"p" help:"Number of pairs (default: the whole set)"`
	Seed        *int64        `help:"Deterministic shuffle seed (optional)"`
	RevealDelay time.Duration `default:"1s" help:"How long a mismatched pair stays face up"`
	MatchDelay  time.Duration `default:"1s" help:"How long a matched pair shows before locking in"`
}

func (c *PlayCmd) Run() error {
	if c.LogFile == "" {
		c.LogFile = "memori.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if err := c.apply(); err != nil {
		return err
	}

	logger, closer, err := shared.SetupFileLogger(c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	symbols, err := deck.Resolve(c.Set, c.Symbols, c.Pairs)
	if err != nil {
		return fmt.Errorf("failed to pick symbols: %w", err)
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting local game", "pairs", len(symbols), "seed", seed)

	sess, err := session.New("local",
		session.WithRNG(randutil.New(seed)),
		session.WithSymbols(symbols),
		session.WithRevealDelay(c.RevealDelay),
		session.WithMatchDelay(c.MatchDelay),
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	table := tui.NewLocalTable(sess)
	defer func() { _ = table.Close() }()

	return tui.Run(table, logger, tui.WithColumns(c.Columns))
}
