package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/memori/cmd/memori/shared"
	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/simulator"
)

// SimulateCmd runs headless games with computer players.
type SimulateCmd struct {
	Games    int           `short:"n" default:"1000" help:"Number of games to play"`
	Players  []string      `short:"P" default:"random,memory" enum:"random,memory,forgetful" help:"Players to measure"`
	Set      string        `short:"s" default:"faces" help:"Symbol set to deal from"`
	Symbols  string        `help:"Comma separated custom symbols, overrides --set"`
	Pairs    int           `short:"p" help:"Number of pairs (default: the whole set)"`
	Seed     *int64        `help:"Base seed (optional)"`
	Workers  int           `short:"w" help:"Parallel workers (default: GOMAXPROCS)"`
	Timeout  time.Duration `default:"5m" help:"Give up after this long"`
	Output   string        `short:"o" help:"Write a JSON report per player, {player} in the path is replaced"`
	LogLevel string        `short:"l" default:"warn" env:"MEMORI_LOG_LEVEL" help:"Log level"`
	Quiet    bool          `short:"q" help:"Hide the progress bar"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger(os.Stderr, c.LogLevel)
	if err != nil {
		return err
	}

	symbols, err := deck.Resolve(c.Set, c.Symbols, c.Pairs)
	if err != nil {
		return fmt.Errorf("failed to pick symbols: %w", err)
	}

	seed := randutil.Seed(c.Seed)
	ctx := shared.SetupSignalHandler(logger)

	for _, player := range c.Players {
		var progress func(done, total int)
		if !c.Quiet {
			progress = newDotProgress(os.Stderr, player).OnGame
		}

		result, err := simulator.Run(ctx, simulator.Config{
			Games:   c.Games,
			Player:  player,
			Symbols: symbols,
			Seed:    seed,
			Workers: c.Workers,
			Timeout: c.Timeout,
			Logger:  logger,

			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", player, err)
		}

		simulator.PrintSummary(os.Stdout, result)

		if c.Output != "" {
			path := outputPath(c.Output, player, len(c.Players))
			if err := result.WriteJSON(path); err != nil {
				return err
			}
			logger.Info("Wrote report", "player", player, "path", path)
		}
	}
	return nil
}

// outputPath substitutes {player}; with several players and no
// placeholder the player name is appended before the extension.
func outputPath(pattern, player string, players int) string {
	if strings.Contains(pattern, "{player}") {
		return strings.ReplaceAll(pattern, "{player}", player)
	}
	if players == 1 {
		return pattern
	}
	ext := filepath.Ext(pattern)
	return strings.TrimSuffix(pattern, ext) + "-" + player + ext
}
