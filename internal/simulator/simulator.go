// Package simulator plays many headless games with computer players and
// reports how many turns they needed.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/memori/internal/bot"
	"github.com/lox/memori/internal/fileutil"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/session"
	"github.com/lox/memori/internal/statistics"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrStalled       = errors.New("player stalled")
)

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Player  string
	Symbols []string
	Seed    int64
	Workers int           // defaults to GOMAXPROCS
	Timeout time.Duration // zero means no limit
	Logger  *log.Logger

	// Progress, if set, is called after every finished game. It may be
	// called from several goroutines at once.
	Progress func(done, total int)
}

// Result is the outcome of a simulation run.
type Result struct {
	Player  string
	Pairs   int
	Seed    int64
	Elapsed time.Duration
	Stats   *statistics.Statistics
}

func (c *Config) validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("%w: games must be positive", ErrInvalidConfig)
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("%w: no symbols", ErrInvalidConfig)
	}
	if _, err := bot.New(c.Player, randutil.New(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Run plays cfg.Games games in parallel. Game i always uses the seed
// randutil.Derive(cfg.Seed, i), so results do not depend on the worker count.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.Games)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	logger := cfg.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation", "games", cfg.Games, "player", cfg.Player, "workers", workers, "seed", cfg.Seed)
	start := time.Now()

	results := make([]statistics.GameResult, cfg.Games)
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	for w := range workers {
		g.Go(func() error {
			// workers stride through the games so each slot has one writer
			for i := w; i < cfg.Games; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := PlayGame(cfg.Player, cfg.Symbols, randutil.Derive(cfg.Seed, i))
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				results[i] = res
				if cfg.Progress != nil {
					cfg.Progress(int(done.Add(1)), cfg.Games)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, res := range results {
		stats.Add(res)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	result := &Result{
		Player:  cfg.Player,
		Pairs:   len(cfg.Symbols),
		Seed:    cfg.Seed,
		Elapsed: time.Since(start),
		Stats:   stats,
	}
	logger.Info("Simulation complete", "games", stats.Games, "meanTurns", stats.Mean(), "elapsed", result.Elapsed)
	return result, nil
}

// PlayGame plays a single game with the named player and returns its
// result. The same seed always produces the same game.
func PlayGame(player string, symbols []string, seed int64) (statistics.GameResult, error) {
	p, err := bot.New(player, randutil.New(randutil.Derive(seed, 1)))
	if err != nil {
		return statistics.GameResult{}, err
	}

	state := game.NewGameState(nil)
	if err := state.Deal(symbols, randutil.New(seed)); err != nil {
		return statistics.GameResult{}, err
	}

	result := statistics.GameResult{Seed: seed, Pairs: state.Len() / 2}
	maxSteps := state.Len() * state.Len() * 4

	for steps := 0; !state.IsGameOver(); steps++ {
		if steps >= maxSteps {
			return result, fmt.Errorf("%w after %d flips (seed %d)", ErrStalled, steps, seed)
		}

		index := p.Next(session.Views(state.Cards(), false))
		sel := state.SelectCard(index)
		if sel.Ignored() {
			continue
		}

		card, _ := state.Card(index)
		p.Observe(index, card.Symbol)

		if sel.Kind != game.SelectPendingResolution {
			continue
		}
		res := state.Resolve()
		result.Turns++
		if res.Kind == game.ResolveMismatch {
			result.Mismatches++
		}
	}
	return result, nil
}

// Report is the JSON form of a Result.
type Report struct {
	Player     string  `json:"player"`
	Pairs      int     `json:"pairs"`
	Games      int     `json:"games"`
	Seed       int64   `json:"seed"`
	MeanTurns  float64 `json:"meanTurns"`
	StdDev     float64 `json:"stdDev"`
	CI95Low    float64 `json:"ci95Low"`
	CI95High   float64 `json:"ci95High"`
	Median     float64 `json:"median"`
	P90        float64 `json:"p90"`
	MinTurns   int     `json:"minTurns"`
	MaxTurns   int     `json:"maxTurns"`
	WorstSeed  int64   `json:"worstSeed"`
	Perfect    int     `json:"perfectGames"`
	ElapsedSec float64 `json:"elapsedSeconds"`
}

// Report summarises the result.
func (r *Result) Report() Report {
	low, high := r.Stats.ConfidenceInterval95()
	return Report{
		Player:     r.Player,
		Pairs:      r.Pairs,
		Games:      r.Stats.Games,
		Seed:       r.Seed,
		MeanTurns:  r.Stats.Mean(),
		StdDev:     r.Stats.StdDev(),
		CI95Low:    low,
		CI95High:   high,
		Median:     r.Stats.Median(),
		P90:        r.Stats.Percentile(0.9),
		MinTurns:   r.Stats.MinTurns,
		MaxTurns:   r.Stats.MaxTurns,
		WorstSeed:  r.Stats.WorstSeed,
		Perfect:    r.Stats.Perfect,
		ElapsedSec: r.Elapsed.Seconds(),
	}
}

// WriteJSON writes the report to path atomically.
func (r *Result) WriteJSON(path string) error {
	return fileutil.WriteJSON(path, r.Report())
}

// PrintSummary writes a human readable summary of the result.
func PrintSummary(w io.Writer, r *Result) {
	rep := r.Report()

	fmt.Fprintf(w, "\n=== %s player, %d pairs ===\n", rep.Player, rep.Pairs)
	fmt.Fprintf(w, "Games played: %d (seed %d)\n", rep.Games, rep.Seed)
	fmt.Fprintf(w, "Mean: %.2f turns/game\n", rep.MeanTurns)
	fmt.Fprintf(w, "Median: %.1f turns\n", rep.Median)
	fmt.Fprintf(w, "Std Dev: %.2f turns\n", rep.StdDev)
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", rep.CI95Low, rep.CI95High)
	fmt.Fprintf(w, "Range: %d to %d turns (worst seed %d), P90=%.1f\n", rep.MinTurns, rep.MaxTurns, rep.WorstSeed, rep.P90)
	fmt.Fprintf(w, "Perfect games: %d (%.1f%%)\n", rep.Perfect, float64(rep.Perfect)/float64(rep.Games)*100)
	fmt.Fprintf(w, "Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))
}
