package session

import (
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultDelay is how long a resolved pair stays face up before it is
// matched or turned back over.
const DefaultDelay = time.Second

// Option configures a Session during creation.
type Option func(*config)

type config struct {
	clock       quartz.Clock
	rng         *rand.Rand
	symbols     []string
	revealDelay time.Duration
	matchDelay  time.Duration
	logger      *log.Logger
}

func defaultConfig() *config {
	return &config{
		revealDelay: DefaultDelay,
		matchDelay:  DefaultDelay,
	}
}

// WithClock sets the clock used for resolution timers and stats.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithRNG sets the shuffle source for the first deal and every restart.
func WithRNG(rng *rand.Rand) Option {
	return func(c *config) { c.rng = rng }
}

// WithSymbols sets the symbols dealt. Defaults to the faces set.
func WithSymbols(symbols []string) Option {
	return func(c *config) { c.symbols = symbols }
}

// WithRevealDelay sets how long a mismatched pair stays visible.
func WithRevealDelay(d time.Duration) Option {
	return func(c *config) { c.revealDelay = d }
}

// WithMatchDelay sets how long a matched pair shows before being locked in.
func WithMatchDelay(d time.Duration) Option {
	return func(c *config) { c.matchDelay = d }
}

// WithLogger sets the logger; sessions are silent by default.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}
