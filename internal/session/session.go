// Package session drives a game.GameState for a presenter: it owns the
// reveal delay between the second flip and resolution, tracks per-deal
// stats and fans every change out to listeners.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/randutil"
)

// ErrClosed is returned by Restart once the session has been closed.
var ErrClosed = errors.New("session closed")

// Listener receives an Update after each transition. Listeners run on the
// goroutine that caused the change (a caller or a resolution timer) and must
// not block.
type Listener func(Update)

// Session is safe for concurrent use.
type Session struct {
	id          string
	clock       quartz.Clock
	cfg         *config
	logger      *log.Logger
	revealDelay time.Duration
	matchDelay  time.Duration

	mu        sync.Mutex
	state     *game.GameState
	bus       *game.SimpleEventBus
	timer     *quartz.Timer
	gen       uint64 // bumped whenever a timer is armed or stopped
	reveal    bool
	closed    bool
	stats     Stats
	queued    []Update
	listeners []Listener
}

// New creates a session and deals the first game.
func New(id string, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.rng == nil {
		cfg.rng = randutil.New(randutil.Seed(nil))
	}
	if cfg.logger == nil {
		cfg.logger = quietLogger()
	}
	if cfg.symbols == nil {
		symbols, err := deck.Lookup(deck.DefaultSet)
		if err != nil {
			return nil, err
		}
		cfg.symbols = symbols
	}

	s := &Session{
		id:          id,
		clock:       cfg.clock,
		cfg:         cfg,
		logger:      cfg.logger.WithPrefix("session").With("session", id),
		revealDelay: cfg.revealDelay,
		matchDelay:  cfg.matchDelay,
		bus:         game.NewEventBus(),
	}
	s.bus.Subscribe(game.Subscriber(s.onEvent))
	s.state = game.NewGameState(s.bus)

	s.mu.Lock()
	err := s.state.Deal(cfg.symbols, cfg.rng)
	s.queued = nil
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to deal: %w", err)
	}

	s.logger.Debug("Session created", "cards", s.state.Len())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Subscribe registers fn for every future update.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Select flips the card at index. The second flip of a turn starts the
// resolution timer; until it fires every Select is ignored.
func (s *Session) Select(index int) game.SelectResult {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.SelectResult{Kind: game.SelectIgnored, Index: -1, IndexA: -1, IndexB: -1}
	}

	res := s.state.SelectCard(index)
	if res.Kind == game.SelectPendingResolution {
		s.scheduleLocked(res.IndexA, res.IndexB)
	}
	if res.Ignored() {
		s.logger.Debug("Selection ignored", "index", index, "mode", s.state.Mode())
	}
	s.flushUnlock()
	return res
}

// ResolveNow resolves a pending pair immediately instead of waiting for the
// timer.
func (s *Session) ResolveNow() game.ResolveResult {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.ResolveResult{Kind: game.ResolveIgnored, IndexA: -1, IndexB: -1}
	}
	s.stopTimerLocked()
	res := s.resolveLocked()
	s.flushUnlock()
	return res
}

// Restart deals a fresh shuffle of the same symbols and resets stats.
func (s *Session) Restart() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	s.stopTimerLocked()
	err := s.state.Restart(s.cfg.rng)
	s.flushUnlock()
	if err != nil {
		return fmt.Errorf("failed to restart: %w", err)
	}

	s.logger.Info("Game restarted")
	return nil
}

// ToggleReveal shows or hides every face-down symbol and returns the new
// setting. A closed session keeps its setting.
func (s *Session) ToggleReveal() bool {
	s.mu.Lock()
	if s.closed {
		revealed := s.reveal
		s.mu.Unlock()
		return revealed
	}
	s.reveal = !s.reveal
	revealed := s.reveal
	msg := "Cards hidden"
	if revealed {
		msg = "Cards revealed"
	}
	s.queued = append(s.queued, Update{
		Snapshot: s.snapshotLocked(s.state.Cards()),
		Event:    EventRevealToggled,
		Message:  msg,
	})
	s.flushUnlock()
	return revealed
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.state.Cards())
}

// Close stops any pending timer. Further selections are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.closed = true
	s.listeners = nil
}

func (s *Session) scheduleLocked(a, b int) {
	delay := s.revealDelay
	ca, _ := s.state.Card(a)
	cb, _ := s.state.Card(b)
	if ca.Symbol == cb.Symbol {
		delay = s.matchDelay
	}

	if delay <= 0 {
		s.resolveLocked()
		return
	}

	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed || s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.resolveLocked()
		s.flushUnlock()
	}, "session", "resolve")
}

func (s *Session) resolveLocked() game.ResolveResult {
	res := s.state.Resolve()
	switch res.Kind {
	case game.ResolveMatched:
		s.logger.Debug("Pair matched", "a", res.IndexA, "b", res.IndexB, "gameOver", res.GameOver)
	case game.ResolveMismatch:
		s.logger.Debug("Pair mismatched", "a", res.IndexA, "b", res.IndexB)
	}
	return res
}

// stopTimerLocked also retires a timer that already fired and is waiting
// for the lock.
func (s *Session) stopTimerLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// onEvent runs synchronously inside GameState calls, so the lock is held.
func (s *Session) onEvent(event game.GameEvent) {
	now := s.clock.Now()

	switch e := event.(type) {
	case game.DealtEvent:
		s.stats = Stats{Pairs: e.Pairs, StartedAt: now}
	case game.PairResolvedEvent:
		s.stats.Turns++
		if e.Result.Kind == game.ResolveMatched {
			s.stats.Matches++
		} else {
			s.stats.Mismatches++
		}
	case game.GameOverEvent:
		s.stats.FinishedAt = now
		s.logger.Info("Game won", "turns", s.stats.Turns, "elapsed", now.Sub(s.stats.StartedAt))
	}

	s.queued = append(s.queued, Update{
		Snapshot: s.snapshotLocked(event.Board()),
		Event:    event.EventType().String(),
		Message:  game.Describe(event),
	})
}

func (s *Session) snapshotLocked(cards []game.Card) Snapshot {
	stats := s.stats
	end := stats.FinishedAt
	if end.IsZero() {
		end = s.clock.Now()
	}
	stats.Elapsed = end.Sub(stats.StartedAt)

	return Snapshot{
		ID:       s.id,
		Mode:     s.state.Mode(),
		GameOver: s.state.IsGameOver(),
		Revealed: s.reveal,
		Cards:    Views(cards, s.reveal),
		Stats:    stats,
	}
}

// flushUnlock releases the lock and then delivers queued updates, so
// listeners may call back into the session.
func (s *Session) flushUnlock() {
	updates := s.queued
	s.queued = nil
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, u := range updates {
		for _, fn := range listeners {
			fn(u)
		}
	}
}
