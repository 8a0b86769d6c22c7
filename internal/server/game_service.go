package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/gameid"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/session"
)

var (
	ErrSessionLimit    = errors.New("session limit reached")
	ErrSessionNotFound = errors.New("session not found")
)

// GameService owns every live session on the server.
type GameService struct {
	config *ServerConfig
	clock  quartz.Clock
	ids    *gameid.Generator
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*session.Session
	seed     int64
	dealt    int
}

// NewGameService creates a game service. Each session gets its own shuffle
// source derived from seed.
func NewGameService(config *ServerConfig, clock quartz.Clock, seed int64, logger *log.Logger) *GameService {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &GameService{
		config:   config,
		clock:    clock,
		ids:      gameid.NewGenerator(clock, nil),
		logger:   logger.WithPrefix("games"),
		sessions: make(map[string]*session.Session),
		seed:     seed,
	}
}

// CreateSession deals a new game. Empty fields in req fall back to the
// server's game settings.
func (gs *GameService) CreateSession(req NewGameData) (*session.Session, error) {
	setName := req.SymbolSet
	if setName == "" {
		setName = gs.config.Game.SymbolSet
	}
	pairs := req.Pairs
	if pairs == 0 {
		pairs = gs.config.Game.Pairs
	}

	symbols, err := deck.Resolve(setName, req.Symbols, pairs)
	if err != nil {
		return nil, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if len(gs.sessions) >= gs.config.Game.MaxSessions {
		return nil, fmt.Errorf("%w: %d active", ErrSessionLimit, len(gs.sessions))
	}

	id := gs.ids.Generate()
	seed := randutil.Derive(gs.seed, gs.dealt)
	gs.dealt++

	sess, err := session.New(id,
		session.WithClock(gs.clock),
		session.WithRNG(randutil.New(seed)),
		session.WithSymbols(symbols),
		session.WithRevealDelay(gs.config.RevealDelay()),
		session.WithMatchDelay(gs.config.MatchDelay()),
		session.WithLogger(gs.logger),
	)
	if err != nil {
		return nil, err
	}

	gs.sessions[id] = sess
	gs.logger.Info("Session created", "session", id, "cards", len(symbols)*2, "active", len(gs.sessions))
	return sess, nil
}

// GetSession returns the session with the given id.
func (gs *GameService) GetSession(id string) (*session.Session, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	sess, ok := gs.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession stops and forgets a session. Unknown ids are ignored.
func (gs *GameService) CloseSession(id string) {
	gs.mu.Lock()
	sess, ok := gs.sessions[id]
	delete(gs.sessions, id)
	remaining := len(gs.sessions)
	gs.mu.Unlock()

	if ok {
		sess.Close()
		gs.logger.Info("Session closed", "session", id, "active", remaining)
	}
}

// ListSessions returns a summary of every live session, oldest first.
func (gs *GameService) ListSessions() []SessionInfo {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(gs.sessions))
	for id, sess := range gs.sessions {
		snap := sess.Snapshot()
		infos = append(infos, SessionInfo{
			ID:        id,
			Cards:     len(snap.Cards),
			Matched:   snap.Stats.Matches,
			Turns:     snap.Stats.Turns,
			GameOver:  snap.GameOver,
			StartedAt: snap.Stats.StartedAt,
		})
	}

	// ids are time ordered
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Count returns the number of live sessions.
func (gs *GameService) Count() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.sessions)
}

// Close stops every session.
func (gs *GameService) Close() {
	gs.mu.Lock()
	sessions := gs.sessions
	gs.sessions = make(map[string]*session.Session)
	gs.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
