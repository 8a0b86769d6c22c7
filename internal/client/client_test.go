package client

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/server"
	"github.com/lox/memori/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func startServer(t *testing.T) string {
	t.Helper()
	cfg := server.DefaultServerConfig()
	cfg.Game.RevealDelayMs = 0
	cfg.Game.MatchDelayMs = 0

	gs := server.NewGameService(cfg, quartz.NewMock(t), 7, testLogger())
	srv := server.NewServer(cfg, gs, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts.URL
}

func connect(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// next waits for the next update with the given event.
func next(t *testing.T, c *Client, event string) session.Update {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-c.Updates():
			require.True(t, ok, "updates closed")
			if u.Event == event {
				return u
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

func TestClientPlaysGame(t *testing.T) {
	c := connect(t, startServer(t))
	assert.ErrorIs(t, c.Select(0), ErrNoSession)

	snap, err := c.NewGame(context.Background(), server.NewGameData{Symbols: "Q"})
	require.NoError(t, err)
	require.Len(t, snap.Cards, 2)
	assert.Equal(t, snap, c.Snapshot())

	require.NoError(t, c.Select(0))
	u := next(t, c, game.EventTypeCardFlipped.String())
	assert.Equal(t, "Q", u.Snapshot.Cards[0].Symbol)

	require.NoError(t, c.Select(1))
	u = next(t, c, game.EventTypeGameOver.String())
	assert.True(t, u.Snapshot.GameOver)
	assert.Equal(t, 1, u.Snapshot.Stats.Turns)
	assert.True(t, c.Snapshot().GameOver)

	require.NoError(t, c.Restart())
	u = next(t, c, game.EventTypeDealt.String())
	assert.False(t, u.Snapshot.GameOver)

	require.NoError(t, c.ToggleReveal())
	u = next(t, c, session.EventRevealToggled)
	assert.True(t, u.Snapshot.Revealed)

	require.NoError(t, c.ResolveNow())
	next(t, c, session.EventIgnored)
}

func TestClientNewGameError(t *testing.T) {
	c := connect(t, startServer(t))

	_, err := c.NewGame(context.Background(), server.NewGameData{SymbolSet: "nosuchset"})
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "invalid_symbols", serverErr.Code)
	assert.ErrorIs(t, c.Restart(), ErrNoSession)
}

func TestClientStartIgnoresUnrelatedErrors(t *testing.T) {
	c := NewClient("http://localhost:8080", testLogger())
	c.starting.Store(true)

	stale, err := server.NewMessage(server.MessageTypeError, server.ErrorData{Code: "no_session", Message: "late"})
	require.NoError(t, err)
	c.handleMessage(stale)

	assert.Empty(t, c.starts, "unrelated error must not answer NewGame")
	u := <-c.Updates()
	assert.Equal(t, "error", u.Event)

	limit, err := server.NewMessage(server.MessageTypeError, server.ErrorData{Code: server.ErrorCodeSessionLimit, Message: "full"})
	require.NoError(t, err)
	c.handleMessage(limit)

	require.Len(t, c.starts, 1)
	res := <-c.starts
	var serverErr *ServerError
	require.ErrorAs(t, res.err, &serverErr)
	assert.Equal(t, server.ErrorCodeSessionLimit, serverErr.Code)
}

func TestClientUpdatesClosedOnDisconnect(t *testing.T) {
	c := connect(t, startServer(t))
	require.NoError(t, c.Close())

	select {
	case _, ok := <-c.Updates():
		for ok {
			_, ok = <-c.Updates()
		}
	case <-time.After(5 * time.Second):
		t.Fatal("updates not closed")
	}
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.Select(0), ErrNotConnected)
}

func TestConnectFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, c.Connect(ctx))
}
