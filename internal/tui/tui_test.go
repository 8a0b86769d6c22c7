package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/randutil"
	"github.com/lox/memori/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
}

func newTestModel(t *testing.T, symbols ...string) (*TUIModel, *LocalTable) {
	t.Helper()
	sess, err := session.New("tui",
		session.WithClock(quartz.NewMock(t)),
		session.WithRNG(randutil.New(3)),
		session.WithSymbols(symbols),
		session.WithRevealDelay(0),
		session.WithMatchDelay(0),
	)
	require.NoError(t, err)

	table := NewLocalTable(sess)
	t.Cleanup(func() { _ = table.Close() })
	return NewTUIModel(table, quietLogger(), WithTestMode()), table
}

// drain feeds every queued table update into the model.
func drain(m *TUIModel, table *LocalTable) {
	for {
		select {
		case u := <-table.Updates():
			m.Update(updateMsg(u))
		default:
			return
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *TUIModel, table *LocalTable, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
		drain(m, table)
	}
}

func TestCursorMovement(t *testing.T) {
	m, table := newTestModel(t, "A", "B", "C", "D", "E", "F") // 12 cards, 3 rows

	press(m, table, "left", "up")
	assert.Equal(t, 0, m.Cursor(), "cursor stays inside the grid")

	press(m, table, "right", "right", "down")
	assert.Equal(t, 6, m.Cursor())

	press(m, table, "down", "down")
	assert.Equal(t, 10, m.Cursor(), "no row below the last")

	press(m, table, "k", "h")
	assert.Equal(t, 5, m.Cursor())
}

func TestSelectFlipsCard(t *testing.T) {
	m, table := newTestModel(t, "A", "B")

	press(m, table, "enter")
	assert.Equal(t, game.Flipped, m.snapshot.Cards[0].State)
	assert.NotEmpty(t, m.snapshot.Cards[0].Symbol)

	log := m.GetCapturedLog()
	require.NotEmpty(t, log)
	assert.Contains(t, log[len(log)-1], "Card 1 flipped")
}

func TestPlayToWin(t *testing.T) {
	m, table := newTestModel(t, "A", "B")

	press(m, table, "c")
	require.True(t, m.snapshot.Revealed)
	positions := make(map[string][]int)
	for _, c := range m.snapshot.Cards {
		positions[c.Symbol] = append(positions[c.Symbol], c.Index)
	}
	press(m, table, "c")
	require.False(t, m.snapshot.Revealed)

	for _, idx := range positions {
		for _, i := range idx {
			m.cursor = i
			press(m, table, " ")
		}
	}

	assert.True(t, m.snapshot.GameOver)
	assert.Equal(t, 2, m.snapshot.Stats.Turns)
	assert.Contains(t, m.View(), "You won in 2 turns")

	log := m.GetCapturedLog()
	assert.Contains(t, log[len(log)-1], "All pairs found in 2 turns")

	press(m, table, "r")
	assert.False(t, m.snapshot.GameOver)
	assert.Equal(t, 0, m.snapshot.Stats.Turns)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, "A")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestDisconnected(t *testing.T) {
	m, table := newTestModel(t, "A")
	cmd := m.Init()
	require.NoError(t, table.Close())

	m.Update(cmd())
	assert.True(t, m.disconnected)
	assert.Equal(t, []string{"Disconnected"}, m.GetCapturedLog())
	assert.Contains(t, m.View(), "[offline]")
}

func TestLocalTableIgnoredSelection(t *testing.T) {
	_, table := newTestModel(t, "A")

	require.NoError(t, table.Select(5))
	u := <-table.Updates()
	assert.Equal(t, session.EventIgnored, u.Event)
}

func TestLocalTableKeepsNewestWhenFull(t *testing.T) {
	sess, err := session.New("full",
		session.WithClock(quartz.NewMock(t)),
		session.WithRNG(randutil.New(3)),
		session.WithSymbols([]string{"A"}),
		session.WithRevealDelay(0),
		session.WithMatchDelay(0),
	)
	require.NoError(t, err)
	table := newLocalTable(sess, 2)
	t.Cleanup(func() { _ = table.Close() })

	for range 5 {
		require.NoError(t, table.ToggleReveal())
	}
	require.NoError(t, table.Select(0))
	require.NoError(t, table.Select(1))

	var events []string
	var last session.Update
	for len(table.Updates()) > 0 {
		last = <-table.Updates()
		events = append(events, last.Event)
	}
	assert.Equal(t, []string{game.EventTypePairResolved.String(), game.EventTypeGameOver.String()}, events)
	assert.True(t, last.Snapshot.GameOver)
}

func TestApplyTheme(t *testing.T) {
	assert.NoError(t, ApplyTheme("dark"))
	assert.NoError(t, ApplyTheme("default"))
	assert.Error(t, ApplyTheme("neon"))
}
