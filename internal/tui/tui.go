package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/session"
)

// DefaultColumns is the grid width; the original board is 4x4.
const DefaultColumns = 4

// updateMsg carries a table update into the bubbletea loop.
type updateMsg session.Update

// disconnectedMsg is sent once the table's update stream ends.
type disconnectedMsg struct{}

// Option configures a TUIModel.
type Option func(*TUIModel)

// WithColumns sets the number of cards per row.
func WithColumns(n int) Option {
	return func(m *TUIModel) {
		if n > 0 {
			m.columns = n
		}
	}
}

// WithTestMode captures log entries instead of rendering them.
func WithTestMode() Option {
	return func(m *TUIModel) { m.testMode = true }
}

// TUIModel is the Bubble Tea model for a memory game.
type TUIModel struct {
	table   Table
	logger  *log.Logger
	columns int

	logViewport viewport.Model
	gameLog     []string

	snapshot     session.Snapshot
	cursor       int
	quitting     bool
	disconnected bool

	width  int
	height int

	testMode    bool
	capturedLog []string
}

// NewTUIModel creates a model that plays table.
func NewTUIModel(table Table, logger *log.Logger, opts ...Option) *TUIModel {
	// sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &TUIModel{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		columns:     DefaultColumns,
		logViewport: vp,
		snapshot:    table.Snapshot(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init starts listening for table updates.
func (m *TUIModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m *TUIModel) waitForUpdate() tea.Cmd {
	updates := m.table.Updates()
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return disconnectedMsg{}
		}
		return updateMsg(u)
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()
		return m, nil

	case updateMsg:
		m.applyUpdate(session.Update(msg))
		return m, m.waitForUpdate()

	case disconnectedMsg:
		if !m.disconnected {
			m.disconnected = true
			m.AddLogEntry(ErrorStyle.Render("Disconnected"))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *TUIModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-m.columns)
	case "down", "j":
		m.moveCursor(m.columns)
	case "enter", " ":
		m.act("select", func() error { return m.table.Select(m.cursor) })
	case "r":
		m.act("restart", m.table.Restart)
	case "c":
		m.act("reveal", m.table.ToggleReveal)
	case "pgup":
		m.logViewport.HalfPageUp()
	case "pgdown":
		m.logViewport.HalfPageDown()
	}
	return m, nil
}

func (m *TUIModel) act(name string, fn func() error) {
	if err := fn(); err != nil {
		m.logger.Warn("Action failed", "action", name, "error", err)
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s failed: %v", name, err)))
	}
}

// moveCursor moves within the grid, staying put at the edges.
func (m *TUIModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.snapshot.Cards) {
		return
	}
	m.cursor = next
}

func (m *TUIModel) applyUpdate(u session.Update) {
	m.snapshot = u.Snapshot
	if m.cursor >= len(m.snapshot.Cards) {
		m.cursor = 0
	}

	switch {
	case u.Event == game.EventTypeGameOver.String():
		m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("%s in %d turns", u.Message, u.Snapshot.Stats.Turns)))
	case u.Event == session.EventIgnored:
		m.logger.Debug("Selection ignored", "cursor", m.cursor)
	case u.Event == "error":
		m.AddLogEntry(ErrorStyle.Render(u.Message))
	case u.Message != "":
		m.AddLogEntry(u.Message)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("memori"))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	if m.snapshot.GameOver {
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("You won in %d turns! Press r to play again.", m.snapshot.Stats.Turns)))
		b.WriteString("\n\n")
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262"))
	b.WriteString(logStyle.Render(m.logViewport.View()))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("←↑↓→/hjkl move • enter/space flip • r restart • c reveal • q quit"))
	return b.String()
}

func (m *TUIModel) renderGrid() string {
	var rows []string
	var row []string
	for i, card := range m.snapshot.Cards {
		row = append(row, m.renderCard(card, i == m.cursor))
		if len(row) == m.columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *TUIModel) renderCard(card session.CardView, selected bool) string {
	label := card.Symbol
	if label == "" {
		label = "?"
	}
	if selected {
		label = "[" + label + "]"
	}

	style := CardDownStyle
	switch card.State {
	case game.Flipped:
		style = CardUpStyle
	case game.Matched:
		style = CardMatchedStyle
	}
	if selected {
		style = style.BorderForeground(CursorStyle.GetBorderTopForeground()).Bold(true)
	}
	return style.Render(label)
}

func (m *TUIModel) renderStatus() string {
	stats := m.snapshot.Stats
	status := fmt.Sprintf("Turns: %d  Matches: %d/%d  Time: %s",
		stats.Turns, stats.Matches, stats.Pairs, stats.Elapsed.Round(time.Second))
	if m.snapshot.Revealed {
		status += "  " + WarningStyle.Render("[revealed]")
	}
	if m.snapshot.Locked() && !m.snapshot.GameOver {
		status += "  " + InfoStyle.Render("...")
	}
	if m.disconnected {
		status += "  " + ErrorStyle.Render("[offline]")
	}
	return StatsStyle.Render(status)
}

func (m *TUIModel) resizeLog() {
	gridHeight := lipgloss.Height(m.renderGrid())
	height := m.height - gridHeight - 10
	if height < 3 {
		height = 3
	}
	width := m.width - 2
	if width < 10 {
		width = 10
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.GotoBottom()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Cursor returns the index of the highlighted card.
func (m *TUIModel) Cursor() int {
	return m.cursor
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// Run plays table in the terminal until the user quits.
func Run(table Table, logger *log.Logger, opts ...Option) error {
	model := NewTUIModel(table, logger, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
