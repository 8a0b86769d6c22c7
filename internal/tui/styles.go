package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Card styles are set by ApplyTheme.
var (
	CardDownStyle    lipgloss.Style
	CardUpStyle      lipgloss.Style
	CardMatchedStyle lipgloss.Style
	CursorStyle      lipgloss.Style
)

// Theme holds the card background colours.
type Theme struct {
	Down    lipgloss.Color
	Up      lipgloss.Color
	Matched lipgloss.Color
	Text    lipgloss.Color
	Cursor  lipgloss.Color
}

var themes = map[string]Theme{
	"default": {Down: "#1E6FD9", Up: "#D93A3A", Matched: "#2E9E4F", Text: "#FAFAFA", Cursor: "#FFD700"},
	"dark":    {Down: "#123A73", Up: "#7A1F1F", Matched: "#1D5E30", Text: "#D0D0D0", Cursor: "#C8A600"},
	"light":   {Down: "#8DB8F2", Up: "#F29B9B", Matched: "#9BDDB0", Text: "#202020", Cursor: "#7D56F4"},
}

func init() {
	_ = ApplyTheme("default")
}

// ApplyTheme switches the card colours to the named theme.
func ApplyTheme(name string) error {
	theme, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme: %s", name)
	}

	card := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(6).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())

	// border shapes keep states apart when colour is off
	CardDownStyle = card.Background(theme.Down).BorderForeground(theme.Down)
	CardUpStyle = card.Background(theme.Up).BorderForeground(theme.Up).Border(lipgloss.ThickBorder())
	CardMatchedStyle = card.Background(theme.Matched).BorderForeground(theme.Matched).Border(lipgloss.DoubleBorder())
	CursorStyle = lipgloss.NewStyle().BorderForeground(theme.Cursor).Bold(true)
	return nil
}

// DisableColor renders everything without colour, for dumb terminals and
// --no-color.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
