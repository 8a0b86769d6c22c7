package session

import (
	"time"

	"github.com/lox/memori/internal/game"
)

// CardView is a card as a player may see it. Symbol is empty while the card
// is face down unless the session is revealed.
type CardView struct {
	Index  int            `json:"index"`
	State  game.CardState `json:"state"`
	Symbol string         `json:"symbol,omitempty"`
}

// Stats counts the turns of the current deal.
type Stats struct {
	Turns      int           `json:"turns"`
	Matches    int           `json:"matches"`
	Mismatches int           `json:"mismatches"`
	Pairs      int           `json:"pairs"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt,omitzero"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Snapshot is the full presentable state of a session.
type Snapshot struct {
	ID       string     `json:"id"`
	Mode     game.Mode  `json:"mode"`
	GameOver bool       `json:"gameOver"`
	Revealed bool       `json:"revealed"`
	Cards    []CardView `json:"cards"`
	Stats    Stats      `json:"stats"`
}

// Locked reports whether input is currently rejected.
func (s Snapshot) Locked() bool {
	return s.Mode == game.AwaitingResolution || s.GameOver
}

// FaceDown returns the indices of cards that may still be selected.
func (s Snapshot) FaceDown() []int {
	var out []int
	for _, c := range s.Cards {
		if c.State == game.Normal {
			out = append(out, c.Index)
		}
	}
	return out
}

// Update is delivered to listeners after every change to a session.
type Update struct {
	Snapshot Snapshot `json:"snapshot"`
	Event    string   `json:"event"`
	Message  string   `json:"message,omitempty"`
}

const (
	EventRevealToggled = "reveal_toggled"
	EventIgnored       = "ignored"
)

// Views hides face-down symbols unless reveal is set.
func Views(cards []game.Card, reveal bool) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{Index: c.ID, State: c.State}
		if reveal || c.FaceUp() {
			views[i].Symbol = c.Symbol
		}
	}
	return views
}
