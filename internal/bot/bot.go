// Package bot provides computer players that pick cards from a board view.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/session"
)

// Player chooses the next card to flip. Observe is called with every card
// that turns face up, whoever flipped it.
type Player interface {
	Next(view []session.CardView) int
	Observe(index int, symbol string)
	Reset()
}

// Names lists the players New understands.
func Names() []string {
	return []string{"random", "memory", "forgetful"}
}

// New creates a player by name.
func New(name string, rng *rand.Rand) (Player, error) {
	switch name {
	case "random":
		return NewRandom(rng), nil
	case "memory":
		return NewMemory(rng, 0), nil
	case "forgetful":
		return NewMemory(rng, 4), nil
	default:
		return nil, fmt.Errorf("unknown player %q", name)
	}
}

// faceDown returns the selectable cards in the view.
func faceDown(view []session.CardView) []int {
	var out []int
	for _, c := range view {
		if c.State == game.Normal {
			out = append(out, c.Index)
		}
	}
	return out
}

// flipped returns the card already face up this turn, if any.
func flipped(view []session.CardView) (session.CardView, bool) {
	for _, c := range view {
		if c.State == game.Flipped {
			return c, true
		}
	}
	return session.CardView{}, false
}
