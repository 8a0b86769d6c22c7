package game

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidArgument is returned when a deal is requested with an unusable symbol set.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotDealt is returned by Restart before the first successful Deal.
	ErrNotDealt = errors.New("game has not been dealt")
)

// Shuffler is the random source used to order a deal. *rand.Rand from
// math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// GameState owns the cards of one game and the flip/match state machine.
//
// It is not safe for concurrent use. Callers that drive it from several
// goroutines (timers, network handlers) must serialise access themselves.
type GameState struct {
	cards   []Card
	symbols []string
	flipped []int // at most two entries, in selection order
	matched int
	bus     EventBus
}

// NewGameState returns an empty, undealt game. Events are published on bus
// when it is non-nil.
func NewGameState(bus EventBus) *GameState {
	return &GameState{bus: bus}
}

// Deal lays out two cards per distinct symbol in an order chosen by rng and
// resets every card to Normal. Duplicate symbols are collapsed. On error the
// previous deal is left untouched.
func (g *GameState) Deal(symbols []string, rng Shuffler) error {
	if rng == nil {
		return fmt.Errorf("%w: nil shuffle source", ErrInvalidArgument)
	}

	set := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			return fmt.Errorf("%w: empty symbol", ErrInvalidArgument)
		}
		if !slices.Contains(set, s) {
			set = append(set, s)
		}
	}
	if len(set) == 0 {
		return fmt.Errorf("%w: symbol set is empty", ErrInvalidArgument)
	}

	cards := make([]Card, 0, len(set)*2)
	for _, s := range set {
		cards = append(cards, Card{Symbol: s}, Card{Symbol: s})
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	for i := range cards {
		cards[i].ID = i
	}

	g.cards = cards
	g.symbols = set
	g.flipped = g.flipped[:0]
	g.matched = 0

	g.publish(NewDealtEvent(g.Cards(), len(set)))
	return nil
}

// Restart deals again with the current symbol set.
func (g *GameState) Restart(rng Shuffler) error {
	if len(g.symbols) == 0 {
		return ErrNotDealt
	}
	return g.Deal(slices.Clone(g.symbols), rng)
}

// SelectCard flips the card at index. The second flip of a turn moves the
// game into AwaitingResolution; every selection is then ignored until
// Resolve is called.
func (g *GameState) SelectCard(index int) SelectResult {
	if g.Mode() == AwaitingResolution {
		return ignoredSelect
	}
	if index < 0 || index >= len(g.cards) {
		return ignoredSelect
	}
	if g.cards[index].State != Normal {
		return ignoredSelect
	}

	g.cards[index].State = Flipped
	g.flipped = append(g.flipped, index)

	if len(g.flipped) < 2 {
		g.publish(NewCardFlippedEvent(g.Cards(), index, false))
		return SelectResult{Kind: SelectFlipped, Index: index, IndexA: -1, IndexB: -1}
	}

	g.publish(NewCardFlippedEvent(g.Cards(), index, true))
	return SelectResult{
		Kind:   SelectPendingResolution,
		Index:  index,
		IndexA: g.flipped[0],
		IndexB: g.flipped[1],
	}
}

// Resolve compares the two pending cards. Matching cards become Matched for
// the rest of the deal; mismatched cards return to Normal.
func (g *GameState) Resolve() ResolveResult {
	if g.Mode() != AwaitingResolution {
		return ignoredResolve
	}

	a, b := g.flipped[0], g.flipped[1]
	g.flipped = g.flipped[:0]

	if g.cards[a].Symbol != g.cards[b].Symbol {
		g.cards[a].State = Normal
		g.cards[b].State = Normal
		res := ResolveResult{Kind: ResolveMismatch, IndexA: a, IndexB: b}
		g.publish(NewPairResolvedEvent(g.Cards(), res))
		return res
	}

	g.cards[a].State = Matched
	g.cards[b].State = Matched
	g.matched += 2

	res := ResolveResult{Kind: ResolveMatched, IndexA: a, IndexB: b, GameOver: g.IsGameOver()}
	g.publish(NewPairResolvedEvent(g.Cards(), res))
	if res.GameOver {
		g.publish(NewGameOverEvent(g.Cards()))
	}
	return res
}

// Mode reports whether a resolution is pending.
func (g *GameState) Mode() Mode {
	if len(g.flipped) == 2 {
		return AwaitingResolution
	}
	return Ready
}

// Pending returns the two cards awaiting resolution.
func (g *GameState) Pending() (a, b int, ok bool) {
	if g.Mode() != AwaitingResolution {
		return -1, -1, false
	}
	return g.flipped[0], g.flipped[1], true
}

// IsGameOver reports whether every card has been matched.
func (g *GameState) IsGameOver() bool {
	return len(g.cards) > 0 && g.matched == len(g.cards)
}

// Dealt reports whether Deal has succeeded at least once.
func (g *GameState) Dealt() bool {
	return len(g.cards) > 0
}

// Len returns the number of cards on the table.
func (g *GameState) Len() int {
	return len(g.cards)
}

// Card returns the card at index.
func (g *GameState) Card(index int) (Card, bool) {
	if index < 0 || index >= len(g.cards) {
		return Card{}, false
	}
	return g.cards[index], true
}

// Cards returns a copy of the table in position order.
func (g *GameState) Cards() []Card {
	return slices.Clone(g.cards)
}

// Symbols returns the distinct symbols of the current deal.
func (g *GameState) Symbols() []string {
	return slices.Clone(g.symbols)
}

// MatchedPairs returns how many pairs have been matched so far.
func (g *GameState) MatchedPairs() int {
	return g.matched / 2
}

func (g *GameState) publish(event GameEvent) {
	if g.bus != nil {
		g.bus.Publish(event)
	}
}
