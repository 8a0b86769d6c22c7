package game

import (
	"fmt"
	"time"
)

// EventType identifies a game event.
type EventType string

const (
	EventTypeDealt        EventType = "dealt"
	EventTypeCardFlipped  EventType = "card_flipped"
	EventTypePairResolved EventType = "pair_resolved"
	EventTypeGameOver     EventType = "game_over"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is published after every state transition. Board carries a copy
// of every card as it stands after the transition.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	Board() []Card
}

type baseEvent struct {
	board     []Card
	timestamp time.Time
}

func (e baseEvent) Timestamp() time.Time { return e.timestamp }
func (e baseEvent) Board() []Card        { return e.board }

func newBase(board []Card) baseEvent {
	return baseEvent{board: board, timestamp: time.Now()}
}

// DealtEvent is published when cards are dealt or re-dealt on restart.
type DealtEvent struct {
	baseEvent
	Pairs int
}

func (e DealtEvent) EventType() EventType { return EventTypeDealt }

func NewDealtEvent(board []Card, pairs int) DealtEvent {
	return DealtEvent{baseEvent: newBase(board), Pairs: pairs}
}

// CardFlippedEvent is published when a card turns face up. Second is true
// for the flip that locks the game until resolution.
type CardFlippedEvent struct {
	baseEvent
	Index  int
	Second bool
}

func (e CardFlippedEvent) EventType() EventType { return EventTypeCardFlipped }

func NewCardFlippedEvent(board []Card, index int, second bool) CardFlippedEvent {
	return CardFlippedEvent{baseEvent: newBase(board), Index: index, Second: second}
}

// PairResolvedEvent is published by Resolve.
type PairResolvedEvent struct {
	baseEvent
	Result ResolveResult
}

func (e PairResolvedEvent) EventType() EventType { return EventTypePairResolved }

func NewPairResolvedEvent(board []Card, result ResolveResult) PairResolvedEvent {
	return PairResolvedEvent{baseEvent: newBase(board), Result: result}
}

// GameOverEvent is published once, right after the final pair is matched.
type GameOverEvent struct {
	baseEvent
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }

func NewGameOverEvent(board []Card) GameOverEvent {
	return GameOverEvent{baseEvent: newBase(board)}
}

// EventSubscriber receives game events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// SubscriberFunc adapts a plain function to EventSubscriber. Only the
// pointer form subscribes so that Unsubscribe can compare it.
type SubscriberFunc func(GameEvent)

func (f *SubscriberFunc) OnEvent(event GameEvent) { (*f)(event) }

// Subscriber wraps fn for use with an EventBus.
func Subscriber(fn func(GameEvent)) *SubscriberFunc {
	f := SubscriberFunc(fn)
	return &f
}

// RenderFunc returns a subscriber that calls render once per card, in
// position order, after every transition.
func RenderFunc(render func(index int, state CardState, symbol string)) *SubscriberFunc {
	return Subscriber(func(event GameEvent) {
		for _, c := range event.Board() {
			render(c.ID, c.State, c.Symbol)
		}
	})
}

// OnGameOver returns a subscriber that calls notify when the game is won.
func OnGameOver(notify func()) *SubscriberFunc {
	return Subscriber(func(event GameEvent) {
		if event.EventType() == EventTypeGameOver {
			notify()
		}
	})
}

// Describe renders an event as a one-line log entry.
func Describe(event GameEvent) string {
	switch e := event.(type) {
	case DealtEvent:
		return fmt.Sprintf("Dealt %d cards (%d pairs)", len(e.Board()), e.Pairs)
	case CardFlippedEvent:
		return fmt.Sprintf("Card %d flipped: %s", e.Index+1, symbolAt(e.Board(), e.Index))
	case PairResolvedEvent:
		a, b := e.Result.IndexA, e.Result.IndexB
		if e.Result.Kind == ResolveMatched {
			return fmt.Sprintf("Match! %s at %d and %d", symbolAt(e.Board(), a), a+1, b+1)
		}
		return fmt.Sprintf("No match: %s and %s", symbolAt(e.Board(), a), symbolAt(e.Board(), b))
	case GameOverEvent:
		return "All pairs found"
	default:
		return event.EventType().String()
	}
}

func symbolAt(board []Card, index int) string {
	if index < 0 || index >= len(board) {
		return "?"
	}
	return board[index].Symbol
}
