package bot

import (
	rand "math/rand/v2"
	"slices"

	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/session"
)

// Memory remembers cards it has seen. It completes a known pair whenever it
// can and otherwise explores a card it has not seen yet. With a positive
// capacity only the most recent sightings are kept.
type Memory struct {
	rng      *rand.Rand
	capacity int
	seen     map[int]string
	order    []int // oldest sighting first
}

// NewMemory creates a memory player. capacity <= 0 means perfect recall.
func NewMemory(rng *rand.Rand, capacity int) *Memory {
	return &Memory{
		rng:      rng,
		capacity: capacity,
		seen:     make(map[int]string),
	}
}

func (m *Memory) Next(view []session.CardView) int {
	m.forgetMatched(view)

	candidates := faceDown(view)
	if len(candidates) == 0 {
		return -1
	}

	if first, ok := flipped(view); ok {
		if partner, ok := m.partnerOf(first.Index, first.Symbol, view); ok {
			return partner
		}
		return m.explore(candidates)
	}

	if a, ok := m.knownPair(view); ok {
		return a
	}
	return m.explore(candidates)
}

func (m *Memory) Observe(index int, symbol string) {
	if _, ok := m.seen[index]; ok {
		m.seen[index] = symbol
		return
	}
	m.seen[index] = symbol
	m.order = append(m.order, index)

	if m.capacity > 0 && len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.seen, oldest)
	}
}

func (m *Memory) Reset() {
	clear(m.seen)
	m.order = m.order[:0]
}

// Known reports the symbol remembered at index.
func (m *Memory) Known(index int) (string, bool) {
	s, ok := m.seen[index]
	return s, ok
}

func (m *Memory) forgetMatched(view []session.CardView) {
	for index := range m.seen {
		if index >= len(view) || view[index].State == game.Matched {
			delete(m.seen, index)
			m.order = slices.DeleteFunc(m.order, func(i int) bool { return i == index })
		}
	}
}

func (m *Memory) partnerOf(index int, symbol string, view []session.CardView) (int, bool) {
	for _, i := range m.order {
		if i != index && m.seen[i] == symbol && view[i].State == game.Normal {
			return i, true
		}
	}
	return -1, false
}

// knownPair returns one card of a pair whose both positions are remembered.
func (m *Memory) knownPair(view []session.CardView) (int, bool) {
	for _, i := range m.order {
		if view[i].State != game.Normal {
			continue
		}
		if _, ok := m.partnerOf(i, m.seen[i], view); ok {
			return i, true
		}
	}
	return -1, false
}

// explore prefers a card never seen, falling back to any candidate.
func (m *Memory) explore(candidates []int) int {
	var unseen []int
	for _, i := range candidates {
		if _, ok := m.seen[i]; !ok {
			unseen = append(unseen, i)
		}
	}
	if len(unseen) > 0 {
		return unseen[m.rng.IntN(len(unseen))]
	}
	return candidates[m.rng.IntN(len(candidates))]
}
