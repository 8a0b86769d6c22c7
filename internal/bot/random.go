package bot

import (
	rand "math/rand/v2"

	"github.com/lox/memori/internal/session"
)

// Random flips a uniformly random face-down card and remembers nothing.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// Next returns -1 when no card can be flipped.
func (r *Random) Next(view []session.CardView) int {
	candidates := faceDown(view)
	if len(candidates) == 0 {
		return -1
	}
	return candidates[r.rng.IntN(len(candidates))]
}

func (r *Random) Observe(int, string) {}

func (r *Random) Reset() {}
