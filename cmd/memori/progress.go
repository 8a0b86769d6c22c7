package main

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const progressDots = 40

// dotProgress prints a fixed-width row of dots per simulated player.
type dotProgress struct {
	mu      sync.Mutex
	w       io.Writer
	printed int
	start   time.Time
}

func newDotProgress(w io.Writer, player string) *dotProgress {
	fmt.Fprintf(w, "%-10s ", player+":")
	return &dotProgress{w: w, start: time.Now()}
}

func (p *dotProgress) OnGame(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total <= 0 {
		total = 1
	}
	target := min(done*progressDots/total, progressDots)
	for ; p.printed < target; p.printed++ {
		fmt.Fprint(p.w, ".")
	}

	if done >= total {
		elapsed := time.Since(p.start)
		fmt.Fprintf(p.w, " %d games in %.1fs (%.0f/sec)\n", total, elapsed.Seconds(), float64(total)/elapsed.Seconds())
	}
}
