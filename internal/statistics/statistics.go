// Package statistics aggregates the results of simulated games.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed       int64 // RNG seed for this game (for replay)
	Pairs      int   // Pairs on the board
	Turns      int   // Pairs turned over, matched or not
	Mismatches int   // Turns that did not find a pair
}

// Statistics tracks turn counts across many games
type Statistics struct {
	Games     int
	SumTurns  float64
	SumTurns2 float64 // Sum of squares for variance calculation
	Values    []float64

	MinTurns   int
	MaxTurns   int
	Perfect    int // Games won without a single mismatch
	Mismatches int
	WorstSeed  int64 // Seed of the game with MaxTurns
}

// Mean returns the arithmetic mean turns per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumTurns / float64(s.Games)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumTurns2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	turns := float64(result.Turns)
	if s.Games == 0 || result.Turns < s.MinTurns {
		s.MinTurns = result.Turns
	}
	if s.Games == 0 || result.Turns > s.MaxTurns {
		s.MaxTurns = result.Turns
		s.WorstSeed = result.Seed
	}

	s.Games++
	s.SumTurns += turns
	s.SumTurns2 += turns * turns
	s.Values = append(s.Values, turns)
	s.Mismatches += result.Mismatches

	if result.Mismatches == 0 {
		s.Perfect++
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	if other.Games == 0 {
		return
	}
	if s.Games == 0 || other.MinTurns < s.MinTurns {
		s.MinTurns = other.MinTurns
	}
	if s.Games == 0 || other.MaxTurns > s.MaxTurns {
		s.MaxTurns = other.MaxTurns
		s.WorstSeed = other.WorstSeed
	}

	s.Games += other.Games
	s.SumTurns += other.SumTurns
	s.SumTurns2 += other.SumTurns2
	s.Values = append(s.Values, other.Values...)
	s.Perfect += other.Perfect
	s.Mismatches += other.Mismatches
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Perfect > s.Games {
		return fmt.Errorf("perfect games (%d) exceeds total games (%d)", s.Perfect, s.Games)
	}

	if s.MinTurns > s.MaxTurns {
		return fmt.Errorf("min turns (%d) exceeds max turns (%d)", s.MinTurns, s.MaxTurns)
	}

	return nil
}
