package statistics

import (
	"math"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Seed: 1, Pairs: 8, Turns: 12, Mismatches: 4})
	stats.Add(GameResult{Seed: 2, Pairs: 8, Turns: 8, Mismatches: 0})
	stats.Add(GameResult{Seed: 3, Pairs: 8, Turns: 16, Mismatches: 8})

	if stats.Games != 3 {
		t.Errorf("Expected 3 games, got %d", stats.Games)
	}
	if stats.Mean() != 12 {
		t.Errorf("Expected mean of 12, got %f", stats.Mean())
	}
	if stats.Variance() != 16 {
		t.Errorf("Expected variance of 16, got %f", stats.Variance())
	}
	if stats.StdDev() != 4 {
		t.Errorf("Expected stddev of 4, got %f", stats.StdDev())
	}
	if stats.MinTurns != 8 || stats.MaxTurns != 16 {
		t.Errorf("Expected min/max 8/16, got %d/%d", stats.MinTurns, stats.MaxTurns)
	}
	if stats.WorstSeed != 3 {
		t.Errorf("Expected worst seed 3, got %d", stats.WorstSeed)
	}
	if stats.Perfect != 1 {
		t.Errorf("Expected 1 perfect game, got %d", stats.Perfect)
	}
	if stats.Mismatches != 12 {
		t.Errorf("Expected 12 mismatches, got %d", stats.Mismatches)
	}
	if stats.Median() != 12 {
		t.Errorf("Expected median of 12, got %f", stats.Median())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	low, high := stats.ConfidenceInterval95()
	margin := 1.96 * 4 / math.Sqrt(3)
	if math.Abs(low-(12-margin)) > 1e-9 || math.Abs(high-(12+margin)) > 1e-9 {
		t.Errorf("Unexpected confidence interval [%f, %f]", low, high)
	}
}

func TestStatistics_Percentile(t *testing.T) {
	stats := &Statistics{}
	for turns := 1; turns <= 5; turns++ {
		stats.Add(GameResult{Turns: turns, Mismatches: 1})
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.9, 4.6},
		{1, 5},
	}
	for _, tt := range tests {
		if got := stats.Percentile(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %f, want %f", tt.p, got, tt.want)
		}
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	a.Add(GameResult{Seed: 1, Turns: 10, Mismatches: 2})
	a.Add(GameResult{Seed: 2, Turns: 9, Mismatches: 1})

	b := &Statistics{}
	b.Add(GameResult{Seed: 3, Turns: 20, Mismatches: 12})
	b.Add(GameResult{Seed: 4, Turns: 8, Mismatches: 0})

	total := &Statistics{}
	total.Merge(a)
	total.Merge(b)
	total.Merge(&Statistics{})

	if total.Games != 4 {
		t.Errorf("Expected 4 games, got %d", total.Games)
	}
	if total.Mean() != 11.75 {
		t.Errorf("Expected mean of 11.75, got %f", total.Mean())
	}
	if total.MinTurns != 8 || total.MaxTurns != 20 || total.WorstSeed != 3 {
		t.Errorf("Unexpected extremes: min=%d max=%d worst=%d", total.MinTurns, total.MaxTurns, total.WorstSeed)
	}
	if total.Perfect != 1 {
		t.Errorf("Expected 1 perfect game, got %d", total.Perfect)
	}
	if err := total.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}
