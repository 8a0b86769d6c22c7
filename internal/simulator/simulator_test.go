package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eight = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

func TestRunIsDeterministicAcrossWorkers(t *testing.T) {
	one, err := Run(context.Background(), Config{Games: 40, Player: "random", Symbols: eight, Seed: 99, Workers: 1})
	require.NoError(t, err)
	many, err := Run(context.Background(), Config{Games: 40, Player: "random", Symbols: eight, Seed: 99, Workers: 7})
	require.NoError(t, err)

	assert.Equal(t, one.Stats.Values, many.Stats.Values)
	assert.Equal(t, one.Stats.WorstSeed, many.Stats.WorstSeed)
	assert.Equal(t, 40, many.Stats.Games)
}

func TestRunReportsProgress(t *testing.T) {
	var calls, last atomic.Int64
	_, err := Run(context.Background(), Config{
		Games:   25,
		Player:  "memory",
		Symbols: eight,
		Workers: 4,
		Progress: func(done, total int) {
			assert.Equal(t, 25, total)
			calls.Add(1)
			if int64(done) > last.Load() {
				last.Store(int64(done))
			}
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 25, calls.Load())
	assert.EqualValues(t, 25, last.Load())
}

func TestMemoryBeatsRandom(t *testing.T) {
	random, err := Run(context.Background(), Config{Games: 200, Player: "random", Symbols: eight, Seed: 1})
	require.NoError(t, err)
	memory, err := Run(context.Background(), Config{Games: 200, Player: "memory", Symbols: eight, Seed: 1})
	require.NoError(t, err)

	assert.Less(t, memory.Stats.Mean(), random.Stats.Mean())
	assert.GreaterOrEqual(t, memory.Stats.MinTurns, len(eight))
	assert.LessOrEqual(t, memory.Stats.MaxTurns, 3*len(eight))
}

func TestPlayGame(t *testing.T) {
	a, err := PlayGame("memory", eight, 5)
	require.NoError(t, err)
	b, err := PlayGame("memory", eight, 5)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 8, a.Pairs)
	assert.Equal(t, a.Turns-a.Mismatches, 8, "every pair matched exactly once")
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []Config{
		{Games: 0, Player: "random", Symbols: eight},
		{Games: 1, Player: "random"},
		{Games: 1, Player: "psychic", Symbols: eight},
	}
	for _, cfg := range tests {
		_, err := Run(context.Background(), cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Games: 10, Player: "random", Symbols: eight})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteJSONAndSummary(t *testing.T) {
	result, err := Run(context.Background(), Config{Games: 10, Player: "memory", Symbols: eight, Seed: 3})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, result.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "memory", report.Player)
	assert.Equal(t, 10, report.Games)
	assert.Equal(t, 8, report.Pairs)
	assert.InDelta(t, result.Stats.Mean(), report.MeanTurns, 1e-9)

	var buf bytes.Buffer
	PrintSummary(&buf, result)
	assert.Contains(t, buf.String(), "memory player, 8 pairs")
	assert.Contains(t, buf.String(), "Games played: 10")
}
