package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisklein/memtally/internal/alloc"
	"github.com/dennisklein/memtally/internal/progress"
)

func TestNewStressCmd(t *testing.T) {
	cmd := newStressCmd()

	require.NotNil(t, cmd)
	assert.Equal(t, "stress", cmd.Use)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"workers", "iterations", "size", "hold", "budget", "progress"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestStress(t *testing.T) {
	t.Run("returns to the starting count", func(t *testing.T) {
		before := alloc.Load()
		bar := progress.New(200, nil)

		res, err := stress(context.Background(), alloc.Global,
			stressOptions{workers: 4, iterations: 50, size: 128, hold: 2}, bar)
		require.NoError(t, err)

		assert.Equal(t, int64(200), res.ops)
		assert.Equal(t, int64(200), bar.Current())
		assert.GreaterOrEqual(t, res.peak, before+256)
		assert.Equal(t, before, alloc.Load())
	})

	t.Run("budget failures release held buffers", func(t *testing.T) {
		before := alloc.Load()

		_, err := stress(context.Background(), alloc.NewLimited(alloc.Global, 300),
			stressOptions{workers: 1, iterations: 5, size: 128, hold: 3}, nil)
		require.ErrorIs(t, err, alloc.ErrBudgetExceeded)
		assert.Equal(t, before, alloc.Load())
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := stress(ctx, alloc.Global, stressOptions{workers: 2, iterations: 10, size: 1, hold: 1}, nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, res.ops)
	})
}

func TestRunStress(t *testing.T) {
	t.Run("logs before and after", func(t *testing.T) {
		useMemFs(t)
		keepStdLogger(t)

		_, stderr, err := execute(t, "stress", "-c", testConfigPath, "-n", "2", "-i", "20", "-s", "1500")
		require.NoError(t, err)

		assert.Contains(t, stderr, "starting")
		assert.Contains(t, stderr, "size=1.50 kB")
		assert.Contains(t, stderr, "ops=40")
		assert.Contains(t, stderr, "finished, live bytes")
		assert.Contains(t, stderr, "(40 / 40)")
		assert.NotContains(t, stderr, "drifted")
	})

	t.Run("budget exceeded", func(t *testing.T) {
		useMemFs(t)
		keepStdLogger(t)

		_, stderr, err := execute(t, "stress", "-c", testConfigPath, "--progress=false", "-s", "100", "--budget", "50")
		require.ErrorIs(t, err, alloc.ErrBudgetExceeded)
		assert.Contains(t, stderr, "stress run failed")
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		for _, args := range [][]string{
			{"stress", "-n", "0"},
			{"stress", "-i", "-1"},
			{"stress", "-s", "-5"},
			{"stress", "--hold", "0"},
		} {
			_, _, err := execute(t, args...)
			require.Error(t, err, args)
			assert.Contains(t, err.Error(), "invalid --", args)
		}
	})
}
