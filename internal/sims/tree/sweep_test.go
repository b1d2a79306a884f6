package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	base := smallConfig()
	values := []string{"0", "0.3", "bogus", "0.6"}
	results, err := Sweep(context.Background(), base, "growth.tropism", values, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, len(values))

	for i, r := range results {
		assert.Equal(t, "growth.tropism", r.Key)
		assert.Equal(t, values[i], r.Value)
	}
	assert.ErrorIs(t, results[2].Err, ErrPreset)

	direct, err := New(base)
	require.NoError(t, err)
	res := direct.Grow(context.Background())
	stats := direct.Engine().Stats()

	first := results[0]
	require.NoError(t, first.Err)
	assert.Equal(t, stats.Nodes, first.Nodes)
	assert.Equal(t, stats.MaxGeneration, first.MaxGeneration)
	assert.Equal(t, stats.Attractors.Dead, first.Dead)
	assert.Equal(t, res.Rounds, first.Rounds)
	assert.Equal(t, res.Reason, first.Reason)
	assert.Equal(t, 80, first.Active+first.Dead+first.OutOfRange)
}

func TestSweepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, smallConfig(), "growth.tropism", []string{"0", "0.1"}, 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
