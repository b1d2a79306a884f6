package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sca-tree/internal/core"
)

func TestParameters(t *testing.T) {
	s, err := New(smallConfig())
	require.NoError(t, err)
	snap := s.Parameters()

	p, ok := snap.Lookup("growth.branch_length")
	require.True(t, ok)
	assert.Equal(t, "0.75", p.Value)
	assert.Equal(t, core.ParamTypeFloat, p.Type)

	p, ok = snap.Lookup("growth.max_time")
	require.True(t, ok)
	assert.Equal(t, "0s", p.Value)
	assert.Equal(t, core.ParamTypeDuration, p.Type)

	p, ok = snap.Lookup("seed")
	require.True(t, ok)
	assert.Equal(t, "3", p.Value)

	for _, c := range s.ParameterControls() {
		_, ok := snap.Lookup(c.Key)
		assert.True(t, ok, c.Key)
	}
}

func TestSetFloatParameter(t *testing.T) {
	s, err := New(smallConfig())
	require.NoError(t, err)
	s.Step()

	require.True(t, s.SetFloatParameter("growth.tropism", 0.2))
	assert.Equal(t, 0.2, s.Config().Growth.Tropism)
	assert.Equal(t, 0.2, s.Engine().Config().Tropism)
	assert.Equal(t, 1, s.Snapshot().Stats.Nodes)

	assert.False(t, s.SetFloatParameter("growth.branch_length", -1))
	assert.Equal(t, 0.75, s.Config().Growth.BranchLength)
	assert.False(t, s.SetFloatParameter("growth.unknown", 1))
}

func TestSetIntParameter(t *testing.T) {
	s, err := New(smallConfig())
	require.NoError(t, err)

	require.True(t, s.SetIntParameter("seed", 9))
	assert.Equal(t, int64(9), s.Seed())

	require.True(t, s.SetIntParameter("growth.endpoints", 20))
	assert.Len(t, s.Snapshot().Attractors, 20)
	assert.Equal(t, int64(9), s.Seed())

	assert.False(t, s.SetIntParameter("growth.max_iterations", -1))
	assert.Equal(t, 60, s.Config().Growth.MaxIterations)
}
