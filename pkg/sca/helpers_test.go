package sca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"sca-tree/pkg/core"
)

// listSampler replays a fixed list of points and then repeats the last one.
type listSampler struct {
	pts []core.Vec3
	i   int
}

func (s *listSampler) Next() core.Vec3 {
	p := s.pts[min(s.i, len(s.pts)-1)]
	s.i++
	return p
}

// cubeSampler draws uniformly from the cube [-h, h]^3 shifted up by lift.
type cubeSampler struct {
	rng  *core.RNG
	h    float64
	lift float64
}

func newCubeSampler(seed int64, h, lift float64) *cubeSampler {
	return &cubeSampler{rng: core.NewRNG(seed), h: h, lift: lift}
}

func (s *cubeSampler) Next() core.Vec3 {
	return core.V(s.rng.Symmetric()*s.h, s.rng.Symmetric()*s.h, s.rng.Symmetric()*s.h+s.lift)
}

// fixedConfig returns a config that grows from the origin toward pts only.
func fixedConfig(pts ...core.Vec3) Config {
	cfg := DefaultConfig()
	cfg.BranchLength = 0.25
	cfg.KillDistance = 2
	cfg.InfluenceRange = math.Inf(1)
	cfg.Endpoints = len(pts)
	cfg.Sampler = &listSampler{pts: pts}
	return cfg
}

func randomConfig(seed int64, endpoints int) Config {
	cfg := DefaultConfig()
	cfg.BranchLength = 0.1
	cfg.KillDistance = 2
	cfg.InfluenceRange = 40
	cfg.Seed = seed
	cfg.Endpoints = endpoints
	cfg.MaxIterations = 60
	cfg.Sampler = newCubeSampler(seed+1, 1, 1.5)
	return cfg
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func requireVec(t *testing.T, want, got core.Vec3) {
	t.Helper()
	require.InDelta(t, want.X, got.X, 1e-12, "x")
	require.InDelta(t, want.Y, got.Y, 1e-12, "y")
	require.InDelta(t, want.Z, got.Z, 1e-12, "z")
}
