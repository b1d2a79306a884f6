package sca

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sca-tree/pkg/core"
)

func TestSingleAttractorGrowsStraight(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0))
	cfg.MaxIterations = 2
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, IterationBudget, res.Reason)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 2, res.NodesAdded)

	nodes := e.Skeleton()
	require.Len(t, nodes, 3)
	requireVec(t, core.V(0.25, 0, 0), nodes[1].Pos)
	requireVec(t, core.V(0.5, 0, 0), nodes[2].Pos)
	assert.Equal(t, 0, nodes[1].Parent)
	assert.Equal(t, 1, nodes[2].Parent)
	assert.Equal(t, 2, nodes[2].Generation)
	assert.Equal(t, 2, nodes[0].Connections)

	// 0.5 from the tip is exactly the kill radius, which does not kill.
	at := e.AttractorDetails()[0]
	assert.Equal(t, Active, at.State)
	assert.Equal(t, 2, at.Nearest)
	assert.InDelta(t, 0.5, at.Dist, 1e-12)
}

func TestAttractorInsideKillRadiusIsDeadAtStart(t *testing.T) {
	cfg := fixedConfig(core.V(0.3, 0, 0))
	e := newEngine(t, cfg)
	require.Equal(t, Dead, e.Attractors()[0].State)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, Exhausted, res.Reason)
	assert.Equal(t, 0, res.Rounds)
	assert.Equal(t, 0, res.NodesAdded)
	assert.Len(t, e.Skeleton(), 1)
}

func TestGrowthUntilExhausted(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0))
	cfg.MaxIterations = 100
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, Exhausted, res.Reason)
	assert.Equal(t, 3, res.Rounds)
	assert.Len(t, e.Skeleton(), 4)
	assert.Equal(t, StateCounts{Dead: 1}, e.Stats().Attractors)
}

func TestRootSaturatesAndAttractorsMove(t *testing.T) {
	// a1 and a2 mirror each other across the YZ plane and stay nearest to the
	// root; a3 pulls the first child down and then follows it.
	cfg := fixedConfig(core.V(1, 0.1, 0), core.V(-1, 0.1, 0), core.V(0, -1, 0))
	cfg.MaxIterations = 2
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	require.Equal(t, IterationBudget, res.Reason)

	nodes := e.Skeleton()
	require.Len(t, nodes, 4)
	requireVec(t, core.V(0, -0.25, 0), nodes[1].Pos)
	requireVec(t, core.V(0, 0.25, 0), nodes[2].Pos)
	requireVec(t, core.V(0, -0.5, 0), nodes[3].Pos)

	root := nodes[0]
	assert.Equal(t, 2, root.Children)
	assert.True(t, root.Saturated())
	assert.Equal(t, 1, root.Apex)
	assert.Equal(t, 2, root.Shoot)
	assert.Equal(t, 3, root.Connections)
	assert.Equal(t, 1, nodes[3].Parent)

	ats := e.AttractorDetails()
	for i := 0; i < 2; i++ {
		assert.Equal(t, Active, ats[i].State, "attractor %d", i)
		assert.Equal(t, 2, ats[i].Nearest, "attractor %d rebinds after saturation", i)
		assert.InDelta(t, math.Sqrt(1+0.15*0.15), ats[i].Dist, 1e-12)
	}
	assert.Equal(t, Active, ats[2].State)
	assert.Equal(t, 3, ats[2].Nearest)
	assert.InDelta(t, 0.5, ats[2].Dist, 1e-12)

	for _, g := range e.attr.GroupByNearest() {
		assert.NotEqual(t, 0, g.Node, "saturated root keeps no group")
	}
}

func TestApicalControlBlocksSecondChild(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0.1, 0), core.V(-1, 0.1, 0))
	cfg.ApicalControl = 1
	cfg.MaxIterations = 10
	e := newEngine(t, cfg)

	first := e.Step()
	assert.Equal(t, 1, first.Grown)
	for i := 0; i < 5; i++ {
		st := e.Step()
		assert.Equal(t, 0, st.Grown)
		assert.Equal(t, 1, st.Suppressed)
		assert.False(t, st.Stagnant)
	}
	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, IterationBudget, res.Reason)
	assert.Equal(t, 1, e.Skeleton()[0].Children)
	assert.Len(t, e.Skeleton(), 2)
}

func TestSuppressionProbability(t *testing.T) {
	cases := []struct {
		name             string
		control, falloff float64
		children         int
		want             float64
	}{
		{"disabled", 0, 1, 1, 0},
		{"negative control", -0.5, 1, 1, 0},
		{"full control one child", 1, 1, 1, 1},
		{"full control steep falloff", 1, 3, 1, 1},
		{"no children", 0.7, 2, 0, 0},
		{"half control", 0.5, 1, 1, 0.5},
		{"half control squared", 0.5, 2, 1, 0.75},
		{"clamped", 0.8, 1, 2, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, SuppressionProbability(c.control, c.children, c.falloff), 1e-12)
		})
	}
}

func TestOpposedAttractorsStagnate(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0), core.V(-1, 0, 0))
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, Stagnation, res.Reason)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 0, res.NodesAdded)
}

func TestOutOfRangeAttractorsDoNotPull(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0))
	cfg.KillDistance = 1
	cfg.InfluenceRange = 2
	e := newEngine(t, cfg)
	assert.Equal(t, StateCounts{OutOfRange: 1}, e.Stats().Attractors)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, Exhausted, res.Reason)
	assert.Len(t, e.Skeleton(), 1)
}

func TestTropismBendsGrowth(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0))
	cfg.Tropism = 1
	cfg.MaxIterations = 1
	e := newEngine(t, cfg)
	e.Iterate(context.Background(), 0, 0)

	h := 0.25 / math.Sqrt2
	requireVec(t, core.V(h, 0, h), e.Skeleton()[1].Pos)
}

func TestExclusionRejectsCandidates(t *testing.T) {
	cfg := fixedConfig(core.V(1, 0, 0))
	cfg.MaxIterations = 5
	cfg.Exclude = func(p core.Vec3) bool { return p.X > 0.3 }
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, IterationBudget, res.Reason)
	assert.Equal(t, 1, res.NodesAdded)
	st := e.Step()
	assert.Equal(t, 1, st.Excluded)
	assert.False(t, st.Stagnant)
}

func TestExclusionKeepsNodesOutOfRegion(t *testing.T) {
	cfg := randomConfig(7, 300)
	cfg.Exclude = func(p core.Vec3) bool { return p.Z < 0 || p.X > 0.4 }
	e := newEngine(t, cfg)
	e.Iterate(context.Background(), 0, 0)

	for i, n := range e.Skeleton() {
		if n.IsRoot() {
			continue
		}
		assert.GreaterOrEqual(t, n.Pos.Z, 0.0, "node %d", i)
		assert.LessOrEqual(t, n.Pos.X, 0.4, "node %d", i)
	}
}

func TestIterateCanceled(t *testing.T) {
	e := newEngine(t, randomConfig(1, 50))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Iterate(ctx, 0, 0)
	assert.Equal(t, Canceled, res.Reason)
	assert.Equal(t, 0, res.Rounds)
}

func TestIterateTimeBudget(t *testing.T) {
	cfg := randomConfig(1, 200)
	cfg.Exclude = func(core.Vec3) bool {
		time.Sleep(time.Millisecond)
		return false
	}
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, time.Millisecond)
	assert.Equal(t, TimeBudget, res.Reason)
	assert.GreaterOrEqual(t, res.Rounds, 1)
	assert.Less(t, res.Rounds, cfg.MaxIterations)
}

func TestIterateZeroBudget(t *testing.T) {
	cfg := randomConfig(1, 50)
	cfg.MaxIterations = 0
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, IterationBudget, res.Reason)
	assert.Equal(t, 0, res.Rounds)
}

func TestIterateResumesWithFreshBudget(t *testing.T) {
	cfg := randomConfig(3, 400)
	cfg.MaxIterations = 5
	e := newEngine(t, cfg)

	first := e.Iterate(context.Background(), 0, 0)
	require.Equal(t, IterationBudget, first.Reason)
	second := e.Iterate(context.Background(), 0, 0)
	assert.Equal(t, 5, second.Rounds)
	assert.Equal(t, 10, e.Stats().Rounds)
}

func TestDeterministicGrowth(t *testing.T) {
	run := func(workers int) ([]Node, []AttractorView) {
		cfg := randomConfig(11, 1200)
		cfg.ApicalControl = 0.3
		cfg.Tropism = 0.2
		cfg.NewEndpointsPer1000 = 200
		cfg.Workers = workers
		e := newEngine(t, cfg)
		e.Iterate(context.Background(), cfg.NewEndpointsPer1000, 0)
		return e.Skeleton(), e.Attractors()
	}
	nodes1, ats1 := run(1)
	nodes2, ats2 := run(1)
	nodes4, ats4 := run(4)

	require.Greater(t, len(nodes1), 10)
	assert.Equal(t, nodes1, nodes2)
	assert.Equal(t, ats1, ats2)
	assert.Equal(t, nodes1, nodes4)
	assert.Equal(t, ats1, ats4)
}

func TestInjectionAddsAttractors(t *testing.T) {
	cfg := randomConfig(5, 20)
	e := newEngine(t, cfg)
	e.SetInjectionRate(500)

	total := 0
	for i := 0; i < 200; i++ {
		total += e.Step().Injected
	}
	assert.Greater(t, total, 50)
	assert.Less(t, total, 150)
	assert.Len(t, e.Attractors(), 20+total)
}

func TestInvalidInjectionRateIsIgnored(t *testing.T) {
	e := newEngine(t, randomConfig(5, 20))
	for _, rate := range []float64{math.NaN(), math.Inf(1), -3} {
		e.SetInjectionRate(rate)
		for i := 0; i < 50; i++ {
			assert.Equal(t, 0, e.Step().Injected)
		}
	}
}

func TestInjectionWithoutSamplerIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoints = 0
	e := newEngine(t, cfg)

	res := e.Iterate(context.Background(), 100, 0)
	assert.Equal(t, Exhausted, res.Reason)
	assert.Equal(t, 0, res.Injected)
}

func TestMultipleStartPoints(t *testing.T) {
	cfg := fixedConfig(core.V(-2, 0, 1), core.V(2, 0, 1))
	cfg.StartPoints = []core.Vec3{core.V(-2, 0, 0), core.V(2, 0, 0)}
	cfg.MaxIterations = 1
	e := newEngine(t, cfg)
	e.Iterate(context.Background(), 0, 0)

	f := e.Forest()
	assert.Equal(t, []int{0, 1}, f.Roots())
	require.Equal(t, 4, f.Len())
	requireVec(t, core.V(-2, 0, 0.25), f.Node(2).Pos)
	requireVec(t, core.V(2, 0, 0.25), f.Node(3).Pos)
	assert.Equal(t, 0, f.Node(2).Parent)
	assert.Equal(t, 1, f.Node(3).Parent)
}

func TestStepInvariants(t *testing.T) {
	cfg := randomConfig(21, 600)
	cfg.ApicalControl = 0.4
	cfg.Tropism = 0.3
	cfg.Workers = 3
	cfg.NewEndpointsPer1000 = 300
	e := newEngine(t, cfg)
	e.SetInjectionRate(cfg.NewEndpointsPer1000)

	prevNodes := e.Skeleton()
	prevAts := e.AttractorDetails()
	for round := 0; round < 80; round++ {
		e.Step()
		nodes := e.Skeleton()
		ats := e.AttractorDetails()

		require.NoError(t, e.Forest().Validate(), "round %d", round)
		require.GreaterOrEqual(t, len(nodes), len(prevNodes))
		for i := range prevNodes {
			require.Equal(t, prevNodes[i].Pos, nodes[i].Pos, "node %d moved", i)
			require.Equal(t, prevNodes[i].Parent, nodes[i].Parent, "node %d reparented", i)
		}
		for i := range prevAts {
			if prevAts[i].State == Dead {
				require.Equal(t, Dead, ats[i].State, "attractor %d revived", i)
			}
		}
		checkTopology(t, e.Forest())
		checkAssociations(t, e, nodes, ats)

		prevNodes, prevAts = nodes, ats
	}
}

// checkTopology verifies the cached per-node counters against parent links.
func checkTopology(t *testing.T, s *Skeleton) {
	t.Helper()
	subtree := make([]int, s.Len())
	for i := s.Len() - 1; i >= 0; i-- {
		n := s.Node(i)
		require.Equal(t, len(s.Children(i)), n.Children, "node %d", i)
		require.LessOrEqual(t, n.Children, MaxChildren)
		require.Equal(t, subtree[i], n.Connections, "node %d", i)
		if n.Parent >= 0 {
			require.Less(t, n.Parent, i)
			subtree[n.Parent] += subtree[i] + 1
			require.Equal(t, s.Node(n.Parent).Generation+1, n.Generation)
		} else {
			require.Equal(t, 0, n.Generation)
		}
	}
}

// checkAssociations compares the incremental caches with a brute-force scan.
func checkAssociations(t *testing.T, e *Engine, nodes []Node, ats []Attractor) {
	t.Helper()
	kill := e.cfg.killRadius()
	influence := e.cfg.influenceRadius()
	for i, at := range ats {
		if at.State == Dead {
			continue
		}
		best, closest := math.Inf(1), math.Inf(1)
		for _, n := range nodes {
			d := at.Pos.Dist(n.Pos)
			closest = math.Min(closest, d)
			if !n.Saturated() {
				best = math.Min(best, d)
			}
		}
		require.GreaterOrEqual(t, closest, kill, "attractor %d should be dead", i)
		require.InDelta(t, best, at.Dist, 1e-12, "attractor %d", i)
		if at.State == Active {
			require.Less(t, at.Dist, influence)
			require.False(t, nodes[at.Nearest].Saturated())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BranchLength = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTerminationReasonString(t *testing.T) {
	assert.Equal(t, "stagnation", Stagnation.String())
	assert.Equal(t, "attractors exhausted", Exhausted.String())
	assert.Equal(t, "unknown", TerminationReason(99).String())
}
