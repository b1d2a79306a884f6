package sca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sca-tree/pkg/core"
)

func TestAttractorClassification(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}})
	a := NewAttractorSet(s, 0.25, 0.5, 1)

	dead := a.Add(core.V(0.1, 0, 0))
	far := a.Add(core.V(1, 0, 0))
	near := a.Add(core.V(0.4, 0, 0))

	assert.Equal(t, Dead, a.At(dead).State)
	assert.Equal(t, OutOfRange, a.At(far).State)
	assert.Equal(t, 0, a.At(far).Nearest)
	require.Equal(t, Active, a.At(near).State)
	assert.Equal(t, core.V(1, 0, 0), a.At(near).Dir)
	assert.InDelta(t, 0.4, a.At(near).Dist, 1e-12)
	assert.Equal(t, StateCounts{Active: 1, Dead: 1, OutOfRange: 1}, a.Counts())
	assert.Equal(t, 1, a.ActiveCount())
}

func TestReassociateOnNodeAdded(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}})
	a := NewAttractorSet(s, 0.25, 0.5, 1)
	far := a.Add(core.V(1, 0, 0))
	near := a.Add(core.V(0.4, 0, 0))
	side := a.Add(core.V(0, 0.3, 0))

	idx, _ := s.grow(0, core.V(0.5, 0, 0))
	a.ReassociateOnNodeAdded(idx)

	// exactly at the influence radius
	assert.Equal(t, OutOfRange, a.At(far).State)
	assert.Equal(t, idx, a.At(far).Nearest)
	assert.Equal(t, Dead, a.At(near).State)
	assert.Equal(t, 0, a.At(side).Nearest)
	assert.Equal(t, Active, a.At(side).State)
}

func TestInvalidateSaturated(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}})
	a := NewAttractorSet(s, 0.25, 0.5, 1)
	side := a.Add(core.V(0, 0.3, 0))

	n1, _ := s.grow(0, core.V(0.5, 0, 0))
	a.ReassociateOnNodeAdded(n1)
	n2, sat := s.grow(0, core.V(-0.5, 0, 0))
	require.True(t, sat)
	a.ReassociateOnNodeAdded(n2)
	require.Equal(t, 0, a.At(side).Nearest, "still cached on the saturated root")

	a.InvalidateSaturated(0)
	at := a.At(side)
	assert.Equal(t, n1, at.Nearest)
	assert.Equal(t, OutOfRange, at.State)
	assert.InDelta(t, math.Hypot(0.5, 0.3), at.Dist, 1e-12)
}

func TestNoGrowableNode(t *testing.T) {
	s := NewSkeleton(nil)
	a := NewAttractorSet(s, 0.25, math.Inf(1), 1)
	i := a.Add(core.V(1, 1, 1))
	assert.Equal(t, OutOfRange, a.At(i).State)
	assert.Equal(t, -1, a.At(i).Nearest)
	assert.Empty(t, a.GroupByNearest())
}

func TestGroupByNearest(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}, core.V(10, 0, 0)})
	a := NewAttractorSet(s, 0.1, math.Inf(1), 1)
	a.Add(core.V(9, 0, 1))
	a.Add(core.V(1, 0, 0))
	a.Add(core.V(11, 0, 0))
	a.Add(core.V(0.01, 0, 0))

	groups := a.GroupByNearest()
	require.Len(t, groups, 2)
	assert.Equal(t, Group{Node: 0, Attractors: []int{1}}, groups[0])
	assert.Equal(t, Group{Node: 1, Attractors: []int{0, 2}}, groups[1])
}

func TestAddBatchMatchesAdd(t *testing.T) {
	build := func(workers int, batch bool) []Attractor {
		s := NewSkeleton([]core.Vec3{{}, core.V(1, 1, 0), core.V(-1, 0, 2)})
		a := NewAttractorSet(s, 0.3, 2, workers)
		smp := newCubeSampler(9, 2, 0)
		pts := make([]core.Vec3, 1000)
		for i := range pts {
			pts[i] = smp.Next()
		}
		if batch {
			a.AddBatch(pts)
		} else {
			for _, p := range pts {
				a.Add(p)
			}
		}
		return append([]Attractor(nil), a.points...)
	}
	want := build(1, false)
	assert.Equal(t, want, build(1, true))
	assert.Equal(t, want, build(4, true))
}

func TestAttractorStateString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "dead", Dead.String())
	assert.Equal(t, "out-of-range", OutOfRange.String())
}

func TestForEachRangeCoversAll(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8} {
		for _, n := range []int{0, 1, 255, 256, 257, 1000, 4097} {
			hits := make([]int, n)
			forEachRange(n, workers, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					hits[i]++
				}
			})
			for i, h := range hits {
				require.Equal(t, 1, h, "n=%d workers=%d i=%d", n, workers, i)
			}
		}
	}
}
