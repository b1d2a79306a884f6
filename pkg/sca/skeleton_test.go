package sca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sca-tree/pkg/core"
)

// smallTree builds
//
//	0 ── 1 ── 3
//	 └── 2
func smallTree() *Skeleton {
	s := NewSkeleton([]core.Vec3{{}})
	s.grow(0, core.V(0, 0, 1))
	s.grow(0, core.V(1, 0, 0))
	s.grow(1, core.V(0, 0, 2))
	return s
}

func TestGrowUpdatesParent(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}})
	idx, sat := s.grow(0, core.V(0, 0, 1))
	assert.Equal(t, 1, idx)
	assert.False(t, sat)
	idx, sat = s.grow(0, core.V(1, 0, 0))
	assert.Equal(t, 2, idx)
	assert.True(t, sat)

	root := s.Node(0)
	assert.Equal(t, 2, root.Children)
	assert.Equal(t, 1, root.Apex)
	assert.Equal(t, 2, root.Shoot)
	assert.False(t, s.Growable(0))
	assert.True(t, s.Growable(1))
}

func TestConnectionsCountSubtree(t *testing.T) {
	s := smallTree()
	assert.Equal(t, 3, s.Node(0).Connections)
	assert.Equal(t, 1, s.Node(1).Connections)
	assert.Equal(t, 0, s.Node(2).Connections)
	assert.Equal(t, 0, s.Node(3).Connections)
	assert.Equal(t, 2, s.Node(3).Generation)
}

func TestChildren(t *testing.T) {
	s := smallTree()
	assert.Equal(t, []int{1, 2}, s.Children(0))
	assert.Equal(t, []int{3}, s.Children(1))
	assert.Empty(t, s.Children(3))
}

func TestBranches(t *testing.T) {
	s := smallTree()
	assert.Equal(t, [][]int{{0, 1, 3}, {2}}, s.Branches())

	s.grow(2, core.V(2, 0, 0))
	s.grow(1, core.V(-1, 0, 1))
	assert.Equal(t, [][]int{{0, 1, 3}, {2, 4}, {5}}, s.Branches())
}

func TestBranchesCoverEveryNodeOnce(t *testing.T) {
	s := NewSkeleton([]core.Vec3{{}, core.V(5, 0, 0)})
	rng := core.NewRNG(3)
	for i := 0; i < 500; i++ {
		p := rng.Source().IntN(s.Len())
		if s.Growable(p) {
			s.grow(p, core.V(rng.Float64(), rng.Float64(), rng.Float64()))
		}
	}
	seen := make([]int, s.Len())
	for _, chain := range s.Branches() {
		for k, n := range chain {
			seen[n]++
			if k > 0 {
				assert.Equal(t, chain[k-1], s.Node(n).Parent)
			}
		}
	}
	for i, c := range seen {
		assert.Equal(t, 1, c, "node %d", i)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, smallTree().Validate())

	cycle := &Skeleton{nodes: []Node{
		{Parent: -1},
		{Parent: 2},
		{Parent: 1},
	}}
	assert.ErrorIs(t, cycle.Validate(), ErrForest)

	crowded := &Skeleton{nodes: []Node{
		{Parent: -1},
		{Parent: 0},
		{Parent: 0},
		{Parent: 0},
	}}
	assert.ErrorIs(t, crowded.Validate(), ErrForest)

	dangling := &Skeleton{nodes: []Node{{Parent: -1}, {Parent: 7}}}
	assert.ErrorIs(t, dangling.Validate(), ErrForest)
}

func TestPrune(t *testing.T) {
	s := smallTree()
	nodes, remap := Prune(s.Nodes(), 1)

	assert.Equal(t, []int{-1, 0, 1, 2}, remap)
	require.Len(t, nodes, 3)
	assert.Equal(t, -1, nodes[0].Parent)
	assert.Equal(t, -1, nodes[1].Parent)
	assert.Equal(t, 0, nodes[2].Parent)
	assert.Equal(t, 2, nodes[0].Apex)
	assert.Equal(t, core.V(0, 0, 2), nodes[2].Pos)
	require.NoError(t, validateNodes(nodes))
}

func TestPruneSkeleton(t *testing.T) {
	s := smallTree()
	pruned, _ := s.Prune(1)
	assert.Equal(t, []int{0, 1}, pruned.Roots())
	assert.Equal(t, [][]int{{0, 2}, {1}}, pruned.Branches())

	all, remap := s.Prune(0)
	assert.Equal(t, s.Nodes(), all.Nodes())
	assert.Equal(t, []int{0, 1, 2, 3}, remap)

	none, _ := s.Prune(10)
	assert.Equal(t, 0, none.Len())
	assert.Empty(t, none.Roots())
}
