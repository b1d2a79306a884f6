package sca

import (
	"fmt"

	"sca-tree/pkg/core"
)

// MaxChildren is the child count at which a node is saturated.
const MaxChildren = 2

// Node is one committed branch point.
type Node struct {
	Pos    core.Vec3
	Parent int // -1 for roots

	// Children counts directly grown children.
	Children int
	// Connections is the size of the subtree below the node.
	Connections int
	// Generation is the edge distance to the node's root.
	Generation int

	// Apex is the first grown child and Shoot the second; -1 when absent.
	Apex  int
	Shoot int
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent < 0 }

// Saturated reports whether the node reached the child ceiling.
func (n Node) Saturated() bool { return n.Children >= MaxChildren }

// Skeleton is an index-stable arena of nodes forming a forest.
type Skeleton struct {
	nodes []Node
	roots []int
}

// NewSkeleton creates a skeleton with one root per starting point.
func NewSkeleton(starts []core.Vec3) *Skeleton {
	s := &Skeleton{
		nodes: make([]Node, 0, len(starts)),
		roots: make([]int, 0, len(starts)),
	}
	for _, p := range starts {
		s.addRoot(p)
	}
	return s
}

func (s *Skeleton) addRoot(p core.Vec3) int {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{Pos: p, Parent: -1, Apex: -1, Shoot: -1})
	s.roots = append(s.roots, idx)
	return idx
}

// Len returns the number of nodes.
func (s *Skeleton) Len() int { return len(s.nodes) }

// Node returns a copy of node i.
func (s *Skeleton) Node(i int) Node { return s.nodes[i] }

// Roots returns the indices of the root nodes.
func (s *Skeleton) Roots() []int { return append([]int(nil), s.roots...) }

// Nodes returns a copy of the node arena.
func (s *Skeleton) Nodes() []Node { return append([]Node(nil), s.nodes...) }

// Growable reports whether node i can still attract growth.
func (s *Skeleton) Growable(i int) bool { return !s.nodes[i].Saturated() }

// grow appends a child of parent at p and propagates connection counts up
// the ancestor chain. It reports whether the parent became saturated.
func (s *Skeleton) grow(parent int, p core.Vec3) (int, bool) {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{
		Pos:        p,
		Parent:     parent,
		Generation: s.nodes[parent].Generation + 1,
		Apex:       -1,
		Shoot:      -1,
	})
	par := &s.nodes[parent]
	if par.Apex < 0 {
		par.Apex = idx
	} else {
		par.Shoot = idx
	}
	par.Children++
	for a := parent; a >= 0; a = s.nodes[a].Parent {
		s.nodes[a].Connections++
	}
	return idx, par.Children == MaxChildren
}

// Children returns the direct children of node i in index order. The list is
// derived from parent links on every call.
func (s *Skeleton) Children(i int) []int {
	var out []int
	for j := i + 1; j < len(s.nodes); j++ {
		if s.nodes[j].Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// Branches decomposes the forest into chains: each chain starts at a root or
// at a shoot and follows apex links until a tip.
func (s *Skeleton) Branches() [][]int {
	var out [][]int
	stack := make([]int, 0, len(s.roots))
	for i := len(s.roots) - 1; i >= 0; i-- {
		stack = append(stack, s.roots[i])
	}
	for len(stack) > 0 {
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		chain := []int{start}
		var shoots []int
		for cur := start; ; {
			n := s.nodes[cur]
			if n.Shoot >= 0 {
				shoots = append(shoots, n.Shoot)
			}
			if n.Apex < 0 {
				break
			}
			cur = n.Apex
			chain = append(chain, cur)
		}
		out = append(out, chain)
		for i := len(shoots) - 1; i >= 0; i-- {
			stack = append(stack, shoots[i])
		}
	}
	return out
}

// Validate checks the forest invariant and the child ceiling.
func (s *Skeleton) Validate() error {
	return validateNodes(s.nodes)
}

func validateNodes(nodes []Node) error {
	children := make([]int, len(nodes))
	for i, n := range nodes {
		if n.Parent >= len(nodes) {
			return fmt.Errorf("%w: node %d has parent %d out of range", ErrForest, i, n.Parent)
		}
		if n.Parent >= 0 {
			children[n.Parent]++
		}
	}
	for i, n := range nodes {
		if children[i] > MaxChildren {
			return fmt.Errorf("%w: node %d has %d children", ErrForest, i, children[i])
		}
		steps := 0
		for cur := n.Parent; cur >= 0; cur = nodes[cur].Parent {
			steps++
			if steps > len(nodes) {
				return fmt.Errorf("%w: node %d is on a cycle", ErrForest, i)
			}
		}
	}
	return nil
}
