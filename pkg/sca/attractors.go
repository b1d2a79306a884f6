package sca

import (
	"math"
	"sort"

	"sca-tree/pkg/core"
)

// AttractorState is the association state of an attractor.
type AttractorState uint8

const (
	// Active attractors pull on their nearest growable node.
	Active AttractorState = iota
	// Dead attractors were consumed by a node within the kill distance.
	Dead
	// OutOfRange attractors have no growable node within the influence range.
	OutOfRange
)

func (s AttractorState) String() string {
	switch s {
	case Active:
		return "active"
	case Dead:
		return "dead"
	case OutOfRange:
		return "out-of-range"
	default:
		return "unknown"
	}
}

// Attractor is a target point and its cached association.
type Attractor struct {
	Pos   core.Vec3
	State AttractorState

	// Nearest is the cached nearest growable node, -1 when there is none.
	Nearest int
	// Dir is the unit direction from Nearest to Pos; zero when degenerate.
	Dir  core.Vec3
	Dist float64
}

// AttractorView is the read-only projection handed to visualizers.
type AttractorView struct {
	Pos   core.Vec3
	State AttractorState
}

// StateCounts tallies attractors per state.
type StateCounts struct {
	Active     int
	Dead       int
	OutOfRange int
}

// Group is the set of Active attractors nearest to one node.
type Group struct {
	Node       int
	Attractors []int
}

// AttractorSet owns all attractors. Its caches reference nodes of one
// skeleton by index.
type AttractorSet struct {
	points    []Attractor
	skel      *Skeleton
	kill      float64
	influence float64
	workers   int
}

// NewAttractorSet creates an empty set bound to skel. kill and influence are
// absolute distances.
func NewAttractorSet(skel *Skeleton, kill, influence float64, workers int) *AttractorSet {
	if workers < 1 {
		workers = 1
	}
	return &AttractorSet{skel: skel, kill: kill, influence: influence, workers: workers}
}

// Len returns the number of attractors ever added.
func (a *AttractorSet) Len() int { return len(a.points) }

// At returns a copy of attractor i.
func (a *AttractorSet) At(i int) Attractor { return a.points[i] }

// Add appends an attractor and associates it with the current skeleton.
func (a *AttractorSet) Add(p core.Vec3) int {
	idx := len(a.points)
	a.points = append(a.points, Attractor{Pos: p, Nearest: -1, Dist: math.Inf(1)})
	a.rescan(idx)
	return idx
}

// AddBatch appends several attractors, associating them in parallel.
func (a *AttractorSet) AddBatch(ps []core.Vec3) {
	base := len(a.points)
	for _, p := range ps {
		a.points = append(a.points, Attractor{Pos: p, Nearest: -1, Dist: math.Inf(1)})
	}
	forEachRange(len(ps), a.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a.rescan(base + i)
		}
	})
}

// ReassociateOnNodeAdded updates every live attractor for which node is
// closer than its cached nearest node.
func (a *AttractorSet) ReassociateOnNodeAdded(node int) {
	a.reassociate([]int{node})
}

// reassociate applies ReassociateOnNodeAdded for each node in order. Every
// attractor is owned by exactly one worker.
func (a *AttractorSet) reassociate(nodes []int) {
	if len(nodes) == 0 {
		return
	}
	forEachRange(len(a.points), a.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			at := &a.points[i]
			for _, n := range nodes {
				if at.State == Dead {
					break
				}
				d := at.Pos.Dist(a.skel.nodes[n].Pos)
				if d < at.Dist {
					a.classify(at, n, d, d)
				}
			}
		}
	})
}

// InvalidateSaturated rescans every live attractor cached against node over
// the full growable node set.
func (a *AttractorSet) InvalidateSaturated(node int) {
	a.invalidate([]int{node})
}

func (a *AttractorSet) invalidate(nodes []int) {
	if len(nodes) == 0 {
		return
	}
	stale := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		stale[n] = true
	}
	forEachRange(len(a.points), a.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			at := &a.points[i]
			if at.State != Dead && at.Nearest >= 0 && stale[at.Nearest] {
				a.rescan(i)
			}
		}
	})
}

// GroupByNearest returns the Active attractors grouped by their cached
// nearest node, ordered by node index.
func (a *AttractorSet) GroupByNearest() []Group {
	byNode := make(map[int][]int)
	for i, at := range a.points {
		if at.State != Active || at.Nearest < 0 {
			continue
		}
		byNode[at.Nearest] = append(byNode[at.Nearest], i)
	}
	groups := make([]Group, 0, len(byNode))
	for n, members := range byNode {
		groups = append(groups, Group{Node: n, Attractors: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Node < groups[j].Node })
	return groups
}

// ActiveCount returns the number of Active attractors.
func (a *AttractorSet) ActiveCount() int {
	n := 0
	for _, at := range a.points {
		if at.State == Active {
			n++
		}
	}
	return n
}

// Counts tallies attractors per state.
func (a *AttractorSet) Counts() StateCounts {
	var c StateCounts
	for _, at := range a.points {
		switch at.State {
		case Active:
			c.Active++
		case Dead:
			c.Dead++
		case OutOfRange:
			c.OutOfRange++
		}
	}
	return c
}

// Snapshot returns the position and state of every attractor.
func (a *AttractorSet) Snapshot() []AttractorView {
	out := make([]AttractorView, len(a.points))
	for i, at := range a.points {
		out[i] = AttractorView{Pos: at.Pos, State: at.State}
	}
	return out
}

// rescan recomputes attractor i against every node. Any node inside the
// kill distance consumes it; otherwise it binds to the nearest growable node.
func (a *AttractorSet) rescan(i int) {
	at := &a.points[i]
	if at.State == Dead {
		return
	}
	nearest, best, closest := -1, math.Inf(1), math.Inf(1)
	for n := range a.skel.nodes {
		d := at.Pos.Dist(a.skel.nodes[n].Pos)
		if d < closest {
			closest = d
		}
		if a.skel.nodes[n].Saturated() {
			continue
		}
		if d < best {
			nearest, best = n, d
		}
	}
	a.classify(at, nearest, best, closest)
}

// classify stores the association of at with node at distance dist. closest
// is the distance to the nearest node of any kind and decides death.
func (a *AttractorSet) classify(at *Attractor, node int, dist, closest float64) {
	if closest < a.kill {
		at.State = Dead
		at.Nearest = node
		at.Dist = dist
		at.Dir = core.Vec3{}
		return
	}
	at.Nearest = node
	at.Dist = dist
	at.Dir = core.Vec3{}
	if node < 0 {
		at.State = OutOfRange
		return
	}
	if dir, ok := at.Pos.Sub(a.skel.nodes[node].Pos).Normalize(); ok {
		at.Dir = dir
	}
	if dist < a.influence {
		at.State = Active
	} else {
		at.State = OutOfRange
	}
}
