package sca

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"sca-tree/pkg/core"
)

// TerminationReason tells why Iterate stopped.
type TerminationReason uint8

const (
	// Running means the engine has not terminated yet.
	Running TerminationReason = iota
	// IterationBudget means MaxIterations rounds ran.
	IterationBudget
	// Exhausted means no Active attractor was left.
	Exhausted
	// Stagnation means a round had no node with a usable growth direction.
	Stagnation
	// TimeBudget means the wall-clock budget ran out.
	TimeBudget
	// Canceled means the context was done at a round boundary.
	Canceled
)

func (r TerminationReason) String() string {
	switch r {
	case Running:
		return "running"
	case IterationBudget:
		return "iteration budget"
	case Exhausted:
		return "attractors exhausted"
	case Stagnation:
		return "stagnation"
	case TimeBudget:
		return "time budget"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result summarizes one Iterate call.
type Result struct {
	Rounds     int
	NodesAdded int
	Injected   int
	Reason     TerminationReason
	Elapsed    time.Duration
}

// StepResult summarizes one round.
type StepResult struct {
	Grown      int
	Suppressed int
	Excluded   int
	Degenerate int
	Injected   int
	// Stagnant is set when no node had a usable growth direction.
	Stagnant bool
}

// Stats is a point-in-time summary of the engine state.
type Stats struct {
	Nodes         int
	Roots         int
	MaxGeneration int
	Rounds        int
	Attractors    StateCounts
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings and run summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine grows a skeleton toward its attractors one round at a time. It is
// not safe for concurrent use.
type Engine struct {
	cfg    Config
	skel   *Skeleton
	attr   *AttractorSet
	rng    *core.RNG
	inject injector
	logger *slog.Logger
	rounds int
}

type candidate struct {
	parent int
	pos    core.Vec3
}

// New validates cfg, seeds the skeleton with the start points and draws
// cfg.Endpoints attractors from the sampler.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		rng:    core.NewRNG(cfg.Seed),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.skel = NewSkeleton(cfg.startPoints())
	e.attr = NewAttractorSet(e.skel, cfg.killRadius(), cfg.influenceRadius(), cfg.workers())

	initial := make([]core.Vec3, cfg.Endpoints)
	for i := range initial {
		initial[i] = cfg.Sampler.Next()
	}
	e.attr.AddBatch(initial)
	e.inject.setRate(cfg.NewEndpointsPer1000, e.rng)

	c := e.attr.Counts()
	e.logger.Debug("engine seeded",
		"roots", e.skel.Len(),
		"attractors", e.attr.Len(),
		"active", c.Active,
		"dead", c.Dead,
		"out_of_range", c.OutOfRange)
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Iterate runs rounds until a termination condition holds. Every call
// resumes from the current state with a fresh budget of MaxIterations rounds
// and maxTime of wall-clock time (0 disables the time limit). The context is
// only consulted between rounds.
func (e *Engine) Iterate(ctx context.Context, newEndpointsPer1000 float64, maxTime time.Duration) Result {
	e.SetInjectionRate(newEndpointsPer1000)

	start := time.Now()
	var res Result
	for {
		if res.Rounds >= e.cfg.MaxIterations {
			res.Reason = IterationBudget
			break
		}
		if ctx.Err() != nil {
			res.Reason = Canceled
			break
		}
		if maxTime > 0 && time.Since(start) >= maxTime {
			res.Reason = TimeBudget
			break
		}
		if e.attr.ActiveCount() == 0 {
			res.Reason = Exhausted
			break
		}
		step := e.Step()
		res.Rounds++
		res.NodesAdded += step.Grown
		res.Injected += step.Injected
		if step.Stagnant {
			res.Reason = Stagnation
			break
		}
	}
	res.Elapsed = time.Since(start)

	e.logger.Info("growth finished",
		"reason", res.Reason.String(),
		"rounds", res.Rounds,
		"nodes_added", res.NodesAdded,
		"injected", res.Injected,
		"nodes", e.skel.Len(),
		"elapsed", res.Elapsed)
	return res
}

// SetInjectionRate sets the Poisson injection rate in attractors per 1000
// rounds. Invalid rates and rates without a sampler disable injection.
func (e *Engine) SetInjectionRate(per1000 float64) {
	if math.IsNaN(per1000) || math.IsInf(per1000, 0) || per1000 < 0 {
		e.logger.Warn("ignoring invalid injection rate", "rate", per1000)
		per1000 = 0
	}
	if per1000 > 0 && e.cfg.Sampler == nil {
		e.logger.Warn("attractor injection needs a sampler", "rate", per1000)
		per1000 = 0
	}
	e.inject.setRate(per1000, e.rng)
}

// Step runs a single round: group, steer, suppress, exclude, commit and
// inject.
func (e *Engine) Step() StepResult {
	var res StepResult
	groups := e.attr.GroupByNearest()
	candidates := make([]candidate, 0, len(groups))
	viable := 0
	for _, g := range groups {
		node := e.skel.nodes[g.Node]
		if node.Saturated() {
			continue
		}
		dir, ok := e.direction(g)
		if !ok {
			res.Degenerate++
			e.logger.Warn("degenerate growth direction",
				"node", g.Node,
				"attractors", len(g.Attractors),
				"round", e.rounds)
			continue
		}
		viable++
		if e.suppressed(node) {
			res.Suppressed++
			continue
		}
		pos := node.Pos.Add(dir.Scale(e.cfg.BranchLength))
		if e.cfg.Exclude != nil && e.cfg.Exclude(pos) {
			res.Excluded++
			continue
		}
		candidates = append(candidates, candidate{parent: g.Node, pos: pos})
	}

	res.Grown = e.commit(candidates)
	res.Injected = e.injectAttractors()
	res.Stagnant = viable == 0
	e.rounds++
	return res
}

// direction sums the unit directions of a group, adds tropism and
// normalizes. ok is false when the result is degenerate.
func (e *Engine) direction(g Group) (core.Vec3, bool) {
	var sum core.Vec3
	for _, ai := range g.Attractors {
		at := &e.attr.points[ai]
		if at.Dist < core.Epsilon {
			continue
		}
		sum = sum.Add(at.Dir)
	}
	dir, ok := sum.Normalize()
	if !ok {
		return core.Vec3{}, false
	}
	dir.Z += e.cfg.Tropism
	return dir.Normalize()
}

func (e *Engine) suppressed(n Node) bool {
	p := SuppressionProbability(e.cfg.ApicalControl, n.Children, e.cfg.ApicalFalloff)
	if p <= 0 {
		return false
	}
	return e.rng.Float64() < p
}

// SuppressionProbability is the apical dominance suppression chance for a
// node that already has children children.
func SuppressionProbability(control float64, children int, falloff float64) float64 {
	if control <= 0 {
		return 0
	}
	base := 1 - control*float64(children)
	base = math.Max(0, math.Min(1, base))
	return 1 - math.Pow(base, falloff)
}

// commit appends the round's candidates as one batch and updates the
// attractor caches against the new snapshot.
func (e *Engine) commit(candidates []candidate) int {
	if len(candidates) == 0 {
		return 0
	}
	added := make([]int, 0, len(candidates))
	var saturated []int
	for _, c := range candidates {
		idx, sat := e.skel.grow(c.parent, c.pos)
		added = append(added, idx)
		if sat {
			saturated = append(saturated, c.parent)
		}
	}
	e.attr.reassociate(added)
	e.attr.invalidate(saturated)
	return len(added)
}

func (e *Engine) injectAttractors() int {
	n := e.inject.tick(e.rng)
	for i := 0; i < n; i++ {
		e.attr.Add(e.cfg.Sampler.Next())
	}
	return n
}

// Skeleton returns a copy of the node arena.
func (e *Engine) Skeleton() []Node { return e.skel.Nodes() }

// Forest returns an independent copy of the skeleton.
func (e *Engine) Forest() *Skeleton {
	return &Skeleton{nodes: e.skel.Nodes(), roots: e.skel.Roots()}
}

// Attractors returns the position and state of every attractor.
func (e *Engine) Attractors() []AttractorView { return e.attr.Snapshot() }

// AttractorDetails returns copies of the attractors including their caches.
func (e *Engine) AttractorDetails() []Attractor {
	return append([]Attractor(nil), e.attr.points...)
}

// Stats summarizes the current state.
func (e *Engine) Stats() Stats {
	s := Stats{
		Nodes:      e.skel.Len(),
		Roots:      len(e.skel.roots),
		Rounds:     e.rounds,
		Attractors: e.attr.Counts(),
	}
	for _, n := range e.skel.nodes {
		if n.Generation > s.MaxGeneration {
			s.MaxGeneration = n.Generation
		}
	}
	return s
}
