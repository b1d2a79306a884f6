// Package tree adapts the space colonization engine to the sim registry and
// owns the preset layer: built-in presets, YAML files, dotted overrides, hot
// reload and parameter sweeps.
package tree

import (
	"context"
	"io"
	"log/slog"

	"sca-tree/internal/core"
	"sca-tree/pkg/sca"
)

// Sim is a steppable tree grown from a preset.
type Sim struct {
	cfg    Config
	seed   int64
	logger *slog.Logger

	engine *sca.Engine
	rounds int
	reason sca.TerminationReason
}

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the logger handed to the engine and samplers.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Sim from cfg using cfg.Seed.
func New(cfg Config, opts ...Option) (*Sim, error) {
	s := &Sim{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the preset name.
func (s *Sim) Name() string { return s.cfg.Name }

// Seed returns the seed of the current run.
func (s *Sim) Seed() int64 { return s.seed }

// Config returns the preset with the current seed.
func (s *Sim) Config() Config { return s.cfg }

// Engine exposes the underlying engine.
func (s *Sim) Engine() *sca.Engine { return s.engine }

// Reason reports why the sim stopped, or Running.
func (s *Sim) Reason() sca.TerminationReason { return s.reason }

// Reset rebuilds the engine with seed. On error the previous run is kept.
func (s *Sim) Reset(seed int64) error {
	cfg := s.cfg
	cfg.Seed = seed
	ecfg, err := cfg.Build(s.logger)
	if err != nil {
		return err
	}
	engine, err := sca.New(ecfg, sca.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.seed = seed
	s.engine = engine
	s.rounds = 0
	s.reason = sca.Running
	return nil
}

// Step runs one round. It reports false, without running a round, once a
// termination condition holds. The time budget only applies to Grow.
func (s *Sim) Step() bool {
	if s.reason != sca.Running {
		return false
	}
	if s.rounds >= s.cfg.Growth.MaxIterations {
		s.reason = sca.IterationBudget
		return false
	}
	if s.engine.Stats().Attractors.Active == 0 {
		s.reason = sca.Exhausted
		return false
	}
	res := s.engine.Step()
	s.rounds++
	if res.Stagnant {
		s.reason = sca.Stagnation
	}
	return true
}

// Grow runs the engine to termination with the preset's injection rate and
// time budget.
func (s *Sim) Grow(ctx context.Context) sca.Result {
	res := s.engine.Iterate(ctx, s.cfg.Growth.NewEndpointsPer1000, s.cfg.Growth.MaxTime)
	s.rounds += res.Rounds
	s.reason = res.Reason
	return res
}

// Skeleton returns the grown forest with the preset's pruning applied.
func (s *Sim) Skeleton() *sca.Skeleton {
	forest := s.engine.Forest()
	if s.cfg.Growth.Prune > 0 {
		forest, _ = forest.Prune(s.cfg.Growth.Prune)
	}
	return forest
}

// Snapshot returns the current nodes and attractors.
func (s *Sim) Snapshot() core.Snapshot {
	return core.Snapshot{
		Nodes:      s.Skeleton().Nodes(),
		Attractors: s.engine.Attractors(),
		KillRadius: s.cfg.Growth.KillDistance * s.cfg.Growth.BranchLength,
		Stats:      s.engine.Stats(),
		Reason:     s.reason,
	}
}

func init() {
	for _, name := range BuiltinNames() {
		core.Register(name, func(m map[string]string, logger *slog.Logger) (core.Sim, error) {
			kv := map[string]string{"preset": name}
			for k, v := range m {
				kv[k] = v
			}
			cfg, err := FromMap(kv)
			if err != nil {
				return nil, err
			}
			return New(cfg, WithLogger(logger))
		})
	}
}
