package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"sca-tree/pkg/sca"
)

// ErrUnknownSim is returned by New for names without a registered factory.
var ErrUnknownSim = errors.New("unknown sim")

// Snapshot is a read-only view of a growth sim consumed by painters, overlays
// and the CLI.
type Snapshot struct {
	Nodes      []sca.Node
	Attractors []sca.AttractorView
	// KillRadius is the absolute kill distance.
	KillRadius float64
	Stats      sca.Stats
	// Reason is Running until the engine terminated.
	Reason sca.TerminationReason
}

// Sim defines the minimal contract a growth simulation must implement.
type Sim interface {
	Name() string
	Seed() int64
	// Reset rebuilds the sim from its configuration with the given seed.
	Reset(seed int64) error
	// Step advances one round. It reports false once the sim terminated.
	Step() bool
	Snapshot() Snapshot
}

// Factory constructs a Sim using an optional configuration map. logger may
// be nil.
type Factory func(cfg map[string]string, logger *slog.Logger) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names lists the registered sims in lexical order.
func Names() []string {
	out := make([]string, 0, len(sims))
	for name := range sims {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds the named sim.
func New(name string, cfg map[string]string, logger *slog.Logger) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownSim, name, Names())
	}
	return f(cfg, logger)
}
