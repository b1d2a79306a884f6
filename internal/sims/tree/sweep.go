package tree

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sca-tree/pkg/sca"
)

// SweepResult is the outcome of growing one sweep candidate to termination.
type SweepResult struct {
	Key   string
	Value string

	Nodes         int
	MaxGeneration int
	Active        int
	Dead          int
	OutOfRange    int
	Rounds        int
	Reason        sca.TerminationReason
	Elapsed       time.Duration

	// Err is set when the candidate preset could not be built.
	Err error
}

// Sweep grows base once per value of key on up to workers goroutines. Results
// keep the order of values. Candidates that fail to build report Err and do
// not stop the sweep; only ctx cancellation does.
func Sweep(ctx context.Context, base Config, key string, values []string, workers int, logger *slog.Logger) ([]SweepResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]SweepResult, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, value := range values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = sweepOne(ctx, base, key, value, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func sweepOne(ctx context.Context, base Config, key, value string, logger *slog.Logger) SweepResult {
	res := SweepResult{Key: key, Value: value}
	cfg, err := ApplyOverrides(base, map[string]string{key: value})
	if err != nil {
		res.Err = err
		return res
	}
	sim, err := New(cfg, WithLogger(logger))
	if err != nil {
		res.Err = err
		return res
	}
	out := sim.Grow(ctx)
	stats := sim.Engine().Stats()

	res.Nodes = stats.Nodes
	res.MaxGeneration = stats.MaxGeneration
	res.Active = stats.Attractors.Active
	res.Dead = stats.Attractors.Dead
	res.OutOfRange = stats.Attractors.OutOfRange
	res.Rounds = out.Rounds
	res.Reason = out.Reason
	res.Elapsed = out.Elapsed
	return res
}
