package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sca-tree/internal/logging"
	"sca-tree/internal/sims/tree"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	preset   string
	seed     int64
	set      []string
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "scatree",
		Short: "Grow trees with the space colonization algorithm",
		Long: `scatree grows branching skeletons toward a cloud of attractors.

Presets are built-in names (see "scatree presets") or YAML files. Any preset
field can be overridden with --set, for example --set growth.kill_distance=3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVarP(&g.preset, "preset", "p", "tree", "Built-in preset name or path to a YAML preset")
	pf.Int64Var(&g.seed, "seed", 0, "Override the preset seed")
	pf.StringArrayVar(&g.set, "set", nil, "Override a preset field, key=value (repeatable)")

	root.AddCommand(
		newGrowCmd(g),
		newRenderCmd(g),
		newSweepCmd(g),
		newPresetsCmd(g),
	)
	return root
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (g *globals) logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(w, level), nil
}

// config resolves --preset and applies --seed and --set on top of it.
func (g *globals) config(cmd *cobra.Command) (tree.Config, error) {
	cfg, err := tree.Resolve(g.preset)
	if err != nil {
		return tree.Config{}, err
	}
	kv, err := tree.ParseOverrides(g.set)
	if err != nil {
		return tree.Config{}, err
	}
	if len(kv) > 0 {
		if cfg, err = tree.ApplyOverrides(cfg, kv); err != nil {
			return tree.Config{}, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = g.seed
	}
	return cfg, nil
}
