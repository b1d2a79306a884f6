package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sca-tree/internal/core"
	"sca-tree/internal/sims/tree"
	"sca-tree/pkg/sca"
)

func newGrowCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a preset to termination and print a summary",
		Long: `Grows the selected preset until the iteration budget, the time budget,
attractor exhaustion or stagnation stops it. With --out the pruned skeleton
and the attractors are written as JSON, or YAML for .yaml and .yml files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			sim, err := tree.New(cfg, tree.WithLogger(logger))
			if err != nil {
				return err
			}
			res := sim.Grow(cmd.Context())
			snap := sim.Snapshot()
			printSummary(cmd.OutOrStdout(), sim, res, snap)
			if out == "" {
				return nil
			}
			if err := writeSnapshot(out, sim, snap); err != nil {
				return err
			}
			logger.Info("snapshot written", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the grown skeleton to this file")
	return cmd
}

func printSummary(w io.Writer, sim *tree.Sim, res sca.Result, snap core.Snapshot) {
	st := snap.Stats
	fmt.Fprintf(w, "preset:      %s\n", sim.Name())
	fmt.Fprintf(w, "seed:        %d\n", sim.Seed())
	fmt.Fprintf(w, "reason:      %s\n", res.Reason)
	fmt.Fprintf(w, "rounds:      %d\n", res.Rounds)
	fmt.Fprintf(w, "nodes:       %d (%d roots, max generation %d)\n", st.Nodes, st.Roots, st.MaxGeneration)
	fmt.Fprintf(w, "attractors:  %d active, %d dead, %d out of range\n",
		st.Attractors.Active, st.Attractors.Dead, st.Attractors.OutOfRange)
	fmt.Fprintf(w, "injected:    %d\n", res.Injected)
	fmt.Fprintf(w, "elapsed:     %s\n", res.Elapsed)
}

type snapshotDoc struct {
	Preset     string         `json:"preset" yaml:"preset"`
	Seed       int64          `json:"seed" yaml:"seed"`
	Reason     string         `json:"reason" yaml:"reason"`
	Rounds     int            `json:"rounds" yaml:"rounds"`
	KillRadius float64        `json:"kill_radius" yaml:"kill_radius"`
	Nodes      []nodeDoc      `json:"nodes" yaml:"nodes"`
	Attractors []attractorDoc `json:"attractors" yaml:"attractors"`
}

type nodeDoc struct {
	Pos         [3]float64 `json:"pos" yaml:"pos,flow"`
	Parent      int        `json:"parent" yaml:"parent"`
	Connections int        `json:"connections" yaml:"connections"`
	Generation  int        `json:"generation" yaml:"generation"`
}

type attractorDoc struct {
	Pos   [3]float64 `json:"pos" yaml:"pos,flow"`
	State string     `json:"state" yaml:"state"`
}

func newSnapshotDoc(sim *tree.Sim, snap core.Snapshot) snapshotDoc {
	doc := snapshotDoc{
		Preset:     sim.Name(),
		Seed:       sim.Seed(),
		Reason:     snap.Reason.String(),
		Rounds:     snap.Stats.Rounds,
		KillRadius: snap.KillRadius,
		Nodes:      make([]nodeDoc, len(snap.Nodes)),
		Attractors: make([]attractorDoc, len(snap.Attractors)),
	}
	for i, n := range snap.Nodes {
		doc.Nodes[i] = nodeDoc{
			Pos:         [3]float64{n.Pos.X, n.Pos.Y, n.Pos.Z},
			Parent:      n.Parent,
			Connections: n.Connections,
			Generation:  n.Generation,
		}
	}
	for i, a := range snap.Attractors {
		doc.Attractors[i] = attractorDoc{
			Pos:   [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z},
			State: a.State.String(),
		}
	}
	return doc
}

func encodeSnapshot(w io.Writer, format string, doc snapshotDoc) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

func writeSnapshot(path string, sim *tree.Sim, snap core.Snapshot) error {
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeSnapshot(f, format, newSnapshotDoc(sim, snap)); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
