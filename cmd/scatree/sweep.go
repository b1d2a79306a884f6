package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sca-tree/internal/sims/tree"
)

func newSweepCmd(g *globals) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "sweep KEY VALUE...",
		Short: "Grow a preset once per value of one parameter",
		Long: `Grows the selected preset once for every VALUE of KEY, in parallel, and
prints one row per value. KEY uses the --set syntax, for example

  scatree sweep growth.kill_distance 2 3 5 8`,
		Example: "  scatree sweep --preset bush sampler.size 2 3 4",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			results, err := tree.Sweep(cmd.Context(), cfg, args[0], args[1:], workers, logger)
			if err != nil {
				return err
			}
			return printSweep(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", runtime.NumCPU(), "Candidates grown in parallel")
	return cmd
}

func printSweep(w io.Writer, results []tree.SweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tNODES\tMAXGEN\tACTIVE\tDEAD\tOUT\tROUNDS\tREASON\tELAPSED")
	for _, r := range results {
		if r.Err != nil {
			// decode errors span several lines
			msg := strings.Join(strings.Fields(r.Err.Error()), " ")
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\terror: %s\t-\n", r.Value, msg)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Value, r.Nodes, r.MaxGeneration, r.Active, r.Dead, r.OutOfRange,
			r.Rounds, r.Reason, r.Elapsed.Round(time.Millisecond))
	}
	return tw.Flush()
}
