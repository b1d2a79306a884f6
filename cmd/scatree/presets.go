package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sca-tree/internal/sims/tree"
)

func newPresetsCmd(g *globals) *cobra.Command {
	var dir, pattern string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List built-in presets and preset files",
		Long: `Lists the built-in presets. With --dir, preset files below the directory
that match --glob are loaded and listed too; a file that fails to load is an
error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfgs []tree.Config
			for _, name := range tree.BuiltinNames() {
				cfg, _ := tree.Builtin(name)
				cfgs = append(cfgs, cfg)
			}
			if dir != "" {
				files, err := tree.LoadDir(dir, pattern)
				if err != nil {
					return err
				}
				cfgs = append(cfgs, files...)
			}
			return printPresets(cmd.OutOrStdout(), cfgs)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Also list preset files below this directory")
	cmd.Flags().StringVar(&pattern, "glob", "**/*.yaml", "Pattern for preset files under --dir")
	cmd.AddCommand(newPresetsShowCmd(g))
	return cmd
}

// newPresetsShowCmd prints the effective preset as YAML, after --seed and
// --set, so it can be saved and edited.
func newPresetsShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Print a preset as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				g.preset = args[0]
			}
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			data, err := tree.MarshalPreset(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func printPresets(w io.Writer, cfgs []tree.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSAMPLER\tENDPOINTS\tDESCRIPTION")
	for _, c := range cfgs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Name, c.Sampler.Kind, c.Growth.Endpoints, c.Description)
	}
	return tw.Flush()
}
