package main

import (
	"fmt"
	"io"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/coregx/refilter"
)

func newExplainCmd(opts *options) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "explain REGEXES",
		Short: "Show the prefilter formulas, atoms and resolver graph of a regex set",
		Long: "Show the prefilter formulas, atoms and resolver graph of a regex set.\n\n" +
			"With --match only the formulas of the regexes whose pattern matches the\n" +
			"glob are shown, as in --match '*Chrome*'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if match != "" {
				var err error
				if g, err = glob.Compile(match); err != nil {
					return fmt.Errorf("--match: %w", err)
				}
			}
			set, err := opts.compileFile(cmd, args[0])
			if err != nil {
				return err
			}
			return runExplain(cmd.OutOrStdout(), set, g)
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only show regexes whose pattern matches this glob")
	return cmd
}

func runExplain(w io.Writer, set *refilter.Set, g glob.Glob) error {
	if g == nil {
		_, err := io.WriteString(w, set.String())
		return err
	}

	shown := 0
	for _, re := range set.Regexes() {
		if !g.Match(re.Pattern()) {
			continue
		}
		shown++
		if _, err := fmt.Fprintf(w, "%3d %s => %s\n", re.ID(), re, re.Formula()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d of %d regexes\n", shown, set.Len())
	return err
}
