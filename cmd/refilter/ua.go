package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/refilter/uaparser"
)

func newUACmd(opts *options) *cobra.Command {
	var (
		repeat int
		quiet  bool
	)
	cmd := &cobra.Command{
		Use:   "ua REGEXES_YAML USER_AGENTS",
		Short: "Parse every line of USER_AGENTS with a uap-core regexes.yaml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1, got %d", repeat)
			}
			config, err := opts.config(cmd)
			if err != nil {
				return err
			}
			rx, err := uaparser.LoadFile(args[0])
			if err != nil {
				return err
			}
			ex, err := uaparser.NewWithConfig(rx, config)
			if err != nil {
				return err
			}
			agents, err := readLines(args[1], true)
			if err != nil {
				return err
			}
			return runUA(cmd.OutOrStdout(), ex, agents, repeat, quiet)
		},
	}
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 1, "parse the user agents this many times")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print the summary only")
	return cmd
}

func runUA(w io.Writer, ex *uaparser.Extractor, agents []string, repeat int, quiet bool) error {
	results := make([]uaparser.Result, len(agents))
	start := time.Now()
	for range repeat {
		for i, ua := range agents {
			results[i] = ex.Extract(ua)
		}
	}
	elapsed := time.Since(start)

	if !quiet {
		for _, res := range results {
			fmt.Fprintln(w, formatResult(res))
		}
	}
	if n := len(agents) * repeat; n > 0 && elapsed > 0 {
		fmt.Fprintf(w, "%d user agents in %v (%v each)\n", n, elapsed.Round(time.Microsecond), elapsed/time.Duration(n))
	}
	return nil
}

// formatResult renders a result as "agent | os | device", "-" standing for
// a domain no parser matched.
func formatResult(res uaparser.Result) string {
	parts := []string{"-", "-", "-"}
	if ua := res.UserAgent; ua != nil {
		parts[0] = withVersion(ua.Family, ua.Major, ua.Minor, ua.Patch, ua.PatchMinor)
	}
	if sys := res.OS; sys != nil {
		parts[1] = withVersion(sys.Family, sys.Major, sys.Minor, sys.Patch, sys.PatchMinor)
	}
	if d := res.Device; d != nil {
		parts[2] = d.Family
		if maker := strings.TrimSpace(d.Brand + " " + d.Model); maker != "" {
			parts[2] += " (" + maker + ")"
		}
	}
	return strings.Join(parts, " | ")
}

// withVersion appends the dotted version to family, stopping at the first
// unset component.
func withVersion(family string, version ...string) string {
	n := 0
	for n < len(version) && version[n] != "" {
		n++
	}
	if n == 0 {
		return family
	}
	return family + " " + strings.Join(version[:n], ".")
}
