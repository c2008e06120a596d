package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/refilter"
)

type benchOptions struct {
	repeat  int
	quiet   bool
	workers int
	metrics bool
}

func newBenchCmd(opts *options) *cobra.Command {
	bo := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench REGEXES INPUTS",
		Short: "Match every line of INPUTS against the regexes of REGEXES",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bo.repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1, got %d", bo.repeat)
			}
			if bo.workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", bo.workers)
			}
			set, err := opts.compileFile(cmd, args[0])
			if err != nil {
				return err
			}
			inputs, err := readLines(args[1], false)
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), cmd.OutOrStdout(), set, inputs, bo)
		},
	}
	cmd.Flags().IntVarP(&bo.repeat, "repeat", "r", 1, "match the inputs this many times")
	cmd.Flags().BoolVarP(&bo.quiet, "quiet", "q", false, "print the summary only")
	cmd.Flags().IntVar(&bo.workers, "workers", runtime.GOMAXPROCS(0), "number of matching goroutines")
	cmd.Flags().BoolVar(&bo.metrics, "metrics", false, "print the set metrics in Prometheus text format")
	return cmd
}

func runBench(ctx context.Context, w io.Writer, set *refilter.Set, inputs []string, bo *benchOptions) error {
	results := make([][]int, len(inputs))
	start := time.Now()
	for range bo.repeat {
		if err := matchLines(ctx, set, inputs, bo.workers, results); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	matched := 0
	for i, ids := range results {
		if len(ids) == 0 {
			continue
		}
		matched++
		if !bo.quiet {
			fmt.Fprintf(w, "%d\t%v\n", i+1, ids)
		}
	}

	lines := len(inputs) * bo.repeat
	stats := set.Stats()
	fmt.Fprintf(w, "%d lines matched of %d\n", matched, len(inputs))
	fmt.Fprintf(w, "%d regexes, %d atoms, %d unfiltered\n", stats.Regexes, stats.Atoms, stats.Unfiltered)
	if elapsed > 0 {
		fmt.Fprintf(w, "%d lines in %v (%.0f lines/s)\n", lines, elapsed.Round(time.Microsecond),
			float64(lines)/elapsed.Seconds())
	}
	fmt.Fprintf(w, "%d candidates, %d verifications, %.1f%% confirmed\n",
		stats.Candidates, stats.Verifications, 100*stats.Efficiency())

	if bo.metrics {
		return writeMetrics(w, set)
	}
	return nil
}

// matchLines matches inputs on up to workers goroutines, each with its own
// scratch space, and stores the matching ids of inputs[i] in results[i].
func matchLines(ctx context.Context, set *refilter.Set, inputs []string, workers int, results [][]int) error {
	g, ctx := errgroup.WithContext(ctx)
	chunk := max((len(inputs)+workers-1)/workers, 1)
	for lo := 0; lo < len(inputs); lo += chunk {
		hi := min(lo+chunk, len(inputs))
		g.Go(func() error {
			scratch := set.NewScratch()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = append(results[i][:0], set.MatchAllScratch(inputs[i], scratch)...)
			}
			return nil
		})
	}
	return g.Wait()
}

func writeMetrics(w io.Writer, set *refilter.Set) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(refilter.NewCollector(set, "", nil)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
