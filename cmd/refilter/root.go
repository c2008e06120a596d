package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/refilter"
	"github.com/coregx/refilter/engine"
)

// options are the flags shared by every subcommand.
type options struct {
	engine     string
	minAtomLen int
	gate       bool
	noPrune    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "refilter",
		Short:         "Filtered matching of large regex sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := refilter.DefaultConfig().Filter
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.engine, "engine", engine.DefaultName,
		"regex engine verifying candidates ("+strings.Join(engine.Names(), ", ")+")")
	flags.IntVar(&opts.minAtomLen, "min-atom-len", defaults.MinAtomLen, "minimum prefilter atom length")
	flags.BoolVar(&opts.gate, "gate", defaults.EnableGate, "check for any atom before the full atom scan")
	flags.BoolVar(&opts.noPrune, "no-prune", !defaults.EnablePruning, "evaluate prefilter formulas exactly")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log compilation details to stderr")

	cmd.AddCommand(newBenchCmd(opts), newUACmd(opts), newExplainCmd(opts))
	return cmd
}

// config builds the set configuration selected by the flags.
func (o *options) config(cmd *cobra.Command) (refilter.Config, error) {
	config := refilter.DefaultConfig()
	e, err := engine.Lookup(o.engine)
	if err != nil {
		return config, err
	}
	config.Engine = e
	config.Filter.MinAtomLen = o.minAtomLen
	config.Filter.EnableGate = o.gate
	config.Filter.EnablePruning = !o.noPrune

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	config.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return config, nil
}

// compileFile builds a set from the regexes of path, one per line.
func (o *options) compileFile(cmd *cobra.Command, path string) (*refilter.Set, error) {
	config, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	patterns, err := readLines(path, true)
	if err != nil {
		return nil, err
	}
	b, err := refilter.NewBuilderWithConfig(config)
	if err != nil {
		return nil, err
	}
	for i, p := range patterns {
		if _, err := b.Register(p); err != nil {
			return nil, fmt.Errorf("%s: regex %d: %w", path, i, err)
		}
	}
	return b.Compile()
}

// readLines returns the lines of path without their line terminators.
func readLines(path string, skipBlank bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if skipBlank && strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}
