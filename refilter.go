// Package refilter matches an input against a large set of regular
// expressions without running every regex on every input.
//
// Each registered regex is analyzed for the literal substrings ("atoms")
// any match must contain, combined into a boolean formula. Compiling the
// set builds one Aho-Corasick automaton over all atoms. Matching an input
// then takes three steps:
//   - scan the input once for atoms
//   - keep the regexes whose formula holds for the atoms found (candidates)
//   - run the regex engine on the candidates only, in id order
//
// A regex from which no useful atom can be extracted (such as `[0-9]+`) is
// a candidate for every input.
//
// Basic usage:
//
//	b := refilter.NewBuilder()
//	for _, p := range []string{`ab.*cd`, `xyz`, `[0-9]+`} {
//	    if _, err := b.Register(p); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	set, err := b.Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, ok := set.Match("zz ab123cd") // 0, true
//	ids := set.MatchAll("zz ab123cd") // [0 2]
//
// A compiled Set is immutable and safe for concurrent use. Callers on a
// hot path can avoid per-call allocations with a Scratch:
//
//	s := set.NewScratch()
//	for _, line := range lines {
//	    id, ok := set.MatchScratch(line, s)
//	    ...
//	}
package refilter

import (
	"fmt"
	"log/slog"

	"github.com/coregx/refilter/engine"
	"github.com/coregx/refilter/literal"
	"github.com/coregx/refilter/meta"
	"github.com/coregx/refilter/prefilter"
)

// Config configures a Builder.
type Config struct {
	// Filter tunes atom extraction and candidate resolution.
	Filter meta.Config

	// Engine compiles and runs the regexes during verification.
	// Default: engine.Default() (stdlib).
	Engine engine.Engine

	// Logger receives a debug summary when a set is compiled.
	// Default: no logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Filter: meta.DefaultConfig(),
	}
}

// Builder collects regexes and compiles them into a Set.
//
// Registration validates each pattern immediately: a rejected pattern gets
// no id and leaves the builder unchanged. After Compile the builder is
// sealed and every further call fails with ErrSealedTable.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	config  Config
	synth   *literal.Synthesizer
	table   *prefilter.AtomTable
	regexes []*Regex
	sealed  bool
}

// NewBuilder returns a builder with the default configuration.
func NewBuilder() *Builder {
	b, err := NewBuilderWithConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return b
}

// NewBuilderWithConfig returns a builder with a custom configuration.
// Returns a *meta.ConfigError if the filter configuration is invalid.
//
// Example:
//
//	config := refilter.DefaultConfig()
//	config.Filter.MinAtomLen = 2
//	config.Engine, _ = engine.Lookup("re2")
//	b, err := refilter.NewBuilderWithConfig(config)
func NewBuilderWithConfig(config Config) (*Builder, error) {
	if err := config.Filter.Validate(); err != nil {
		return nil, err
	}
	if config.Engine == nil {
		config.Engine = engine.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		config: config,
		synth:  literal.New(config.Filter.SynthesizerConfig()),
		table:  prefilter.NewAtomTable(),
	}, nil
}

// Register adds a case-sensitive regex and returns its id.
func (b *Builder) Register(pattern string) (int, error) {
	return b.RegisterWithOptions(pattern, Options{})
}

// RegisterWithOptions adds a regex and returns its id. Ids are assigned
// sequentially from 0 in registration order.
//
// Returns *InvalidPatternError if the pattern does not parse or the engine
// rejects it, and ErrSealedTable after Compile.
func (b *Builder) RegisterWithOptions(pattern string, opts Options) (int, error) {
	if b.sealed {
		return -1, ErrSealedTable
	}
	flags := opts.flags()

	formula, err := b.synth.SynthesizePattern(pattern, flags.Syntax())
	if err != nil {
		return -1, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	re, err := b.config.Engine.Compile(pattern, flags)
	if err != nil {
		return -1, &InvalidPatternError{Pattern: pattern, Err: err}
	}

	// atoms are only interned once the pattern is known to be valid
	if err := formula.Bind(b.table); err != nil {
		return -1, err
	}

	id := len(b.regexes)
	b.regexes = append(b.regexes, &Regex{
		id:      id,
		pattern: pattern,
		options: opts,
		formula: formula,
		re:      re,
	})
	return id, nil
}

// RegisterAll registers case-sensitive patterns in order. It stops at the
// first error; patterns before it stay registered.
func (b *Builder) RegisterAll(patterns ...string) error {
	for _, p := range patterns {
		if _, err := b.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered regexes.
func (b *Builder) Len() int {
	return len(b.regexes)
}

// Compile seals the builder and returns the compiled set.
//
// Returns ErrEmptySet if nothing was registered, unless
// Config.Filter.AllowEmpty is set, in which case the set never matches.
// A failed Compile leaves the builder usable.
func (b *Builder) Compile() (*Set, error) {
	if b.sealed {
		return nil, ErrSealedTable
	}
	if len(b.regexes) == 0 && !b.config.Filter.AllowEmpty {
		return nil, ErrEmptySet
	}

	matcher, err := b.table.Seal(b.config.Filter.MatcherConfig())
	if err != nil {
		return nil, fmt.Errorf("refilter: seal atom table: %w", err)
	}
	b.sealed = true

	formulas := make([]*literal.Formula, len(b.regexes))
	compiled := make([]engine.Regexp, len(b.regexes))
	for i, re := range b.regexes {
		formulas[i] = re.formula
		compiled[i] = re.re
	}

	tracker := prefilter.NewTracker()
	set := &Set{
		regexes:  b.regexes,
		engine:   b.config.Engine.Name(),
		matcher:  matcher,
		resolver: meta.NewResolver(formulas, matcher.Len(), b.config.Filter),
		verifier: meta.NewVerifier(compiled, tracker),
		tracker:  tracker,
	}
	set.pool.New = func() any {
		return set.NewScratch()
	}

	b.config.Logger.Debug("refilter: compiled set",
		"regexes", len(set.regexes),
		"atoms", matcher.Len(),
		"unfiltered", len(set.resolver.Unfiltered()),
		"never", len(set.resolver.Never()),
		"entries", set.resolver.Entries(),
		"pruned_edges", set.resolver.PrunedEdges(),
		"states", matcher.States(),
		"engine", set.engine,
	)
	return set, nil
}
