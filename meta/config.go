// Package meta turns the atoms found in an input into verified regex
// matches.
//
// The package coordinates the two stages that follow the atom scan:
//   - Resolver: evaluates the prefilter formulas of all regexes at once by
//     propagating found atoms through a DAG of shared formula nodes, and
//     returns the candidate regexes
//   - Verifier: runs the real regex engine on the candidates only
//
// Config holds the knobs of the whole pipeline: formula synthesis limits,
// atom matcher options and resolver pruning.
package meta

import (
	"github.com/coregx/refilter/literal"
	"github.com/coregx/refilter/prefilter"
)

// Config controls filtering behavior and performance characteristics.
//
// Configuration options affect:
//   - Formula synthesis (atom length, class and cross product limits)
//   - Atom matching (any-atom gate)
//   - Resolution (edge pruning)
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MinAtomLen = 4 // fewer, more selective atoms
//	if err := config.Validate(); err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// MinAtomLen is the minimum length, in runes, of a prefilter atom.
	// Shorter atoms occur in too many inputs and are pruned from formulas.
	// Default: 3
	MinAtomLen int

	// MaxClassSize is the largest character class expanded into atoms.
	// Default: 10
	MaxClassSize int

	// MaxCrossProduct caps the number of strings produced by concatenating
	// small exact sets, as in [ab][cd]ef.
	// Default: 16
	MaxCrossProduct int

	// MaxVisits caps the syntax nodes visited while synthesizing one
	// formula.
	// Default: 100000
	MaxVisits int

	// EnablePruning lets the resolver drop edges from atoms shared by many
	// formulas. Fewer edges make resolution cheaper at the cost of more
	// candidates to verify.
	// Default: true
	EnablePruning bool

	// EnableGate runs a cheap "any atom at all?" check before the full
	// atom scan.
	// Default: false
	EnableGate bool

	// AllowEmpty permits compiling a set without regexes.
	// Default: false
	AllowEmpty bool
}

// DefaultConfig returns a configuration with sensible defaults.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePruning = false // exact formula evaluation
func DefaultConfig() Config {
	return Config{
		MinAtomLen:      3,
		MaxClassSize:    10,
		MaxCrossProduct: 16,
		MaxVisits:       100_000,
		EnablePruning:   true,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MinAtomLen: 1 to 64
//   - MaxClassSize: 1 to 256
//   - MaxCrossProduct: 1 to 4,096
//   - MaxVisits: 100 to 10,000,000
func (c Config) Validate() error {
	if c.MinAtomLen < 1 || c.MinAtomLen > 64 {
		return &ConfigError{
			Field:   "MinAtomLen",
			Message: "must be between 1 and 64",
		}
	}
	if c.MaxClassSize < 1 || c.MaxClassSize > 256 {
		return &ConfigError{
			Field:   "MaxClassSize",
			Message: "must be between 1 and 256",
		}
	}
	if c.MaxCrossProduct < 1 || c.MaxCrossProduct > 4_096 {
		return &ConfigError{
			Field:   "MaxCrossProduct",
			Message: "must be between 1 and 4,096",
		}
	}
	if c.MaxVisits < 100 || c.MaxVisits > 10_000_000 {
		return &ConfigError{
			Field:   "MaxVisits",
			Message: "must be between 100 and 10,000,000",
		}
	}
	return nil
}

// SynthesizerConfig returns the formula synthesis part of the
// configuration.
func (c Config) SynthesizerConfig() literal.Config {
	return literal.Config{
		MinAtomLen:      c.MinAtomLen,
		MaxClassSize:    c.MaxClassSize,
		MaxCrossProduct: c.MaxCrossProduct,
		MaxVisits:       c.MaxVisits,
	}
}

// MatcherConfig returns the atom matcher part of the configuration.
func (c Config) MatcherConfig() prefilter.Config {
	return prefilter.Config{EnableGate: c.EnableGate}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "refilter: invalid config: " + e.Field + ": " + e.Message
}
