package refilter

import (
	"github.com/coregx/refilter/engine"
	"github.com/coregx/refilter/literal"
)

// Options are the per-regex matching options. Go's regexp syntax has no
// whitespace-insensitive mode and no CRLF-aware anchors, so neither is
// offered here.
type Options struct {
	// CaseInsensitive matches letters regardless of case, as (?i). Atoms of
	// the regex are then matched against the case-folded input.
	CaseInsensitive bool

	// DotMatchesNewLine lets . match \n, as (?s).
	DotMatchesNewLine bool

	// MultiLine makes ^ and $ match at line boundaries, as (?m).
	MultiLine bool
}

func (o Options) flags() engine.Flags {
	return engine.Flags{
		CaseInsensitive:   o.CaseInsensitive,
		DotMatchesNewLine: o.DotMatchesNewLine,
		MultiLine:         o.MultiLine,
	}
}

// Regex is a registered regular expression.
//
// A Regex is immutable once its set is compiled and safe for concurrent use.
//
// Example:
//
//	re := set.Regex(0)
//	fmt.Println(re.Pattern(), re.Formula())
type Regex struct {
	id      int
	pattern string
	options Options
	formula *literal.Formula
	re      engine.Regexp
}

// ID returns the id assigned at registration.
func (r *Regex) ID() int {
	return r.id
}

// Pattern returns the source text of the regex, without option flags.
func (r *Regex) Pattern() string {
	return r.pattern
}

// Options returns the options the regex was registered with.
func (r *Regex) Options() Options {
	return r.options
}

// Formula returns the prefilter formula of the regex.
// The formula must not be modified.
func (r *Regex) Formula() *literal.Formula {
	return r.formula
}

// Regexp returns the compiled regex used for verification.
func (r *Regex) Regexp() engine.Regexp {
	return r.re
}

// MatchString reports whether s contains a match of the regex. The
// prefilter is not consulted.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringSubmatchIndex returns the index pairs of the leftmost match
// and its capture groups, or nil if there is no match or the engine does
// not report submatches.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	if sub, ok := r.re.(engine.SubmatchRegexp); ok {
		return sub.FindStringSubmatchIndex(s)
	}
	return nil
}

// String returns the pattern with its options as an inline flag group,
// such as "(?i)firefox".
func (r *Regex) String() string {
	return r.options.flags().Prefix() + r.pattern
}
