// Package literal synthesizes prefilter formulas from regex patterns.
//
// A prefilter formula is a boolean condition over "atoms" (literal
// substrings) that must hold for any input the regex matches. For example
// /(abc|def).*ghi/ can only match inputs that contain "ghi" and one of "abc"
// or "def", which is the formula
//
//	"ghi" ("abc"|"def")
//
// Checking atom presence for thousands of regexes at once is cheap (one
// Aho-Corasick pass), so formulas let a matcher skip most regexes without
// running them.
//
// Key types:
//   - Seq is an exact set of strings a subexpression can match
//   - Formula is the AND/OR/atom condition tree
//   - Synthesizer walks a regexp/syntax tree and builds a Formula
package literal

import (
	"regexp/syntax"
	"unicode"
)

// Config configures formula synthesis limits.
//
// These limits keep synthesis bounded on large patterns:
//   - MaxClassSize: prevents expanding large character classes like [a-z]
//   - MaxCrossProduct: prevents concatenations of classes from exploding
//   - MaxVisits: stops the walk on pathological syntax trees
//
// Example:
//
//	config := literal.DefaultConfig()
//	config.MinAtomLen = 2
//	synth := literal.New(config)
type Config struct {
	// MinAtomLen is the minimum atom length in runes. Shorter atoms are
	// pruned from formulas because they occur in too many inputs to filter
	// anything. Default: 3.
	MinAtomLen int

	// MaxClassSize limits the size of character classes to expand.
	// [abc] becomes the exact set {"a", "b", "c"}; classes with more runes
	// place no constraint. Default: 10.
	MaxClassSize int

	// MaxCrossProduct limits the number of strings produced when
	// concatenating exact sets. Default: 16.
	MaxCrossProduct int

	// MaxVisits limits the number of syntax nodes visited per pattern.
	// Subtrees beyond the budget place no constraint. Default: 100000.
	MaxVisits int
}

// DefaultConfig returns the default synthesis configuration.
//
// Example:
//
//	synth := literal.New(literal.DefaultConfig())
func DefaultConfig() Config {
	return Config{
		MinAtomLen:      3,
		MaxClassSize:    10,
		MaxCrossProduct: 16,
		MaxVisits:       100000,
	}
}

// Synthesizer builds prefilter formulas from regex syntax trees.
//
// A Synthesizer holds only its configuration and is safe for concurrent
// use.
//
// Example:
//
//	synth := literal.New(literal.DefaultConfig())
//	f, _ := synth.SynthesizePattern(`(abc|def).*ghi`, syntax.Perl)
//	fmt.Println(f) // Output: "ghi" ("abc"|"def")
type Synthesizer struct {
	config Config
}

// New creates a new Synthesizer with the given configuration.
func New(config Config) *Synthesizer {
	return &Synthesizer{config: config}
}

// Config returns the synthesizer configuration.
func (s *Synthesizer) Config() Config {
	return s.config
}

// SynthesizePattern parses pattern with the given flags and synthesizes its
// formula. The error is the *syntax.Error reported by the parser.
func (s *Synthesizer) SynthesizePattern(pattern string, flags syntax.Flags) (*Formula, error) {
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	return s.Synthesize(re.Simplify()), nil
}

// Synthesize builds the formula of a parsed regex. The result is pruned to
// MinAtomLen, so it is either OpAlways, OpNever, or a formula whose atoms
// are all long enough.
func (s *Synthesizer) Synthesize(re *syntax.Regexp) *Formula {
	w := walker{config: s.config, budget: s.config.MaxVisits}
	return w.walk(re).formula().Prune(s.config.MinAtomLen)
}

// info is the result of synthesizing one syntax node: either an exact set
// of the strings it can match, or a formula.
type info struct {
	exact *Seq
	match *Formula
}

func exactInfo(seq *Seq) info   { return info{exact: seq} }
func matchInfo(f *Formula) info { return info{match: f} }
func (i info) isExact() bool    { return i.exact != nil }

func (i info) formula() *Formula {
	if i.exact != nil {
		return orStrings(i.exact)
	}
	return i.match
}

// walker carries the visit budget of a single Synthesize call.
type walker struct {
	config Config
	budget int
}

func (w *walker) walk(re *syntax.Regexp) info {
	w.budget--
	if w.budget < 0 {
		return matchInfo(Always())
	}

	switch re.Op {
	case syntax.OpNoMatch:
		// [^\x00-\x{10FFFF}] can never match
		return matchInfo(Never())

	case syntax.OpEmptyMatch,
		syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// Zero-width: matches exactly the empty string
		return exactInfo(NewSeq(false, ""))

	case syntax.OpLiteral:
		// "hello" → {"hello"}
		// (?i)hello → (?i){"hello"}
		text := string(re.Rune)
		folded := re.Flags&syntax.FoldCase != 0 && hasCase(text)
		return exactInfo(NewSeq(folded, text))

	case syntax.OpCharClass:
		// [abc] → {"a", "b", "c"}
		// [a-z] → ALWAYS (too large)
		if seq := w.expandCharClass(re); seq != nil {
			return exactInfo(seq)
		}
		return matchInfo(Always())

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return matchInfo(Always())

	case syntax.OpCapture:
		return w.walk(re.Sub[0])

	case syntax.OpStar, syntax.OpQuest:
		// a* and a? match the empty string
		return matchInfo(Always())

	case syntax.OpPlus:
		// a+ requires at least one a
		return matchInfo(w.walk(re.Sub[0]).formula())

	case syntax.OpRepeat:
		// a{0,n} may match nothing; a{n,m} with n >= 1 requires a
		if re.Min == 0 {
			return matchInfo(Always())
		}
		return matchInfo(w.walk(re.Sub[0]).formula())

	case syntax.OpConcat:
		return w.concat(re.Sub)

	case syntax.OpAlternate:
		return w.alternate(re.Sub)

	default:
		return matchInfo(Always())
	}
}

// concat combines the parts of a concatenation. Adjacent exact sets are
// multiplied while the product stays small:
//
//	"ab[cd]"     → {"abc", "abd"}
//	"hello.*wor" → "hello" "wor"
//	".*abc"      → "abc", no longer exact
func (w *walker) concat(subs []*syntax.Regexp) info {
	result := Always()
	var exact *Seq
	// once a part is inexact the concatenation no longer matches exactly
	// the strings of exact, even when that part contributed no atom
	inexact := false
	for _, sub := range subs {
		i := w.walk(sub)
		if !i.isExact() {
			inexact = true
			if exact != nil {
				result = and(result, orStrings(exact))
				exact = nil
			}
			result = and(result, i.match)
			continue
		}
		switch {
		case exact == nil || isEmptyString(exact):
			exact = i.exact
		case isEmptyString(i.exact):
			// zero-width parts such as anchors
		case w.canCross(exact, i.exact):
			exact = exact.Cross(i.exact)
		default:
			result = and(result, orStrings(exact))
			exact = i.exact
		}
	}

	if exact == nil {
		return matchInfo(result)
	}
	if !inexact {
		return exactInfo(exact)
	}
	return matchInfo(and(result, orStrings(exact)))
}

func (w *walker) canCross(a, b *Seq) bool {
	if a.IsEmpty() || b.IsEmpty() {
		// the product is empty: the concatenation cannot match
		return true
	}
	return a.Len()*b.Len() <= w.config.MaxCrossProduct
}

func isEmptyString(s *Seq) bool {
	return s.Len() == 1 && s.Get(0) == ""
}

// alternate combines the branches of an alternation. Exact sets are merged;
// mixing case policies folds the merged set:
//
//	"foo|bar"      → {"bar", "foo"}
//	"foo|(?i)bar"  → (?i){"bar", "foo"}
//	"foo|b.*r"     → ("foo"|"b" "r")
func (w *walker) alternate(subs []*syntax.Regexp) info {
	var exact *Seq
	result := Never()
	for _, sub := range subs {
		i := w.walk(sub)
		switch {
		case !i.isExact():
			result = or(result, i.match)
		case exact == nil:
			exact = i.exact
		default:
			exact = exact.Union(i.exact)
		}
	}

	if exact == nil {
		return matchInfo(result)
	}
	if result.Op == OpNever {
		return exactInfo(exact)
	}
	return matchInfo(or(result, orStrings(exact)))
}

// expandCharClass expands a small character class into an exact set of
// single-rune strings. A class closed under case folding, such as (?i)[a-c],
// becomes a folded set.
//
// Examples:
//
//	[abc]     → {"a", "b", "c"}
//	(?i)[ab]  → (?i){"a", "b"}
//	[a-z]     → nil (larger than MaxClassSize)
//
// Returns nil if the class exceeds MaxClassSize.
func (w *walker) expandCharClass(re *syntax.Regexp) *Seq {
	// re.Rune contains pairs: [lo1, hi1, lo2, hi2, ...]
	count := 0
	for i := 0; i+1 < len(re.Rune); i += 2 {
		count += int(re.Rune[i+1] - re.Rune[i] + 1)
		if count > w.config.MaxClassSize {
			return nil
		}
	}

	runes := make([]rune, 0, count)
	for i := 0; i+1 < len(re.Rune); i += 2 {
		for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
			runes = append(runes, r)
		}
	}

	closed, cased := true, false
	for _, r := range runes {
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			cased = true
			if !classContains(re.Rune, f) {
				closed = false
			}
		}
	}

	strs := make([]string, len(runes))
	for i, r := range runes {
		strs[i] = string(r)
	}
	return NewSeq(cased && closed, strs...)
}

func classContains(ranges []rune, r rune) bool {
	for i := 0; i+1 < len(ranges); i += 2 {
		if ranges[i] <= r && r <= ranges[i+1] {
			return true
		}
	}
	return false
}
