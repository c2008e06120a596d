package refilter

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/refilter/engine"
)

// patternGen builds small random regexes over an alphabet with the case
// fold orbits of s and k (including ſ and the Kelvin sign) and U+FFFD.
type patternGen struct {
	rng *rand.Rand
}

var genLiterals = []string{"a", "b", "c", "s", "S", "k", "K", "ſ", "K", `\x{FFFD}`, "ab", "abc", "sk"}

var genClasses = []string{"[ab]", "[sk]", "[^a]", "[a-c]", "[Kk]", "[sſ]", `\d`, `\w`, "."}

func (g *patternGen) pattern(depth int) string {
	if depth <= 0 {
		return g.leaf()
	}
	switch g.rng.IntN(10) {
	case 0, 1:
		return g.leaf()
	case 2:
		return "(" + g.pattern(depth-1) + ")"
	case 3:
		return "(?:" + g.pattern(depth-1) + "|" + g.pattern(depth-1) + ")"
	case 4:
		ops := []string{"*", "+", "?"}
		return "(?:" + g.pattern(depth-1) + ")" + ops[g.rng.IntN(len(ops))]
	case 5:
		lo := g.rng.IntN(3)
		return fmt.Sprintf("(?:%s){%d,%d}", g.pattern(depth-1), lo, lo+g.rng.IntN(2))
	case 6:
		return "(?i:" + g.pattern(depth-1) + ")"
	case 7:
		anchors := []string{"^", "$", `\b`}
		return anchors[g.rng.IntN(len(anchors))] + g.pattern(depth-1)
	default:
		n := 2 + g.rng.IntN(3)
		parts := make([]string, n)
		for i := range parts {
			parts[i] = g.pattern(depth - 1)
		}
		return strings.Join(parts, "")
	}
}

func (g *patternGen) leaf() string {
	if g.rng.IntN(3) == 0 {
		return genClasses[g.rng.IntN(len(genClasses))]
	}
	return genLiterals[g.rng.IntN(len(genLiterals))]
}

var genInputAlphabet = []string{"a", "b", "c", "s", "S", "k", "K", "ſ", "K", "1", " ", "-", "\xff", "�"}

func (g *patternGen) input() string {
	n := g.rng.IntN(12)
	var sb strings.Builder
	for range n {
		sb.WriteString(genInputAlphabet[g.rng.IntN(len(genInputAlphabet))])
	}
	return sb.String()
}

// Random patterns and inputs: every regex that matches must be a
// candidate, and MatchAll must agree with package regexp.
func TestRandomSoundness(t *testing.T) {
	g := &patternGen{rng: rand.New(rand.NewPCG(7, 11))}

	var patterns []string
	for len(patterns) < 300 {
		p := g.pattern(3)
		if _, err := regexp.Compile(p); err != nil {
			continue
		}
		patterns = append(patterns, p)
	}
	inputs := make([]string, 400)
	for i := range inputs {
		inputs[i] = g.input()
	}

	for _, minLen := range []int{1, 3} {
		for _, pruning := range []bool{false, true} {
			t.Run(fmt.Sprintf("min=%d/pruning=%v", minLen, pruning), func(t *testing.T) {
				eng, err := engine.Lookup("stdlib")
				require.NoError(t, err)
				config := DefaultConfig()
				config.Engine = eng
				config.Filter.MinAtomLen = minLen
				config.Filter.EnablePruning = pruning
				config.Filter.EnableGate = pruning
				set := compileSet(t, config, patterns...)

				res := make([]*regexp.Regexp, len(patterns))
				for i, p := range patterns {
					res[i] = regexp.MustCompile(p)
				}

				for _, input := range inputs {
					var want []int
					for id, re := range res {
						if re.MatchString(input) {
							want = append(want, id)
						}
					}
					candidates := set.Candidates(input)
					for _, id := range want {
						require.Contains(t, candidates, id,
							"pattern %q matches %q (formula %s)", patterns[id], input, set.Regex(id).Formula())
					}
					got := set.MatchAll(input)
					if len(want) == 0 {
						require.Empty(t, got, "input %q", input)
					} else {
						require.Equal(t, want, got, "input %q", input)
					}
				}
			})
		}
	}
}

func TestReplacementChar(t *testing.T) {
	eng, err := engine.Lookup("stdlib")
	require.NoError(t, err)
	config := DefaultConfig()
	config.Engine = eng
	set := compileSet(t, config, `\x{FFFD}abc`, `(?i)\x{FFFD}xyz`, "abc")

	require.Equal(t, []int{0, 2}, set.MatchAll("\xffabc"))
	require.Subset(t, set.Candidates("\xffabc"), []int{0, 2})
	require.Equal(t, []int{1}, set.MatchAll("\xffXYZ"))
	require.Contains(t, set.Candidates("\xffXYZ"), 1)
	require.Equal(t, []int{0, 2}, set.MatchAll("�abc"))
}
