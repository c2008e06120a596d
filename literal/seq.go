package literal

import (
	"cmp"
	"slices"
	"strings"
)

// Seq is a finite set of alternative strings that a subexpression can match
// exactly. Every string in a Seq shares one case policy: when Folded is true
// the strings are stored case-folded (see Fold) and must be compared against
// folded input.
//
// Strings are kept sorted by length, then lexicographically, without
// duplicates.
//
// Example:
//
//	seq := literal.NewSeq(false, "foo", "ba", "foo")
//	fmt.Println(seq) // Output: ["ba" "foo"]
type Seq struct {
	strs   []string
	folded bool
}

// NewSeq creates a sequence from strs. When folded is true every string is
// case-folded first.
func NewSeq(folded bool, strs ...string) *Seq {
	s := &Seq{strs: make([]string, 0, len(strs)), folded: folded}
	for _, str := range strs {
		if folded {
			str = Fold(str)
		}
		s.strs = append(s.strs, str)
	}
	s.normalize()
	return s
}

// Len returns the number of strings in the sequence.
func (s *Seq) Len() int {
	return len(s.strs)
}

// Get returns the i-th string in length-then-lexicographic order.
// Panics if i is out of bounds.
func (s *Seq) Get(i int) string {
	return s.strs[i]
}

// IsEmpty reports whether the sequence matches nothing at all.
// Note that a sequence holding only "" is not empty: it matches the empty
// string.
func (s *Seq) IsEmpty() bool {
	return len(s.strs) == 0
}

// Folded reports whether the strings are case-folded.
func (s *Seq) Folded() bool {
	return s.folded
}

// Strings returns a copy of the strings.
func (s *Seq) Strings() []string {
	return slices.Clone(s.strs)
}

// Union returns a sequence holding the strings of both s and other.
// If the case policies differ the result is folded.
func (s *Seq) Union(other *Seq) *Seq {
	s, other = matchPolicy(s, other)
	out := &Seq{
		strs:   make([]string, 0, len(s.strs)+len(other.strs)),
		folded: s.folded,
	}
	out.strs = append(out.strs, s.strs...)
	out.strs = append(out.strs, other.strs...)
	out.normalize()
	return out
}

// Cross returns the cross product of s and other: every string of s
// followed by every string of other. If the case policies differ the result
// is folded.
//
// Example:
//
//	a := literal.NewSeq(false, "ab", "cd")
//	b := literal.NewSeq(false, "x", "y")
//	fmt.Println(a.Cross(b)) // Output: ["abx" "aby" "cdx" "cdy"]
func (s *Seq) Cross(other *Seq) *Seq {
	s, other = matchPolicy(s, other)
	out := &Seq{
		strs:   make([]string, 0, len(s.strs)*len(other.strs)),
		folded: s.folded,
	}
	for _, a := range s.strs {
		for _, b := range other.strs {
			out.strs = append(out.strs, a+b)
		}
	}
	out.normalize()
	return out
}

// Minimize returns the strings of the sequence that do not contain another,
// shorter non-empty string of the same sequence.
//
// A string containing another member is redundant as a prefilter atom: any
// input holding the longer string also holds the shorter one.
//
// Example:
//
//	seq := literal.NewSeq(false, "abc", "abcd", "xabcx", "zz")
//	fmt.Println(seq.Minimize()) // Output: [zz abc]
func (s *Seq) Minimize() []string {
	kept := make([]string, 0, len(s.strs))
	for _, current := range s.strs {
		redundant := false
		for _, shorter := range kept {
			if shorter != "" && strings.Contains(current, shorter) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	return kept
}

// String returns a debugging representation of the sequence. Folded
// sequences are prefixed with "(?i)".
func (s *Seq) String() string {
	var sb strings.Builder
	if s.folded {
		sb.WriteString("(?i)")
	}
	sb.WriteByte('[')
	for i, str := range s.strs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeQuoted(&sb, str)
	}
	sb.WriteByte(']')
	return sb.String()
}

// ToFolded returns the sequence with every string case-folded.
func (s *Seq) ToFolded() *Seq {
	if s.folded {
		return s
	}
	return NewSeq(true, s.strs...)
}

func matchPolicy(a, b *Seq) (*Seq, *Seq) {
	if a.folded == b.folded {
		return a, b
	}
	return a.ToFolded(), b.ToFolded()
}

func (s *Seq) normalize() {
	slices.SortFunc(s.strs, compareStrings)
	s.strs = slices.Compact(s.strs)
}

// compareStrings orders by length first, then lexicographically.
func compareStrings(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
