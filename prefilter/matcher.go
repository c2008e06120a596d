package prefilter

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/refilter/internal/sparse"
	"github.com/coregx/refilter/literal"
)

// Config configures the Matcher built by AtomTable.Seal.
type Config struct {
	// EnableGate asks each automaton "does any atom occur at all?" before
	// collecting overlapping matches. It pays off when most inputs
	// contain no atom.
	// Default: false.
	EnableGate bool
}

// DefaultConfig returns the default matcher configuration.
func DefaultConfig() Config {
	return Config{}
}

// Matcher reports which atoms of a sealed AtomTable occur in an input.
//
// Case-sensitive atoms are searched in the raw input and case-insensitive
// atoms in its case-folded form (see literal.Fold), each with its own
// Aho-Corasick automaton. A Matcher is immutable and safe for concurrent
// use; per-call state lives in a Scratch.
type Matcher struct {
	atoms  []Atom
	config Config

	sensitive *atomSearcher
	folded    *atomSearcher
}

// atomSearcher is the automaton of one case policy.
type atomSearcher struct {
	ac *ahocorasick.Automaton // nil if every atom is empty

	// ids maps automaton pattern ids to atom ids.
	ids []int

	// empty is the id of the empty atom, which occurs in every input, or -1.
	empty int

	// classes is the number of distinct pattern bytes plus one.
	classes int
}

// Scratch holds the per-call state of Matcher.Scan. A Scratch must not be
// used by two goroutines at once.
type Scratch struct {
	// Found holds the ids of the atoms found by the last Scan, in
	// discovery order.
	Found sparse.Set

	raw  []byte // input bytes for the case-sensitive automaton
	fold []byte // case-folded input
}

func newMatcher(atoms []Atom, config Config) (*Matcher, error) {
	var sensitive, folded []Atom
	for _, a := range atoms {
		if a.CaseSensitive {
			sensitive = append(sensitive, a)
		} else {
			folded = append(folded, a)
		}
	}

	m := &Matcher{atoms: atoms, config: config}
	var err error
	if m.sensitive, err = newAtomSearcher(sensitive); err != nil {
		return nil, err
	}
	if m.folded, err = newAtomSearcher(folded); err != nil {
		return nil, err
	}
	return m, nil
}

// newAtomSearcher builds an automaton over atoms, added in id order.
// Returns nil for no atoms.
func newAtomSearcher(atoms []Atom) (*atomSearcher, error) {
	if len(atoms) == 0 {
		return nil, nil
	}
	as := &atomSearcher{empty: -1}
	var used [256]bool
	builder := ahocorasick.NewBuilder()
	for _, a := range atoms {
		if a.Text == "" {
			as.empty = a.ID
			continue
		}
		builder.AddPattern([]byte(a.Text))
		as.ids = append(as.ids, a.ID)
		for i := 0; i < len(a.Text); i++ {
			if !used[a.Text[i]] {
				used[a.Text[i]] = true
				as.classes++
			}
		}
	}
	as.classes++
	if len(as.ids) == 0 {
		return as, nil
	}

	ac, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: build atom automaton: %w", err)
	}
	as.ac = ac
	return as, nil
}

// scan inserts into found the id of every atom occurring in haystack.
func (as *atomSearcher) scan(haystack []byte, gate bool, found *sparse.Set) {
	if as.empty >= 0 {
		found.Insert(as.empty)
	}
	if as.ac == nil || (gate && !as.ac.IsMatch(haystack)) {
		return
	}
	for _, m := range as.ac.FindAllOverlapping(haystack) {
		found.Insert(as.ids[m.PatternID])
	}
}

// NewScratch returns a Scratch sized for the matcher.
func (m *Matcher) NewScratch() *Scratch {
	s := &Scratch{}
	s.Found.Resize(len(m.atoms))
	return s
}

// Scan stores in s.Found the id of every atom occurring in input, each
// once. Previous contents of s are discarded.
func (m *Matcher) Scan(input string, s *Scratch) {
	if s.Found.Capacity() < len(m.atoms) {
		s.Found.Resize(len(m.atoms))
	} else {
		s.Found.Clear()
	}

	if m.sensitive != nil {
		s.raw = append(s.raw[:0], input...)
		m.sensitive.scan(s.raw, m.config.EnableGate, &s.Found)
	}
	if m.folded != nil {
		s.fold = literal.AppendFold(s.fold[:0], input)
		m.folded.scan(s.fold, m.config.EnableGate, &s.Found)
	}
}

// Atoms returns the atoms in id order. The slice must not be modified.
func (m *Matcher) Atoms() []Atom {
	return m.atoms
}

// Len returns the number of atoms.
func (m *Matcher) Len() int {
	return len(m.atoms)
}

// Config returns the configuration the matcher was built with.
func (m *Matcher) Config() Config {
	return m.config
}

// States returns the total number of automaton states.
func (m *Matcher) States() int {
	n := 0
	for _, as := range []*atomSearcher{m.sensitive, m.folded} {
		if as != nil && as.ac != nil {
			n += as.ac.StateCount()
		}
	}
	return n
}

// HeapBytes estimates the memory used by the automata transition tables:
// one 4-byte entry per state and byte class, rows padded to a power of two.
func (m *Matcher) HeapBytes() int {
	n := 0
	for _, as := range []*atomSearcher{m.sensitive, m.folded} {
		if as == nil || as.ac == nil {
			continue
		}
		stride := 1
		for stride < as.classes {
			stride <<= 1
		}
		n += as.ac.StateCount()*stride*4 + len(as.ids)*8
	}
	return n
}
