// Package prefilter finds which atoms (literal substrings) occur in an input.
//
// Atoms are collected from the prefilter formulas of many regexes into an
// AtomTable. Sealing the table builds a Matcher: one Aho-Corasick automaton
// per case policy that reports every atom occurring in an input in a single
// linear pass, overlapping occurrences included.
//
// Example usage:
//
//	table := prefilter.NewAtomTable()
//	hello, _ := table.AddOrGet("hello", true)
//	world, _ := table.AddOrGet("WORLD", false)
//
//	m, _ := table.Seal(prefilter.DefaultConfig())
//	s := m.NewScratch()
//	m.Scan("Hello world, hello", s)
//	// s.Found contains hello and world
package prefilter

import (
	"errors"
	"strconv"

	"github.com/coregx/refilter/literal"
)

// ErrSealedTable is returned when atoms are added to, or a matcher is built
// from, a table that has already been sealed.
var ErrSealedTable = errors.New("prefilter: atom table is sealed")

// Atom is a literal substring whose presence in an input is tested by the
// Matcher.
type Atom struct {
	// ID is the index of the atom in its table.
	ID int

	// Text is the substring. Case-insensitive atoms hold case-folded text.
	Text string

	// CaseSensitive is false for atoms matched against the case-folded view
	// of the input.
	CaseSensitive bool
}

// String returns the atom text, quoted, with an "i" prefix for
// case-insensitive atoms.
func (a Atom) String() string {
	if a.CaseSensitive {
		return strconv.Quote(a.Text)
	}
	return "i" + strconv.Quote(a.Text)
}

type atomKey struct {
	text          string
	caseSensitive bool
}

// AtomTable interns atoms and assigns them sequential ids.
//
// The table is filled while regexes are registered and sealed once by
// Seal; afterwards it rejects new atoms. An AtomTable is not safe for
// concurrent use.
type AtomTable struct {
	atoms  []Atom
	index  map[atomKey]int
	sealed bool
}

// NewAtomTable creates an empty table.
func NewAtomTable() *AtomTable {
	return &AtomTable{index: make(map[atomKey]int)}
}

// AddOrGet returns the id of the atom equal to (text, caseSensitive),
// allocating a new id on first sight. Case-insensitive text is case-folded
// before lookup, so "Foo" and "FOO" share an id.
//
// Returns ErrSealedTable once the table is sealed.
func (t *AtomTable) AddOrGet(text string, caseSensitive bool) (int, error) {
	if t.sealed {
		return 0, ErrSealedTable
	}
	if !caseSensitive {
		text = literal.Fold(text)
	}
	key := atomKey{text: text, caseSensitive: caseSensitive}
	if id, ok := t.index[key]; ok {
		return id, nil
	}
	id := len(t.atoms)
	t.atoms = append(t.atoms, Atom{ID: id, Text: text, CaseSensitive: caseSensitive})
	t.index[key] = id
	return id, nil
}

// Len returns the number of atoms.
func (t *AtomTable) Len() int {
	return len(t.atoms)
}

// Atoms returns the atoms in id order. The slice must not be modified.
func (t *AtomTable) Atoms() []Atom {
	return t.atoms
}

// Sealed reports whether Seal has been called successfully.
func (t *AtomTable) Sealed() bool {
	return t.sealed
}

// Seal freezes the table and builds the Matcher over its atoms.
// A second call returns ErrSealedTable.
func (t *AtomTable) Seal(config Config) (*Matcher, error) {
	if t.sealed {
		return nil, ErrSealedTable
	}
	m, err := newMatcher(t.atoms, config)
	if err != nil {
		return nil, err
	}
	t.sealed = true
	return m, nil
}
