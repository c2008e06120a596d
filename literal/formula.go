package literal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Op identifies the kind of a Formula node.
type Op uint8

// Formula node kinds. The order is significant: And and Or construction
// sorts operands by Op so that constants are handled first.
const (
	// OpAlways is the constant true: the regex cannot be excluded.
	OpAlways Op = iota
	// OpNever is the constant false: the regex can never match.
	OpNever
	// OpAtom requires one atom to occur in the input.
	OpAtom
	// OpAnd requires every child to hold.
	OpAnd
	// OpOr requires at least one child to hold.
	OpOr
)

// String returns the name of the operator.
func (op Op) String() string {
	switch op {
	case OpAlways:
		return "Always"
	case OpNever:
		return "Never"
	case OpAtom:
		return "Atom"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Formula is a boolean condition over atom presence that is necessarily
// true for any input a regex matches.
//
// Invariants maintained by the constructors in this package:
//   - OpAnd and OpOr nodes have at least two children;
//   - children of an OpAnd are never OpAnd (same for OpOr);
//   - OpAlways and OpNever only appear as the whole formula.
//
// A Formula returned by Synthesizer is owned by the caller. Bind assigns
// atom ids in place.
type Formula struct {
	Op Op

	// Text is the atom text (OpAtom only). For folded atoms it is
	// case-folded.
	Text string

	// Folded marks a case-insensitive atom (OpAtom only).
	Folded bool

	// Atom is the atom id assigned by Bind, or -1 while unbound.
	Atom int

	// Sub holds the children of OpAnd and OpOr nodes.
	Sub []*Formula
}

// Always returns the constant true formula.
func Always() *Formula {
	return &Formula{Op: OpAlways, Atom: -1}
}

// Never returns the constant false formula.
func Never() *Formula {
	return &Formula{Op: OpNever, Atom: -1}
}

// NewAtom returns an unbound atom formula. When folded is true the text is
// case-folded.
func NewAtom(text string, folded bool) *Formula {
	if folded {
		text = Fold(text)
	}
	return &Formula{Op: OpAtom, Text: text, Folded: folded, Atom: -1}
}

// And returns the conjunction of the given formulas, simplified.
// The operands are consumed and must not be used afterwards.
func And(fs ...*Formula) *Formula {
	result := Always()
	for _, f := range fs {
		result = and(result, f)
	}
	return result
}

// Or returns the disjunction of the given formulas, simplified.
// The operands are consumed and must not be used afterwards.
func Or(fs ...*Formula) *Formula {
	result := Never()
	for _, f := range fs {
		result = or(result, f)
	}
	return result
}

func and(a, b *Formula) *Formula {
	a, b = simplify(a), simplify(b)
	if a.Op > b.Op {
		a, b = b, a
	}
	switch {
	case a.Op == OpAlways:
		return b
	case a.Op == OpNever:
		return a
	case a.Op == OpAnd && b.Op == OpAnd:
		a.Sub = append(a.Sub, b.Sub...)
		return a
	case a.Op == OpAnd:
		a.Sub = append(a.Sub, b)
		return a
	case b.Op == OpAnd:
		b.Sub = append(b.Sub, a)
		return b
	default:
		return &Formula{Op: OpAnd, Atom: -1, Sub: []*Formula{a, b}}
	}
}

func or(a, b *Formula) *Formula {
	a, b = simplify(a), simplify(b)
	if a.Op > b.Op {
		a, b = b, a
	}
	switch {
	case a.Op == OpAlways:
		return a
	case a.Op == OpNever:
		return b
	case a.Op == OpOr && b.Op == OpOr:
		a.Sub = append(a.Sub, b.Sub...)
		return a
	case a.Op == OpOr:
		a.Sub = append(a.Sub, b)
		return a
	case b.Op == OpOr:
		b.Sub = append(b.Sub, a)
		return b
	default:
		return &Formula{Op: OpOr, Atom: -1, Sub: []*Formula{a, b}}
	}
}

// simplify collapses And/Or nodes with fewer than two children.
func simplify(f *Formula) *Formula {
	if f.Op != OpAnd && f.Op != OpOr {
		return f
	}
	switch len(f.Sub) {
	case 0:
		if f.Op == OpAnd {
			return Always()
		}
		return Never()
	case 1:
		return simplify(f.Sub[0])
	}
	return f
}

// orStrings converts an exact set into a disjunction of atoms, dropping
// strings made redundant by a shorter member.
func orStrings(seq *Seq) *Formula {
	result := Never()
	for _, s := range seq.Minimize() {
		result = or(result, &Formula{Op: OpAtom, Text: s, Folded: seq.Folded(), Atom: -1})
	}
	return result
}

// Prune removes atoms shorter than minLen runes or containing U+FFFD and
// returns the weakened formula. Removing a conjunct weakens an AND; a
// disjunction loses its meaning when any branch is removed, so it is
// dropped entirely. A formula
// left without atoms becomes OpAlways. OpNever is returned unchanged.
//
// Example:
//
//	f := literal.And(literal.NewAtom("ab", false), literal.NewAtom("xyz", false))
//	fmt.Println(f.Prune(3)) // Output: "xyz"
func (f *Formula) Prune(minLen int) *Formula {
	if f.Op == OpNever {
		return f
	}
	if kept, ok := f.prune(minLen); ok {
		return kept
	}
	return Always()
}

func (f *Formula) prune(minLen int) (*Formula, bool) {
	switch f.Op {
	case OpAtom:
		// U+FFFD also matches every invalid input byte, which the atom
		// scan cannot see
		if strings.ContainsRune(f.Text, utf8.RuneError) {
			return nil, false
		}
		return f, utf8.RuneCountInString(f.Text) >= minLen
	case OpAnd:
		kept := f.Sub[:0]
		for _, sub := range f.Sub {
			if p, ok := sub.prune(minLen); ok {
				kept = append(kept, p)
			}
		}
		switch len(kept) {
		case 0:
			return nil, false
		case 1:
			return kept[0], true
		}
		f.Sub = kept
		return f, true
	case OpOr:
		kept := make([]*Formula, 0, len(f.Sub))
		for _, sub := range f.Sub {
			p, ok := sub.prune(minLen)
			if !ok {
				return nil, false
			}
			// a pruned conjunction may collapse into a disjunction
			if p.Op == OpOr {
				kept = append(kept, p.Sub...)
			} else {
				kept = append(kept, p)
			}
		}
		f.Sub = kept
		return f, true
	default:
		return nil, false
	}
}

// Interner assigns ids to atoms. prefilter.AtomTable implements it.
type Interner interface {
	AddOrGet(text string, caseSensitive bool) (int, error)
}

// Bind interns every atom of f and records the returned ids in place.
// On error some atoms may already have been interned.
func (f *Formula) Bind(in Interner) error {
	if f.Op == OpAtom {
		id, err := in.AddOrGet(f.Text, !f.Folded)
		if err != nil {
			return err
		}
		f.Atom = id
		return nil
	}
	for _, sub := range f.Sub {
		if err := sub.Bind(in); err != nil {
			return err
		}
	}
	return nil
}

// Eval evaluates the formula given the set of atom ids present in the input.
// The formula must be bound.
func (f *Formula) Eval(found func(atom int) bool) bool {
	switch f.Op {
	case OpAlways:
		return true
	case OpAtom:
		return found(f.Atom)
	case OpAnd:
		for _, sub := range f.Sub {
			if !sub.Eval(found) {
				return false
			}
		}
		return true
	case OpOr:
		for _, sub := range f.Sub {
			if sub.Eval(found) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Atoms calls fn for every atom node of the formula, depth first.
func (f *Formula) Atoms(fn func(atom *Formula)) {
	if f.Op == OpAtom {
		fn(f)
		return
	}
	for _, sub := range f.Sub {
		sub.Atoms(fn)
	}
}

// IsUnfiltered reports whether the formula places no constraint on the
// input.
func (f *Formula) IsUnfiltered() bool {
	return f.Op == OpAlways
}

// String returns a readable form of the formula. Atoms are quoted, folded
// atoms carry an "i" prefix, conjunctions are space separated and
// disjunctions are parenthesized with "|".
//
// Example:
//
//	f := literal.And(literal.NewAtom("abc", false), literal.Or(literal.NewAtom("x", true), literal.NewAtom("y", false)))
//	fmt.Println(f) // Output: "abc" (i"x"|"y")
func (f *Formula) String() string {
	var sb strings.Builder
	f.write(&sb)
	return sb.String()
}

func (f *Formula) write(sb *strings.Builder) {
	switch f.Op {
	case OpAlways:
		sb.WriteString("ALWAYS")
	case OpNever:
		sb.WriteString("NEVER")
	case OpAtom:
		if f.Folded {
			sb.WriteByte('i')
		}
		writeQuoted(sb, f.Text)
	case OpAnd:
		for i, sub := range f.Sub {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sub.write(sb)
		}
	case OpOr:
		sb.WriteByte('(')
		for i, sub := range f.Sub {
			if i > 0 {
				sb.WriteByte('|')
			}
			sub.write(sb)
		}
		sb.WriteByte(')')
	}
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteString(strconv.Quote(s))
}
