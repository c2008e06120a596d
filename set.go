package refilter

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/coregx/refilter/meta"
	"github.com/coregx/refilter/prefilter"
)

// Set is a compiled set of regexes.
//
// A Set is immutable and safe for concurrent use. Methods without a
// Scratch argument take one from an internal pool.
type Set struct {
	regexes  []*Regex
	engine   string
	matcher  *prefilter.Matcher
	resolver *meta.Resolver
	verifier *meta.Verifier
	tracker  *prefilter.Tracker
	pool     sync.Pool
}

// Scratch holds the per-call state of matching: the atoms found, the
// resolver counters and the candidate list. A Scratch belongs to the Set
// that created it and must not be used by two goroutines at once.
type Scratch struct {
	atoms   *prefilter.Scratch
	resolve *meta.ResolveScratch
	matches []int
}

// NewScratch returns a Scratch for use with the *Scratch methods.
func (s *Set) NewScratch() *Scratch {
	return &Scratch{
		atoms:   s.matcher.NewScratch(),
		resolve: s.resolver.NewScratch(),
	}
}

func (s *Set) getScratch() *Scratch {
	return s.pool.Get().(*Scratch)
}

func (s *Set) putScratch(scratch *Scratch) {
	s.pool.Put(scratch)
}

// candidates returns the candidate ids for input, owned by scratch.
func (s *Set) candidates(input string, scratch *Scratch) []int {
	s.matcher.Scan(input, scratch.atoms)
	s.tracker.RecordScan(scratch.atoms.Found.Len())
	candidates := s.resolver.Resolve(scratch.atoms.Found.Values(), scratch.resolve)
	s.tracker.RecordCandidates(len(candidates))
	return candidates
}

// Match returns the lowest id of the regexes matching input.
//
// Example:
//
//	if id, ok := set.Match(line); ok {
//	    fmt.Println(set.Regex(id).Pattern())
//	}
func (s *Set) Match(input string) (int, bool) {
	scratch := s.getScratch()
	defer s.putScratch(scratch)
	return s.MatchScratch(input, scratch)
}

// MatchScratch is like Match with caller-owned scratch space.
func (s *Set) MatchScratch(input string, scratch *Scratch) (int, bool) {
	candidates := s.candidates(input, scratch)
	if len(candidates) == 0 {
		return -1, false
	}
	return s.verifier.First(input, candidates)
}

// IsMatch reports whether any regex matches input.
func (s *Set) IsMatch(input string) bool {
	_, ok := s.Match(input)
	return ok
}

// MatchAll returns the ids of all regexes matching input, ascending.
// Returns nil if none matches.
func (s *Set) MatchAll(input string) []int {
	scratch := s.getScratch()
	defer s.putScratch(scratch)
	if ids := s.MatchAllScratch(input, scratch); len(ids) > 0 {
		return slices.Clone(ids)
	}
	return nil
}

// MatchAllScratch is like MatchAll with caller-owned scratch space. The
// returned slice is owned by scratch and valid until its next use.
func (s *Set) MatchAllScratch(input string, scratch *Scratch) []int {
	candidates := s.candidates(input, scratch)
	scratch.matches = s.verifier.All(input, candidates, scratch.matches[:0])
	return scratch.matches
}

// Candidates returns, ascending, the ids of the regexes that may match
// input: those whose formula holds for the atoms in input, plus the
// unfiltered ones. No regex is run.
func (s *Set) Candidates(input string) []int {
	scratch := s.getScratch()
	defer s.putScratch(scratch)
	return slices.Clone(s.candidates(input, scratch))
}

// Scan returns, ascending, the ids of the atoms occurring in input.
func (s *Set) Scan(input string) []int {
	scratch := s.getScratch()
	defer s.putScratch(scratch)
	s.matcher.Scan(input, scratch.atoms)
	ids := slices.Clone(scratch.atoms.Found.Values())
	slices.Sort(ids)
	return ids
}

// Len returns the number of regexes.
func (s *Set) Len() int {
	return len(s.regexes)
}

// Regex returns the regex with the given id.
// Panics if id is out of range.
func (s *Set) Regex(id int) *Regex {
	return s.regexes[id]
}

// Regexes returns the regexes in id order. The slice must not be modified.
func (s *Set) Regexes() []*Regex {
	return s.regexes
}

// Atoms returns the atom table in id order. The slice must not be
// modified.
func (s *Set) Atoms() []prefilter.Atom {
	return s.matcher.Atoms()
}

// Unfiltered returns the ids of the regexes that are candidates for every
// input. The slice must not be modified.
func (s *Set) Unfiltered() []int {
	return s.resolver.Unfiltered()
}

// Engine returns the name of the engine used for verification.
func (s *Set) Engine() string {
	return s.engine
}

// Stats returns the structure of the set and its matching counters.
func (s *Set) Stats() Stats {
	return Stats{
		Regexes:      len(s.regexes),
		Atoms:        s.matcher.Len(),
		Unfiltered:   len(s.resolver.Unfiltered()),
		Never:        len(s.resolver.Never()),
		Entries:      s.resolver.Entries(),
		PrunedEdges:  s.resolver.PrunedEdges(),
		States:       s.matcher.States(),
		HeapBytes:    s.matcher.HeapBytes(),
		TrackerStats: s.tracker.Snapshot(),
	}
}

// ResetStats sets the matching counters back to zero.
func (s *Set) ResetStats() {
	s.tracker.Reset()
}

// String dumps the regexes with their formulas, the atom table and the
// resolver graph.
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteString("regexes:\n")
	for _, re := range s.regexes {
		fmt.Fprintf(&sb, "  %3d %s => %s\n", re.id, re, re.formula)
	}
	sb.WriteString("atoms:\n")
	for _, a := range s.matcher.Atoms() {
		fmt.Fprintf(&sb, "  %3d %s\n", a.ID, a)
	}
	sb.WriteString(s.resolver.String())
	return sb.String()
}
