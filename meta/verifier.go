package meta

import (
	"github.com/coregx/refilter/engine"
	"github.com/coregx/refilter/prefilter"
)

// Verifier confirms prefilter candidates with the compiled regexes.
//
// Candidates are verified in the order given, which the resolver makes
// ascending, so First returns the lowest matching id. An empty candidate
// list never reaches the regex engine.
//
// Thread safety: a Verifier is safe for concurrent use if the regexes are.
type Verifier struct {
	regexes []engine.Regexp
	tracker *prefilter.Tracker
}

// NewVerifier returns a verifier for regexes, where regexes[i] is the
// compiled regex with id i. Verification results are recorded in tracker;
// a new tracker is created if it is nil.
func NewVerifier(regexes []engine.Regexp, tracker *prefilter.Tracker) *Verifier {
	if tracker == nil {
		tracker = prefilter.NewTracker()
	}
	return &Verifier{regexes: regexes, tracker: tracker}
}

// First returns the first candidate whose regex matches input.
func (v *Verifier) First(input string, candidates []int) (int, bool) {
	for _, id := range candidates {
		matched := v.regexes[id].MatchString(input)
		v.tracker.RecordVerification(matched)
		if matched {
			return id, true
		}
	}
	return -1, false
}

// All appends to dst every candidate whose regex matches input, in
// candidate order, and returns the extended slice.
func (v *Verifier) All(input string, candidates []int, dst []int) []int {
	for _, id := range candidates {
		matched := v.regexes[id].MatchString(input)
		v.tracker.RecordVerification(matched)
		if matched {
			dst = append(dst, id)
		}
	}
	return dst
}

// Len returns the number of regexes.
func (v *Verifier) Len() int {
	return len(v.regexes)
}

// Regexp returns the compiled regex with the given id.
func (v *Verifier) Regexp(id int) engine.Regexp {
	return v.regexes[id]
}

// Calls returns the number of regex engine invocations so far.
func (v *Verifier) Calls() uint64 {
	return v.tracker.Snapshot().Verifications
}

// Tracker returns the tracker the verifier records into.
func (v *Verifier) Tracker() *prefilter.Tracker {
	return v.tracker
}
