package prefilter

import (
	"sync/atomic"
)

// Tracker records how effective a prefilter is across many matches.
//
// The tracker counts, for every input: the atoms found by the scan, the
// candidates the formulas let through, the candidates actually verified and
// those confirmed by the regex engine. A low ratio of confirms to
// verifications means the atoms are too common to filter anything, usually
// a sign that the minimum atom length is too low for the pattern set.
//
// All methods are safe for concurrent use.
//
// Example usage:
//
//	tracker := prefilter.NewTracker()
//	m.Scan(input, s)
//	tracker.RecordScan(s.Found.Len())
//	...
//	if !tracker.Snapshot().Effective(prefilter.DefaultTrackerConfig()) {
//	    log.Println("prefilter is letting through too many false candidates")
//	}
type Tracker struct {
	scans         atomic.Uint64
	atoms         atomic.Uint64
	candidates    atomic.Uint64
	verifications atomic.Uint64
	confirms      atomic.Uint64
	shortCircuits atomic.Uint64
}

// TrackerConfig holds the thresholds used to judge effectiveness.
type TrackerConfig struct {
	// MinEfficiency is the minimum acceptable ratio of confirms to
	// verifications.
	// Default: 0.1 (10%)
	MinEfficiency float64

	// WarmupPeriod is the minimum number of verifications before the
	// ratio is taken into account. This prevents judging on small samples.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a tracker with all counters at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordScan records one atom scan that found the given number of atoms.
func (t *Tracker) RecordScan(found int) {
	t.scans.Add(1)
	t.atoms.Add(uint64(found)) //nolint:gosec // G115: found is a non-negative count
}

// RecordCandidates records the number of candidates resolved for one input.
// An input without candidates is counted as short-circuited: the regex
// engine is not invoked at all.
func (t *Tracker) RecordCandidates(n int) {
	if n == 0 {
		t.shortCircuits.Add(1)
		return
	}
	t.candidates.Add(uint64(n)) //nolint:gosec // G115: n is a non-negative count
}

// RecordVerification records one regex engine invocation and whether it
// confirmed the candidate.
func (t *Tracker) RecordVerification(matched bool) {
	t.verifications.Add(1)
	if matched {
		t.confirms.Add(1)
	}
}

// Reset sets all counters back to zero.
func (t *Tracker) Reset() {
	t.scans.Store(0)
	t.atoms.Store(0)
	t.candidates.Store(0)
	t.verifications.Store(0)
	t.confirms.Store(0)
	t.shortCircuits.Store(0)
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() TrackerStats {
	return TrackerStats{
		Scans:         t.scans.Load(),
		AtomsFound:    t.atoms.Load(),
		Candidates:    t.candidates.Load(),
		Verifications: t.verifications.Load(),
		Confirms:      t.confirms.Load(),
		ShortCircuits: t.shortCircuits.Load(),
	}
}

// TrackerStats is a point-in-time copy of the tracker counters.
type TrackerStats struct {
	Scans         uint64 // inputs scanned for atoms
	AtomsFound    uint64 // atoms found, summed over scans
	Candidates    uint64 // candidate regexes, summed over inputs
	Verifications uint64 // regex engine invocations
	Confirms      uint64 // verifications that matched
	ShortCircuits uint64 // inputs with no candidate at all
}

// Efficiency returns the ratio of confirmed matches to verifications,
// or 0 if nothing was verified.
func (s TrackerStats) Efficiency() float64 {
	if s.Verifications == 0 {
		return 0
	}
	return float64(s.Confirms) / float64(s.Verifications)
}

// Effective reports whether the prefilter is filtering well enough.
// It always reports true during the warmup period.
func (s TrackerStats) Effective(config TrackerConfig) bool {
	if s.Verifications < config.WarmupPeriod {
		return true
	}
	return s.Efficiency() >= config.MinEfficiency
}
