package prefilter

import (
	"sync"
	"testing"
)

func TestTracker_Counters(t *testing.T) {
	tracker := NewTracker()

	tracker.RecordScan(3)
	tracker.RecordCandidates(2)
	tracker.RecordVerification(false)
	tracker.RecordVerification(true)

	tracker.RecordScan(0)
	tracker.RecordCandidates(0)

	got := tracker.Snapshot()
	want := TrackerStats{
		Scans:         2,
		AtomsFound:    3,
		Candidates:    2,
		Verifications: 2,
		Confirms:      1,
		ShortCircuits: 1,
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
	if eff := got.Efficiency(); eff != 0.5 {
		t.Errorf("Efficiency() = %v, want 0.5", eff)
	}

	tracker.Reset()
	if got := tracker.Snapshot(); got != (TrackerStats{}) {
		t.Errorf("after Reset: %+v", got)
	}
}

func TestTrackerStats_Effective(t *testing.T) {
	config := TrackerConfig{MinEfficiency: 0.1, WarmupPeriod: 10}

	tests := []struct {
		name  string
		stats TrackerStats
		want  bool
	}{
		{"no data", TrackerStats{}, true},
		{"warmup", TrackerStats{Verifications: 9}, true},
		{"poor", TrackerStats{Verifications: 100, Confirms: 5}, false},
		{"good", TrackerStats{Verifications: 100, Confirms: 50}, true},
		{"threshold", TrackerStats{Verifications: 100, Confirms: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Effective(config); got != tt.want {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}

	if (TrackerStats{}).Efficiency() != 0 {
		t.Error("efficiency without verifications should be 0")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				tracker.RecordScan(1)
				tracker.RecordVerification(i%2 == 0)
			}
		}()
	}
	wg.Wait()

	s := tracker.Snapshot()
	if s.Scans != 4000 || s.AtomsFound != 4000 || s.Verifications != 4000 || s.Confirms != 2000 {
		t.Errorf("lost updates: %+v", s)
	}
}
