package refilter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coregx/refilter/prefilter"
)

// Stats describes a compiled set and how well its prefilter works.
//
// Example:
//
//	stats := set.Stats()
//	fmt.Printf("%d regexes, %d atoms, %d unfiltered\n",
//	    stats.Regexes, stats.Atoms, stats.Unfiltered)
//	fmt.Printf("%.1f%% of verifications matched\n", 100*stats.Efficiency())
type Stats struct {
	// Regexes is the number of regexes in the set.
	Regexes int

	// Atoms is the number of distinct atoms.
	Atoms int

	// Unfiltered counts regexes that are candidates for every input.
	Unfiltered int

	// Never counts regexes that can never match.
	Never int

	// Entries is the number of unique formula nodes in the resolver.
	Entries int

	// PrunedEdges counts AND edges dropped by resolver pruning.
	PrunedEdges int

	// States is the number of atom automaton states.
	States int

	// HeapBytes is the memory used by the atom automata tables.
	HeapBytes int

	// Matching counters since compilation or the last ResetStats.
	prefilter.TrackerStats
}

// Collector exports the statistics of a Set as Prometheus metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(refilter.NewCollector(set, "myapp", prometheus.Labels{"set": "useragents"}))
type Collector struct {
	set *Set

	regexes       *prometheus.Desc
	atoms         *prometheus.Desc
	unfiltered    *prometheus.Desc
	states        *prometheus.Desc
	scans         *prometheus.Desc
	atomsFound    *prometheus.Desc
	candidates    *prometheus.Desc
	verifications *prometheus.Desc
	confirms      *prometheus.Desc
	shortCircuits *prometheus.Desc
}

// NewCollector returns a collector for set. Metric names are prefixed with
// namespace and "refilter".
func NewCollector(set *Set, namespace string, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "refilter", name),
			help, nil, constLabels)
	}
	return &Collector{
		set:           set,
		regexes:       desc("regexes", "Number of regexes in the set."),
		atoms:         desc("atoms", "Number of distinct atoms."),
		unfiltered:    desc("unfiltered_regexes", "Regexes verified for every input."),
		states:        desc("automaton_states", "Number of atom automaton states."),
		scans:         desc("scans_total", "Inputs scanned for atoms."),
		atomsFound:    desc("atoms_found_total", "Atoms found, summed over scans."),
		candidates:    desc("candidates_total", "Candidate regexes, summed over inputs."),
		verifications: desc("verifications_total", "Regex engine invocations."),
		confirms:      desc("confirms_total", "Verifications that matched."),
		shortCircuits: desc("short_circuits_total", "Inputs without any candidate."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.regexes
	ch <- c.atoms
	ch <- c.unfiltered
	ch <- c.states
	ch <- c.scans
	ch <- c.atomsFound
	ch <- c.candidates
	ch <- c.verifications
	ch <- c.confirms
	ch <- c.shortCircuits
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.set.Stats()
	gauge := func(desc *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v))
	}
	counter := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}
	gauge(c.regexes, stats.Regexes)
	gauge(c.atoms, stats.Atoms)
	gauge(c.unfiltered, stats.Unfiltered)
	gauge(c.states, stats.States)
	counter(c.scans, stats.Scans)
	counter(c.atomsFound, stats.AtomsFound)
	counter(c.candidates, stats.Candidates)
	counter(c.verifications, stats.Verifications)
	counter(c.confirms, stats.Confirms)
	counter(c.shortCircuits, stats.ShortCircuits)
}
