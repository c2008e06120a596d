package meta

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/coregx/refilter/internal/sparse"
	"github.com/coregx/refilter/literal"
)

// Resolver evaluates the prefilter formulas of a whole regex set at once.
//
// Formulas are merged into a DAG of unique nodes: structurally equal
// subformulas, such as an atom shared by many regexes, become one node with
// several parents. Each node has a trigger threshold: an OR or atom node
// triggers as soon as one child does, an AND node once all its unique
// children have triggered. Resolution starts from the found atoms and walks
// up the parent links, so the cost depends on what was found, not on the
// number of regexes.
//
// A Resolver is immutable after construction and safe for concurrent use;
// per-call state lives in a ResolveScratch.
type Resolver struct {
	entries    []entry
	atomEntry  []int32 // atom id -> entry, -1 if unused
	unfiltered []int
	never      []int
	regexCount int
	pruned     int
}

type entry struct {
	op        literal.Op
	atom      int     // OpAtom only
	children  []int32 // unique, ascending
	parents   []int32
	threshold int32
	regexes   []int // regexes whose whole formula is this node
}

// NewResolver builds the resolver for formulas[i] being the bound formula
// of regex i. atomCount is the size of the atom table the formulas were
// bound to.
//
// Regexes whose formula is OpAlways are unfiltered and always candidates;
// OpNever regexes are never candidates. When config.EnablePruning is set,
// edges from atoms shared by many formulas are dropped from AND nodes (see
// prune).
func NewResolver(formulas []*literal.Formula, atomCount int, config Config) *Resolver {
	r := &Resolver{
		atomEntry:  make([]int32, atomCount),
		regexCount: len(formulas),
	}
	for i := range r.atomEntry {
		r.atomEntry[i] = -1
	}

	b := resolverBuilder{r: r, ids: make(map[string]int32)}
	for i, f := range formulas {
		switch f.Op {
		case literal.OpAlways:
			r.unfiltered = append(r.unfiltered, i)
		case literal.OpNever:
			r.never = append(r.never, i)
		default:
			id := b.intern(f)
			r.entries[id].regexes = append(r.entries[id].regexes, i)
		}
	}

	if config.EnablePruning {
		r.prune()
	}
	return r
}

type resolverBuilder struct {
	r   *Resolver
	ids map[string]int32
	key strings.Builder
}

// intern returns the entry of f, creating it and its children as needed.
// Children are created before parents, so entries are in topological
// order.
func (b *resolverBuilder) intern(f *literal.Formula) int32 {
	var children []int32
	if f.Op == literal.OpAnd || f.Op == literal.OpOr {
		children = make([]int32, len(f.Sub))
		for i, sub := range f.Sub {
			children[i] = b.intern(sub)
		}
		slices.Sort(children)
		children = slices.Compact(children)
	}

	b.key.Reset()
	switch f.Op {
	case literal.OpAtom:
		b.key.WriteByte('a')
		b.key.WriteString(strconv.Itoa(f.Atom))
	case literal.OpAnd:
		b.key.WriteByte('&')
	case literal.OpOr:
		b.key.WriteByte('|')
	}
	for _, c := range children {
		b.key.WriteString(strconv.Itoa(int(c)))
		b.key.WriteByte(',')
	}
	key := b.key.String()
	if id, ok := b.ids[key]; ok {
		return id
	}

	r := b.r
	id := int32(len(r.entries)) //nolint:gosec // G115: entry count is bounded by total formula size
	e := entry{op: f.Op, atom: -1, children: children, threshold: 1}
	switch f.Op {
	case literal.OpAtom:
		e.atom = f.Atom
		r.atomEntry[f.Atom] = id
	case literal.OpAnd:
		e.threshold = int32(len(children)) //nolint:gosec // G115: see above
	}
	r.entries = append(r.entries, e)
	for _, c := range children {
		r.entries[c].parents = append(r.entries[c].parents, id)
	}
	b.ids[key] = id
	return id
}

// prune drops AND edges from children shared by many parents.
//
// The estimate follows the number of parents of each child: with N
// filtered regexes, a child with p parents triggers roughly p/N of them.
// Children are visited from the least shared; once the running estimate
// says the AND is selective enough, further children with more than 9
// parents lose their edge and the threshold is lowered to match. A pruned
// AND triggers on a weaker condition, so resolution only gains candidates.
// The least shared child always keeps its edge, so every AND keeps at
// least one trigger.
func (r *Resolver) prune() {
	filtered := r.regexCount - len(r.unfiltered) - len(r.never)
	if filtered <= 0 {
		return
	}
	logNum := math.Log(float64(filtered))

	// estimates use the parent counts from before any edge is dropped
	shared := make([]int, len(r.entries))
	for id := range r.entries {
		shared[id] = len(r.entries[id].parents)
	}

	order := make([]int32, 0, 8)
	for id := range r.entries {
		e := &r.entries[id]
		if e.op != literal.OpAnd || len(e.children) < 2 {
			continue
		}
		order = append(order[:0], e.children...)
		slices.SortFunc(order, func(a, b int32) int {
			if d := shared[a] - shared[b]; d != 0 {
				return d
			}
			return int(a - b)
		})

		logTriggered := logNum
		for i, c := range order {
			parents := shared[c]
			if i > 0 && logTriggered <= 0 && parents > 9 {
				child := &r.entries[c]
				if pos := slices.Index(child.parents, int32(id)); pos >= 0 { //nolint:gosec // G115: see intern
					child.parents = slices.Delete(child.parents, pos, pos+1)
					e.threshold--
					r.pruned++
				}
				continue
			}
			logTriggered += math.Log(float64(parents)) - logNum
		}
	}
}

// ResolveScratch holds the per-call state of Resolve. A ResolveScratch must
// not be used by two goroutines at once.
type ResolveScratch struct {
	work    sparse.Set
	matched sparse.Set
	counts  []int32
	touched []int32
	out     []int
}

// NewScratch returns a ResolveScratch sized for the resolver.
func (r *Resolver) NewScratch() *ResolveScratch {
	s := &ResolveScratch{}
	s.prepare(r)
	return s
}

func (s *ResolveScratch) prepare(r *Resolver) {
	if s.work.Capacity() < len(r.entries) {
		s.work.Resize(len(r.entries))
	} else {
		s.work.Clear()
	}
	if s.matched.Capacity() < r.regexCount {
		s.matched.Resize(r.regexCount)
	} else {
		s.matched.Clear()
	}
	if len(s.counts) < len(r.entries) {
		s.counts = make([]int32, len(r.entries))
	}
}

// Resolve returns, in ascending order, the ids of the regexes whose formula
// holds given the found atoms, together with the unfiltered regexes.
// Atom ids unknown to the resolver are ignored.
//
// The result is never missing a regex whose formula is true. With pruning
// enabled it may hold extra candidates. The returned slice is owned by s
// and valid until its next use.
func (r *Resolver) Resolve(found []int, s *ResolveScratch) []int {
	s.prepare(r)

	for _, atom := range found {
		if atom >= 0 && atom < len(r.atomEntry) {
			if id := r.atomEntry[atom]; id >= 0 {
				s.work.Insert(int(id))
			}
		}
	}

	// the work list grows while it is walked
	for i := 0; i < s.work.Len(); i++ {
		e := &r.entries[s.work.At(i)]
		for _, re := range e.regexes {
			s.matched.Insert(re)
		}
		for _, p := range e.parents {
			if threshold := r.entries[p].threshold; threshold > 1 {
				if s.counts[p] == 0 {
					s.touched = append(s.touched, p)
				}
				s.counts[p]++
				if s.counts[p] < threshold {
					continue
				}
			}
			s.work.Insert(int(p))
		}
	}

	for _, p := range s.touched {
		s.counts[p] = 0
	}
	s.touched = s.touched[:0]

	s.out = append(s.out[:0], s.matched.Values()...)
	s.out = append(s.out, r.unfiltered...)
	slices.Sort(s.out)
	return s.out
}

// Unfiltered returns the ids of the regexes that are candidates for every
// input. The slice must not be modified.
func (r *Resolver) Unfiltered() []int {
	return r.unfiltered
}

// Never returns the ids of the regexes that can never match.
// The slice must not be modified.
func (r *Resolver) Never() []int {
	return r.never
}

// Entries returns the number of unique formula nodes.
func (r *Resolver) Entries() int {
	return len(r.entries)
}

// PrunedEdges returns the number of AND edges removed by pruning.
func (r *Resolver) PrunedEdges() int {
	return r.pruned
}

// String dumps the resolver DAG, one node per line:
//
//	#0 atom 0 -> [0]
//	#2 and 2/2 [#0 #1] -> [1]
func (r *Resolver) String() string {
	var sb strings.Builder
	sb.WriteString("unfiltered: ")
	writeInts(&sb, r.unfiltered)
	sb.WriteString("\nnever: ")
	writeInts(&sb, r.never)
	sb.WriteString("\nentries:\n")
	for id, e := range r.entries {
		sb.WriteString("  #")
		sb.WriteString(strconv.Itoa(id))
		switch e.op {
		case literal.OpAtom:
			sb.WriteString(" atom ")
			sb.WriteString(strconv.Itoa(e.atom))
		case literal.OpAnd:
			sb.WriteString(" and ")
			sb.WriteString(strconv.Itoa(int(e.threshold)))
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(len(e.children)))
		case literal.OpOr:
			sb.WriteString(" or")
		}
		if len(e.children) > 0 {
			sb.WriteString(" [")
			for i, c := range e.children {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteByte('#')
				sb.WriteString(strconv.Itoa(int(c)))
			}
			sb.WriteByte(']')
		}
		if len(e.regexes) > 0 {
			sb.WriteString(" -> ")
			writeInts(&sb, e.regexes)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeInts(sb *strings.Builder, ids []int) {
	sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	sb.WriteByte(']')
}
