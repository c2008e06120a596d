// Package sparse provides a sparse integer set used as per-call scratch
// space by the atom matcher and the resolver.
//
// A sparse set supports O(1) insertion, membership testing and clearing
// while keeping a dense list of its members in insertion order. The dense
// list doubles as a work queue: the resolver appends newly triggered nodes
// while iterating over it.
package sparse

// Set is a set of non-negative ints smaller than its capacity.
//
// The zero value is an empty set with capacity 0; use New or Resize before
// inserting. A Set is not safe for concurrent use.
type Set struct {
	sparse []int32 // value -> index in dense
	dense  []int   // members in insertion order
}

// New creates a set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]int32, capacity),
		dense:  make([]int, 0, capacity),
	}
}

// Resize clears the set and makes it able to hold values in [0, capacity).
// Existing storage is reused when large enough.
func (s *Set) Resize(capacity int) {
	if cap(s.sparse) < capacity {
		s.sparse = make([]int32, capacity)
		s.dense = make([]int, 0, capacity)
		return
	}
	s.sparse = s.sparse[:capacity]
	s.dense = s.dense[:0]
}

// Capacity returns the exclusive upper bound of storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Insert adds v to the set and reports whether it was absent.
// Panics if v is out of range.
func (s *Set) Insert(v int) bool {
	if s.Contains(v) {
		return false
	}
	//nolint:gosec // G115: len(dense) <= len(sparse), which fits in int32 for any realistic set
	s.sparse[v] = int32(len(s.dense))
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int) bool {
	if v < 0 || v >= len(s.sparse) {
		return false
	}
	idx := int(s.sparse[v])
	return idx < len(s.dense) && s.dense[idx] == v
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// At returns the i-th member in insertion order.
func (s *Set) At(i int) int {
	return s.dense[i]
}

// Values returns the members in insertion order.
// The returned slice is valid until the next mutation.
func (s *Set) Values() []int {
	return s.dense
}

// Clear removes all members in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}
