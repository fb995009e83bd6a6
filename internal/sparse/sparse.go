// Package sparse provides a sparse set of small non-negative integers.
//
// Insertion, membership and clearing are O(1) and the dense part keeps
// insertion order, which the automaton code relies on for deterministic
// state discovery.
package sparse

// Set is a set of ints in [0, capacity).
type Set struct {
	sparse []int
	dense  []int
}

// New creates a set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]int, capacity),
		dense:  make([]int, 0, capacity),
	}
}

// Insert adds v and reports whether it was absent.
// Panics if v is outside [0, capacity).
func (s *Set) Insert(v int) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = len(s.dense)
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int) bool {
	if v < 0 || v >= len(s.sparse) {
		return false
	}
	i := s.sparse[v]
	return i < len(s.dense) && s.dense[i] == v
}

// Clear empties the set.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.dense)
}

// Values returns the elements in insertion order. The slice is only valid
// until the next mutation.
func (s *Set) Values() []int {
	return s.dense
}
