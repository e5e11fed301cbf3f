package engine

import "github.com/roach88/discern/internal/object"

// pairFunc decides one candidate pairing, returning the result, the depth
// it was assumed on and any store error.
type pairFunc func(a, b object.Ref) (bool, int, error)

// matcher searches for a perfect pairing between two equally sized
// collections, where two elements may be paired only if they are similar.
//
// It uses augmenting paths (Kuhn's algorithm). Pairwise results are
// computed lazily and memoized, so a collection whose elements line up in
// order costs n comparisons, and the worst case costs n*n.
type matcher struct {
	left, right []object.Ref
	decide      pairFunc

	edges  map[[2]int]bool
	owner  []int // owner[j] is the left index paired with right j, or -1
	low    int
	err    error
	probes int
}

func newMatcher(left, right []object.Ref, decide pairFunc) *matcher {
	owner := make([]int, len(right))
	for i := range owner {
		owner[i] = -1
	}
	return &matcher{
		left:   left,
		right:  right,
		decide: decide,
		edges:  make(map[[2]int]bool),
		owner:  owner,
		low:    independent,
	}
}

// perfect reports whether every left element can be paired with a distinct
// similar right element.
func (m *matcher) perfect() (bool, int, error) {
	if len(m.left) != len(m.right) {
		return false, independent, nil
	}
	for i := range m.left {
		seen := make([]bool, len(m.right))
		ok := m.augment(i, seen)
		if m.err != nil {
			return false, independent, m.err
		}
		if !ok {
			return false, independent, nil
		}
	}
	return true, m.low, nil
}

func (m *matcher) augment(i int, seen []bool) bool {
	// Try free right elements first so the common in-order case needs no
	// reassignment.
	for pass := 0; pass < 2; pass++ {
		for j := range m.right {
			if seen[j] || (pass == 0) != (m.owner[j] < 0) {
				continue
			}
			if !m.edge(i, j) {
				if m.err != nil {
					return false
				}
				continue
			}
			seen[j] = true
			if m.owner[j] < 0 || m.augment(m.owner[j], seen) {
				m.owner[j] = i
				return true
			}
			if m.err != nil {
				return false
			}
		}
	}
	return false
}

func (m *matcher) edge(i, j int) bool {
	key := [2]int{i, j}
	if eq, ok := m.edges[key]; ok {
		return eq
	}
	m.probes++
	eq, low, err := m.decide(m.left[i], m.right[j])
	if err != nil {
		m.err = err
		return false
	}
	if eq {
		m.low = min(m.low, low)
	}
	m.edges[key] = eq
	return eq
}
