package engine

// depthCap bounds recursion for the heuristic strategy.
//
// When the cap is reached the nested pair is accepted without being
// examined; the count of such acceptances is kept for diagnostics.
type depthCap struct {
	max  int // zero or negative disables the cap
	hits int
}

// Reached reports whether a comparison at depth must stop, and counts it.
func (q *depthCap) Reached(depth int) bool {
	if q.max <= 0 || depth < q.max {
		return false
	}
	q.hits++
	return true
}

// Hits returns how many comparisons were cut off.
func (q *depthCap) Hits() int {
	return q.hits
}
