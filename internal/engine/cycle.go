package engine

import "github.com/roach88/discern/internal/cache"

// pairTracker records pairs whose comparison has started in the current
// run, with the recursion depth at which each started.
//
// Under the exact strategy a pair is forgotten when its comparison returns,
// so only pairs on the current recursion stack are tracked. Under the
// heuristic strategy pairs stay tracked for the whole run.
type pairTracker struct {
	started     map[cache.Key]int
	keepVisited bool
}

func newPairTracker(s Strategy) *pairTracker {
	return &pairTracker{
		started:     make(map[cache.Key]int),
		keepVisited: s == Heuristic,
	}
}

// Seen reports whether k was entered and not yet left, returning the depth
// at which it was entered.
func (t *pairTracker) Seen(k cache.Key) (int, bool) {
	depth, ok := t.started[k]
	return depth, ok
}

// Enter marks k as started at depth.
func (t *pairTracker) Enter(k cache.Key, depth int) {
	t.started[k] = depth
}

// Leave ends the comparison of k.
func (t *pairTracker) Leave(k cache.Key) {
	if !t.keepVisited {
		delete(t.started, k)
	}
}

// Size returns the number of tracked pairs.
func (t *pairTracker) Size() int {
	return len(t.started)
}
