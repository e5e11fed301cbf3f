// Package cache memoizes pairwise comparison outcomes.
//
// Keys are unordered: the pair (a, b) and the pair (b, a) are the same key.
// Entries keep insertion order so the most recent result can be dropped with
// RemoveLast, and so dumps are deterministic.
//
// Pairs is not safe for concurrent use; the engine serializes access.
package cache
