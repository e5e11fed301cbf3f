// Package engine implements the Discriminator, which decides whether two
// persisted instances (usually from two independent stores) represent the
// same domain record.
//
// A comparison proceeds in a fixed order:
//
//  1. Identical refs are equal.
//  2. Instances of different entity types are different (never cached).
//  3. Instances of an ignored type are equal.
//  4. Effective attributes are compared; the first mismatch decides.
//  5. Effective relationships are compared recursively. To-one: both absent
//     is equal, one absent is different. To-many: equal sizes and a perfect
//     pairing of mutually similar elements. Relationships into ignored types
//     are skipped.
//
// Relationship graphs may contain cycles. Two strategies keep recursion
// bounded:
//
//   - Exact: a pair already being compared further up the stack is assumed
//     equal for the nested check. Only results that do not rest on such an
//     assumption are memoized or cached. Recursion depth equals the length of
//     the longest acyclic path through the compared graph.
//   - Heuristic: every pair seen in a run is assumed equal when seen again,
//     recursion stops at a depth cap (assumed equal), and every result is
//     cached. Faster and more likely to terminate, not proven exact.
//
// All public methods serialize on a single mutex, so a comparison always
// observes one profile and one rule set.
package engine
