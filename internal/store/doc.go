// Package store provides SQLite-backed snapshots of object stores.
//
// A snapshot holds instances (objects), their attribute values and the
// relationship links between them. Two snapshots taken from independent
// stores can be compared through the object.Accessor each one implements.
//
// # Determinism
//
//   - Every listing uses ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Attribute values are stored as a kind plus a canonical text encoding,
//     so equal values always have equal rows
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Links must point at stored objects
//
// A snapshot records the hash of the schema it was written under (see
// schema.Model.Hash), so callers can refuse to compare snapshots whose
// schemas differ.
package store
