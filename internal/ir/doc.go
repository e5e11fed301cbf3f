// Package ir provides the value model shared by every other package.
//
// Attribute values read from an object store are represented as a sealed
// Value interface. ir imports nothing internal, so schema, store and engine
// can all depend on it without cycles.
//
// Key constraints:
//   - Equal is the only notion of attribute equality used by the engine
//   - Canonical JSON (MarshalCanonical) has no floats, bytes, times or nulls
//   - Content hashes are domain separated (see hash.go)
package ir
