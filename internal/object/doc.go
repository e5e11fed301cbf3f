// Package object defines how the engine reads domain object instances.
//
// An instance is identified by a Ref: the name of the store it lives in and
// its identifier inside that store. Refs are compared by identity, never by
// content, so two snapshots holding the same record yield two distinct Refs.
//
// The engine reads instances only through the Accessor interface and never
// writes through it. Router lets one engine read from several stores at once;
// Memory is an in-memory Accessor for tests and embedding callers.
package object
