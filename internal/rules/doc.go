// Package rules holds per-entity discrimination rules and resolves the
// effective rule set for an entity type.
//
// A Unit says, for exactly one entity type, which attributes and
// relationships to include in or ignore from equivalence checks, and whether
// the whole type is ignored. A Registry keeps units in registration order
// together with the active strictness Profile.
//
// # Resolution
//
// For an entity type the registry walks the type and its ancestors, most
// specific first. The first level that mentions a name decides it (own type
// beats inherited). When that level both includes and ignores the name, the
// registry's ignore-wins setting decides. Names no unit mentions fall back to
// the profile default:
//
//	Facilitating      attributes off, relationships off (type ignored if no unit in its chain)
//	SemiFacilitating  attributes on,  relationships off
//	Demanding         attributes on,  relationships on
//
// Registry is not safe for concurrent use; the engine serializes access.
package rules
