// Package compiler turns CUE declarations into a schema model and rule units.
//
// Declarations live under two top-level fields:
//
//	entity: Person: {
//		attributes: {
//			name:      string
//			birthYear: int
//			born:      "time"
//		}
//		relationships: {
//			address: "Address"
//			friends: {target: "Person", many: true}
//		}
//	}
//
//	entity: Employee: {
//		parent: "Person"
//		attributes: badge: string
//	}
//
//	rule: Employee: {
//		ignore_attributes: ["badge"]
//		include_relationships: ["address"]
//	}
//
// An attribute kind is either a CUE type (string, int, float, number, bool,
// bytes, list or struct) or a concrete kind name ("time", "json", ...).
// A relationship is a target entity name (to-one) or a struct with target
// and an optional many flag.
//
// Entities and rules keep declaration order.
package compiler
