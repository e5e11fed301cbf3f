// Package harness runs conformance scenarios against the discriminator.
//
// A scenario declares a schema (inline CUE, the same format the compiler
// loads from spec directories), the stores holding the instances and the
// checks to make. Every check runs on one discriminator, so later checks
// see the pair cache earlier checks filled.
//
// # Scenario Format
//
//	name: spouse_cycle
//	description: "Mutual spouses in two stores are equivalent"
//	backend: memory            # or sqlite
//	schema: |
//	  entity: Person: {
//	    attributes: name: string
//	    relationships: spouse: "Person"
//	  }
//	  rule: Person: include_relationships: ["spouse"]
//	stores:
//	  - name: left
//	    objects:
//	      - id: al
//	        entity: Person
//	        attributes: { name: Al }
//	        links: { spouse: bea }
//	checks:
//	  - left: left/al
//	    right: right/al
//	    op: similar            # compare, attributes
//	    profile: demanding
//	    strategy: exact
//	    expect: true
//
// Attribute values are converted to the declared kind: bytes are base64
// strings, times are RFC 3339 strings and json attributes take any YAML.
//
// # Golden Files
//
// RunWithGolden records the decisions of a scenario under testdata/golden
// using canonical JSON, so identical decisions always produce identical
// files.
package harness
