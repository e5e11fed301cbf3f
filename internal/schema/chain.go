package schema

// Chain returns the entity named name followed by its ancestors, most
// specific first. Returns nil if name is unknown. A parent loop stops the
// walk at the first repeated type, so Chain always terminates even on a
// model that has not been validated.
func Chain(p Provider, name string) []*Entity {
	var chain []*Entity
	seen := make(map[string]bool)

	for current := name; current != ""; {
		if seen[current] {
			break
		}
		seen[current] = true

		e, ok := p.Entity(current)
		if !ok {
			break
		}
		chain = append(chain, e)
		current = e.Parent
	}
	return chain
}

// IsKindOf reports whether name is ancestor or name itself.
func IsKindOf(p Provider, name, ancestor string) bool {
	for _, e := range Chain(p, name) {
		if e.Name == ancestor {
			return true
		}
	}
	return false
}

// AllAttributes returns the attributes of name including inherited ones,
// ancestors' attributes first (declaration order within each level).
func AllAttributes(p Provider, name string) []Attribute {
	chain := Chain(p, name)
	var out []Attribute
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Attributes...)
	}
	return out
}

// AllRelationships returns the relationships of name including inherited
// ones, ancestors' relationships first.
func AllRelationships(p Provider, name string) []Relationship {
	chain := Chain(p, name)
	var out []Relationship
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Relationships...)
	}
	return out
}

// FindAttribute looks up an attribute on name or any ancestor.
func FindAttribute(p Provider, name, attr string) (Attribute, bool) {
	for _, e := range Chain(p, name) {
		for _, a := range e.Attributes {
			if a.Name == attr {
				return a, true
			}
		}
	}
	return Attribute{}, false
}

// FindRelationship looks up a relationship on name or any ancestor.
func FindRelationship(p Provider, name, rel string) (Relationship, bool) {
	for _, e := range Chain(p, name) {
		for _, r := range e.Relationships {
			if r.Name == rel {
				return r, true
			}
		}
	}
	return Relationship{}, false
}
