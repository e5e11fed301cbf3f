package schema

import (
	"fmt"
	"strings"
)

// Validate checks the model's structure and returns every problem found, in
// declaration order. An empty result means the model is usable by the engine.
//
// Checks:
//   - parent exists and the parent chain has no loop
//   - attribute kinds are valid and names are not empty
//   - relationship targets exist
//   - no attribute or relationship name is redeclared from an ancestor or
//     declared twice on the same type
func (m *Model) Validate() []error {
	var errs []error

	for _, name := range m.order {
		e := m.entities[name]

		if e.Parent != "" {
			if _, ok := m.entities[e.Parent]; !ok {
				errs = append(errs, &ValidationError{
					Code:    ErrCodeUnknownParent,
					Entity:  name,
					Message: fmt.Sprintf("parent %q is not declared", e.Parent),
				})
			} else if path := m.parentLoop(name); path != nil {
				errs = append(errs, &ValidationError{
					Code:    ErrCodeInheritanceCycle,
					Entity:  name,
					Message: "inheritance loop: " + strings.Join(path, " -> "),
				})
				// Inherited-name checks would walk the loop; skip them.
				continue
			}
		}

		errs = append(errs, m.validateMembers(e)...)
	}

	return errs
}

// parentLoop returns the parent path from name back to name if name sits on
// a parent loop, nil otherwise.
func (m *Model) parentLoop(name string) []string {
	path := []string{name}
	seen := map[string]bool{name: true}

	for current := m.entities[name].Parent; current != ""; {
		path = append(path, current)
		if current == name {
			return path
		}
		if seen[current] {
			// Loop further up the chain; reported on its own members.
			return nil
		}
		seen[current] = true

		e, ok := m.entities[current]
		if !ok {
			return nil
		}
		current = e.Parent
	}
	return nil
}

func (m *Model) validateMembers(e *Entity) []error {
	var errs []error

	inherited := make(map[string]string)
	if e.Parent != "" {
		for _, a := range AllAttributes(m, e.Parent) {
			inherited[a.Name] = "attribute"
		}
		for _, r := range AllRelationships(m, e.Parent) {
			inherited[r.Name] = "relationship"
		}
	}

	own := make(map[string]bool)
	check := func(member, what string) {
		switch {
		case member == "":
			errs = append(errs, &ValidationError{Code: ErrCodeEmptyName, Entity: e.Name, Message: what + " with empty name"})
		case inherited[member] != "":
			errs = append(errs, &ValidationError{
				Code:    ErrCodeRedeclared,
				Entity:  e.Name,
				Message: fmt.Sprintf("%s %q redeclares inherited %s", what, member, inherited[member]),
			})
		case own[member]:
			errs = append(errs, &ValidationError{
				Code:    ErrCodeDuplicate,
				Entity:  e.Name,
				Message: fmt.Sprintf("%s %q declared twice", what, member),
			})
		}
		own[member] = true
	}

	for _, a := range e.Attributes {
		check(a.Name, "attribute")
		if !a.Kind.IsValid() {
			errs = append(errs, &ValidationError{
				Code:    ErrCodeInvalidKind,
				Entity:  e.Name,
				Message: fmt.Sprintf("attribute %q has invalid kind %q", a.Name, a.Kind),
			})
		}
	}
	for _, r := range e.Relationships {
		check(r.Name, "relationship")
		if _, ok := m.entities[r.Target]; !ok {
			errs = append(errs, &ValidationError{
				Code:    ErrCodeUnknownTarget,
				Entity:  e.Name,
				Message: fmt.Sprintf("relationship %q targets undeclared entity %q", r.Name, r.Target),
			})
		}
	}

	return errs
}
