package rules

import (
	"github.com/roach88/discern/internal/schema"
)

// Registry holds registered units keyed by entity type, in registration
// order, plus the active profile and the ignore-wins setting.
type Registry struct {
	schema     schema.Provider
	units      []Unit
	index      map[string]int
	profile    Profile
	ignoreWins bool
}

// NewRegistry creates an empty registry validating units against p.
func NewRegistry(p schema.Provider, profile Profile, ignoreWins bool) *Registry {
	return &Registry{
		schema:     p,
		index:      make(map[string]int),
		profile:    profile,
		ignoreWins: ignoreWins,
	}
}

// Clone returns an independent copy sharing the (immutable) schema.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		schema:     r.schema,
		units:      make([]Unit, len(r.units)),
		index:      make(map[string]int, len(r.index)),
		profile:    r.profile,
		ignoreWins: r.ignoreWins,
	}
	copy(c.units, r.units)
	for k, v := range r.index {
		c.index[k] = v
	}
	return c
}

// Profile returns the active profile.
func (r *Registry) Profile() Profile { return r.profile }

// SetProfile changes the active profile.
func (r *Registry) SetProfile(p Profile) { r.profile = p }

// IgnoreWins reports whether ignore beats include on a same-level clash.
func (r *Registry) IgnoreWins() bool { return r.ignoreWins }

// SetIgnoreWins changes how a same-level clash is decided.
func (r *Registry) SetIgnoreWins(ignoreWins bool) { r.ignoreWins = ignoreWins }

// Register adds u, replacing any unit already registered for the same
// entity type. A replaced unit keeps its registration position.
func (r *Registry) Register(u Unit) error {
	if err := r.validate(u); err != nil {
		return err
	}
	if i, ok := r.index[u.entity]; ok {
		r.units[i] = u
		return nil
	}
	r.index[u.entity] = len(r.units)
	r.units = append(r.units, u)
	return nil
}

func (r *Registry) validate(u Unit) error {
	if u.entity == "" {
		return &ConfigError{Code: ErrCodeInvalidUnit, Message: "unit has no entity type"}
	}
	if _, ok := r.schema.Entity(u.entity); !ok {
		return &ConfigError{
			Code:    ErrCodeUnknownEntity,
			Entity:  u.entity,
			Message: "entity type is not declared in the schema",
		}
	}
	for _, names := range [][]string{u.includeAttrs, u.ignoreAttrs} {
		for _, n := range names {
			if _, ok := schema.FindAttribute(r.schema, u.entity, n); !ok {
				return &ConfigError{
					Code:    ErrCodeUnknownAttribute,
					Entity:  u.entity,
					Name:    n,
					Message: "attribute is not declared on the entity type or its ancestors",
				}
			}
		}
	}
	for _, names := range [][]string{u.includeRels, u.ignoreRels} {
		for _, n := range names {
			if _, ok := schema.FindRelationship(r.schema, u.entity, n); !ok {
				return &ConfigError{
					Code:    ErrCodeUnknownRelationship,
					Entity:  u.entity,
					Name:    n,
					Message: "relationship is not declared on the entity type or its ancestors",
				}
			}
		}
	}
	return nil
}

// Unregister removes the unit for entity. Reports whether one existed.
func (r *Registry) Unregister(entity string) bool {
	i, ok := r.index[entity]
	if !ok {
		return false
	}
	r.units = append(r.units[:i], r.units[i+1:]...)
	delete(r.index, entity)
	for j := i; j < len(r.units); j++ {
		r.index[r.units[j].entity] = j
	}
	return true
}

// ClearAll removes every unit. The profile is kept.
func (r *Registry) ClearAll() {
	r.units = nil
	r.index = make(map[string]int)
}

// Units returns the registered units in registration order.
func (r *Registry) Units() []Unit {
	out := make([]Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Entities returns the entity types with a registered unit, in
// registration order.
func (r *Registry) Entities() []string {
	out := make([]string, len(r.units))
	for i, u := range r.units {
		out[i] = u.entity
	}
	return out
}

// Unit returns the unit registered for entity, if any.
func (r *Registry) Unit(entity string) (Unit, bool) {
	i, ok := r.index[entity]
	if !ok {
		return Unit{}, false
	}
	return r.units[i], true
}

// chainUnits returns the units registered for entity and its ancestors,
// most specific first.
func (r *Registry) chainUnits(entity string) []Unit {
	var out []Unit
	for _, e := range schema.Chain(r.schema, entity) {
		if u, ok := r.Unit(e.Name); ok {
			out = append(out, u)
		}
	}
	return out
}

// HasExplicitUnit reports whether entity or one of its ancestors has a unit.
func (r *Registry) HasExplicitUnit(entity string) bool {
	return len(r.chainUnits(entity)) > 0
}

// IsIgnored reports whether every pair of entity instances compares equal:
// a unit in the chain ignores the type, or the profile is Facilitating and
// no unit in the chain exists.
func (r *Registry) IsIgnored(entity string) bool {
	units := r.chainUnits(entity)
	for _, u := range units {
		if u.ignoresEntity {
			return true
		}
	}
	return len(units) == 0 && r.profile == Facilitating
}
