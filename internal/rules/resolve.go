package rules

import "github.com/roach88/discern/internal/schema"

// Effective is the resolved rule set for one entity type.
type Effective struct {
	Entity        string   `json:"entity"`
	Profile       string   `json:"profile"`
	Explicit      bool     `json:"explicit"`
	Ignored       bool     `json:"ignored"`
	Attributes    []string `json:"attributes"`
	Relationships []string `json:"relationships"`
}

// Resolve returns the effective rule set for entity.
func (r *Registry) Resolve(entity string) Effective {
	return Effective{
		Entity:        entity,
		Profile:       r.profile.String(),
		Explicit:      r.HasExplicitUnit(entity),
		Ignored:       r.IsIgnored(entity),
		Attributes:    r.AttributesToCheck(entity),
		Relationships: r.RelationshipsToCheck(entity),
	}
}

// AttributesToCheck returns the attribute names compared for entity, in
// declaration order (inherited attributes first).
func (r *Registry) AttributesToCheck(entity string) []string {
	attrs := schema.AllAttributes(r.schema, entity)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	decided := r.decide(entity, func(u Unit) ([]string, []string) {
		return u.includeAttrs, u.ignoreAttrs
	})
	return selectNames(names, decided, r.profile.checksAttributesByDefault())
}

// RelationshipsToCheck returns the relationship names compared for entity,
// in declaration order (inherited relationships first).
func (r *Registry) RelationshipsToCheck(entity string) []string {
	rels := schema.AllRelationships(r.schema, entity)
	names := make([]string, len(rels))
	for i, rel := range rels {
		names[i] = rel.Name
	}
	decided := r.decide(entity, func(u Unit) ([]string, []string) {
		return u.includeRels, u.ignoreRels
	})
	return selectNames(names, decided, r.profile.checksRelationshipsByDefault())
}

// decide folds the chain's units into one include/ignore decision per
// mentioned name. Levels are visited most specific first, so the running
// result is always the "own" side of the merge.
func (r *Registry) decide(entity string, pick func(Unit) (include, ignore []string)) map[string]bool {
	decided := map[string]bool{}
	for _, u := range r.chainUnits(entity) {
		include, ignore := pick(u)
		decided = mergeLevel(decided, levelDecisions(include, ignore, r.ignoreWins))
	}
	return decided
}

// levelDecisions resolves one unit's include and ignore lists into a
// decision per name.
func levelDecisions(include, ignore []string, ignoreWins bool) map[string]bool {
	out := make(map[string]bool, len(include)+len(ignore))
	for _, n := range include {
		out[n] = resolveClash(true, contains(ignore, n), ignoreWins)
	}
	for _, n := range ignore {
		if _, done := out[n]; !done {
			out[n] = resolveClash(false, true, ignoreWins)
		}
	}
	return out
}

// resolveClash decides a name that the same unit includes and/or ignores.
// Reports true when the name is compared.
func resolveClash(included, ignored, ignoreWins bool) bool {
	if included && ignored {
		return !ignoreWins
	}
	return included
}

// mergeLevel combines decisions of a type with those inherited from an
// ancestor. Entries in own win.
func mergeLevel(own, inherited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(own)+len(inherited))
	for n, v := range inherited {
		out[n] = v
	}
	for n, v := range own {
		out[n] = v
	}
	return out
}

func selectNames(names []string, decided map[string]bool, byDefault bool) []string {
	out := []string{}
	for _, n := range names {
		include, ok := decided[n]
		if !ok {
			include = byDefault
		}
		if include {
			out = append(out, n)
		}
	}
	return out
}
