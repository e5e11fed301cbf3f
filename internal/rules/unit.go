package rules

// Unit is an immutable set of discrimination instructions for one entity type.
type Unit struct {
	entity        string
	includeAttrs  []string
	ignoreAttrs   []string
	includeRels   []string
	ignoreRels    []string
	ignoresEntity bool
}

// UnitOption configures a Unit under construction.
type UnitOption func(*Unit)

// NewUnit builds the unit for entity.
//
//	rules.NewUnit("Employee",
//		rules.IncludeAttributes("name"),
//		rules.IgnoreAttributes("badge"),
//		rules.IncludeRelationships("address"),
//	)
func NewUnit(entity string, opts ...UnitOption) Unit {
	u := Unit{entity: entity}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// IncludeAttributes marks attributes as compared.
func IncludeAttributes(names ...string) UnitOption {
	return func(u *Unit) { u.includeAttrs = appendUnique(u.includeAttrs, names) }
}

// IgnoreAttributes marks attributes as not compared.
func IgnoreAttributes(names ...string) UnitOption {
	return func(u *Unit) { u.ignoreAttrs = appendUnique(u.ignoreAttrs, names) }
}

// IncludeRelationships marks relationships as compared.
func IncludeRelationships(names ...string) UnitOption {
	return func(u *Unit) { u.includeRels = appendUnique(u.includeRels, names) }
}

// IgnoreRelationships marks relationships as not compared.
func IgnoreRelationships(names ...string) UnitOption {
	return func(u *Unit) { u.ignoreRels = appendUnique(u.ignoreRels, names) }
}

// IgnoreEntity makes every pair of instances of the type (and its subtypes)
// compare equal, and skips relationships that target it.
func IgnoreEntity() UnitOption {
	return func(u *Unit) { u.ignoresEntity = true }
}

func appendUnique(dst, names []string) []string {
	for _, n := range names {
		if !contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func clone(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Entity returns the entity type the unit applies to.
func (u Unit) Entity() string { return u.entity }

// IncludedAttributes returns a copy of the included attribute names.
func (u Unit) IncludedAttributes() []string { return clone(u.includeAttrs) }

// IgnoredAttributes returns a copy of the ignored attribute names.
func (u Unit) IgnoredAttributes() []string { return clone(u.ignoreAttrs) }

// IncludedRelationships returns a copy of the included relationship names.
func (u Unit) IncludedRelationships() []string { return clone(u.includeRels) }

// IgnoredRelationships returns a copy of the ignored relationship names.
func (u Unit) IgnoredRelationships() []string { return clone(u.ignoreRels) }

// IgnoresEntity reports whether the whole entity type is ignored.
func (u Unit) IgnoresEntity() bool { return u.ignoresEntity }
