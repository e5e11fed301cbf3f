package rules

import (
	"fmt"
	"strings"
)

// Profile is the default behavior for entity types without an explicit unit.
type Profile int

const (
	// SemiFacilitating compares attributes only. The zero value.
	SemiFacilitating Profile = iota
	// Facilitating treats every instance of a type without a unit as equal,
	// and skips relationships into such types.
	Facilitating
	// Demanding compares attributes and relationships.
	Demanding
)

// String returns the profile's flag name.
func (p Profile) String() string {
	switch p {
	case Facilitating:
		return "facilitating"
	case SemiFacilitating:
		return "semi-facilitating"
	case Demanding:
		return "demanding"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// ProfileNames lists accepted profile names.
var ProfileNames = []string{"facilitating", "semi-facilitating", "demanding"}

// ParseProfile parses a profile name. "semi" is accepted for
// semi-facilitating. Matching is case-insensitive.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "facilitating":
		return Facilitating, nil
	case "semi-facilitating", "semifacilitating", "semi":
		return SemiFacilitating, nil
	case "demanding":
		return Demanding, nil
	default:
		return SemiFacilitating, fmt.Errorf("unknown profile %q: must be one of %v", s, ProfileNames)
	}
}

// checksAttributesByDefault reports whether unmentioned attributes are compared.
func (p Profile) checksAttributesByDefault() bool {
	return p != Facilitating
}

// checksRelationshipsByDefault reports whether unmentioned relationships are compared.
func (p Profile) checksRelationshipsByDefault() bool {
	return p == Demanding
}
