package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/discern/internal/rules"
)

// CompileRule parses a rule declaration into a unit for the entity named by
// the last label of v's path.
func CompileRule(v cue.Value) (rules.Unit, error) {
	if err := v.Err(); err != nil {
		return rules.Unit{}, formatCUEError(err)
	}

	if err := checkFields(v, "rule",
		"include_attributes", "ignore_attributes",
		"include_relationships", "ignore_relationships",
		"ignore_entity"); err != nil {
		return rules.Unit{}, err
	}

	lists := []struct {
		field string
		opt   func(...string) rules.UnitOption
	}{
		{"include_attributes", rules.IncludeAttributes},
		{"ignore_attributes", rules.IgnoreAttributes},
		{"include_relationships", rules.IncludeRelationships},
		{"ignore_relationships", rules.IgnoreRelationships},
	}

	var opts []rules.UnitOption
	for _, l := range lists {
		names, err := stringList(v, l.field)
		if err != nil {
			return rules.Unit{}, err
		}
		if len(names) > 0 {
			opts = append(opts, l.opt(names...))
		}
	}

	if ignoreVal := v.LookupPath(cue.ParsePath("ignore_entity")); ignoreVal.Exists() {
		ignore, err := ignoreVal.Bool()
		if err != nil {
			return rules.Unit{}, &CompileError{
				Field:   "ignore_entity",
				Message: "ignore_entity must be a bool",
				Pos:     ignoreVal.Pos(),
			}
		}
		if ignore {
			opts = append(opts, rules.IgnoreEntity())
		}
	}

	return rules.NewUnit(lastLabel(v), opts...), nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return nil, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: field + " must be a list of names",
			Pos:     listVal.Pos(),
		}
	}

	var names []string
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: field + " must be a list of names",
				Pos:     iter.Value().Pos(),
			}
		}
		names = append(names, name)
	}
	return names, nil
}
