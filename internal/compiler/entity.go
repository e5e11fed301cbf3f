package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/discern/internal/schema"
)

// CompileEntity parses an entity declaration. The entity name is the last
// label of v's path.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: Person: attributes: name: string`)
//	e, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Person")))
func CompileEntity(v cue.Value) (schema.Entity, error) {
	if err := v.Err(); err != nil {
		return schema.Entity{}, formatCUEError(err)
	}

	e := schema.Entity{Name: lastLabel(v)}

	if err := checkFields(v, "entity", "parent", "attributes", "relationships"); err != nil {
		return schema.Entity{}, err
	}

	if parentVal := v.LookupPath(cue.ParsePath("parent")); parentVal.Exists() {
		parent, err := parentVal.String()
		if err != nil {
			return schema.Entity{}, &CompileError{
				Field:   "parent",
				Message: "parent must be an entity name",
				Pos:     parentVal.Pos(),
			}
		}
		e.Parent = parent
	}

	var err error
	if e.Attributes, err = parseAttributes(v); err != nil {
		return schema.Entity{}, err
	}
	if e.Relationships, err = parseRelationships(v); err != nil {
		return schema.Entity{}, err
	}
	return e, nil
}

func parseAttributes(v cue.Value) ([]schema.Attribute, error) {
	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, nil
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var attrs []schema.Attribute
	for iter.Next() {
		kind, err := extractKind(iter.Value())
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, schema.Attribute{Name: iter.Label(), Kind: kind})
	}
	return attrs, nil
}

// extractKind converts a CUE type or a concrete kind name to a schema kind.
func extractKind(v cue.Value) (schema.Kind, error) {
	if name, err := v.String(); err == nil {
		kind := schema.Kind(name)
		if !kind.IsValid() {
			return "", &CompileError{
				Field:   "kind",
				Message: fmt.Sprintf("unknown attribute kind %q: must be one of %v", name, schema.ValidKinds),
				Pos:     v.Pos(),
			}
		}
		return kind, nil
	}

	switch v.IncompleteKind() {
	case cue.StringKind:
		return schema.KindString, nil
	case cue.IntKind:
		return schema.KindInt, nil
	case cue.FloatKind, cue.NumberKind:
		return schema.KindFloat, nil
	case cue.BoolKind:
		return schema.KindBool, nil
	case cue.BytesKind:
		return schema.KindBytes, nil
	case cue.ListKind, cue.StructKind:
		return schema.KindJSON, nil
	default:
		return "", &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func parseRelationships(v cue.Value) ([]schema.Relationship, error) {
	relsVal := v.LookupPath(cue.ParsePath("relationships"))
	if !relsVal.Exists() {
		return nil, nil
	}

	iter, err := relsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rels []schema.Relationship
	for iter.Next() {
		rel, err := parseRelationship(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// parseRelationship accepts a target name or {target, many}.
func parseRelationship(name string, v cue.Value) (schema.Relationship, error) {
	rel := schema.Relationship{Name: name}

	if target, err := v.String(); err == nil {
		rel.Target = target
		return rel, nil
	}

	if err := checkFields(v, "relationship", "target", "many"); err != nil {
		return rel, err
	}

	targetVal := v.LookupPath(cue.ParsePath("target"))
	if !targetVal.Exists() {
		return rel, &CompileError{
			Field:   "relationship.target",
			Message: fmt.Sprintf("relationship %s needs a target", name),
			Pos:     v.Pos(),
		}
	}
	target, err := targetVal.String()
	if err != nil {
		return rel, formatCUEError(err)
	}
	rel.Target = target

	if manyVal := v.LookupPath(cue.ParsePath("many")); manyVal.Exists() {
		many, err := manyVal.Bool()
		if err != nil {
			return rel, formatCUEError(err)
		}
		rel.ToMany = many
	}
	return rel, nil
}

// lastLabel returns the final selector of v's path.
func lastLabel(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1].String()
}

// checkFields rejects fields outside allowed, so a misspelled key fails
// instead of being silently ignored.
func checkFields(v cue.Value, what string, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return &CompileError{
			Field:   what,
			Message: fmt.Sprintf("%s must be a struct", what),
			Pos:     v.Pos(),
		}
	}
	for iter.Next() {
		known := false
		for _, a := range allowed {
			if iter.Label() == a {
				known = true
				break
			}
		}
		if !known {
			return &CompileError{
				Field:   what,
				Message: fmt.Sprintf("unknown field %q (allowed: %v)", iter.Label(), allowed),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}
