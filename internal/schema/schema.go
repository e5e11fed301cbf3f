package schema

import (
	"fmt"

	"github.com/roach88/discern/internal/ir"
)

// Kind is the declared value kind of an attribute.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindBytes  Kind = "bytes"
	KindTime   Kind = "time"
	KindJSON   Kind = "json"
)

// ValidKinds lists every supported attribute kind.
var ValidKinds = []Kind{KindString, KindInt, KindFloat, KindBool, KindBytes, KindTime, KindJSON}

// IsValid reports whether k is a supported kind.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Attribute is a named, typed attribute declared on an entity.
type Attribute struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Relationship is a named link from an entity to instances of Target.
type Relationship struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	ToMany bool   `json:"to_many"`
}

// Entity is an entity type descriptor. Attributes and Relationships hold only
// the names declared on this type, not inherited ones.
type Entity struct {
	Name          string         `json:"name"`
	Parent        string         `json:"parent,omitempty"`
	Attributes    []Attribute    `json:"attributes"`
	Relationships []Relationship `json:"relationships"`
}

// Provider supplies entity type descriptors by name.
type Provider interface {
	Entity(name string) (*Entity, bool)
}

// Model is an ordered, immutable set of entity descriptors.
type Model struct {
	order    []string
	entities map[string]*Entity
}

// NewModel builds a Model from entity descriptors in declaration order.
// Returns an error on duplicate names; structural checks live in Validate.
func NewModel(entities ...Entity) (*Model, error) {
	m := &Model{
		order:    make([]string, 0, len(entities)),
		entities: make(map[string]*Entity, len(entities)),
	}
	for i := range entities {
		e := entities[i]
		if e.Name == "" {
			return nil, &ValidationError{Code: ErrCodeEmptyName, Message: fmt.Sprintf("entity #%d has no name", i)}
		}
		if _, dup := m.entities[e.Name]; dup {
			return nil, &ValidationError{Code: ErrCodeDuplicate, Entity: e.Name, Message: "entity declared twice"}
		}
		m.order = append(m.order, e.Name)
		m.entities[e.Name] = &e
	}
	return m, nil
}

// MustModel is like NewModel but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustModel(entities ...Entity) *Model {
	m, err := NewModel(entities...)
	if err != nil {
		panic(err)
	}
	return m
}

// Entity implements Provider.
func (m *Model) Entity(name string) (*Entity, bool) {
	e, ok := m.entities[name]
	return e, ok
}

// Names returns entity names in declaration order.
func (m *Model) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Hash returns a content hash of the model. Two stores whose snapshots carry
// the same hash were written against logically identical schemas.
func (m *Model) Hash() (string, error) {
	entities := make(ir.Object, len(m.entities))
	for _, name := range m.order {
		e := m.entities[name]

		attrs := make(ir.Object, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Name] = ir.String(a.Kind)
		}
		rels := make(ir.Object, len(e.Relationships))
		for _, r := range e.Relationships {
			rels[r.Name] = ir.Object{
				"target":  ir.String(r.Target),
				"to_many": ir.Bool(r.ToMany),
			}
		}

		entities[name] = ir.Object{
			"parent":        ir.String(e.Parent),
			"attributes":    attrs,
			"relationships": rels,
		}
	}
	return ir.ContentHash(ir.DomainSchema, ir.Object{"entities": entities})
}
