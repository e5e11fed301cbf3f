package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/schema"
)

// testModel declares Person (with Employee below it) and Address.
// Person relates to one Address, one spouse and many friends.
func testModel(t *testing.T) *schema.Model {
	t.Helper()
	m, err := schema.NewModel(
		schema.Entity{
			Name: "Person",
			Attributes: []schema.Attribute{
				{Name: "name", Kind: schema.KindString},
				{Name: "birthYear", Kind: schema.KindInt},
			},
			Relationships: []schema.Relationship{
				{Name: "address", Target: "Address"},
				{Name: "spouse", Target: "Person"},
				{Name: "friends", Target: "Person", ToMany: true},
			},
		},
		schema.Entity{
			Name:       "Employee",
			Parent:     "Person",
			Attributes: []schema.Attribute{{Name: "badge", Kind: schema.KindString}},
		},
		schema.Entity{
			Name: "Address",
			Attributes: []schema.Attribute{
				{Name: "street", Kind: schema.KindString},
				{Name: "photo", Kind: schema.KindBytes},
			},
		},
	)
	require.NoError(t, err)
	require.Empty(t, m.Validate())
	return m
}

// fixture is a pair of in-memory stores routed behind one accessor.
type fixture struct {
	t     *testing.T
	left  *object.Memory
	right *object.Memory
	model *schema.Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		t:     t,
		left:  object.NewMemory("left"),
		right: object.NewMemory("right"),
		model: testModel(t),
	}
}

func (f *fixture) discriminator(opts ...Option) *Discriminator {
	router := object.NewRouter().Route("left", f.left).Route("right", f.right)
	return New(f.model, router, opts...)
}

func person(id, name string, year int64) object.Instance {
	return object.Instance{
		ID:     id,
		Entity: "Person",
		Values: ir.NewObject(ir.O("name", ir.String(name)), ir.O("birthYear", ir.Int(year))),
	}
}

func address(id, street string) object.Instance {
	return object.Instance{
		ID:     id,
		Entity: "Address",
		Values: ir.NewObject(ir.O("street", ir.String(street)), ir.O("photo", ir.Bytes{0x1, 0x2})),
	}
}

func (f *fixture) link(m *object.Memory, from, rel, to string) {
	f.t.Helper()
	require.NoError(f.t, m.Link(from, rel, to))
}
