package object

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discern/internal/ir"
)

func TestRef_StringAndParse(t *testing.T) {
	r := Ref{Store: "left", ID: "p/1"}
	assert.Equal(t, "left/p/1", r.String())

	parsed, ok := ParseRef("left/p/1")
	require.True(t, ok)
	assert.Equal(t, r, parsed)

	_, ok = ParseRef("noslash")
	assert.False(t, ok)
	_, ok = ParseRef("/id")
	assert.False(t, ok)
}

func TestRef_Compare(t *testing.T) {
	a := Ref{Store: "left", ID: "2"}
	b := Ref{Store: "right", ID: "1"}
	c := Ref{Store: "left", ID: "3"}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, Ref{}.IsZero())
}

func TestMemory_ReadBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("left")
	p := m.Put(Instance{ID: "p1", Entity: "Person", Values: ir.Object{"name": ir.String("Al")}})
	m.Put(Instance{ID: "a1", Entity: "Address"})
	m.Put(Instance{ID: "p2", Entity: "Person"})
	require.NoError(t, m.Link("p1", "address", "a1"))
	require.NoError(t, m.Link("p1", "friends", "p2"))

	entity, err := m.EntityOf(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Person", entity)

	v, err := m.Value(ctx, p, "name")
	require.NoError(t, err)
	assert.Equal(t, ir.String("Al"), v)

	v, err = m.Value(ctx, p, "birthYear")
	require.NoError(t, err)
	assert.Equal(t, ir.Null{}, v, "unset attribute reads as null")

	addr, ok, err := m.ToOne(ctx, p, "address")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Ref{Store: "left", ID: "a1"}, addr)

	_, ok, err = m.ToOne(ctx, m.Ref("p2"), "address")
	require.NoError(t, err)
	assert.False(t, ok)

	friends, err := m.ToMany(ctx, p, "friends")
	require.NoError(t, err)
	assert.Equal(t, []Ref{m.Ref("p2")}, friends)

	assert.Equal(t, []Ref{m.Ref("p1"), m.Ref("p2")}, m.Refs("Person"))
	assert.Len(t, m.Refs(""), 3)
}

func TestMemory_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("left")

	_, err := m.EntityOf(ctx, m.Ref("ghost"))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = m.Value(ctx, Ref{Store: "right", ID: "p1"}, "name")
	assert.True(t, errors.Is(err, ErrUnknownStore))

	assert.True(t, errors.Is(m.Link("ghost", "friends", "p1"), ErrNotFound))
}

func TestRouter_Dispatch(t *testing.T) {
	ctx := context.Background()
	left := NewMemory("left")
	right := NewMemory("right")
	l := left.Put(Instance{ID: "1", Entity: "Person"})
	r := right.Put(Instance{ID: "1", Entity: "Address"})

	router := NewRouter().Route("left", left).Route("right", right)

	e, err := router.EntityOf(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "Person", e)

	e, err = router.EntityOf(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "Address", e)

	_, err = router.EntityOf(ctx, Ref{Store: "elsewhere", ID: "1"})
	assert.True(t, errors.Is(err, ErrUnknownStore))

	_, err = router.ToMany(ctx, Ref{Store: "elsewhere", ID: "1"}, "x")
	assert.Error(t, err)
}
