package discern_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discern"
)

const contacts = `
entity: Person: {
	attributes: {
		name:      string
		birthYear: int
	}
	relationships: spouse: "Person"
}
rule: Person: include_relationships: ["spouse"]
`

func newStores(t *testing.T) *discern.Router {
	t.Helper()
	old := discern.NewMemory("old")
	old.Put(discern.Instance{ID: "al", Entity: "Person", Values: discern.Values{"name": discern.String("Al"), "birthYear": discern.Int(1980)}})
	old.Put(discern.Instance{ID: "bea", Entity: "Person", Values: discern.Values{"name": discern.String("Bea"), "birthYear": discern.Int(1982)}})
	require.NoError(t, old.Link("al", "spouse", "bea"))
	require.NoError(t, old.Link("bea", "spouse", "al"))

	cur := discern.NewMemory("new")
	cur.Put(discern.Instance{ID: "p1", Entity: "Person", Values: discern.Values{"name": discern.String("Al"), "birthYear": discern.Int(1980)}})
	cur.Put(discern.Instance{ID: "p2", Entity: "Person", Values: discern.Values{"name": discern.String("Bea"), "birthYear": discern.Int(1983)}})
	require.NoError(t, cur.Link("p1", "spouse", "p2"))
	require.NoError(t, cur.Link("p2", "spouse", "p1"))

	return discern.NewRouter().Route("old", old).Route("new", cur)
}

func TestFacade_CompileAndCompare(t *testing.T) {
	model, units, err := discern.Compile("contacts.cue", contacts)
	require.NoError(t, err)
	require.Len(t, units, 1)

	d := discern.New(model, newStores(t), discern.WithStrategy(discern.Heuristic))
	for _, u := range units {
		require.NoError(t, d.Register(u))
	}

	al, _ := discern.ParseRef("old/al")
	p1, _ := discern.ParseRef("new/p1")
	ctx := context.Background()

	same, err := d.IsSimilar(ctx, al, p1, true)
	require.NoError(t, err)
	assert.False(t, same, "spouses differ in birth year")

	sameAttrs, err := d.HaveSameAttributes(ctx, al, p1)
	require.NoError(t, err)
	assert.True(t, sameAttrs)

	// Without the relationship rule, semi-facilitating ignores spouses.
	require.True(t, d.Unregister("Person"))
	same, err = d.Compare(ctx, al, p1)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestFacade_UnitsBuiltInGo(t *testing.T) {
	model, _, err := discern.Compile("contacts.cue", contacts)
	require.NoError(t, err)

	d := discern.New(model, newStores(t), discern.WithProfile(discern.Demanding))
	require.NoError(t, d.Register(discern.NewUnit("Person", discern.IgnoreAttributes("birthYear"))))

	same, err := d.IsSimilar(context.Background(), discern.Ref{Store: "old", ID: "al"}, discern.Ref{Store: "new", ID: "p1"}, false)
	require.NoError(t, err)
	assert.True(t, same)
	assert.Equal(t, discern.Demanding, d.Profile())
}

func TestFacade_ParseNames(t *testing.T) {
	p, err := discern.ParseProfile("facilitating")
	require.NoError(t, err)
	assert.Equal(t, discern.Facilitating, p)

	s, err := discern.ParseStrategy("exact")
	require.NoError(t, err)
	assert.Equal(t, discern.Exact, s)
}
