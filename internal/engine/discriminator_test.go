package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/discern/internal/cache"
	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
)

var allProfiles = []rules.Profile{rules.Facilitating, rules.SemiFacilitating, rules.Demanding}

func TestNew_Defaults(t *testing.T) {
	d := newFixture(t).discriminator()

	assert.Equal(t, rules.SemiFacilitating, d.Profile())
	assert.Equal(t, Exact, d.Strategy())
	assert.False(t, d.LoggingEnabled())
	assert.Equal(t, 0, d.CacheLen())
	assert.Empty(t, d.RegisteredEntities())
}

func TestCompare_PersonExample(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	c := f.right.Put(person("p2", "Al", 1991))
	d := f.discriminator()

	eq, err := d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = d.Compare(context.Background(), a, c)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare_Reflexive(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	f.left.Put(address("a1", "Main St"))
	f.link(f.left, "p1", "address", "a1")
	f.link(f.left, "p1", "spouse", "p1")

	for _, p := range allProfiles {
		t.Run(p.String(), func(t *testing.T) {
			d := f.discriminator(WithProfile(p))
			eq, err := d.Compare(context.Background(), a, a)
			require.NoError(t, err)
			assert.True(t, eq)
		})
	}
}

func TestCompare_DifferentEntityTypes(t *testing.T) {
	f := newFixture(t)
	p := f.left.Put(person("p1", "Al", 1990))
	e := f.right.Put(object.Instance{ID: "e1", Entity: "Employee", Values: person("", "Al", 1990).Values})
	addr := f.right.Put(address("a1", "Main St"))

	for _, profile := range allProfiles {
		d := f.discriminator(WithProfile(profile))
		require.NoError(t, d.Register(rules.NewUnit("Address", rules.IgnoreEntity())))

		for _, other := range []object.Ref{e, addr} {
			eq, err := d.IsSimilar(context.Background(), p, other, true)
			require.NoError(t, err)
			assert.False(t, eq, "%s vs %s under %s", p, other, profile)
		}
		assert.Equal(t, 0, d.CacheLen(), "type mismatches are not cached")
		assert.Equal(t, 0, d.Comparisons())
	}
}

func TestCompare_FacilitatingEqualsEverything(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Bo", 1975))
	d := f.discriminator(WithProfile(rules.Facilitating))

	eq, err := d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	// An explicit unit brings the type back under comparison.
	require.NoError(t, d.Register(rules.NewUnit("Person", rules.IncludeAttributes("name"))))
	eq, err = d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare_ProfileMonotonicity(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	f.left.Put(address("a1", "Main St"))
	f.right.Put(address("a1", "Elm St"))
	f.link(f.left, "p1", "address", "a1")
	f.link(f.right, "p1", "address", "a1")

	want := map[rules.Profile]bool{
		rules.Facilitating:     true,
		rules.SemiFacilitating: true,
		rules.Demanding:        false, // addresses differ
	}

	d := f.discriminator()
	for _, p := range allProfiles {
		d.SetProfile(p)
		eq, err := d.IsSimilar(context.Background(), a, b, true)
		require.NoError(t, err)
		assert.Equal(t, want[p], eq, p.String())
	}
}

func TestIsSimilar_CacheHitSkipsComparison(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator()
	ctx := context.Background()

	eq, err := d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	assert.True(t, eq)
	first := d.Comparisons()
	assert.Equal(t, 1, first)

	eq, err = d.IsSimilar(ctx, b, a, true)
	require.NoError(t, err)
	assert.True(t, eq)
	assert.Equal(t, first, d.Comparisons(), "second call answered from the cache")

	// Without the cache the pair is derived again.
	_, err = d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, first+1, d.Comparisons())
}

func TestIsSimilar_ProfileSwitchFlushesCache(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	f.right.Put(address("a1", "Elm St"))
	f.link(f.right, "p1", "address", "a1")
	d := f.discriminator()
	ctx := context.Background()

	eq, err := d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	assert.True(t, eq)
	assert.Equal(t, 1, d.CacheLen())

	d.UseDemanding()
	assert.Equal(t, 0, d.CacheLen())

	eq, err = d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	assert.False(t, eq, "one side has an address, the other has none")

	d.UseFacilitating()
	assert.Equal(t, rules.Facilitating, d.Profile())
	d.UseSemiFacilitating()
	assert.Equal(t, rules.SemiFacilitating, d.Profile())
	assert.Equal(t, 0, d.CacheLen())
}

func TestCompare_RulePrecedence(t *testing.T) {
	f := newFixture(t)
	p1 := f.left.Put(person("p1", "Al", 1990))
	p2 := f.right.Put(person("p2", "Alan", 1990))
	e1 := f.left.Put(object.Instance{ID: "e1", Entity: "Employee", Values: person("", "Al", 1990).Values})
	e2 := f.right.Put(object.Instance{ID: "e2", Entity: "Employee", Values: person("", "Alan", 1990).Values})

	d := f.discriminator()
	require.NoError(t, d.Register(rules.NewUnit("Person", rules.IgnoreAttributes("name"))))
	require.NoError(t, d.Register(rules.NewUnit("Employee", rules.IncludeAttributes("name"))))
	assert.Contains(t, d.AttributesToCheck("Employee"), "name")
	assert.NotContains(t, d.AttributesToCheck("Person"), "name")

	eq, err := d.Compare(context.Background(), p1, p2)
	require.NoError(t, err)
	assert.True(t, eq, "Person ignores name")

	eq, err = d.Compare(context.Background(), e1, e2)
	require.NoError(t, err)
	assert.False(t, eq, "Employee includes name")
}

func TestCompare_IgnoreWinsSetting(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Alan", 1990))
	unit := rules.NewUnit("Person", rules.IncludeAttributes("name"), rules.IgnoreAttributes("name"))

	ignoreWins := f.discriminator()
	require.NoError(t, ignoreWins.Register(unit))
	includeWins := f.discriminator(WithIgnoreWins(false))
	require.NoError(t, includeWins.Register(unit))

	for i := 0; i < 2; i++ {
		eq, err := ignoreWins.Compare(context.Background(), a, b)
		require.NoError(t, err)
		assert.True(t, eq)

		eq, err = includeWins.Compare(context.Background(), a, b)
		require.NoError(t, err)
		assert.False(t, eq)
	}
}

func TestCompare_ToManyCrossPairing(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("a", "Al", 1990))
	b := f.right.Put(person("b", "Al", 1990))
	f.left.Put(person("x1", "Cy", 1980))
	f.left.Put(person("x2", "Di", 1985))
	f.right.Put(person("y1", "Di", 1985))
	f.right.Put(person("y2", "Cy", 1980))
	f.link(f.left, "a", "friends", "x1")
	f.link(f.left, "a", "friends", "x2")
	f.link(f.right, "b", "friends", "y1")
	f.link(f.right, "b", "friends", "y2")

	d := f.discriminator(WithProfile(rules.Demanding))
	eq, err := d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	x1 := f.left.Ref("x1")
	y1 := f.right.Ref("y1")
	eq, err = d.Compare(context.Background(), x1, y1)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare_ToManyNoPairing(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("a", "Al", 1990))
	b := f.right.Put(person("b", "Al", 1990))
	f.left.Put(person("x1", "Cy", 1980))
	f.left.Put(person("x2", "Cy", 1980))
	f.right.Put(person("y1", "Cy", 1980))
	f.right.Put(person("y2", "Di", 1985))
	f.link(f.left, "a", "friends", "x1")
	f.link(f.left, "a", "friends", "x2")
	f.link(f.right, "b", "friends", "y1")
	f.link(f.right, "b", "friends", "y2")

	d := f.discriminator(WithProfile(rules.Demanding))
	eq, err := d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.False(t, eq, "both left friends only match y1")

	// Sizes differ.
	f.link(f.right, "b", "friends", "y1")
	eq, err = d.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare_ToOneAbsence(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator(WithProfile(rules.Demanding))
	ctx := context.Background()

	eq, err := d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq, "both absent")

	f.left.Put(address("a1", "Main St"))
	f.link(f.left, "p1", "address", "a1")
	eq, err = d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, eq, "one absent")

	// Skipped entirely once the target type is ignored.
	require.NoError(t, d.Register(rules.NewUnit("Address", rules.IgnoreEntity())))
	eq, err = d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestCompare_RelationshipRules(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	f.left.Put(address("a1", "Main St"))
	f.right.Put(address("a1", "Elm St"))
	f.link(f.left, "p1", "address", "a1")
	f.link(f.right, "p1", "address", "a1")
	ctx := context.Background()

	d := f.discriminator()
	require.NoError(t, d.Register(rules.NewUnit("Person", rules.IncludeRelationships("address"))))
	eq, err := d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, eq, "address included explicitly under semi-facilitating")

	require.NoError(t, d.Register(rules.NewUnit("Address", rules.IgnoreAttributes("street"))))
	eq, err = d.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq, "remaining address attribute is the same photo")

	demanding := f.discriminator(WithProfile(rules.Demanding))
	require.NoError(t, demanding.Register(rules.NewUnit("Person", rules.IgnoreRelationships("address"))))
	eq, err = demanding.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestHaveSameAttributes(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	c := f.right.Put(address("a1", "Elm St"))
	f.link(f.right, "p1", "address", "a1")
	d := f.discriminator(WithProfile(rules.Demanding))
	ctx := context.Background()

	same, err := d.HaveSameAttributes(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, same, "relationships are not examined")

	same, err = d.HaveSameAttributes(ctx, a, c)
	require.NoError(t, err)
	assert.False(t, same)

	require.NoError(t, d.Register(rules.NewUnit("Person",
		rules.IgnoreAttributes("name", "birthYear"))))
	other := f.right.Put(person("p9", "Zed", 2001))
	same, err = d.HaveSameAttributes(ctx, a, other)
	require.NoError(t, err)
	assert.True(t, same, "empty effective set is vacuously true")
}

// =============================================================================
// Cycles
// =============================================================================

// spouses links p and q as each other's spouse in m.
func (f *fixture) spouses(m *object.Memory, p, q string) {
	f.link(m, p, "spouse", q)
	f.link(m, q, "spouse", p)
}

func TestCompare_TwoCycle(t *testing.T) {
	for _, s := range []Strategy{Exact, Heuristic} {
		t.Run(s.String(), func(t *testing.T) {
			f := newFixture(t)
			a := f.left.Put(person("a", "Al", 1990))
			f.left.Put(person("b", "Bo", 1991))
			f.spouses(f.left, "a", "b")

			a2 := f.right.Put(person("a", "Al", 1990))
			f.right.Put(person("b", "Bo", 1991))
			f.spouses(f.right, "a", "b")

			a3 := f.right.Put(person("a3", "Al", 1990))
			f.right.Put(person("b3", "Bea", 1991))
			f.spouses(f.right, "a3", "b3")

			d := f.discriminator(WithProfile(rules.Demanding), WithStrategy(s))

			eq, err := d.Compare(context.Background(), a, a2)
			require.NoError(t, err)
			assert.True(t, eq)

			eq, err = d.Compare(context.Background(), a, a3)
			require.NoError(t, err)
			assert.False(t, eq, "spouses differ by name")
		})
	}
}

func TestIsSimilar_ExactCachesOnlyProvenResults(t *testing.T) {
	build := func(t *testing.T, s Strategy) (*Discriminator, object.Ref, object.Ref) {
		f := newFixture(t)
		a := f.left.Put(person("a", "Al", 1990))
		f.left.Put(person("b", "Bo", 1991))
		f.spouses(f.left, "a", "b")
		a2 := f.right.Put(person("a", "Al", 1990))
		f.right.Put(person("b", "Bo", 1991))
		f.spouses(f.right, "a", "b")
		return f.discriminator(WithProfile(rules.Demanding), WithStrategy(s)), a, a2
	}

	t.Run("exact", func(t *testing.T) {
		d, a, a2 := build(t, Exact)
		eq, err := d.IsSimilar(context.Background(), a, a2, true)
		require.NoError(t, err)
		assert.True(t, eq)
		assert.Equal(t, 2, d.Comparisons())

		// The spouse pair was only equal assuming the outer pair, so only
		// the outer pair is cached.
		entries := d.DumpCache()
		require.Len(t, entries, 1)
		assert.Equal(t, cache.NewKey(a, a2), entries[0].Key)
	})

	t.Run("heuristic", func(t *testing.T) {
		d, a, a2 := build(t, Heuristic)
		eq, err := d.IsSimilar(context.Background(), a, a2, true)
		require.NoError(t, err)
		assert.True(t, eq)
		assert.Equal(t, 2, d.CacheLen())
	})
}

func TestCompare_HeuristicDepthCap(t *testing.T) {
	f := newFixture(t)
	// Chains p0 -> p1 -> p2 -> p3 whose last links differ.
	for i, name := range []string{"A", "B", "C", "D"} {
		id := string(rune('0' + i))
		f.left.Put(person("p"+id, name, 1990))
		last := name
		if i == 3 {
			last = "Z"
		}
		f.right.Put(person("p"+id, last, 1990))
		if i > 0 {
			prev := string(rune('0' + i - 1))
			f.link(f.left, "p"+prev, "spouse", "p"+id)
			f.link(f.right, "p"+prev, "spouse", "p"+id)
		}
	}
	a, b := f.left.Ref("p0"), f.right.Ref("p0")
	ctx := context.Background()

	exact := f.discriminator(WithProfile(rules.Demanding))
	eq, err := exact.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, eq)
	assert.Equal(t, 0, exact.DepthCapHits())

	heuristic := f.discriminator(WithProfile(rules.Demanding), WithStrategy(Heuristic), WithMaxDepth(2))
	eq, err = heuristic.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, eq, "the cap accepts the unexamined tail")
	assert.Equal(t, 1, heuristic.DepthCapHits())

	uncapped := f.discriminator(WithProfile(rules.Demanding), WithStrategy(Heuristic), WithMaxDepth(0))
	eq, err = uncapped.Compare(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare_HeuristicDepthCapKeepsTypeCheck(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	f.left.Put(object.Instance{ID: "e1", Entity: "Employee", Values: person("", "Bea", 1992).Values})
	f.link(f.left, "p1", "spouse", "e1")

	b := f.right.Put(person("p1", "Al", 1990))
	f.right.Put(person("p2", "Bea", 1992))
	f.link(f.right, "p1", "spouse", "p2")

	ctx := context.Background()
	for _, s := range []Strategy{Exact, Heuristic} {
		t.Run(s.String(), func(t *testing.T) {
			d := f.discriminator(WithProfile(rules.Demanding), WithStrategy(s), WithMaxDepth(1))
			eq, err := d.Compare(ctx, a, b)
			require.NoError(t, err)
			assert.False(t, eq, "spouses of different entity types differ")
			assert.Equal(t, 0, d.DepthCapHits())
		})
	}
}

func TestSetStrategy_FlushesCache(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator()

	_, err := d.IsSimilar(context.Background(), a, b, true)
	require.NoError(t, err)
	d.SetStrategy(Exact)
	assert.Equal(t, 1, d.CacheLen(), "unchanged strategy keeps the cache")

	d.SetStrategy(Heuristic)
	assert.Equal(t, Heuristic, d.Strategy())
	assert.Equal(t, 0, d.CacheLen())
}

// =============================================================================
// Cache maintenance
// =============================================================================

func TestCacheMaintenance(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	c := f.right.Put(person("p2", "Bo", 1990))
	d := f.discriminator()
	ctx := context.Background()

	_, err := d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	_, err = d.IsSimilar(ctx, a, c, true)
	require.NoError(t, err)

	entries := d.DumpCache()
	require.Len(t, entries, 2)
	assert.Equal(t, cache.Entry{Key: cache.NewKey(a, b), Equal: true}, entries[0])
	assert.Equal(t, cache.Entry{Key: cache.NewKey(a, c), Equal: false}, entries[1])

	last, ok := d.RemoveMostRecentCacheEntry()
	require.True(t, ok)
	assert.Equal(t, cache.NewKey(a, c), last.Key)
	assert.Equal(t, 1, d.CacheLen())

	d.FlushCache()
	assert.Equal(t, 0, d.CacheLen())
	_, ok = d.RemoveMostRecentCacheEntry()
	assert.False(t, ok)
}

func TestRegister_RulesDoNotFlushCache(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator()

	_, err := d.IsSimilar(context.Background(), a, b, true)
	require.NoError(t, err)
	require.NoError(t, d.Register(rules.NewUnit("Person", rules.IgnoreAttributes("name"))))
	assert.Equal(t, 1, d.CacheLen())
}

// =============================================================================
// Rules surface, clone, errors, logging
// =============================================================================

func TestRegister_UnknownEntity(t *testing.T) {
	d := newFixture(t).discriminator()
	err := d.Register(rules.NewUnit("Robot"))
	require.Error(t, err)
	assert.True(t, rules.IsConfigError(err))
	assert.Empty(t, d.RegisteredEntities())
}

func TestRulesSurface(t *testing.T) {
	d := newFixture(t).discriminator(WithProfile(rules.Demanding))
	require.NoError(t, d.Register(rules.NewUnit("Person", rules.IgnoreRelationships("friends"))))
	require.NoError(t, d.Register(rules.NewUnit("Address", rules.IgnoreEntity())))

	assert.Equal(t, []string{"Person", "Address"}, d.RegisteredEntities())
	assert.Len(t, d.Units(), 2)
	assert.True(t, d.IsIgnored("Address"))
	assert.Equal(t, []string{"address", "spouse"}, d.RelationshipsToCheck("Employee"))
	assert.True(t, d.Resolve("Employee").Explicit)

	assert.True(t, d.Unregister("Address"))
	assert.False(t, d.IsIgnored("Address"))

	d.ClearRules()
	assert.Empty(t, d.RegisteredEntities())
	assert.Equal(t, rules.Demanding, d.Profile(), "profile survives clearing rules")
}

func TestClone_Independent(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator(WithProfile(rules.Demanding), WithStrategy(Heuristic))
	require.NoError(t, d.Register(rules.NewUnit("Person")))
	_, err := d.IsSimilar(context.Background(), a, b, true)
	require.NoError(t, err)

	c := d.Clone()
	assert.Equal(t, rules.Demanding, c.Profile())
	assert.Equal(t, Heuristic, c.Strategy())
	assert.Equal(t, []string{"Person"}, c.RegisteredEntities())
	assert.Equal(t, 0, c.CacheLen())
	assert.Equal(t, 0, c.Comparisons())

	require.NoError(t, c.Register(rules.NewUnit("Address")))
	c.UseFacilitating()
	assert.Equal(t, []string{"Person"}, d.RegisteredEntities())
	assert.Equal(t, rules.Demanding, d.Profile())
	assert.Equal(t, 1, d.CacheLen())
}

func TestClone_FollowsProfileSwitches(t *testing.T) {
	d := newFixture(t).discriminator(WithProfile(rules.Demanding), WithIgnoreWins(false))
	require.NoError(t, d.Register(rules.NewUnit("Person",
		rules.IncludeAttributes("name"), rules.IgnoreAttributes("name"))))

	d.UseFacilitating()
	c := d.Clone()
	assert.Equal(t, rules.Facilitating, c.Profile())
	assert.Equal(t, []string{"name"}, c.AttributesToCheck("Person"), "include wins when ignore-wins is off")

	c.UseSemiFacilitating()
	assert.Equal(t, rules.Facilitating, d.Profile())
	assert.Equal(t, rules.SemiFacilitating, c.Clone().Profile())
}

func TestCompare_UnknownInstance(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	d := f.discriminator()

	for _, missing := range []object.Ref{
		{Store: "right", ID: "nope"},
		{Store: "elsewhere", ID: "p1"},
	} {
		_, err := d.IsSimilar(context.Background(), a, missing, true)
		require.Error(t, err)
		assert.True(t, IsComparisonError(err))
		assert.True(t, IsUnknownInstance(err))
		assert.Equal(t, 0, d.CacheLen())
	}
}

// failingAccessor fails every attribute read.
type failingAccessor struct {
	object.Accessor
}

var errDisk = errors.New("disk on fire")

func (failingAccessor) Value(context.Context, object.Ref, string) (ir.Value, error) {
	return nil, errDisk
}

func TestCompare_StoreReadError(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	router := object.NewRouter().Route("left", f.left).Route("right", f.right)
	d := New(f.model, failingAccessor{Accessor: router})

	_, err := d.IsSimilar(context.Background(), a, b, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.False(t, IsUnknownInstance(err))

	var ce *ComparisonError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeStoreRead, ce.Code)
	assert.Equal(t, a, ce.Left)
	assert.Equal(t, 0, d.CacheLen())
}

func TestCompare_ContextCanceled(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Al", 1990))
	d := f.discriminator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Compare(ctx, a, b)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogging(t *testing.T) {
	f := newFixture(t)
	a := f.left.Put(person("p1", "Al", 1990))
	b := f.right.Put(person("p1", "Alan", 1990))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := f.discriminator(WithLogger(logger))
	assert.True(t, d.LoggingEnabled())
	ctx := context.Background()

	_, err := d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "attribute differs")
	assert.Contains(t, buf.String(), "attribute=name")

	d.SetLoggingEnabled(false)
	buf.Reset()
	d.FlushCache()
	_, err = d.IsSimilar(ctx, a, b, true)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	d.LogCache(ctx)
	assert.Contains(t, buf.String(), "pair cache entry")
	assert.Contains(t, buf.String(), "equal=false")
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Heuristic")
	require.NoError(t, err)
	assert.Equal(t, Heuristic, s)

	s, err = ParseStrategy("exact")
	require.NoError(t, err)
	assert.Equal(t, Exact, s)

	_, err = ParseStrategy("fast")
	assert.Error(t, err)
}
