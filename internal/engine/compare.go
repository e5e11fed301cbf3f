package engine

import (
	"context"
	"math"

	"github.com/roach88/discern/internal/cache"
	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/schema"
)

// independent marks a result that rests on no in-progress pair.
const independent = math.MaxInt

// run holds the state of one top-level comparison. It is only used while
// the Discriminator mutex is held.
type run struct {
	d        *Discriminator
	ctx      context.Context
	useCache bool
	tracker  *pairTracker
	cap      depthCap
	memo     map[cache.Key]bool
}

func (d *Discriminator) newRun(ctx context.Context, useCache bool) *run {
	r := &run{
		d:        d,
		ctx:      ctx,
		useCache: useCache,
		tracker:  newPairTracker(d.strategy),
		memo:     make(map[cache.Key]bool),
	}
	if d.strategy == Heuristic {
		r.cap.max = d.maxDepth
	}
	return r
}

// pair decides a and b at recursion depth. It returns the result and the
// smallest depth of an in-progress pair the result was assumed on
// (independent when none).
func (r *run) pair(a, b object.Ref, depth int) (bool, int, error) {
	if err := r.ctx.Err(); err != nil {
		return false, independent, err
	}
	if a == b {
		return true, independent, nil
	}

	k := cache.NewKey(a, b)
	if eq, ok := r.memo[k]; ok {
		return eq, independent, nil
	}
	if r.useCache {
		if eq, ok := r.d.pairs.Get(a, b); ok {
			r.d.log().DebugContext(r.ctx, "cache hit", "pair", k.String(), "equal", eq)
			return eq, independent, nil
		}
	}
	if started, ok := r.tracker.Seen(k); ok {
		r.d.log().DebugContext(r.ctx, "pair already in progress, assuming equal",
			"pair", k.String(), "depth", depth)
		return true, started, nil
	}

	entity, same, err := r.sharedEntity(a, b)
	if err != nil {
		return false, independent, err
	}
	if !same {
		r.d.log().DebugContext(r.ctx, "entity types differ", "pair", k.String())
		return false, independent, nil
	}
	if r.cap.Reached(depth) {
		r.d.log().DebugContext(r.ctx, "depth cap reached, assuming equal",
			"pair", k.String(), "depth", depth)
		return true, independent, nil
	}

	r.d.comparisons++
	r.tracker.Enter(k, depth)
	eq, low, err := r.evaluate(a, b, entity, depth)
	r.tracker.Leave(k)
	if err != nil {
		return false, independent, err
	}

	// A true result assumed on a pair still open further up is provisional.
	// A false result holds whatever the assumptions turn out to be.
	if eq && low < depth && r.d.strategy == Exact {
		return true, low, nil
	}
	r.memo[k] = eq
	if r.useCache {
		r.d.pairs.Put(a, b, eq)
	}
	return eq, independent, nil
}

// sharedEntity reads both entity types. same is false when they differ.
func (r *run) sharedEntity(a, b object.Ref) (string, bool, error) {
	ea, err := r.d.objects.EntityOf(r.ctx, a)
	if err != nil {
		return "", false, newReadError(a, b, "entity of "+a.String(), err)
	}
	eb, err := r.d.objects.EntityOf(r.ctx, b)
	if err != nil {
		return "", false, newReadError(a, b, "entity of "+b.String(), err)
	}
	return ea, ea == eb, nil
}

func (r *run) evaluate(a, b object.Ref, entity string, depth int) (bool, int, error) {
	reg := r.d.registry
	if reg.IsIgnored(entity) {
		r.d.log().DebugContext(r.ctx, "entity ignored", "entity", entity)
		return true, independent, nil
	}

	same, err := r.sameAttributes(a, b, entity)
	if err != nil || !same {
		return false, independent, err
	}

	low := independent
	for _, name := range reg.RelationshipsToCheck(entity) {
		rel, ok := schema.FindRelationship(r.d.model, entity, name)
		if !ok {
			continue
		}
		if reg.IsIgnored(rel.Target) {
			continue
		}

		var eq bool
		var l int
		if rel.ToMany {
			eq, l, err = r.toMany(a, b, rel.Name, depth)
		} else {
			eq, l, err = r.toOne(a, b, rel.Name, depth)
		}
		if err != nil {
			return false, independent, err
		}
		if !eq {
			r.d.log().DebugContext(r.ctx, "relationship differs",
				"entity", entity, "relationship", rel.Name, "a", a.String(), "b", b.String())
			return false, independent, nil
		}
		low = min(low, l)
	}
	return true, low, nil
}

// sameAttributes compares every effective attribute of entity.
func (r *run) sameAttributes(a, b object.Ref, entity string) (bool, error) {
	for _, name := range r.d.registry.AttributesToCheck(entity) {
		va, err := r.d.objects.Value(r.ctx, a, name)
		if err != nil {
			return false, newReadError(a, b, "attribute "+name+" of "+a.String(), err)
		}
		vb, err := r.d.objects.Value(r.ctx, b, name)
		if err != nil {
			return false, newReadError(a, b, "attribute "+name+" of "+b.String(), err)
		}
		if !ir.Equal(va, vb) {
			r.d.log().DebugContext(r.ctx, "attribute differs",
				"entity", entity, "attribute", name, "a", a.String(), "b", b.String())
			return false, nil
		}
	}
	return true, nil
}

func (r *run) toOne(a, b object.Ref, rel string, depth int) (bool, int, error) {
	ra, okA, err := r.d.objects.ToOne(r.ctx, a, rel)
	if err != nil {
		return false, independent, newReadError(a, b, "relationship "+rel+" of "+a.String(), err)
	}
	rb, okB, err := r.d.objects.ToOne(r.ctx, b, rel)
	if err != nil {
		return false, independent, newReadError(a, b, "relationship "+rel+" of "+b.String(), err)
	}
	switch {
	case !okA && !okB:
		return true, independent, nil
	case okA != okB:
		return false, independent, nil
	}
	return r.pair(ra, rb, depth+1)
}

func (r *run) toMany(a, b object.Ref, rel string, depth int) (bool, int, error) {
	as, err := r.d.objects.ToMany(r.ctx, a, rel)
	if err != nil {
		return false, independent, newReadError(a, b, "relationship "+rel+" of "+a.String(), err)
	}
	bs, err := r.d.objects.ToMany(r.ctx, b, rel)
	if err != nil {
		return false, independent, newReadError(a, b, "relationship "+rel+" of "+b.String(), err)
	}
	if len(as) != len(bs) {
		return false, independent, nil
	}
	if len(as) == 0 {
		return true, independent, nil
	}

	m := newMatcher(as, bs, func(x, y object.Ref) (bool, int, error) {
		return r.pair(x, y, depth+1)
	})
	return m.perfect()
}
