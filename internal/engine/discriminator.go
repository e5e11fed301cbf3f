package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/discern/internal/cache"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
	"github.com/roach88/discern/internal/schema"
)

// Discriminator decides whether two instances are equivalent under the
// registered rules and the active profile.
//
// Thread-safety: every method takes the same mutex, so rule changes,
// profile switches and cache maintenance never interleave with a running
// comparison. Comparisons are synchronous and never spawn goroutines.
type Discriminator struct {
	mu sync.Mutex

	model    schema.Provider
	objects  object.Accessor
	registry *rules.Registry
	pairs    *cache.Pairs

	strategy Strategy
	maxDepth int

	logger  *slog.Logger
	logging bool

	comparisons int
	depthHits   int
}

// New creates a Discriminator reading entity types from model and
// instances from objects.
//
// Options can be passed to configure the profile, tie-break, cycle strategy
// and logging (e.g., WithProfile, WithStrategy).
func New(model schema.Provider, objects object.Accessor, opts ...Option) *Discriminator {
	d := &Discriminator{
		model:    model,
		objects:  objects,
		registry: rules.NewRegistry(model, rules.SemiFacilitating, true),
		pairs:    cache.New(),
		strategy: Exact,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clone returns a Discriminator with the same collaborators, rules, profile
// and options, an empty cache and zeroed counters.
func (d *Discriminator) Clone() *Discriminator {
	d.mu.Lock()
	defer d.mu.Unlock()

	return &Discriminator{
		model:    d.model,
		objects:  d.objects,
		registry: d.registry.Clone(),
		pairs:    cache.New(),
		strategy: d.strategy,
		maxDepth: d.maxDepth,
		logger:   d.logger,
		logging:  d.logging,
	}
}

// log returns the active logger, or a discarding one when logging is off.
func (d *Discriminator) log() *slog.Logger {
	if !d.logging {
		return discard
	}
	return d.logger
}

var discard = slog.New(slog.DiscardHandler)

// SetLoggingEnabled turns diagnostic logging on or off.
func (d *Discriminator) SetLoggingEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logging = enabled
}

// LoggingEnabled reports whether diagnostic logging is on.
func (d *Discriminator) LoggingEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logging
}

// Strategy returns the active cycle strategy.
func (d *Discriminator) Strategy() Strategy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strategy
}

// SetStrategy switches the cycle strategy and flushes the cache, since
// heuristic results may rest on unproven assumptions.
func (d *Discriminator) SetStrategy(s Strategy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s == d.strategy {
		return
	}
	d.strategy = s
	d.pairs.Flush()
}

// Register adds or replaces the rule unit for its entity type.
// Returns a *rules.ConfigError if the unit does not fit the schema.
//
// The cache is not flushed; call FlushCache after changing rules between
// cached comparisons.
func (d *Discriminator) Register(u rules.Unit) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.registry.Register(u); err != nil {
		return err
	}
	d.log().Debug("rule unit registered", "entity", u.Entity())
	return nil
}

// Unregister removes the unit of exactly entity. Reports whether one existed.
func (d *Discriminator) Unregister(entity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Unregister(entity)
}

// ClearRules removes every unit. The profile is kept.
func (d *Discriminator) ClearRules() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry.ClearAll()
}

// Units returns the registered units in registration order.
func (d *Discriminator) Units() []rules.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Units()
}

// RegisteredEntities returns the entity types with a unit, in registration order.
func (d *Discriminator) RegisteredEntities() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Entities()
}

// IsIgnored reports whether instances of entity always compare equal.
func (d *Discriminator) IsIgnored(entity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.IsIgnored(entity)
}

// AttributesToCheck returns the effective attribute names for entity.
func (d *Discriminator) AttributesToCheck(entity string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.AttributesToCheck(entity)
}

// RelationshipsToCheck returns the effective relationship names for entity.
func (d *Discriminator) RelationshipsToCheck(entity string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.RelationshipsToCheck(entity)
}

// Resolve returns the effective rule set for entity.
func (d *Discriminator) Resolve(entity string) rules.Effective {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Resolve(entity)
}

// Profile returns the active profile.
func (d *Discriminator) Profile() rules.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Profile()
}

// SetProfile switches the profile and flushes the cache. Units are kept.
func (d *Discriminator) SetProfile(p rules.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry.SetProfile(p)
	d.pairs.Flush()
	d.log().Debug("profile switched", "profile", p.String())
}

// UseFacilitating switches to the Facilitating profile.
func (d *Discriminator) UseFacilitating() { d.SetProfile(rules.Facilitating) }

// UseSemiFacilitating switches to the Semi-Facilitating profile.
func (d *Discriminator) UseSemiFacilitating() { d.SetProfile(rules.SemiFacilitating) }

// UseDemanding switches to the Demanding profile.
func (d *Discriminator) UseDemanding() { d.SetProfile(rules.Demanding) }

// FlushCache removes every cached result.
func (d *Discriminator) FlushCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pairs.Flush()
}

// RemoveMostRecentCacheEntry drops the last cached result. ok is false when
// the cache is empty.
func (d *Discriminator) RemoveMostRecentCacheEntry() (cache.Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pairs.RemoveLast()
}

// DumpCache returns the cached results in insertion order.
func (d *Discriminator) DumpCache() []cache.Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pairs.Entries()
}

// CacheLen returns the number of cached results.
func (d *Discriminator) CacheLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pairs.Len()
}

// LogCache writes one record per cached result to the configured logger,
// regardless of SetLoggingEnabled.
func (d *Discriminator) LogCache(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.pairs.Entries()
	d.logger.InfoContext(ctx, "pair cache", "entries", len(entries))
	for i, e := range entries {
		d.logger.InfoContext(ctx, "pair cache entry",
			"index", i,
			"a", e.Key.A.String(),
			"b", e.Key.B.String(),
			"equal", e.Equal)
	}
}

// Comparisons returns how many pair comparisons were evaluated, not
// counting cache or memo hits, identical refs and type mismatches.
func (d *Discriminator) Comparisons() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.comparisons
}

// DepthCapHits returns how many nested comparisons the heuristic depth cap
// accepted without examining them.
func (d *Discriminator) DepthCapHits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.depthHits
}

// Compare decides whether a and b are equivalent. The cache is neither
// read nor written.
func (d *Discriminator) Compare(ctx context.Context, a, b object.Ref) (bool, error) {
	return d.IsSimilar(ctx, a, b, false)
}

// IsSimilar decides whether a and b are equivalent. With useCache, every
// pair decided during the comparison is looked up in and stored into the
// pair cache.
func (d *Discriminator) IsSimilar(ctx context.Context, a, b object.Ref, useCache bool) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := d.newRun(ctx, useCache)
	eq, _, err := r.pair(a, b, 0)
	d.depthHits += r.cap.Hits()
	if err != nil {
		return false, err
	}
	d.log().DebugContext(ctx, "comparison finished",
		"a", a.String(), "b", b.String(), "equal", eq,
		"strategy", d.strategy.String(), "profile", d.registry.Profile().String())
	return eq, nil
}

// HaveSameAttributes reports whether a and b agree on every effective
// attribute of their shared entity type. Relationships are not examined.
// Instances of different types never agree.
func (d *Discriminator) HaveSameAttributes(ctx context.Context, a, b object.Ref) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := d.newRun(ctx, false)
	entity, same, err := r.sharedEntity(a, b)
	if err != nil || !same {
		return false, err
	}
	return r.sameAttributes(a, b, entity)
}
