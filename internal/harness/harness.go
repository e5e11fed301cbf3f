package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/discern/internal/compiler"
	"github.com/roach88/discern/internal/engine"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/schema"
	"github.com/roach88/discern/internal/store"
	"github.com/roach88/discern/internal/testutil"
)

// Harness runs scenarios. Each run builds fresh stores and a fresh
// discriminator, so scenarios never share state.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger makes the discriminator log through l. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the inline schema and its rules
// 2. Populate every store on the chosen backend
// 3. Register the rules on a new discriminator
// 4. Run the checks in order, sharing the pair cache
//
// An error is returned when the scenario cannot be set up; failed checks
// are reported in the Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	bundle, err := compiler.CompileSource(scenario.Name+".cue", scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	router, closeAll, err := h.openStores(ctx, bundle.Model, scenario)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	d := engine.New(bundle.Model, router, engine.WithLogger(h.logger))
	d.SetLoggingEnabled(true)
	for _, u := range bundle.Units {
		if err := d.Register(u); err != nil {
			return nil, fmt.Errorf("failed to register rule for %s: %w", u.Entity(), err)
		}
	}

	result := NewResult(scenario.Name)
	for i, c := range scenario.Checks {
		cr, err := runCheck(ctx, d, c)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		result.Checks = append(result.Checks, cr)
		if !cr.Pass {
			result.AddError(describeFailure(cr))
		}
		h.logger.Info("check completed",
			"scenario", scenario.Name,
			"check", cr.Name,
			"got", cr.Got,
			"pass", cr.Pass,
		)
	}

	result.CacheLen = d.CacheLen()
	result.Comparisons = d.Comparisons()
	return result, nil
}

// openStores builds one accessor per store spec, routed by store name.
func (h *Harness) openStores(ctx context.Context, model *schema.Model, scenario *Scenario) (*object.Router, func(), error) {
	router := object.NewRouter()
	var opened []*store.Store
	closeAll := func() {
		for _, st := range opened {
			st.Close()
		}
	}

	for _, spec := range scenario.Stores {
		if scenario.Backend != BackendSQLite {
			mem, err := PopulateMemory(model, spec.Name, spec.Objects)
			if err != nil {
				return nil, nil, fmt.Errorf("store %s: %w", spec.Name, err)
			}
			router.Route(spec.Name, mem)
			continue
		}

		st, err := openSnapshot(ctx, model, spec)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("store %s: %w", spec.Name, err)
		}
		opened = append(opened, st)
		router.Route(spec.Name, st)
	}
	return router, closeAll, nil
}

// openSnapshot creates an in-memory SQLite snapshot holding spec's objects.
func openSnapshot(ctx context.Context, model *schema.Model, spec StoreSpec) (*store.Store, error) {
	st, err := store.Open(spec.Name, ":memory:", store.WithIDGenerator(testutil.NewFixedGenerator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	if err := PopulateStore(ctx, model, st, spec.Objects); err != nil {
		st.Close()
		return nil, err
	}
	hash, err := model.Hash()
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := st.SetSchemaHash(ctx, hash); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
