package object

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/discern/internal/ir"
)

// ErrNotFound is returned when a Ref names no instance in its store.
var ErrNotFound = errors.New("object: instance not found")

// ErrUnknownStore is returned by Router for a Ref whose store is not routed.
var ErrUnknownStore = errors.New("object: unknown store")

// Accessor reads instances. Implementations must not be mutated while a
// comparison is running.
type Accessor interface {
	// EntityOf returns the entity type name of ref.
	EntityOf(ctx context.Context, ref Ref) (string, error)

	// Value returns the current value of attribute attr. An unset attribute
	// is ir.Null{}.
	Value(ctx context.Context, ref Ref, attr string) (ir.Value, error)

	// ToOne returns the instance related through a to-one relationship.
	// ok is false when no instance is related.
	ToOne(ctx context.Context, ref Ref, rel string) (related Ref, ok bool, err error)

	// ToMany returns the instances related through a to-many relationship.
	// Order carries no meaning.
	ToMany(ctx context.Context, ref Ref, rel string) ([]Ref, error)
}

// Router dispatches each Ref to the Accessor registered for its store.
type Router struct {
	stores map[string]Accessor
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{stores: make(map[string]Accessor)}
}

// Route registers acc for refs whose Store is name. Returns r for chaining.
func (r *Router) Route(name string, acc Accessor) *Router {
	r.stores[name] = acc
	return r
}

func (r *Router) accessor(ref Ref) (Accessor, error) {
	acc, ok := r.stores[ref.Store]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, ref.Store)
	}
	return acc, nil
}

// EntityOf implements Accessor.
func (r *Router) EntityOf(ctx context.Context, ref Ref) (string, error) {
	acc, err := r.accessor(ref)
	if err != nil {
		return "", err
	}
	return acc.EntityOf(ctx, ref)
}

// Value implements Accessor.
func (r *Router) Value(ctx context.Context, ref Ref, attr string) (ir.Value, error) {
	acc, err := r.accessor(ref)
	if err != nil {
		return nil, err
	}
	return acc.Value(ctx, ref, attr)
}

// ToOne implements Accessor.
func (r *Router) ToOne(ctx context.Context, ref Ref, rel string) (Ref, bool, error) {
	acc, err := r.accessor(ref)
	if err != nil {
		return Ref{}, false, err
	}
	return acc.ToOne(ctx, ref, rel)
}

// ToMany implements Accessor.
func (r *Router) ToMany(ctx context.Context, ref Ref, rel string) ([]Ref, error) {
	acc, err := r.accessor(ref)
	if err != nil {
		return nil, err
	}
	return acc.ToMany(ctx, ref, rel)
}
