package object

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/discern/internal/ir"
)

// Instance is one in-memory domain object.
type Instance struct {
	ID     string
	Entity string
	Values ir.Object
	// Links maps a relationship name to related instance ids in the same
	// store. A to-one relationship holds zero or one id.
	Links map[string][]string
}

// Memory is an in-memory Accessor for a single named store.
// Safe for concurrent use.
type Memory struct {
	name string

	mu        sync.RWMutex
	instances map[string]*Instance
	order     []string
}

// NewMemory creates an empty store named name.
func NewMemory(name string) *Memory {
	return &Memory{
		name:      name,
		instances: make(map[string]*Instance),
	}
}

// Name returns the store name used in Refs.
func (m *Memory) Name() string {
	return m.name
}

// Put adds or replaces an instance and returns its Ref.
func (m *Memory) Put(inst Instance) Ref {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.instances[inst.ID]; !exists {
		m.order = append(m.order, inst.ID)
	}
	if inst.Values == nil {
		inst.Values = ir.Object{}
	}
	if inst.Links == nil {
		inst.Links = map[string][]string{}
	}
	m.instances[inst.ID] = &inst
	return Ref{Store: m.name, ID: inst.ID}
}

// Link appends a relationship edge from one instance to another.
func (m *Memory) Link(from, rel, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[from]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, m.name, from)
	}
	inst.Links[rel] = append(inst.Links[rel], to)
	return nil
}

// Ref returns the Ref for id in this store.
func (m *Memory) Ref(id string) Ref {
	return Ref{Store: m.name, ID: id}
}

// Refs returns the refs of every instance of entity, in insertion order.
// An empty entity returns every instance.
func (m *Memory) Refs(entity string) []Ref {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Ref
	for _, id := range m.order {
		if entity == "" || m.instances[id].Entity == entity {
			out = append(out, m.Ref(id))
		}
	}
	return out
}

func (m *Memory) get(ref Ref) (*Instance, error) {
	if ref.Store != m.name {
		return nil, fmt.Errorf("%w: %q (store is %q)", ErrUnknownStore, ref.Store, m.name)
	}
	inst, ok := m.instances[ref.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return inst, nil
}

// EntityOf implements Accessor.
func (m *Memory) EntityOf(_ context.Context, ref Ref) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, err := m.get(ref)
	if err != nil {
		return "", err
	}
	return inst.Entity, nil
}

// Value implements Accessor.
func (m *Memory) Value(_ context.Context, ref Ref, attr string) (ir.Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, err := m.get(ref)
	if err != nil {
		return nil, err
	}
	v, ok := inst.Values[attr]
	if !ok || v == nil {
		return ir.Null{}, nil
	}
	return v, nil
}

// ToOne implements Accessor.
func (m *Memory) ToOne(_ context.Context, ref Ref, rel string) (Ref, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, err := m.get(ref)
	if err != nil {
		return Ref{}, false, err
	}
	ids := inst.Links[rel]
	if len(ids) == 0 {
		return Ref{}, false, nil
	}
	return m.Ref(ids[0]), true, nil
}

// ToMany implements Accessor.
func (m *Memory) ToMany(_ context.Context, ref Ref, rel string) ([]Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, err := m.get(ref)
	if err != nil {
		return nil, err
	}
	out := make([]Ref, len(inst.Links[rel]))
	for i, id := range inst.Links[rel] {
		out[i] = m.Ref(id)
	}
	return out, nil
}
