package harness

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/schema"
	"github.com/roach88/discern/internal/store"
)

// Fixture is a standalone object list, the YAML form of one snapshot.
type Fixture struct {
	Objects []ObjectSpec `yaml:"objects"`
}

// LoadFixture reads a fixture file. Unknown fields are rejected.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateStores([]StoreSpec{{Name: "fixture", Objects: f.Objects}}); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// TypedValues converts an object's YAML attributes to values of the kinds
// its entity declares. Attributes the schema doesn't know are rejected.
func TypedValues(p schema.Provider, obj ObjectSpec) (ir.Object, error) {
	if _, ok := p.Entity(obj.Entity); !ok {
		return nil, fmt.Errorf("object %s: unknown entity %q", obj.ID, obj.Entity)
	}

	values := make(ir.Object, len(obj.Attributes))
	for name, raw := range obj.Attributes {
		attr, ok := schema.FindAttribute(p, obj.Entity, name)
		if !ok {
			return nil, fmt.Errorf("object %s: %s has no attribute %q", obj.ID, obj.Entity, name)
		}
		v, err := convertValue(attr.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("object %s: attribute %s: %w", obj.ID, name, err)
		}
		values[name] = v
	}
	return values, nil
}

// convertValue converts a decoded YAML value to kind. YAML null is Null for
// every kind.
func convertValue(kind schema.Kind, raw any) (ir.Value, error) {
	if raw == nil {
		return ir.Null{}, nil
	}

	switch kind {
	case schema.KindString:
		if s, ok := raw.(string); ok {
			return ir.String(s), nil
		}
	case schema.KindInt:
		if n, ok := raw.(int); ok {
			return ir.Int(n), nil
		}
	case schema.KindFloat:
		switch n := raw.(type) {
		case int:
			return ir.Float(n), nil
		case float64:
			return ir.Float(n), nil
		}
	case schema.KindBool:
		if b, ok := raw.(bool); ok {
			return ir.Bool(b), nil
		}
	case schema.KindBytes:
		if s, ok := raw.(string); ok {
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("bytes must be base64: %w", err)
			}
			return ir.Bytes(b), nil
		}
	case schema.KindTime:
		switch t := raw.(type) {
		case time.Time:
			return ir.Time(t), nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, fmt.Errorf("time must be RFC 3339: %w", err)
			}
			return ir.Time(parsed), nil
		}
	case schema.KindJSON:
		return ir.FromAny(raw)
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, raw)
}

// checkLinks verifies that every link names a declared relationship, that
// to-one links hold at most one id and that targets exist in the store.
func checkLinks(p schema.Provider, objects []ObjectSpec) error {
	ids := make(map[string]bool, len(objects))
	for _, obj := range objects {
		ids[obj.ID] = true
	}
	for _, obj := range objects {
		for rel, targets := range obj.Links {
			r, ok := schema.FindRelationship(p, obj.Entity, rel)
			if !ok {
				return fmt.Errorf("object %s: %s has no relationship %q", obj.ID, obj.Entity, rel)
			}
			if !r.ToMany && len(targets) > 1 {
				return fmt.Errorf("object %s: to-one relationship %s has %d targets", obj.ID, rel, len(targets))
			}
			for _, to := range targets {
				if !ids[to] {
					return fmt.Errorf("object %s: %s links to missing object %q", obj.ID, rel, to)
				}
			}
		}
	}
	return nil
}

// PopulateMemory builds an in-memory store from objects.
func PopulateMemory(p schema.Provider, name string, objects []ObjectSpec) (*object.Memory, error) {
	if err := checkLinks(p, objects); err != nil {
		return nil, err
	}

	mem := object.NewMemory(name)
	for _, obj := range objects {
		values, err := TypedValues(p, obj)
		if err != nil {
			return nil, err
		}
		links := make(map[string][]string, len(obj.Links))
		for rel, targets := range obj.Links {
			links[rel] = append([]string(nil), targets...)
		}
		mem.Put(object.Instance{ID: obj.ID, Entity: obj.Entity, Values: values, Links: links})
	}
	return mem, nil
}

// PopulateStore writes objects and their links into a SQLite snapshot.
// Objects are written first so every link target exists.
func PopulateStore(ctx context.Context, p schema.Provider, st *store.Store, objects []ObjectSpec) error {
	if err := checkLinks(p, objects); err != nil {
		return err
	}

	for _, obj := range objects {
		values, err := TypedValues(p, obj)
		if err != nil {
			return err
		}
		if _, err := st.WriteObject(ctx, store.Object{ID: obj.ID, Entity: obj.Entity, Values: values}); err != nil {
			return err
		}
	}
	for _, obj := range objects {
		for _, rel := range slices.Sorted(maps.Keys(obj.Links)) {
			for _, to := range obj.Links[rel] {
				if err := st.WriteLink(ctx, obj.ID, rel, to); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
