package store

import (
	"context"
	"fmt"

	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
)

// Object is one stored instance with its attribute values.
type Object struct {
	ID     string
	Entity string
	Values ir.Object
}

// WriteObject inserts or replaces an object and its attribute values.
// An empty ID is filled from the store's IDGenerator. Values are written in
// canonical key order inside one transaction.
func (s *Store) WriteObject(ctx context.Context, obj Object) (object.Ref, error) {
	if obj.Entity == "" {
		return object.Ref{}, fmt.Errorf("write object: entity is required")
	}
	if obj.ID == "" {
		obj.ID = s.ids.Generate()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return object.Ref{}, fmt.Errorf("write object: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO objects (id, entity) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET entity = excluded.entity
	`, obj.ID, obj.Entity)
	if err != nil {
		return object.Ref{}, fmt.Errorf("write object %s: %w", obj.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attributes WHERE object_id = ?`, obj.ID); err != nil {
		return object.Ref{}, fmt.Errorf("write object %s: clear attributes: %w", obj.ID, err)
	}

	for _, name := range obj.Values.SortedKeys() {
		kind, text, err := encodeValue(obj.Values[name])
		if err != nil {
			return object.Ref{}, fmt.Errorf("write object %s: attribute %s: %w", obj.ID, name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attributes (object_id, name, kind, value) VALUES (?, ?, ?, ?)
		`, obj.ID, name, kind, text)
		if err != nil {
			return object.Ref{}, fmt.Errorf("write object %s: attribute %s: %w", obj.ID, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return object.Ref{}, fmt.Errorf("write object %s: commit: %w", obj.ID, err)
	}
	return s.Ref(obj.ID), nil
}

// WriteLink records that from relates to to through relationship.
// Storing the same edge twice is a no-op. Both objects must exist.
func (s *Store) WriteLink(ctx context.Context, from, relationship, to string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (from_id, relationship, to_id) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, from, relationship, to)
	if err != nil {
		return fmt.Errorf("write link %s.%s -> %s: %w", from, relationship, to, err)
	}
	return nil
}

// metaSchemaHash is the meta key holding the schema hash.
const metaSchemaHash = "schema_hash"

// SetSchemaHash records the hash of the schema the snapshot was written under.
func (s *Store) SetSchemaHash(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaSchemaHash, hash)
	if err != nil {
		return fmt.Errorf("set schema hash: %w", err)
	}
	return nil
}
