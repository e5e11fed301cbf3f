package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
)

// Ref returns the Ref for id in this snapshot.
func (s *Store) Ref(id string) object.Ref {
	return object.Ref{Store: s.name, ID: id}
}

// SchemaHash returns the recorded schema hash. ok is false if none was set.
func (s *Store) SchemaHash(ctx context.Context) (hash string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaSchemaHash).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read schema hash: %w", err)
	}
	return hash, true, nil
}

// ListObjects returns refs of every object of entity, in write order.
// An empty entity lists every object.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListObjects(ctx context.Context, entity string) ([]object.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM objects
		WHERE ? = '' OR entity = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, entity, entity)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	refs := []object.Ref{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		refs = append(refs, s.Ref(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return refs, nil
}

// ReadObject returns an object with all its stored attribute values.
func (s *Store) ReadObject(ctx context.Context, id string) (Object, error) {
	entity, err := s.EntityOf(ctx, s.Ref(id))
	if err != nil {
		return Object{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, value FROM attributes
		WHERE object_id = ?
		ORDER BY name COLLATE BINARY ASC
	`, id)
	if err != nil {
		return Object{}, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	obj := Object{ID: id, Entity: entity, Values: ir.Object{}}
	for rows.Next() {
		var name, kind, text string
		if err := rows.Scan(&name, &kind, &text); err != nil {
			return Object{}, fmt.Errorf("scan attribute: %w", err)
		}
		v, err := decodeValue(kind, text)
		if err != nil {
			return Object{}, fmt.Errorf("object %s attribute %s: %w", id, name, err)
		}
		obj.Values[name] = v
	}
	if err := rows.Err(); err != nil {
		return Object{}, fmt.Errorf("iterate attributes: %w", err)
	}
	return obj, nil
}

func (s *Store) checkRef(ref object.Ref) error {
	if ref.Store != s.name {
		return fmt.Errorf("%w: %q (snapshot is %q)", object.ErrUnknownStore, ref.Store, s.name)
	}
	return nil
}

// EntityOf implements object.Accessor.
func (s *Store) EntityOf(ctx context.Context, ref object.Ref) (string, error) {
	if err := s.checkRef(ref); err != nil {
		return "", err
	}
	var entity string
	err := s.db.QueryRowContext(ctx, `SELECT entity FROM objects WHERE id = ?`, ref.ID).Scan(&entity)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", object.ErrNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("read entity of %s: %w", ref, err)
	}
	return entity, nil
}

// Value implements object.Accessor. An attribute with no row is ir.Null{}.
func (s *Store) Value(ctx context.Context, ref object.Ref, attr string) (ir.Value, error) {
	if err := s.checkRef(ref); err != nil {
		return nil, err
	}
	var kind, text sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT a.kind, a.value
		FROM objects o
		LEFT JOIN attributes a ON a.object_id = o.id AND a.name = ?
		WHERE o.id = ?
	`, attr, ref.ID).Scan(&kind, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s of %s: %w", attr, ref, err)
	}
	if !kind.Valid {
		return ir.Null{}, nil
	}
	v, err := decodeValue(kind.String, text.String)
	if err != nil {
		return nil, fmt.Errorf("read %s of %s: %w", attr, ref, err)
	}
	return v, nil
}

// ToOne implements object.Accessor. The earliest stored link wins if a
// to-one relationship was written more than once.
func (s *Store) ToOne(ctx context.Context, ref object.Ref, rel string) (object.Ref, bool, error) {
	related, err := s.ToMany(ctx, ref, rel)
	if err != nil {
		return object.Ref{}, false, err
	}
	if len(related) == 0 {
		return object.Ref{}, false, nil
	}
	return related[0], true, nil
}

// ToMany implements object.Accessor.
func (s *Store) ToMany(ctx context.Context, ref object.Ref, rel string) ([]object.Ref, error) {
	if err := s.checkRef(ref); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_id FROM links
		WHERE from_id = ? AND relationship = ?
		ORDER BY seq ASC, to_id COLLATE BINARY ASC
	`, ref.ID, rel)
	if err != nil {
		return nil, fmt.Errorf("query %s of %s: %w", rel, ref, err)
	}
	defer rows.Close()

	related := []object.Ref{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		related = append(related, s.Ref(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	if len(related) == 0 {
		// An unknown object has no links either; tell the two apart.
		if _, err := s.EntityOf(ctx, ref); err != nil {
			return nil, err
		}
	}
	return related, nil
}
