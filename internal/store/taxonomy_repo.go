package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// taxonomyRepo implements TaxonomyRepo on raw SQL. Taxonomies are stored as
// JSON documents with the identifying columns denormalized for listing and
// preset checks.
type taxonomyRepo struct {
	db *sql.DB
}

func (r *taxonomyRepo) Load(ctx context.Context, id string) (*taxonomy.Taxonomy, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM taxonomies WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("taxonomy %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %q: %w", id, err)
	}
	return decodeTaxonomy([]byte(data))
}

func (r *taxonomyRepo) Save(ctx context.Context, t *taxonomy.Taxonomy) error {
	if t == nil {
		return errors.New("save taxonomy: nil taxonomy")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Preset || taxonomy.IsPreset(t.ID) {
		return fmt.Errorf("save taxonomy %q: %w", t.ID, ErrPreset)
	}

	// Validation runs before the write so a broken taxonomy never lands in
	// the database.
	valid, err := taxonomy.New(*t)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(valid)
	if err != nil {
		return fmt.Errorf("encode taxonomy %q: %w", valid.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO taxonomies (id, name, is_preset, data, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, valid.ID, valid.Name, string(blob), now, now)
	if err != nil {
		return fmt.Errorf("save taxonomy %q: %w", valid.ID, err)
	}
	return nil
}

func (r *taxonomyRepo) Delete(ctx context.Context, id string) error {
	if taxonomy.IsPreset(id) {
		return fmt.Errorf("delete taxonomy %q: %w", id, ErrPreset)
	}

	var preset int
	err := r.db.QueryRowContext(ctx, "SELECT is_preset FROM taxonomies WHERE id = ?", id).Scan(&preset)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("taxonomy %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete taxonomy %q: %w", id, err)
	}
	if preset != 0 {
		return fmt.Errorf("delete taxonomy %q: %w", id, ErrPreset)
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM taxonomies WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete taxonomy %q: %w", id, err)
	}
	return nil
}

func (r *taxonomyRepo) ListAll(ctx context.Context) ([]*taxonomy.Taxonomy, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT data FROM taxonomies ORDER BY is_preset DESC, name COLLATE NOCASE, id")
	if err != nil {
		return nil, fmt.Errorf("list taxonomies: %w", err)
	}
	defer rows.Close()

	var out []*taxonomy.Taxonomy
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list taxonomies: %w", err)
		}
		t, err := decodeTaxonomy([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list taxonomies: %w", err)
	}
	return out, nil
}

func (r *taxonomyRepo) Duplicate(ctx context.Context, id, name string) (*taxonomy.Taxonomy, error) {
	src, err := r.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := src.Clone()
	dup.ID = uuid.NewString()
	for i := range dup.Levels {
		dup.Levels[i].ID = uuid.NewString()
	}
	dup.Preset = false
	if name == "" {
		name = src.Name + " (copy)"
	}
	dup.Name = name

	if err := r.Save(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (r *taxonomyRepo) GetDefault(ctx context.Context) (*taxonomy.Taxonomy, error) {
	t, err := r.Load(ctx, taxonomy.DefaultID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// The default row has gone missing; reseed it from the shipped
	// definition.
	def := taxonomy.Default()
	blob, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encode default taxonomy: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO taxonomies (id, name, is_preset, data, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
	`, def.ID, def.Name, string(blob), now, now)
	if err != nil {
		return nil, fmt.Errorf("reseed default taxonomy: %w", err)
	}
	return def, nil
}

// decodeTaxonomy revalidates a stored document. Rows are validated on save,
// so a failure here means the database was edited by hand.
func decodeTaxonomy(raw []byte) (*taxonomy.Taxonomy, error) {
	var t taxonomy.Taxonomy
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode stored taxonomy: %w", err)
	}
	return taxonomy.New(t)
}
