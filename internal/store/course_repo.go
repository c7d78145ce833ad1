package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/coursecheck/internal/course"
)

// courseRepo implements CourseRepo. Course documents are stored as JSON with
// summary columns maintained on every save.
type courseRepo struct {
	db *sql.DB
}

func (r *courseRepo) Save(ctx context.Context, c *course.Course) error {
	if c == nil {
		return errors.New("save course: nil course")
	}
	if c.ID == "" {
		return errors.New("save course: empty course ID")
	}

	blob, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode course %q: %w", c.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, module_count, activity_count, duration_minutes, data, imported_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			module_count = excluded.module_count,
			activity_count = excluded.activity_count,
			duration_minutes = excluded.duration_minutes,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, c.ID, c.Title, len(c.Modules), c.ActivityCount(), c.TotalDurationMinutes(), string(blob), now, now)
	if err != nil {
		return fmt.Errorf("save course %q: %w", c.ID, err)
	}
	return nil
}

func (r *courseRepo) Load(ctx context.Context, id string) (*course.Course, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM courses WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load course %q: %w", id, err)
	}

	var c course.Course
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("decode stored course %q: %w", id, err)
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context) ([]CourseSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, module_count, activity_count, duration_minutes, imported_at, updated_at
		FROM courses
		ORDER BY title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []CourseSummary
	for rows.Next() {
		var s CourseSummary
		var imported, updated string
		if err := rows.Scan(&s.ID, &s.Title, &s.Modules, &s.Activities, &s.DurationMinutes, &imported, &updated); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		if s.ImportedAt, err = parseTime(imported); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		if s.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete course %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("course %q: %w", id, ErrNotFound)
	}
	return nil
}

// parseTime decodes the RFC 3339 timestamps this package writes.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}
