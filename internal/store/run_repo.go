package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/coursecheck/internal/audit"
)

// runRepo implements RunRepo. Each row carries the severity tally for fast
// history listings plus the full result document for drill-down.
type runRepo struct {
	db *sql.DB
}

func (r *runRepo) Append(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("append run: nil run")
	}
	if run.Result == nil {
		return errors.New("append run: nil result")
	}

	blob, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode audit result: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_runs (course_id, course_title, taxonomy_id, taxonomy_name, score, errors, warnings, infos, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.CourseID, run.CourseTitle, run.TaxonomyID, run.TaxonomyName,
		run.Score, run.Errors, run.Warnings, run.Infos,
		string(blob), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append audit run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append audit run: %w", err)
	}
	run.ID = id
	run.CreatedAt = now
	return nil
}

func (r *runRepo) Recent(ctx context.Context, limit int) ([]*Run, error) {
	return r.query(ctx, "", limit)
}

func (r *runRepo) ForCourse(ctx context.Context, courseID string, limit int) ([]*Run, error) {
	return r.query(ctx, courseID, limit)
}

func (r *runRepo) Get(ctx context.Context, id int64) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, course_id, course_title, taxonomy_id, taxonomy_name, score, errors, warnings, infos, result, created_at
		FROM audit_runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("audit run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load audit run %d: %w", id, err)
	}
	return run, nil
}

// query lists runs newest first, optionally filtered by course.
func (r *runRepo) query(ctx context.Context, courseID string, limit int) ([]*Run, error) {
	q := `
		SELECT id, course_id, course_title, taxonomy_id, taxonomy_name, score, errors, warnings, infos, result, created_at
		FROM audit_runs
	`
	var args []any
	if courseID != "" {
		q += " WHERE course_id = ?"
		args = append(args, courseID)
	}
	q += " ORDER BY id DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list audit runs: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit runs: %w", err)
	}
	return out, nil
}

// scanRun decodes one audit_runs row from any Scan-shaped source.
func scanRun(scan func(dest ...any) error) (*Run, error) {
	var run Run
	var result, created string
	err := scan(&run.ID, &run.CourseID, &run.CourseTitle, &run.TaxonomyID, &run.TaxonomyName,
		&run.Score, &run.Errors, &run.Warnings, &run.Infos, &result, &created)
	if err != nil {
		return nil, err
	}

	run.Result = &audit.Result{}
	if err := json.Unmarshal([]byte(result), run.Result); err != nil {
		return nil, fmt.Errorf("decode stored result: %w", err)
	}
	if run.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &run, nil
}
