package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// llmLogRepo implements LLMLogRepo on the llm_requests table.
type llmLogRepo struct {
	db *sql.DB
}

func (r *llmLogRepo) Append(ctx context.Context, data LLMRequestData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_requests (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage,
		data.RequestBody, data.ResponseBody,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append LLM request: %w", err)
	}
	return nil
}

func (r *llmLogRepo) Recent(ctx context.Context, limit int) ([]*LLMRequest, error) {
	q := `
		SELECT id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at
		FROM llm_requests
		ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list LLM requests: %w", err)
	}
	defer rows.Close()

	var out []*LLMRequest
	for rows.Next() {
		req, err := scanLLMRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list LLM requests: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list LLM requests: %w", err)
	}
	return out, nil
}

func (r *llmLogRepo) Get(ctx context.Context, id int64) (*LLMRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at
		FROM llm_requests WHERE id = ?
	`, id)

	req, err := scanLLMRequest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("LLM request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load LLM request %d: %w", id, err)
	}
	return req, nil
}

func (r *llmLogRepo) UsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens), CAST(AVG(latency_ms) AS INTEGER)
		FROM llm_requests
		GROUP BY purpose
		ORDER BY purpose
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMPurposeUsage
	for rows.Next() {
		var u LLMPurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("aggregate LLM usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate LLM usage: %w", err)
	}
	return out, nil
}

func (r *llmLogRepo) UsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		FROM llm_requests
		GROUP BY model
		ORDER BY model
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("aggregate LLM usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate LLM usage: %w", err)
	}
	return out, nil
}

func scanLLMRequest(scan func(dest ...any) error) (*LLMRequest, error) {
	var req LLMRequest
	var success int
	var created string
	err := scan(&req.ID, &req.Provider, &req.Model, &req.Purpose,
		&req.InputTokens, &req.OutputTokens, &req.LatencyMs,
		&success, &req.ErrorMessage, &req.RequestBody, &req.ResponseBody, &created)
	if err != nil {
		return nil, err
	}
	req.Success = success != 0
	if req.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &req, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
