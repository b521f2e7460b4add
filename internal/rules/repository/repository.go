package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadquote_backend/platform/apperr"
)

// activeConfigName keys the single active override row.
const activeConfigName = "active"

const configNotFoundMessage = "rules configuration override not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rules repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetConfig retrieves the active override document.
func (r *Repo) GetConfig(ctx context.Context) ([]byte, error) {
	query := `
		SELECT config
		FROM estimation_rules
		WHERE name = $1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, activeConfigName).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(configNotFoundMessage)
		}
		return nil, fmt.Errorf("get rules config: %w", err)
	}

	return payload, nil
}

// UpsertConfig stores the full configuration as the single active override.
func (r *Repo) UpsertConfig(ctx context.Context, payload []byte) error {
	query := `
		INSERT INTO estimation_rules (name, config, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET config = EXCLUDED.config, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, activeConfigName, payload); err != nil {
		return fmt.Errorf("upsert rules config: %w", err)
	}
	return nil
}

// DeleteConfig removes the active override, reverting loads to defaults.
func (r *Repo) DeleteConfig(ctx context.Context) error {
	query := `DELETE FROM estimation_rules WHERE name = $1`

	if _, err := r.pool.Exec(ctx, query, activeConfigName); err != nil {
		return fmt.Errorf("delete rules config: %w", err)
	}
	return nil
}

// AppendChange appends one change record to the history.
func (r *Repo) AppendChange(ctx context.Context, params AppendChangeParams) error {
	query := `
		INSERT INTO estimation_rules_history (id, section, old_value, new_value, description)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		uuid.New(),
		params.Section,
		params.OldValue,
		params.NewValue,
		params.Description,
	)
	if err != nil {
		return fmt.Errorf("append rules change: %w", err)
	}
	return nil
}

// ListChanges returns change records most-recent-first.
func (r *Repo) ListChanges(ctx context.Context, limit int) ([]ChangeRecord, error) {
	query := `
		SELECT id, section, old_value, new_value, description, created_at
		FROM estimation_rules_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list rules changes: %w", err)
	}
	defer rows.Close()

	var result []ChangeRecord
	for rows.Next() {
		var rec ChangeRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Section,
			&rec.OldValue,
			&rec.NewValue,
			&rec.Description,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rules change: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
