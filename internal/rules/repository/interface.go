package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeRecord is one immutable entry in the rules change history.
// Records are append-only and never mutated or deleted.
type ChangeRecord struct {
	ID          uuid.UUID
	Section     string
	OldValue    json.RawMessage
	NewValue    json.RawMessage
	Description string
	CreatedAt   time.Time
}

// AppendChangeParams contains parameters for appending one change record.
type AppendChangeParams struct {
	Section     string
	OldValue    json.RawMessage
	NewValue    json.RawMessage
	Description string
}

// ConfigStore provides persistence for the single active rules override.
type ConfigStore interface {
	// GetConfig returns the stored override document, or apperr.NotFound
	// when no override is active.
	GetConfig(ctx context.Context) ([]byte, error)
	// UpsertConfig replaces the active override. There is at most one
	// override at a time.
	UpsertConfig(ctx context.Context, payload []byte) error
	// DeleteConfig removes the active override entirely.
	DeleteConfig(ctx context.Context) error
}

// HistoryStore provides the append-only change history.
type HistoryStore interface {
	AppendChange(ctx context.Context, params AppendChangeParams) error
	// ListChanges returns records most-recent-first, capped at limit.
	ListChanges(ctx context.Context, limit int) ([]ChangeRecord, error)
}

// Repository combines all rules repository operations.
type Repository interface {
	ConfigStore
	HistoryStore
}
