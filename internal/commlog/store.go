// Package commlog persists one audit record per dispatch attempt. The
// dispatcher only ever appends; status updates come from later polling
// elsewhere in the application.
package commlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Statuses a log entry can carry.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// PgxPool is the subset of pgxpool.Pool the store depends on.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Entry is one communication attempt.
type Entry struct {
	ID           uuid.UUID      `json:"id"`
	PracticeID   string         `json:"practice_id,omitempty"`
	Type         string         `json:"type"`
	Recipient    string         `json:"recipient"`
	Subject      string         `json:"subject,omitempty"`
	Message      string         `json:"message"`
	TemplateID   string         `json:"template_id,omitempty"`
	Status       string         `json:"status"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListFilter narrows a tenant-scoped history query.
type ListFilter struct {
	Channel string
	Status  string
	Limit   int
}

// Store writes and reads communication_logs via pgx.
type Store struct {
	pool PgxPool
}

// NewStore returns nil when no pool is supplied, which disables persistence.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Insert appends one entry and returns its id.
func (s *Store) Insert(ctx context.Context, e Entry) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return uuid.Nil, fmt.Errorf("commlog: marshal metadata: %w", err)
	}
	query := `
		INSERT INTO communication_logs (
			id, practice_id, type, recipient, subject, message,
			template_id, status, sent_at, error_message, metadata
		)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)
		RETURNING id
	`
	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, query, e.ID, e.PracticeID, e.Type, e.Recipient, e.Subject, e.Message, e.TemplateID, e.Status, e.SentAt, e.ErrorMessage, metadata).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("commlog: insert entry: %w", err)
	}
	return id, nil
}

// UpdateStatus moves an entry to a new status, stamping sent_at when the
// entry becomes sent. Used by status polling to resolve pending voice calls.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string, sentAt *time.Time) error {
	query := `
		UPDATE communication_logs
		SET status = $2,
			sent_at = COALESCE($3, sent_at)
		WHERE id = $1
	`
	if _, err := s.pool.Exec(ctx, query, id, status, sentAt); err != nil {
		return fmt.Errorf("commlog: update status: %w", err)
	}
	return nil
}

// List returns a practice's history, newest first.
func (s *Store) List(ctx context.Context, practiceID string, f ListFilter) ([]Entry, error) {
	if practiceID == "" {
		return nil, errors.New("commlog: practice id required")
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, COALESCE(practice_id::text, ''), type, recipient, COALESCE(subject, ''),
			message, COALESCE(template_id, ''), status, sent_at, COALESCE(error_message, ''),
			metadata, created_at
		FROM communication_logs
		WHERE practice_id = $1::uuid
			AND ($2 = '' OR type = $2)
			AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := s.pool.Query(ctx, query, practiceID, f.Channel, f.Status, limit)
	if err != nil {
		return nil, fmt.Errorf("commlog: list entries: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.PracticeID, &e.Type, &e.Recipient, &e.Subject, &e.Message, &e.TemplateID, &e.Status, &e.SentAt, &e.ErrorMessage, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("commlog: scan entry: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("commlog: decode metadata: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
