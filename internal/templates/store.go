package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// PgxPool is the subset of pgxpool.Pool the store depends on.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store resolves templates with persisted-first precedence: the Postgres table
// wins over the compiled-in builtin set, so operators can override shipped
// templates without a code change. A Redis read-through cache sits in front of
// the table; cache failures degrade to direct reads.
type Store struct {
	pool     PgxPool
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logging.Logger
}

// NewStore builds a template store. pool may be nil (builtin-only resolution,
// useful on a fresh deployment); cache may be nil (no caching).
func NewStore(pool PgxPool, cache *redis.Client, cacheTTL time.Duration, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Store{pool: pool, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Get resolves a template by (id, channel). Resolution order: cache, Postgres,
// builtin fallback. Returns ErrNotFound when nothing matches.
func (s *Store) Get(ctx context.Context, id, channel string) (Template, error) {
	if t, ok := s.cacheGet(ctx, id, channel); ok {
		return t, nil
	}

	if s.pool != nil {
		t, err := s.getPersisted(ctx, id, channel)
		if err == nil {
			s.cacheSet(ctx, t)
			return t, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Template{}, err
		}
	}

	if t, ok := BuiltinTemplate(id, channel); ok {
		return t, nil
	}
	return Template{}, fmt.Errorf("%w: %s/%s", ErrNotFound, id, channel)
}

func (s *Store) getPersisted(ctx context.Context, id, channel string) (Template, error) {
	query := `
		SELECT id, channel, COALESCE(subject, ''), content, COALESCE(variables, '[]'::jsonb)
		FROM message_templates
		WHERE id = $1 AND channel = $2
		LIMIT 1
	`
	var t Template
	var variables []byte
	if err := s.pool.QueryRow(ctx, query, id, channel).Scan(&t.ID, &t.Channel, &t.Subject, &t.Content, &variables); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, fmt.Errorf("templates: query template: %w", err)
	}
	if err := json.Unmarshal(variables, &t.Variables); err != nil {
		return Template{}, fmt.Errorf("templates: decode variables: %w", err)
	}
	return t, nil
}

// List returns all persisted templates for a channel, or every channel when
// channel is empty. Builtins are not included; they only back Get misses.
func (s *Store) List(ctx context.Context, channel string) ([]Template, error) {
	if s.pool == nil {
		return nil, nil
	}
	query := `
		SELECT id, channel, COALESCE(subject, ''), content, COALESCE(variables, '[]'::jsonb)
		FROM message_templates
		WHERE ($1 = '' OR channel = $1)
		ORDER BY id, channel
	`
	rows, err := s.pool.Query(ctx, query, channel)
	if err != nil {
		return nil, fmt.Errorf("templates: list templates: %w", err)
	}
	defer rows.Close()
	var out []Template
	for rows.Next() {
		var t Template
		var variables []byte
		if err := rows.Scan(&t.ID, &t.Channel, &t.Subject, &t.Content, &variables); err != nil {
			return nil, fmt.Errorf("templates: scan template: %w", err)
		}
		if err := json.Unmarshal(variables, &t.Variables); err != nil {
			return nil, fmt.Errorf("templates: decode variables: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func cacheKey(id, channel string) string {
	return "tmpl:" + channel + ":" + id
}

func (s *Store) cacheGet(ctx context.Context, id, channel string) (Template, bool) {
	if s.cache == nil {
		return Template{}, false
	}
	data, err := s.cache.Get(ctx, cacheKey(id, channel)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("template cache read failed", "error", err)
		}
		return Template{}, false
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		s.logger.Warn("template cache entry corrupt", "error", err)
		return Template{}, false
	}
	return t, true
}

func (s *Store) cacheSet(ctx context.Context, t Template) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(t.ID, t.Channel), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("template cache write failed", "error", err)
	}
}
