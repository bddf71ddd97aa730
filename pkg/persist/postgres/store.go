// Package postgres provides PostgreSQL storage for persisted client state.
// It backs pkg/persist with a key-value table so a session can survive
// across hosts (kiosk and thin-client deployments share one record).
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq" // postgres driver

	"github.com/Aditya3403/feedbackcentral/pkg/persist"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements persist.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL persist store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL with the given DSN and runs pending
// migrations before returning a Store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// Load returns the record stored under key, or persist.ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psq.
		Select("data").
		From("client_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building load query: %w", err)
	}

	var data []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persist.ErrNotFound
		}
		return nil, fmt.Errorf("loading record: %w", err)
	}
	return data, nil
}

// Save upserts the record under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	query, args, err := psq.
		Insert("client_state").
		Columns("key", "data", "updated_at").
		Values(key, data, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building save query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Delete removes the record under key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := psq.
		Delete("client_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Verify interface compliance.
var _ persist.Store = (*Store)(nil)
