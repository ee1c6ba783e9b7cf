package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// PostgresStore keeps the latest analysis in a single-row table so the
// result survives restarts.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS latest_analysis (
  id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  payload JSONB NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Save(ctx context.Context, result *t.AnalysisResponse) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO latest_analysis (id, payload, updated_at)
VALUES (1, $1, NOW())
ON CONFLICT (id)
DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`, b)
	return err
}

func (s *PostgresStore) Load(ctx context.Context) (*t.AnalysisResponse, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM latest_analysis WHERE id = 1`).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var out t.AnalysisResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &out, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM latest_analysis WHERE id = 1`)
	return err
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
