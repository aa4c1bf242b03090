package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed history store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the reputation_history table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reputation_history (
			id         BIGSERIAL PRIMARY KEY,
			address    VARCHAR(44) NOT NULL,
			score      NUMERIC(6,2) NOT NULL CHECK (score >= 0 AND score <= 1000),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_history_address
			ON reputation_history (address, created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_history_created_at
			ON reputation_history (created_at);
	`)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reputation_history (address, score, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, e.Address, e.Score, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) QueryRange(ctx context.Context, from time.Time) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, score, created_at
		FROM reputation_history
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query history range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

func (s *PostgresStore) QueryWallet(ctx context.Context, address string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, score, created_at
		FROM reputation_history
		WHERE address = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// TrendsSince aggregates day buckets in SQL instead of loading every
// row. Produces the same shape as AggregateTrends over QueryRange.
func (s *PostgresStore) TrendsSince(ctx context.Context, from time.Time) ([]TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       ROUND(AVG(score), 2),
		       COUNT(*)
		FROM reputation_history
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`, from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.AverageScore, &p.WalletCount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var out []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Address, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
