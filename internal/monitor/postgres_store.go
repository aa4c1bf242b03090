package monitor

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresCheckStore implements CheckStore backed by PostgreSQL.
type PostgresCheckStore struct {
	db *sql.DB
}

// NewPostgresCheckStore creates a PostgreSQL-backed check store.
func NewPostgresCheckStore(db *sql.DB) *PostgresCheckStore {
	return &PostgresCheckStore{db: db}
}

// Migrate creates the rpc_checks table if it doesn't exist.
func (s *PostgresCheckStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rpc_checks (
			id             BIGSERIAL PRIMARY KEY,
			status         VARCHAR(10) NOT NULL CHECK (status IN ('healthy', 'degraded', 'unhealthy')),
			rpc_url        TEXT NOT NULL,
			version_ms     DOUBLE PRECISION NOT NULL DEFAULT 0,
			slot_ms        DOUBLE PRECISION NOT NULL DEFAULT 0,
			epoch_ms       DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_ms       DOUBLE PRECISION NOT NULL DEFAULT 0,
			chain_version  TEXT NOT NULL DEFAULT '',
			chain_slot     BIGINT NOT NULL DEFAULT 0,
			chain_epoch    BIGINT NOT NULL DEFAULT 0,
			error          TEXT NOT NULL DEFAULT '',
			checked_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_rpc_checks_checked_at
			ON rpc_checks (checked_at DESC);
	`)
	return err
}

func (s *PostgresCheckStore) Save(ctx context.Context, result *CheckResult) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rpc_checks
			(status, rpc_url, version_ms, slot_ms, epoch_ms, total_ms,
			 chain_version, chain_slot, chain_epoch, error, checked_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		string(result.Status),
		result.RPCURL,
		result.ResponseTimes.GetVersion,
		result.ResponseTimes.GetSlot,
		result.ResponseTimes.GetEpochInfo,
		result.ResponseTimes.Total,
		result.Chain.Version,
		result.Chain.Slot,
		result.Chain.Epoch,
		result.Error,
		result.CheckedAt,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("failed to save rpc check: %w", err)
	}
	return nil
}

func (s *PostgresCheckStore) Recent(ctx context.Context, since time.Time) ([]*CheckResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, rpc_url, version_ms, slot_ms, epoch_ms, total_ms,
		       chain_version, chain_slot, chain_epoch, error, checked_at
		FROM rpc_checks
		WHERE checked_at >= $1
		ORDER BY checked_at DESC
		LIMIT 10000
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query rpc checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*CheckResult
	for rows.Next() {
		r := &CheckResult{}
		var status string
		if err := rows.Scan(&r.ID, &status, &r.RPCURL,
			&r.ResponseTimes.GetVersion, &r.ResponseTimes.GetSlot,
			&r.ResponseTimes.GetEpochInfo, &r.ResponseTimes.Total,
			&r.Chain.Version, &r.Chain.Slot, &r.Chain.Epoch,
			&r.Error, &r.CheckedAt); err != nil {
			return nil, err
		}
		r.Status = Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
