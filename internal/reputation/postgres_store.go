package reputation

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// PostgresWalletStore implements WalletStore backed by PostgreSQL.
type PostgresWalletStore struct {
	db *sql.DB
}

// NewPostgresWalletStore creates a PostgreSQL-backed wallet store.
func NewPostgresWalletStore(db *sql.DB) *PostgresWalletStore {
	return &PostgresWalletStore{db: db}
}

// Migrate creates the wallets table if it doesn't exist.
func (s *PostgresWalletStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS wallets (
			address               VARCHAR(44) PRIMARY KEY,
			reputation_score      NUMERIC(6,2) NOT NULL CHECK (reputation_score >= 0 AND reputation_score <= 1000),
			label                 VARCHAR(16) NOT NULL,
			transaction_count     INTEGER NOT NULL DEFAULT 0,
			total_volume          DOUBLE PRECISION NOT NULL DEFAULT 0,
			contract_interactions INTEGER NOT NULL DEFAULT 0,
			wallet_age_days       INTEGER NOT NULL DEFAULT 0,
			activity_frequency    DOUBLE PRECISION NOT NULL DEFAULT 0,
			unique_programs       INTEGER NOT NULL DEFAULT 0,
			analyzed_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_wallets_score
			ON wallets (reputation_score DESC, address ASC);

		CREATE INDEX IF NOT EXISTS idx_wallets_analyzed_at
			ON wallets (analyzed_at DESC);
	`)
	return err
}

func (s *PostgresWalletStore) Upsert(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets
			(address, reputation_score, label, transaction_count, total_volume,
			 contract_interactions, wallet_age_days, activity_frequency, unique_programs, analyzed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (address) DO UPDATE SET
			reputation_score      = EXCLUDED.reputation_score,
			label                 = EXCLUDED.label,
			transaction_count     = EXCLUDED.transaction_count,
			total_volume          = EXCLUDED.total_volume,
			contract_interactions = EXCLUDED.contract_interactions,
			wallet_age_days       = EXCLUDED.wallet_age_days,
			activity_frequency    = EXCLUDED.activity_frequency,
			unique_programs       = EXCLUDED.unique_programs,
			analyzed_at           = EXCLUDED.analyzed_at
	`,
		rec.Address,
		rec.Score,
		rec.Label,
		rec.Metrics.TransactionCount,
		rec.Metrics.TotalVolume,
		rec.Metrics.ContractInteractions,
		rec.Metrics.WalletAgeDays,
		rec.Metrics.ActivityFrequency,
		rec.Metrics.UniquePrograms,
		rec.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert wallet: %w", err)
	}
	return nil
}

func (s *PostgresWalletStore) Get(ctx context.Context, address string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT address, reputation_score, label, transaction_count, total_volume,
		       contract_interactions, wallet_age_days, activity_frequency, unique_programs, analyzed_at
		FROM wallets
		WHERE address = $1
	`, address)

	rec, err := scanWallet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return rec, nil
}

func (s *PostgresWalletStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, reputation_score, label, transaction_count, total_volume,
		       contract_interactions, wallet_age_days, activity_frequency, unique_programs, analyzed_at
		FROM wallets
		ORDER BY reputation_score DESC, address ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Record
	for rows.Next() {
		rec, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresWalletStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wallets`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}
	return n, nil
}

func (s *PostgresWalletStore) Stats(ctx context.Context, now time.Time) (*PlatformStats, error) {
	stats := &PlatformStats{}
	var avg sql.NullFloat64
	var totalTx sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       AVG(reputation_score),
		       SUM(transaction_count),
		       COUNT(*) FILTER (WHERE analyzed_at > $1)
		FROM wallets
	`, now.Add(-24*time.Hour)).Scan(
		&stats.TotalWalletsAnalyzed,
		&avg,
		&totalTx,
		&stats.ActiveWallets24h,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute platform stats: %w", err)
	}

	if avg.Valid {
		stats.AverageReputation = math.Round(avg.Float64*100) / 100
	}
	if totalTx.Valid {
		stats.TotalTransactions = totalTx.Int64
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(row rowScanner) (*Record, error) {
	rec := &Record{}
	err := row.Scan(
		&rec.Address,
		&rec.Score,
		&rec.Label,
		&rec.Metrics.TransactionCount,
		&rec.Metrics.TotalVolume,
		&rec.Metrics.ContractInteractions,
		&rec.Metrics.WalletAgeDays,
		&rec.Metrics.ActivityFrequency,
		&rec.Metrics.UniquePrograms,
		&rec.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Components = ComponentsFor(rec.Metrics)
	return rec, nil
}
