package reputation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sorelhq/sorel/internal/history"
	"github.com/sorelhq/sorel/internal/logging"
	"github.com/sorelhq/sorel/internal/metrics"
	"github.com/sorelhq/sorel/internal/traces"
	"github.com/sorelhq/sorel/internal/validation"
)

// ErrInvalidAddress is returned when an address fails Solana address validation.
var ErrInvalidAddress = errors.New("invalid solana address")

// MetricsSource produces wallet metrics for an address.
// RemoteSource and SyntheticSource in the collector package implement it.
type MetricsSource interface {
	Collect(ctx context.Context, address string) (WalletMetrics, error)
}

// Notifier receives completed analyses. The realtime hub implements it
// to push events to WebSocket clients.
type Notifier interface {
	WalletAnalyzed(rec *Record)
}

// Service orchestrates the analyze flow: validate the address, collect
// metrics, score them, persist the record, and append to history.
type Service struct {
	calc     *Calculator
	source   MetricsSource
	wallets  WalletStore
	history  history.Store
	notifier Notifier
}

// NewService creates an analysis service. notifier may be nil.
func NewService(source MetricsSource, wallets WalletStore, hist history.Store, notifier Notifier) *Service {
	return &Service{
		calc:     NewCalculator(),
		source:   source,
		wallets:  wallets,
		history:  hist,
		notifier: notifier,
	}
}

// Analyze runs a full reputation analysis for one wallet.
//
// Re-analyzing a wallet replaces its stored record (the wallet table
// holds current state) but always appends to history (the log is
// append-only). The two writes are not transactional: a history append
// failure after a successful upsert is logged and surfaced, leaving
// the record in place.
func (s *Service) Analyze(ctx context.Context, address string) (*Record, error) {
	ctx, span := traces.StartSpan(ctx, "reputation.Analyze", traces.WalletAddr(address))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	address = validation.SanitizeAddress(address)
	if !validation.IsValidSolanaAddress(address) {
		metrics.AnalysesTotal.WithLabelValues("invalid_address").Inc()
		return nil, ErrInvalidAddress
	}

	m, err := s.source.Collect(ctx, address)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("collector_error").Inc()
		return nil, fmt.Errorf("failed to collect wallet metrics: %w", err)
	}

	rec := s.calc.Calculate(address, m)
	span.SetAttributes(traces.Score(rec.Score))
	metrics.ReputationScores.Observe(rec.Score)

	if err := s.wallets.Upsert(ctx, rec); err != nil {
		metrics.AnalysesTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to store wallet record: %w", err)
	}

	if err := s.history.Append(ctx, &history.Entry{
		Address:   rec.Address,
		Score:     rec.Score,
		CreatedAt: rec.AnalyzedAt,
	}); err != nil {
		metrics.AnalysesTotal.WithLabelValues("store_error").Inc()
		logging.L(ctx).Error("history append failed after wallet upsert",
			"address", rec.Address, "error", err)
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	logging.L(ctx).Info("wallet analyzed",
		"address", rec.Address, "score", rec.Score, "label", rec.Label)

	if s.notifier != nil {
		s.notifier.WalletAnalyzed(rec)
	}
	return rec, nil
}

// Get returns the stored record for a wallet, or (nil, nil) if the
// wallet has never been analyzed.
func (s *Service) Get(ctx context.Context, address string) (*Record, error) {
	return s.wallets.Get(ctx, address)
}

// Leaderboard ranks all stored wallets and returns the top entries.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	records, err := s.wallets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return Rank(records, limit), nil
}
