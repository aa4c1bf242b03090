package insights

import (
	"context"
	"fmt"

	"github.com/sorelhq/sorel/internal/logging"
	"github.com/sorelhq/sorel/internal/metrics"
	"github.com/sorelhq/sorel/internal/reputation"
	"github.com/sorelhq/sorel/internal/traces"
)

// Service generates wallet insights from stored reputation records.
type Service struct {
	client ChatClient
	model  string
}

// NewService creates an insights service. client may be nil when
// insights are not configured; GenerateInsights then always returns
// ErrAIUnavailable.
func NewService(client ChatClient, model string) *Service {
	return &Service{client: client, model: model}
}

// Enabled reports whether a chat client is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// GenerateInsights asks the model to analyze a wallet record and
// returns the validated result.
func (s *Service) GenerateInsights(ctx context.Context, rec *reputation.Record) (*WalletInsights, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}

	ctx, span := traces.StartSpan(ctx, "insights.Generate",
		traces.WalletAddr(rec.Address), traces.Model(s.model))
	defer span.End()

	raw, err := s.client.Complete(ctx, buildPrompt(rec))
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("error").Inc()
		logging.L(ctx).Error("llm completion failed", "address", rec.Address, "error", err)
		return nil, ErrAIUnavailable
	}

	parsed, err := ParseInsights(raw)
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("malformed").Inc()
		logging.L(ctx).Warn("llm returned malformed insights", "address", rec.Address)
		return nil, ErrAIUnavailable
	}

	metrics.LLMCallsTotal.WithLabelValues("ok").Inc()
	return parsed, nil
}

func buildPrompt(rec *reputation.Record) string {
	return fmt.Sprintf(`You are a blockchain analyst. Analyze this Solana wallet:

Wallet: %s
Reputation Score: %.2f/1000 (%s)
Transactions: %d
Volume: %.2f SOL
Wallet Age: %d days
Activity Frequency: %.2f tx/day
Contract Interactions: %d
Unique Programs: %d

Respond ONLY with valid JSON in exactly this shape, no other text:
{
  "summary": "2-3 sentence overview of this wallet's on-chain behavior",
  "risk_level": "low|medium|high",
  "observations": ["notable pattern 1", "notable pattern 2"],
  "recommendations": ["actionable suggestion 1", "actionable suggestion 2"]
}`,
		rec.Address,
		rec.Score,
		rec.Label,
		rec.Metrics.TransactionCount,
		rec.Metrics.TotalVolume,
		rec.Metrics.WalletAgeDays,
		rec.Metrics.ActivityFrequency,
		rec.Metrics.ContractInteractions,
		rec.Metrics.UniquePrograms,
	)
}
