// Package insights generates natural-language wallet analysis through
// an LLM, behind a strict schema boundary: the model's output is parsed
// and validated before anything downstream sees it. A response that
// doesn't conform is an error, never a passthrough.
package insights

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrAIUnavailable is returned when the model cannot be reached or its
// output fails schema validation. Callers map it to a 503.
var ErrAIUnavailable = errors.New("ai insights unavailable")

// RiskLevel is the model's risk classification, normalized to lowercase.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// WalletInsights is the validated result of an LLM analysis.
type WalletInsights struct {
	Summary         string    `json:"summary"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Observations    []string  `json:"observations"`
	Recommendations []string  `json:"recommendations"`
}

// ParseInsights validates raw model output against the insights schema.
// Markdown code fences around the JSON are tolerated since models add
// them regardless of instructions; everything else is strict: missing
// summary, unknown risk level, or unparseable JSON all return
// ErrAIUnavailable.
func ParseInsights(raw string) (*WalletInsights, error) {
	cleaned := stripFences(raw)

	// Models sometimes prepend prose; take the outermost JSON object.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, ErrAIUnavailable
	}
	cleaned = cleaned[start : end+1]

	var out WalletInsights
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, ErrAIUnavailable
	}

	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return nil, ErrAIUnavailable
	}

	switch RiskLevel(strings.ToLower(string(out.RiskLevel))) {
	case RiskLow:
		out.RiskLevel = RiskLow
	case RiskMedium:
		out.RiskLevel = RiskMedium
	case RiskHigh:
		out.RiskLevel = RiskHigh
	default:
		return nil, ErrAIUnavailable
	}

	if out.Observations == nil {
		out.Observations = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return &out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
