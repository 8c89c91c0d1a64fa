package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

const (
	StrategyLLM   = "llm"
	StrategyRules = "rules"
)

// Decision is the engine's verdict for one text, with the strategy that
// produced it.
type Decision struct {
	Type       domain.DocumentType
	Confidence float64
	Keywords   []string
	Strategy   string
}

// Engine composes the LLM arbiter with the rule-based fallback.
//
// Precedence is fixed: a confident arbiter verdict is authoritative and the
// rule engine never overrides it. Rules run only when the arbiter is
// disabled, errors out, or answers none / zero confidence.
type Engine struct {
	arbiter ports.Arbiter
	logger  *slog.Logger
}

func NewEngine(arbiter ports.Arbiter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{arbiter: arbiter, logger: logger}
}

func (e *Engine) Classify(ctx context.Context, text string) Decision {
	if e.arbiter != nil && e.arbiter.Enabled() {
		verdict, err := e.arbiter.Classify(ctx, text)
		switch {
		case err != nil:
			e.logger.Warn("llm classification failed, falling back to rules", "error", err)
		case verdict.DocumentType == "" || verdict.Confidence == 0:
			e.logger.Warn("llm returned no classification, falling back to rules")
		default:
			e.logger.Info("llm classification",
				"document_type", verdict.DocumentType,
				"confidence", verdict.Confidence,
			)
			return Decision{
				Type:       verdict.DocumentType,
				Confidence: verdict.Confidence,
				Keywords:   reconstructKeywords(text, verdict),
				Strategy:   StrategyLLM,
			}
		}
	}

	docType, confidence, keywords := domain.ClassifyByRules(text)
	e.logger.Info("rule-based classification",
		"document_type", docType,
		"confidence", confidence,
	)
	return Decision{
		Type:       docType,
		Confidence: confidence,
		Keywords:   keywords,
		Strategy:   StrategyRules,
	}
}

// reconstructKeywords re-scans the text against the winning type's rule list
// for observability only; the arbiter's verdict is not validated against it.
// When nothing matches, the reasoning string stands in as the sole keyword.
func reconstructKeywords(text string, verdict domain.ArbiterVerdict) []string {
	textLower := strings.ToLower(text)
	var found []string
	for _, keyword := range domain.KeywordsFor(verdict.DocumentType) {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}
	if len(found) == 0 {
		return []string{verdict.Reasoning}
	}
	return found
}
