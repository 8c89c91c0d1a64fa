package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/marioabc/document-classify/internal/core/domain"
)

func TestEngineLLMVerdictIsAuthoritative(t *testing.T) {
	// The text is unmistakably morfologia for the rule engine, but a
	// confident arbiter verdict must never be overridden.
	arbiter := &fakeArbiter{
		enabled: true,
		verdict: domain.ArbiterVerdict{DocumentType: domain.TypeEKG, Confidence: 0.3, Reasoning: "wykres rytmu"},
	}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "morfologia wbc rbc hemoglobina leukocyty")

	if decision.Type != domain.TypeEKG {
		t.Fatalf("expected arbiter verdict %s, got %s", domain.TypeEKG, decision.Type)
	}
	if decision.Confidence != 0.3 {
		t.Fatalf("expected arbiter confidence 0.3, got %v", decision.Confidence)
	}
	if decision.Strategy != StrategyLLM {
		t.Fatalf("expected strategy %s, got %s", StrategyLLM, decision.Strategy)
	}
}

func TestEngineReconstructsKeywordsFromText(t *testing.T) {
	arbiter := &fakeArbiter{
		enabled: true,
		verdict: domain.ArbiterVerdict{DocumentType: domain.TypeEKG, Confidence: 0.9},
	}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "wynik EKG, rytm zatokowy")

	want := []string{"ekg", "rytm"}
	if !reflect.DeepEqual(decision.Keywords, want) {
		t.Fatalf("expected keywords %v, got %v", want, decision.Keywords)
	}
}

func TestEngineSubstitutesReasoningWhenNoKeywordMatches(t *testing.T) {
	arbiter := &fakeArbiter{
		enabled: true,
		verdict: domain.ArbiterVerdict{DocumentType: domain.TypeEKG, Confidence: 0.8, Reasoning: "opis badania czynności"},
	}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "dokument bez znanych terminów")

	if !reflect.DeepEqual(decision.Keywords, []string{"opis badania czynności"}) {
		t.Fatalf("expected reasoning as sole keyword, got %v", decision.Keywords)
	}
}

func TestEngineFallsBackOnArbiterError(t *testing.T) {
	arbiter := &fakeArbiter{enabled: true, err: errors.New("ollama timeout")}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "morfologia hemoglobina leukocyty")

	if decision.Strategy != StrategyRules {
		t.Fatalf("expected rule fallback, got strategy %s", decision.Strategy)
	}
	if decision.Type != domain.TypeMorfologia {
		t.Fatalf("expected %s from rules, got %s", domain.TypeMorfologia, decision.Type)
	}
}

func TestEngineFallsBackOnEmptyVerdict(t *testing.T) {
	arbiter := &fakeArbiter{enabled: true, verdict: domain.ArbiterVerdict{}}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "glukoza na czczo")

	if decision.Strategy != StrategyRules {
		t.Fatalf("expected rule fallback, got strategy %s", decision.Strategy)
	}
	if decision.Type != domain.TypeGlukoza {
		t.Fatalf("expected %s, got %s", domain.TypeGlukoza, decision.Type)
	}
}

func TestEngineSkipsDisabledArbiter(t *testing.T) {
	arbiter := &fakeArbiter{enabled: false}
	engine := NewEngine(arbiter, nil)

	decision := engine.Classify(context.Background(), "glukoza na czczo")

	if arbiter.calls != 0 {
		t.Fatalf("expected no arbiter call when disabled, got %d", arbiter.calls)
	}
	if decision.Strategy != StrategyRules {
		t.Fatalf("expected rule strategy, got %s", decision.Strategy)
	}
}
