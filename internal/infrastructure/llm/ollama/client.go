package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// Arbiter classifies document text through a local Ollama instance.
//
// The enabled flag is a liveness snapshot taken once at construction by
// probing the endpoint; it can go stale and is deliberately never re-probed.
type Arbiter struct {
	baseURL    string
	model      string
	httpClient *http.Client
	enabled    bool
	logger     *slog.Logger
}

// NewArbiter probes the inference endpoint with probeTimeout and disables
// itself on any failure. requestTimeout bounds individual generate calls and
// must be generous: a single inference on CPU can run for minutes.
func NewArbiter(baseURL, model string, probeTimeout, requestTimeout time.Duration, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Arbiter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
	a.enabled = a.probe(probeTimeout)
	if a.enabled {
		logger.Info("llm arbiter enabled", "url", a.baseURL, "model", model)
	} else {
		logger.Warn("llm arbiter disabled, ollama unreachable", "url", a.baseURL)
	}
	return a
}

func (a *Arbiter) probe(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (a *Arbiter) Enabled() bool {
	return a.enabled
}

type classificationPayload struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// Classify sends one classification prompt and parses the strict-JSON reply.
// An unknown document_type maps to the catch-all with the model's confidence
// preserved; any other malformed reply is an error so the engine falls back
// to the rule-based path.
func (a *Arbiter) Classify(ctx context.Context, text string) (domain.ArbiterVerdict, error) {
	if !a.enabled {
		return domain.ArbiterVerdict{Reasoning: "llm arbiter disabled"}, nil
	}

	respText, err := a.generateJSON(ctx, buildClassificationPrompt(text))
	if err != nil {
		return domain.ArbiterVerdict{}, domain.WrapError(domain.ErrClassification, "ollama generate", err)
	}

	var payload classificationPayload
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &payload); err != nil {
		return domain.ArbiterVerdict{}, domain.WrapError(domain.ErrClassification, "parse classification json", err)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return domain.ArbiterVerdict{}, domain.WrapError(domain.ErrClassification, "parse classification json",
			fmt.Errorf("confidence %v out of range", payload.Confidence))
	}

	docType, known := domain.ParseDocumentType(payload.DocumentType)
	if !known {
		a.logger.Warn("unknown document type from llm, defaulting to catch-all", "value", payload.DocumentType)
		docType = domain.TypeInne
	}

	return domain.ArbiterVerdict{
		DocumentType: docType,
		Confidence:   payload.Confidence,
		Reasoning:    payload.Reasoning,
	}, nil
}

func (a *Arbiter) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  a.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": 0.1,
			"num_predict": 500,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := a.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

// extractJSONObject cuts the reply down to its outermost JSON object,
// shedding code fences and any stray prose around it.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
