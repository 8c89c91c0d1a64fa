package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// Client posts classification verdicts to the checklist system's ai-validate
// endpoint. Delivery is fire-and-forget: the caller logs failures, nothing is
// retried and nothing rolls back.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) NotifyValidation(ctx context.Context, elementID string, documentType domain.DocumentType, confidence float64) error {
	url := fmt.Sprintf("%s/public/api/v1/checklists/elements/%s/ai-validate", c.baseURL, elementID)

	payload, err := json.Marshal(map[string]any{
		"document_type": documentType,
		"confidence":    confidence,
	})
	if err != nil {
		return domain.WrapError(domain.ErrCallback, "marshal callback payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.WrapError(domain.ErrCallback, "create callback request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrCallback, "send callback", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.WrapError(domain.ErrCallback, "callback rejected",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
}
