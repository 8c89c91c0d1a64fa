package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// RemoteClient talks to the OCR service: file in, full text plus ordered
// segments out. The service handles multi-page inputs internally.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RemoteClient) Extract(ctx context.Context, path string) (domain.ExtractedText, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("open file for ocr: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("build ocr request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("read file for ocr: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &buf)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.ExtractedText{}, fmt.Errorf("ocr status: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Text     string   `json:"text"`
		Segments []string `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("decode ocr response: %w", err)
	}
	return domain.ExtractedText{Text: payload.Text, Segments: payload.Segments}, nil
}
