package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// Extractor turns a stored file into text. PDFs with an embedded text layer
// are read directly page by page; scanned PDFs and image formats go to the
// remote OCR service. Multi-page output is concatenated in page order.
type Extractor struct {
	remote *RemoteClient
	logger *slog.Logger
}

func NewExtractor(remote *RemoteClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{remote: remote, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, path string) (domain.ExtractedText, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extracted, err := extractPDFTextLayer(path)
		if err == nil && strings.TrimSpace(extracted.Text) != "" {
			e.logger.Info("pdf text layer extracted", "path", path, "pages", len(extracted.Segments))
			return extracted, nil
		}
		if err != nil {
			e.logger.Warn("pdf text layer unreadable, falling back to ocr", "path", path, "error", err)
		} else {
			e.logger.Info("pdf has no text layer, falling back to ocr", "path", path)
		}
	}
	return e.remote.Extract(ctx, path)
}

// extractPDFTextLayer reads the embedded text of every page in page order.
// Pages without text contribute nothing; a fully empty result signals a
// scanned document.
func extractPDFTextLayer(path string) (domain.ExtractedText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return domain.ExtractedText{}, fmt.Errorf("read pdf page %d: %w", pageNum, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			parts = append(parts, pageText)
		}
	}

	return domain.ExtractedText{
		Text:     strings.Join(parts, " "),
		Segments: parts,
	}, nil
}
