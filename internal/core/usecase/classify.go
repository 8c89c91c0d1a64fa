package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

const extractedTextPreviewLimit = 500

// ClassifyDocumentUseCase drives the single-file pipeline:
// validate, save, extract, classify, archive, record.
type ClassifyDocumentUseCase struct {
	store       ports.FileStore
	extractor   ports.TextExtractor
	engine      *Engine
	records     ports.RecordRepository
	maxFileSize int64
	logger      *slog.Logger
}

func NewClassifyDocumentUseCase(
	store ports.FileStore,
	extractor ports.TextExtractor,
	engine *Engine,
	records ports.RecordRepository,
	maxFileSize int64,
	logger *slog.Logger,
) *ClassifyDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyDocumentUseCase{
		store:       store,
		extractor:   extractor,
		engine:      engine,
		records:     records,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (uc *ClassifyDocumentUseCase) ClassifySingle(ctx context.Context, file ports.FilePayload) (*domain.UploadResponse, error) {
	start := time.Now()

	if err := uc.validateSize(file); err != nil {
		return nil, err
	}

	saved, err := uc.saveFile(ctx, file)
	if err != nil {
		return nil, err
	}

	extracted, err := uc.extractor.Extract(ctx, saved.Location)
	if err != nil {
		uc.discardQuietly(ctx, saved.Location)
		return nil, domain.WrapError(domain.ErrExtraction, "extract "+file.Filename, err)
	}

	decision := uc.engine.Classify(ctx, extracted.Text)
	dates := domain.ExtractDates(extracted.Text)

	archivedPath, err := uc.store.Promote(ctx, saved.Location, decision.Type)
	if err != nil {
		// The file stays Temporary and is flagged for scheduled cleanup
		// rather than silently lost.
		uc.logger.Error("promote failed, file left temporary",
			"file_id", saved.ID, "location", saved.Location, "error", err)
		return nil, err
	}

	processingMS := float64(time.Since(start).Microseconds()) / 1000.0
	uc.persistRecord(ctx, saved, file.Filename, decision, extracted.Text, dates, archivedPath, processingMS)

	uc.logger.Info("document classified",
		"file_id", saved.ID,
		"document_type", decision.Type,
		"confidence", decision.Confidence,
		"strategy", decision.Strategy,
	)

	return &domain.UploadResponse{
		ID:              saved.ID,
		Filename:        file.Filename,
		FileSize:        file.Size,
		UploadTimestamp: time.Now().UTC(),
		Classification: domain.ClassificationResult{
			DocumentType:   decision.Type,
			Confidence:     decision.Confidence,
			KeywordsFound:  decision.Keywords,
			ExtractedText:  truncate(extracted.Text, extractedTextPreviewLimit),
			ExtractedDates: dates,
			Metadata:       map[string]any{"strategy": decision.Strategy},
		},
		ProcessingTimeMS: processingMS,
	}, nil
}

func (uc *ClassifyDocumentUseCase) validateSize(file ports.FilePayload) error {
	if file.Size > uc.maxFileSize {
		return domain.WrapError(domain.ErrValidation, "validate size",
			fmt.Errorf("file %s too large: %d bytes, maximum %d", file.Filename, file.Size, uc.maxFileSize))
	}
	return nil
}

func (uc *ClassifyDocumentUseCase) saveFile(ctx context.Context, file ports.FilePayload) (domain.UploadedFile, error) {
	body, err := file.Open()
	if err != nil {
		return domain.UploadedFile{}, domain.WrapError(domain.ErrValidation, "open upload", err)
	}
	defer body.Close()

	saved, err := uc.store.Save(ctx, body, file.Filename)
	if err != nil {
		return domain.UploadedFile{}, err
	}
	saved.Size = file.Size
	return saved, nil
}

func (uc *ClassifyDocumentUseCase) discardQuietly(ctx context.Context, location string) {
	if err := uc.store.Discard(ctx, location); err != nil {
		uc.logger.Warn("discard temp file failed", "location", location, "error", err)
	}
}

func (uc *ClassifyDocumentUseCase) persistRecord(
	ctx context.Context,
	saved domain.UploadedFile,
	filename string,
	decision Decision,
	text string,
	dates []string,
	archivedPath string,
	processingMS float64,
) {
	if uc.records == nil {
		return
	}
	rec := &domain.Record{
		ID:             saved.ID,
		Filename:       filename,
		FileSize:       saved.Size,
		DocumentType:   decision.Type,
		Confidence:     decision.Confidence,
		ExtractedText:  truncate(text, extractedTextPreviewLimit),
		ExtractedDates: dates,
		Keywords:       decision.Keywords,
		ArchivedPath:   archivedPath,
		ProcessingMS:   processingMS,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.records.Create(ctx, rec); err != nil {
		uc.logger.Warn("persist classification record failed", "record_id", rec.ID, "error", err)
	}
}

// truncate cuts s to at most limit bytes without splitting a multi-byte rune;
// OCR text is full of Polish diacritics and the preview must stay valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
