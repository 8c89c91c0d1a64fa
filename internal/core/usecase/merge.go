package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

// ClassifyMerged treats the ordered files as pages of one logical document:
// every file is saved and extracted in submission order, the texts are
// concatenated and classified once, the first file is archived under the
// winning type and every other file is discarded.
func (uc *ClassifyDocumentUseCase) ClassifyMerged(ctx context.Context, files []ports.FilePayload) (*domain.UploadResponse, error) {
	start := time.Now()

	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrValidation, "classify merged", errors.New("no files provided"))
	}

	saved, totalSize, err := uc.SaveSubmission(ctx, files)
	if err != nil {
		return nil, err
	}

	filenames := make([]string, len(files))
	for i, f := range files {
		filenames[i] = f.Filename
	}

	result, err := uc.processSaved(ctx, saved, filenames, start)
	if err != nil {
		return nil, err
	}
	result.Filename = fmt.Sprintf("merged_%d_files", len(files))
	result.FileSize = totalSize
	return result, nil
}

// SaveSubmission validates and saves every file in order. A size violation
// rejects the whole submission before any further file is touched; files
// saved before the violation are discarded.
func (uc *ClassifyDocumentUseCase) SaveSubmission(ctx context.Context, files []ports.FilePayload) ([]domain.UploadedFile, int64, error) {
	var saved []domain.UploadedFile
	var totalSize int64

	for _, file := range files {
		if err := uc.validateSize(file); err != nil {
			uc.discardAll(ctx, saved)
			return nil, 0, err
		}
		uploaded, err := uc.saveFile(ctx, file)
		if err != nil {
			uc.discardAll(ctx, saved)
			return nil, 0, err
		}
		saved = append(saved, uploaded)
		totalSize += file.Size
	}
	return saved, totalSize, nil
}

// processSaved runs the merge pipeline over already-saved temporary files.
// On every exit path the first file ends Archived (or stays Temporary on a
// promote failure, flagged in the log) and the rest end Deleted.
func (uc *ClassifyDocumentUseCase) processSaved(
	ctx context.Context,
	saved []domain.UploadedFile,
	filenames []string,
	start time.Time,
) (*domain.UploadResponse, error) {
	textParts := make([]string, 0, len(saved))
	for i, file := range saved {
		extracted, err := uc.extractor.Extract(ctx, file.Location)
		if err != nil {
			uc.discardAll(ctx, saved)
			return nil, domain.WrapError(domain.ErrExtraction, "extract "+filenames[i], err)
		}
		textParts = append(textParts, extracted.Text)
	}

	mergedText := strings.Join(textParts, " ")
	uc.logger.Info("merged text extracted", "files", len(saved), "characters", len(mergedText))

	decision := uc.engine.Classify(ctx, mergedText)
	dates := domain.ExtractDates(mergedText)

	representative := saved[0]
	archivedPath, err := uc.store.Promote(ctx, representative.Location, decision.Type)
	if err != nil {
		uc.logger.Error("promote failed, file left temporary",
			"file_id", representative.ID, "location", representative.Location, "error", err)
		uc.discardAll(ctx, saved[1:])
		return nil, err
	}
	uc.discardAll(ctx, saved[1:])

	processingMS := float64(time.Since(start).Microseconds()) / 1000.0
	uc.persistRecord(ctx, representative, filenames[0], decision, mergedText, dates, archivedPath, processingMS)

	uc.logger.Info("merged document classified",
		"file_id", representative.ID,
		"document_type", decision.Type,
		"confidence", decision.Confidence,
		"strategy", decision.Strategy,
	)

	return &domain.UploadResponse{
		ID:              representative.ID,
		Filename:        filenames[0],
		UploadTimestamp: time.Now().UTC(),
		Classification: domain.ClassificationResult{
			DocumentType:   decision.Type,
			Confidence:     decision.Confidence,
			KeywordsFound:  decision.Keywords,
			ExtractedText:  truncate(mergedText, extractedTextPreviewLimit),
			ExtractedDates: dates,
			Metadata: map[string]any{
				"merged_files": filenames,
				"total_files":  len(filenames),
				"strategy":     decision.Strategy,
			},
		},
		ProcessingTimeMS: processingMS,
	}, nil
}

func (uc *ClassifyDocumentUseCase) discardAll(ctx context.Context, files []domain.UploadedFile) {
	for _, file := range files {
		uc.discardQuietly(ctx, file.Location)
	}
}
