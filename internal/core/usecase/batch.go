package usecase

import (
	"context"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

// BatchClassifyUseCase classifies many independent documents and reports how
// much of the required checklist the batch covers.
type BatchClassifyUseCase struct {
	classifier *ClassifyDocumentUseCase
	required   []domain.DocumentType
}

func NewBatchClassifyUseCase(classifier *ClassifyDocumentUseCase, required []domain.DocumentType) *BatchClassifyUseCase {
	if required == nil {
		required = domain.RequiredDocuments
	}
	return &BatchClassifyUseCase{classifier: classifier, required: required}
}

// ClassifyBatch processes each file independently; one file's failure does
// not abort the rest. Completeness is recomputed fresh from the successes.
func (uc *BatchClassifyUseCase) ClassifyBatch(ctx context.Context, files []ports.FilePayload) (*domain.BatchResponse, error) {
	results := []domain.UploadResponse{}
	failed := 0

	for _, file := range files {
		resp, err := uc.classifier.ClassifySingle(ctx, file)
		if err != nil {
			uc.classifier.logger.Error("batch file failed", "filename", file.Filename, "error", err)
			failed++
			continue
		}
		results = append(results, *resp)
	}

	classifications := make([]domain.ClassificationResult, len(results))
	for i, r := range results {
		classifications[i] = r.Classification
	}
	report := domain.Completeness(classifications, uc.required)

	return &domain.BatchResponse{
		TotalDocuments:        len(files),
		SuccessfullyProcessed: len(results),
		Failed:                failed,
		Results:               results,
		MissingRequired:       report.MissingRequired,
		CompletenessPercent:   report.CompletenessPercentage,
	}, nil
}
