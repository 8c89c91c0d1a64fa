package ports

import (
	"context"
	"io"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// FilePayload is one raw inbound file before any storage interaction. Open
// yields a fresh reader over the payload bytes.
type FilePayload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// DocumentClassifierService is the inbound contract for the synchronous
// classification paths.
type DocumentClassifierService interface {
	ClassifySingle(ctx context.Context, file FilePayload) (*domain.UploadResponse, error)
	ClassifyMerged(ctx context.Context, files []FilePayload) (*domain.UploadResponse, error)
}

// BatchClassifierService classifies many independent documents and reports
// checklist completeness.
type BatchClassifierService interface {
	ClassifyBatch(ctx context.Context, files []FilePayload) (*domain.BatchResponse, error)
}

// AsyncClassifierService is the inbound contract for the callback workflow.
type AsyncClassifierService interface {
	// Accept validates and saves all files synchronously, then schedules
	// background processing tagged with the element correlation id.
	Accept(ctx context.Context, elementID string, files []FilePayload) (*domain.AcceptResponse, error)
	// Process runs the background part of one accepted submission.
	Process(ctx context.Context, job domain.ClassificationJob) error
}
