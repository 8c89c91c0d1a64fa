package ports

import (
	"context"
	"io"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// FileStore owns the upload/archive lifecycle of received files.
type FileStore interface {
	// Save persists bytes to temporary storage under a fresh id, rejecting
	// disallowed extensions.
	Save(ctx context.Context, data io.Reader, filename string) (domain.UploadedFile, error)
	// Promote moves a temporary file into the archive directory of the given
	// category and returns the new location.
	Promote(ctx context.Context, location string, category domain.DocumentType) (string, error)
	// Discard removes a temporary file. Idempotent; silent when the file is
	// already gone.
	Discard(ctx context.Context, location string) error
}

// TextExtractor extracts text from a stored file, multi-page inputs
// concatenated in page order.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (domain.ExtractedText, error)
}

// Arbiter is the LLM classification strategy. Enabled reflects a single
// startup probe of the inference endpoint and is never refreshed.
type Arbiter interface {
	Enabled() bool
	Classify(ctx context.Context, text string) (domain.ArbiterVerdict, error)
}

// MessageQueue carries async classification jobs between api and worker.
type MessageQueue interface {
	PublishClassificationJob(ctx context.Context, job domain.ClassificationJob) error
	SubscribeClassificationJobs(ctx context.Context, handler func(context.Context, domain.ClassificationJob) error) error
}

// ChecklistNotifier delivers a classification verdict to the external
// checklist system. Fire-and-forget: failures are the caller's to log.
type ChecklistNotifier interface {
	NotifyValidation(ctx context.Context, elementID string, documentType domain.DocumentType, confidence float64) error
}

// RecordRepository persists classification records.
type RecordRepository interface {
	Create(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
}
