package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

// AsyncClassifyUseCase drives the merge-classify-callback workflow. Accept
// runs on the request path and only saves files; everything slow happens in
// Process on a worker, which reports the verdict to the checklist system.
type AsyncClassifyUseCase struct {
	pipeline *ClassifyDocumentUseCase
	queue    ports.MessageQueue
	notifier ports.ChecklistNotifier
	logger   *slog.Logger
}

func NewAsyncClassifyUseCase(
	pipeline *ClassifyDocumentUseCase,
	queue ports.MessageQueue,
	notifier ports.ChecklistNotifier,
	logger *slog.Logger,
) *AsyncClassifyUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncClassifyUseCase{
		pipeline: pipeline,
		queue:    queue,
		notifier: notifier,
		logger:   logger,
	}
}

// Accept validates and saves every file synchronously so the caller gets its
// acceptance response before any OCR or LLM latency, then publishes the job.
// A publish failure cleans the temp files up again: nothing may be accepted
// that no worker will ever see.
func (uc *AsyncClassifyUseCase) Accept(ctx context.Context, elementID string, files []ports.FilePayload) (*domain.AcceptResponse, error) {
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrValidation, "accept submission", errors.New("no files provided"))
	}

	saved, _, err := uc.pipeline.SaveSubmission(ctx, files)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.FileRef, len(saved))
	for i, file := range saved {
		refs[i] = domain.FileRef{ID: file.ID, Location: file.Location, Filename: file.Filename}
	}
	job := domain.ClassificationJob{
		ElementID:   elementID,
		Files:       refs,
		SubmittedAt: time.Now().UTC(),
	}

	if err := uc.queue.PublishClassificationJob(ctx, job); err != nil {
		uc.pipeline.discardAll(ctx, saved)
		return nil, err
	}

	uc.logger.Info("submission accepted", "element_id", elementID, "files", len(files))
	return &domain.AcceptResponse{
		Status:     "accepted",
		Message:    "Document processing started",
		ElementID:  elementID,
		FilesCount: len(files),
	}, nil
}

// Process runs the background part of one accepted submission and delivers
// exactly one callback, whether the verdict came from the arbiter or the rule
// fallback. On a processing error the still-temporary files are cleaned up
// best-effort and no callback is sent. Callback failures are logged only;
// they never unwind classification or storage state.
func (uc *AsyncClassifyUseCase) Process(ctx context.Context, job domain.ClassificationJob) error {
	// Accept never publishes an empty job, but the subject is open to replays
	// and hand-published messages. A malformed job must fail, not crash the
	// worker.
	if len(job.Files) == 0 {
		return domain.WrapError(domain.ErrValidation, "process job",
			errors.New("job "+job.ElementID+" carries no files"))
	}

	uc.logger.Info("background processing started", "element_id", job.ElementID, "files", len(job.Files))

	saved := make([]domain.UploadedFile, len(job.Files))
	filenames := make([]string, len(job.Files))
	for i, ref := range job.Files {
		saved[i] = domain.UploadedFile{ID: ref.ID, Location: ref.Location, Filename: ref.Filename, State: domain.FileTemporary}
		filenames[i] = ref.Filename
	}

	result, err := uc.pipeline.processSaved(ctx, saved, filenames, time.Now())
	if err != nil {
		uc.logger.Error("background processing failed", "element_id", job.ElementID, "error", err)
		return err
	}

	verdict := result.Classification
	if err := uc.notifier.NotifyValidation(ctx, job.ElementID, verdict.DocumentType, verdict.Confidence); err != nil {
		uc.logger.Error("callback delivery failed",
			"element_id", job.ElementID,
			"document_type", verdict.DocumentType,
			"error", err,
		)
	} else {
		uc.logger.Info("callback delivered",
			"element_id", job.ElementID,
			"document_type", verdict.DocumentType,
			"confidence", verdict.Confidence,
		)
	}

	uc.logger.Info("background processing completed", "element_id", job.ElementID)
	return nil
}
