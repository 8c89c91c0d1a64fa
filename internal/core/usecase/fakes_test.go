package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

func payload(filename string, size int64, content string) ports.FilePayload {
	return ports.FilePayload{
		Filename: filename,
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func payloads(filenames ...string) []ports.FilePayload {
	out := make([]ports.FilePayload, 0, len(filenames))
	for _, name := range filenames {
		out = append(out, payload(name, 10, "content of "+name))
	}
	return out
}

type fakeStore struct {
	saveCalls  int
	failSaveAt int
	promoteErr error

	saved     []domain.UploadedFile
	promoted  []string
	discarded []string
}

func (s *fakeStore) Save(_ context.Context, _ io.Reader, filename string) (domain.UploadedFile, error) {
	s.saveCalls++
	if s.failSaveAt != 0 && s.saveCalls == s.failSaveAt {
		return domain.UploadedFile{}, domain.WrapError(domain.ErrStorage, "save upload", errors.New("disk full"))
	}
	file := domain.UploadedFile{
		ID:       fmt.Sprintf("id-%d", s.saveCalls),
		Filename: filename,
		Location: fmt.Sprintf("/uploads/%d-%s", s.saveCalls, filename),
		State:    domain.FileTemporary,
	}
	s.saved = append(s.saved, file)
	return file, nil
}

func (s *fakeStore) Promote(_ context.Context, location string, category domain.DocumentType) (string, error) {
	if s.promoteErr != nil {
		return "", s.promoteErr
	}
	s.promoted = append(s.promoted, location)
	return "/processed/" + string(category) + "/" + location, nil
}

func (s *fakeStore) Discard(_ context.Context, location string) error {
	s.discarded = append(s.discarded, location)
	return nil
}

type fakeExtractor struct {
	texts         map[string]string
	defaultText   string
	extractCalls  int
	failExtractAt int
}

func (e *fakeExtractor) Extract(_ context.Context, path string) (domain.ExtractedText, error) {
	e.extractCalls++
	if e.failExtractAt != 0 && e.extractCalls == e.failExtractAt {
		return domain.ExtractedText{}, errors.New("ocr unreachable")
	}
	if text, ok := e.texts[path]; ok {
		return domain.ExtractedText{Text: text}, nil
	}
	return domain.ExtractedText{Text: e.defaultText}, nil
}

type fakeArbiter struct {
	enabled bool
	verdict domain.ArbiterVerdict
	err     error
	calls   int
}

func (a *fakeArbiter) Enabled() bool {
	return a.enabled
}

func (a *fakeArbiter) Classify(context.Context, string) (domain.ArbiterVerdict, error) {
	a.calls++
	if a.err != nil {
		return domain.ArbiterVerdict{}, a.err
	}
	return a.verdict, nil
}

type fakeQueue struct {
	published  []domain.ClassificationJob
	publishErr error
}

func (q *fakeQueue) PublishClassificationJob(_ context.Context, job domain.ClassificationJob) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, job)
	return nil
}

func (q *fakeQueue) SubscribeClassificationJobs(context.Context, func(context.Context, domain.ClassificationJob) error) error {
	return nil
}

type notification struct {
	elementID    string
	documentType domain.DocumentType
	confidence   float64
}

type fakeNotifier struct {
	notifications []notification
	err           error
}

func (n *fakeNotifier) NotifyValidation(_ context.Context, elementID string, documentType domain.DocumentType, confidence float64) error {
	n.notifications = append(n.notifications, notification{elementID, documentType, confidence})
	return n.err
}

type fakeRecords struct {
	created   []*domain.Record
	createErr error
}

func (r *fakeRecords) Create(_ context.Context, rec *domain.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, rec)
	return nil
}

func (r *fakeRecords) GetByID(_ context.Context, id string) (*domain.Record, error) {
	for _, rec := range r.created {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.WrapError(domain.ErrRecordNotFound, "get record", fmt.Errorf("id %s", id))
}

func (r *fakeRecords) ListRecent(context.Context, int) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(r.created))
	for _, rec := range r.created {
		out = append(out, *rec)
	}
	return out, nil
}

var _ ports.FileStore = (*fakeStore)(nil)
var _ ports.TextExtractor = (*fakeExtractor)(nil)
var _ ports.Arbiter = (*fakeArbiter)(nil)
var _ ports.MessageQueue = (*fakeQueue)(nil)
var _ ports.ChecklistNotifier = (*fakeNotifier)(nil)
var _ ports.RecordRepository = (*fakeRecords)(nil)
