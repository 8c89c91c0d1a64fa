package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marioabc/document-classify/internal/core/domain"
	"github.com/marioabc/document-classify/internal/core/ports"
)

type fakeClassifier struct {
	resp *domain.UploadResponse
	err  error

	singleCalls int
	mergedCalls int
	mergedFiles int
}

func (c *fakeClassifier) ClassifySingle(_ context.Context, _ ports.FilePayload) (*domain.UploadResponse, error) {
	c.singleCalls++
	return c.resp, c.err
}

func (c *fakeClassifier) ClassifyMerged(_ context.Context, files []ports.FilePayload) (*domain.UploadResponse, error) {
	c.mergedCalls++
	c.mergedFiles = len(files)
	return c.resp, c.err
}

type fakeBatch struct {
	resp *domain.BatchResponse
	err  error
}

func (b *fakeBatch) ClassifyBatch(context.Context, []ports.FilePayload) (*domain.BatchResponse, error) {
	return b.resp, b.err
}

type fakeAsync struct {
	resp      *domain.AcceptResponse
	err       error
	elementID string
	files     int
}

func (a *fakeAsync) Accept(_ context.Context, elementID string, files []ports.FilePayload) (*domain.AcceptResponse, error) {
	a.elementID = elementID
	a.files = len(files)
	return a.resp, a.err
}

func (a *fakeAsync) Process(context.Context, domain.ClassificationJob) error {
	return nil
}

type fakeRecordsRepo struct {
	record *domain.Record
	list   []domain.Record
	err    error
}

func (r *fakeRecordsRepo) Create(context.Context, *domain.Record) error {
	return nil
}

func (r *fakeRecordsRepo) GetByID(context.Context, string) (*domain.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.record, nil
}

func (r *fakeRecordsRepo) ListRecent(context.Context, int) ([]domain.Record, error) {
	return r.list, r.err
}

func uploadResponse(docType domain.DocumentType) *domain.UploadResponse {
	return &domain.UploadResponse{
		ID:       "rec-1",
		Filename: "wynik.pdf",
		Classification: domain.ClassificationResult{
			DocumentType:  docType,
			Confidence:    0.9,
			KeywordsFound: []string{"morfologia"},
			Metadata:      map[string]any{"strategy": "rules"},
		},
	}
}

func newTestRouter(classifier *fakeClassifier, batch *fakeBatch, async *fakeAsync, records *fakeRecordsRepo, traffic TrafficConfig) http.Handler {
	return NewRouter(classifier, batch, async, records, nil, nil, nil, traffic, 100).Handler()
}

func multipartRequest(t *testing.T, method, target, field string, filenames ...string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("pdf-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthzReturnsOK(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestClassifySingleRequiresFileField(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/documents/classify", nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClassifySingleReturnsClassification(t *testing.T) {
	classifier := &fakeClassifier{resp: uploadResponse(domain.TypeMorfologia)}
	handler := newTestRouter(classifier, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify", "file", "wynik.pdf"))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var resp domain.UploadResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Classification.DocumentType != domain.TypeMorfologia {
		t.Fatalf("expected %s, got %s", domain.TypeMorfologia, resp.Classification.DocumentType)
	}
	if classifier.singleCalls != 1 {
		t.Fatalf("expected one classify call, got %d", classifier.singleCalls)
	}
}

func TestClassifySingleMapsValidationTo400(t *testing.T) {
	classifier := &fakeClassifier{err: domain.WrapError(domain.ErrValidation, "validate size", errors.New("too large"))}
	handler := newTestRouter(classifier, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify", "file", "big.pdf"))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClassifySingleMapsExtractionTo422(t *testing.T) {
	classifier := &fakeClassifier{err: domain.WrapError(domain.ErrExtraction, "extract", errors.New("ocr down"))}
	handler := newTestRouter(classifier, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify", "file", "scan.pdf"))

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestClassifyMergedPassesAllFiles(t *testing.T) {
	classifier := &fakeClassifier{resp: uploadResponse(domain.TypeEKG)}
	handler := newTestRouter(classifier, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify/merged", "files", "p1.pdf", "p2.pdf", "p3.pdf"))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if classifier.mergedFiles != 3 {
		t.Fatalf("expected 3 files forwarded, got %d", classifier.mergedFiles)
	}
}

func TestAcceptAsyncReturns201WithElementID(t *testing.T) {
	async := &fakeAsync{resp: &domain.AcceptResponse{
		Status:     "accepted",
		Message:    "Document processing started",
		ElementID:  "element-9",
		FilesCount: 2,
	}}
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, async, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify/merged/element-9", "files", "a.pdf", "b.pdf"))

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	if async.elementID != "element-9" || async.files != 2 {
		t.Fatalf("unexpected accept call: element=%q files=%d", async.elementID, async.files)
	}
}

func TestAcceptAsyncRequiresElementID(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartRequest(t, http.MethodPost, "/v1/documents/classify/merged/a/b", "files", "a.pdf"))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for nested element path, got %d", res.Code)
	}
}

func TestGetRecordNotFoundMapsTo404(t *testing.T) {
	records := &fakeRecordsRepo{err: domain.WrapError(domain.ErrRecordNotFound, "get record", errors.New("id missing"))}
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, records, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/records/missing", nil))

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestListRecordsRejectsBadLimit(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/records?limit=abc", nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a generated request id header")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := newTestRouter(&fakeClassifier{}, &fakeBatch{}, &fakeAsync{}, &fakeRecordsRepo{}, TrafficConfig{
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})

	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestBackpressureMiddlewareReturns503WhenSaturated(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int, 1)

	base := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	handler := backpressureMiddleware(base, 1, 20*time.Millisecond)

	go func() {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		done <- res.Code
	}()

	<-started

	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for saturated backpressure gate, got %d", res2.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(bytes.NewReader(res2.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode overload response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected overload error message in response")
	}

	close(release)

	select {
	case code := <-done:
		if code != http.StatusNoContent {
			t.Fatalf("first request expected 204, got %d", code)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for first request completion")
	}
}
