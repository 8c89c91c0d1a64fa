package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/marioabc/document-classify/internal/core/ports"
	"github.com/marioabc/document-classify/internal/export"
	"github.com/marioabc/document-classify/internal/observability/metrics"
)

const multipartMemoryLimit = 64 << 20

// TrafficConfig bounds the request intake of the API process.
type TrafficConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	MaxWait        time.Duration
}

type Router struct {
	classifier ports.DocumentClassifierService
	batch      ports.BatchClassifierService
	async      ports.AsyncClassifierService
	records    ports.RecordRepository
	exporter   *export.Service

	serverMetrics *metrics.HTTPServerMetrics
	logger        *slog.Logger
	service       string
	traffic       TrafficConfig
	exportLimit   int
}

func NewRouter(
	classifier ports.DocumentClassifierService,
	batch ports.BatchClassifierService,
	async ports.AsyncClassifierService,
	records ports.RecordRepository,
	exporter *export.Service,
	serverMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	traffic TrafficConfig,
	exportLimit int,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		classifier:    classifier,
		batch:         batch,
		async:         async,
		records:       records,
		exporter:      exporter,
		serverMetrics: serverMetrics,
		logger:        logger,
		service:       "api",
		traffic:       traffic,
		exportLimit:   exportLimit,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents/classify", rt.classifySingle)
	mux.HandleFunc("/v1/documents/classify/batch", rt.classifyBatch)
	mux.HandleFunc("/v1/documents/classify/merged", rt.classifyMerged)
	mux.HandleFunc("/v1/documents/classify/merged/", rt.acceptAsync)
	mux.HandleFunc("/v1/records", rt.listRecords)
	mux.HandleFunc("/v1/records/", rt.recordsSubtree)
	if rt.serverMetrics != nil {
		mux.Handle("/metrics", rt.serverMetrics.Handler())
	}

	var handler http.Handler = mux
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(rt.service, handler)
	}
	handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, rt.traffic.MaxWait)
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "document-classify",
		"status":    "ok",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) classifySingle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	_ = file.Close()

	resp, err := rt.classifier.ClassifySingle(r.Context(), payloadFromHeader(fileHeader))
	if err != nil {
		rt.respondError(w, err)
		return
	}

	rt.recordClassification(string(resp.Classification.DocumentType), resp.Classification.Metadata)
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) classifyMerged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	files, ok := rt.multipartPayloads(w, r)
	if !ok {
		return
	}

	resp, err := rt.classifier.ClassifyMerged(r.Context(), files)
	if err != nil {
		rt.respondError(w, err)
		return
	}

	rt.recordClassification(string(resp.Classification.DocumentType), resp.Classification.Metadata)
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) classifyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	files, ok := rt.multipartPayloads(w, r)
	if !ok {
		return
	}

	resp, err := rt.batch.ClassifyBatch(r.Context(), files)
	if err != nil {
		rt.respondError(w, err)
		return
	}

	for _, result := range resp.Results {
		rt.recordClassification(string(result.Classification.DocumentType), result.Classification.Metadata)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) acceptAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	elementID := strings.TrimPrefix(r.URL.Path, "/v1/documents/classify/merged/")
	if elementID == "" || strings.Contains(elementID, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "element id is required"})
		return
	}

	files, ok := rt.multipartPayloads(w, r)
	if !ok {
		return
	}

	resp, err := rt.async.Accept(r.Context(), elementID, files)
	if err != nil {
		rt.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (rt *Router) listRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := rt.records.ListRecent(r.Context(), limit)
	if err != nil {
		rt.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (rt *Router) recordsSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/records/")
	if rest == "export" {
		rt.exportRecords(w, r)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "record id is required"})
		return
	}

	record, err := rt.records.GetByID(r.Context(), rest)
	if err != nil {
		rt.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (rt *Router) exportRecords(w http.ResponseWriter, r *http.Request) {
	if rt.exporter == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "export is not configured"})
		return
	}

	data, err := rt.exporter.ExportRecordsXLSX(r.Context(), rt.exportLimit)
	if err != nil {
		rt.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="classification_records.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// multipartPayloads collects the 'files' multipart field in submission order.
// Payloads are lazy: bytes are read only when the use case opens them.
func (rt *Router) multipartPayloads(w http.ResponseWriter, r *http.Request) ([]ports.FilePayload, bool) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, false
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return nil, false
	}

	payloads := make([]ports.FilePayload, 0, len(headers))
	for _, header := range headers {
		payloads = append(payloads, payloadFromHeader(header))
	}
	return payloads, true
}

func payloadFromHeader(header *multipart.FileHeader) ports.FilePayload {
	return ports.FilePayload{
		Filename: header.Filename,
		Size:     header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func (rt *Router) recordClassification(documentType string, metadata map[string]any) {
	if rt.serverMetrics == nil {
		return
	}
	strategy := "unknown"
	if raw, ok := metadata["strategy"].(string); ok && raw != "" {
		strategy = raw
	}
	rt.serverMetrics.RecordClassification(rt.service, documentType, strategy)
}

func (rt *Router) respondError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		rt.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
