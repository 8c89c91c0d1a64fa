package domain

import "time"

// FileState tracks an uploaded file through its lifecycle. A file never
// leaves a terminal state.
type FileState string

const (
	FileTemporary FileState = "temporary"
	FileArchived  FileState = "archived"
	FileDeleted   FileState = "deleted"
)

// UploadedFile is one received file. The ID is assigned before any content
// inspection and is unique across concurrent uploads.
type UploadedFile struct {
	ID       string
	Filename string
	Size     int64
	Location string
	State    FileState
}

// ExtractedText is the OCR collaborator's output for one file: the full text
// plus the ordered segments it was assembled from.
type ExtractedText struct {
	Text     string
	Segments []string
}

// ClassificationResult is the output of exactly one classifier strategy.
type ClassificationResult struct {
	DocumentType   DocumentType `json:"document_type"`
	Confidence     float64      `json:"confidence"`
	KeywordsFound  []string     `json:"keywords_found"`
	ExtractedText  string       `json:"extracted_text,omitempty"`
	ExtractedDates []string     `json:"extracted_dates"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ArbiterVerdict is the raw answer of the LLM arbiter before the engine
// applies its precedence policy. An empty DocumentType means "none".
type ArbiterVerdict struct {
	DocumentType DocumentType
	Confidence   float64
	Reasoning    string
}

// UploadResponse is the client-facing result of a synchronous classification.
type UploadResponse struct {
	ID               string               `json:"id"`
	Filename         string               `json:"filename"`
	FileSize         int64                `json:"file_size"`
	UploadTimestamp  time.Time            `json:"upload_timestamp"`
	Classification   ClassificationResult `json:"classification"`
	ProcessingTimeMS float64              `json:"processing_time_ms"`
}

// BatchResponse summarizes classification of many independent documents.
type BatchResponse struct {
	TotalDocuments        int              `json:"total_documents"`
	SuccessfullyProcessed int              `json:"successfully_processed"`
	Failed                int              `json:"failed"`
	Results               []UploadResponse `json:"results"`
	MissingRequired       []DocumentType   `json:"missing_required_documents"`
	CompletenessPercent   float64          `json:"completeness_percentage"`
}

// AcceptResponse is returned immediately by the async workflow, before any
// OCR or LLM latency is incurred.
type AcceptResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ElementID  string `json:"element_id"`
	FilesCount int    `json:"files_count"`
}

// FileRef identifies one already-saved temporary file inside a classification
// job payload.
type FileRef struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Filename string `json:"filename"`
}

// ClassificationJob is the queue payload for the async merge workflow. The
// merged submission itself is transient; only the element correlation id and
// the temp-file references travel.
type ClassificationJob struct {
	ElementID   string    `json:"element_id"`
	Files       []FileRef `json:"files"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Record is the persisted trace of one classification.
type Record struct {
	ID             string
	Filename       string
	FileSize       int64
	DocumentType   DocumentType
	Confidence     float64
	ExtractedText  string
	ExtractedDates []string
	Keywords       []string
	ArchivedPath   string
	ProcessingMS   float64
	CreatedAt      time.Time
}
