package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marioabc/document-classify/internal/core/domain"
)

type stubRecords struct {
	records []domain.Record
}

func (s *stubRecords) Create(context.Context, *domain.Record) error {
	return nil
}

func (s *stubRecords) GetByID(context.Context, string) (*domain.Record, error) {
	return nil, domain.ErrRecordNotFound
}

func (s *stubRecords) ListRecent(context.Context, int) ([]domain.Record, error) {
	return s.records, nil
}

func TestExportRecordsXLSX(t *testing.T) {
	records := &stubRecords{records: []domain.Record{
		{
			ID:           "rec-1",
			Filename:     "wynik.pdf",
			FileSize:     2048,
			DocumentType: domain.TypeMorfologia,
			Confidence:   0.92,
			Keywords:     []string{"morfologia", "wbc"},
			CreatedAt:    time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "rec-2",
			Filename:     "ekg.pdf",
			DocumentType: domain.TypeEKG,
			Confidence:   0.8,
		},
	}}
	svc := NewService(records, nil)

	data, err := svc.ExportRecordsXLSX(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Classifications")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 data rows, got %d", len(rows))
	}
	if rows[1][1] != "rec-1" || rows[2][1] != "rec-2" {
		t.Fatalf("unexpected record ids in export: %v %v", rows[1], rows[2])
	}
	if rows[1][4] != string(domain.TypeMorfologia) {
		t.Fatalf("expected document type column, got %q", rows[1][4])
	}
}
