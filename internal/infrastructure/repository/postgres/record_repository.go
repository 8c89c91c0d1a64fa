package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// RecordRepository persists classification records.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS classification_records (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	document_type TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	extracted_text TEXT,
	extracted_dates JSONB NOT NULL DEFAULT '[]'::jsonb,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	archived_path TEXT,
	processing_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classification_records_type ON classification_records(document_type);
CREATE INDEX IF NOT EXISTS idx_classification_records_created_at ON classification_records(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) error {
	datesJSON, err := json.Marshal(rec.ExtractedDates)
	if err != nil {
		return fmt.Errorf("marshal dates: %w", err)
	}
	keywordsJSON, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO classification_records (
	id, filename, file_size, document_type, confidence, extracted_text, extracted_dates, keywords, archived_path, processing_ms, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		rec.ID, rec.Filename, rec.FileSize, string(rec.DocumentType), rec.Confidence,
		rec.ExtractedText, datesJSON, keywordsJSON, rec.ArchivedPath, rec.ProcessingMS, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert classification record: %w", err)
	}
	return nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, file_size, document_type, confidence, extracted_text, extracted_dates, keywords, archived_path, processing_ms, created_at
FROM classification_records
WHERE id = $1
`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRecordNotFound, "get record", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return rec, nil
}

func (r *RecordRepository) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, file_size, document_type, confidence, extracted_text, extracted_dates, keywords, archived_path, processing_ms, created_at
FROM classification_records
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var docType string
	var datesRaw, keywordsRaw []byte

	err := row.Scan(
		&rec.ID, &rec.Filename, &rec.FileSize, &docType, &rec.Confidence,
		&rec.ExtractedText, &datesRaw, &keywordsRaw, &rec.ArchivedPath, &rec.ProcessingMS, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	if err := json.Unmarshal(datesRaw, &rec.ExtractedDates); err != nil {
		return nil, fmt.Errorf("unmarshal dates: %w", err)
	}
	if err := json.Unmarshal(keywordsRaw, &rec.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	rec.DocumentType, _ = domain.ParseDocumentType(docType)
	return &rec, nil
}
