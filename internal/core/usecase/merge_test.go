package usecase

import (
	"context"
	"testing"

	"github.com/marioabc/document-classify/internal/core/domain"
)

func TestClassifyMergedArchivesFirstDeletesRest(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{defaultText: "morfologia hemoglobina"}
	records := &fakeRecords{}
	uc := newPipeline(store, extractor, &fakeArbiter{}, records, 1<<20)

	files := payloads("strona1.pdf", "strona2.pdf", "strona3.pdf")

	resp, err := uc.ClassifyMerged(context.Background(), files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.saved) != 3 {
		t.Fatalf("expected 3 saved files, got %d", len(store.saved))
	}
	if len(store.promoted) != 1 || store.promoted[0] != store.saved[0].Location {
		t.Fatalf("expected only the first file promoted, got %v", store.promoted)
	}
	if len(store.discarded) != 2 {
		t.Fatalf("expected the other 2 files deleted, got %v", store.discarded)
	}
	if resp.Filename != "merged_3_files" {
		t.Fatalf("expected synthetic merged filename, got %q", resp.Filename)
	}
	if len(records.created) != 1 {
		t.Fatalf("expected one record for the merged document, got %d", len(records.created))
	}
}

func TestClassifyMergedRejectsEmptySubmission(t *testing.T) {
	uc := newPipeline(&fakeStore{}, &fakeExtractor{}, &fakeArbiter{}, nil, 1<<20)

	_, err := uc.ClassifyMerged(context.Background(), nil)
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClassifyMergedSizeViolationCleansSavedFiles(t *testing.T) {
	store := &fakeStore{}
	uc := newPipeline(store, &fakeExtractor{}, &fakeArbiter{}, nil, 100)

	files := payloads("ok1.pdf", "ok2.pdf")
	files = append(files, payload("big.pdf", 1000, "too big"))
	files = append(files, payload("never-touched.pdf", 10, "x"))

	_, err := uc.ClassifyMerged(context.Background(), files)
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saveCalls != 2 {
		t.Fatalf("expected the submission to short-circuit after 2 saves, got %d", store.saveCalls)
	}
	if len(store.discarded) != 2 {
		t.Fatalf("expected both already-saved files discarded, got %v", store.discarded)
	}
}

func TestClassifyMergedExtractionFailureDiscardsEverything(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{failExtractAt: 2}
	uc := newPipeline(store, extractor, &fakeArbiter{}, nil, 1<<20)

	files := payloads("a.pdf", "b.pdf", "c.pdf")

	_, err := uc.ClassifyMerged(context.Background(), files)
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if len(store.discarded) != 3 {
		t.Fatalf("expected all 3 files discarded, got %v", store.discarded)
	}
	if len(store.promoted) != 0 {
		t.Fatalf("expected no promote after extraction failure")
	}
}

func TestClassifyMergedPromoteFailureStillDeletesRest(t *testing.T) {
	store := &fakeStore{promoteErr: domain.WrapError(domain.ErrStorage, "promote file", context.DeadlineExceeded)}
	extractor := &fakeExtractor{defaultText: "glukoza"}
	uc := newPipeline(store, extractor, &fakeArbiter{}, nil, 1<<20)

	files := payloads("a.pdf", "b.pdf", "c.pdf")

	_, err := uc.ClassifyMerged(context.Background(), files)
	if err == nil {
		t.Fatalf("expected promote error to surface")
	}
	if len(store.discarded) != 2 {
		t.Fatalf("expected the non-representative files deleted, got %v", store.discarded)
	}
	for _, loc := range store.discarded {
		if loc == store.saved[0].Location {
			t.Fatalf("representative file must not be discarded on promote failure")
		}
	}
}

func TestClassifyMergedConcatenatesTextsInOrder(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{texts: map[string]string{}}
	uc := newPipeline(store, extractor, &fakeArbiter{}, nil, 1<<20)

	// Keyword split across pages: each page alone is weak, together they
	// classify as morfologia.
	files := payloads("p1.pdf", "p2.pdf")
	extractor.texts["/uploads/1-p1.pdf"] = "morfologia wbc"
	extractor.texts["/uploads/2-p2.pdf"] = "hemoglobina hematokryt"

	resp, err := uc.ClassifyMerged(context.Background(), files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Classification.DocumentType != domain.TypeMorfologia {
		t.Fatalf("expected %s, got %s", domain.TypeMorfologia, resp.Classification.DocumentType)
	}
	if len(resp.Classification.KeywordsFound) != 4 {
		t.Fatalf("expected 4 keywords across both pages, got %v", resp.Classification.KeywordsFound)
	}
}
