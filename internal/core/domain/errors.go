package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers file size and extension rejections.
	ErrValidation = errors.New("validation failed")
	// ErrExtraction covers OCR and text-layer extraction failures.
	ErrExtraction = errors.New("text extraction failed")
	// ErrClassification covers LLM transport/parse failures. Always
	// recoverable: the engine falls back to the rule-based path.
	ErrClassification = errors.New("classification failed")
	// ErrStorage covers save/promote/discard failures.
	ErrStorage = errors.New("storage failure")
	// ErrCallback covers checklist callback delivery failures. Logged only.
	ErrCallback = errors.New("callback delivery failed")

	ErrRecordNotFound = errors.New("record not found")
	ErrTemporary      = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
