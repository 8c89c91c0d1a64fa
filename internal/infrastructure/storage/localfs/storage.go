package localfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// Store keeps uploads in a temporary directory and archives classified files
// under per-type subdirectories of the processed directory. Every saved file
// ends promoted or discarded; the pipelines guarantee that across their exit
// paths.
type Store struct {
	uploadDir    string
	processedDir string
	allowedExts  map[string]struct{}
	logger       *slog.Logger
}

func New(uploadDir, processedDir string, allowedExtensions []string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create processed dir: %w", err)
	}

	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}

	return &Store{
		uploadDir:    uploadDir,
		processedDir: processedDir,
		allowedExts:  allowed,
		logger:       logger,
	}, nil
}

// Save writes the payload under a fresh uuid, keeping the original extension.
// The id is assigned before any content inspection.
func (s *Store) Save(_ context.Context, data io.Reader, filename string) (domain.UploadedFile, error) {
	ext := filepath.Ext(filename)
	if _, ok := s.allowedExts[strings.TrimPrefix(strings.ToLower(ext), ".")]; !ok {
		return domain.UploadedFile{}, domain.WrapError(domain.ErrValidation, "save upload",
			fmt.Errorf("file extension %q not allowed", ext))
	}

	id := uuid.NewString()
	location := filepath.Join(s.uploadDir, id+ext)

	f, err := os.Create(location)
	if err != nil {
		return domain.UploadedFile{}, domain.WrapError(domain.ErrStorage, "create upload file", err)
	}
	written, err := io.Copy(f, data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(location)
		return domain.UploadedFile{}, domain.WrapError(domain.ErrStorage, "write upload file", err)
	}

	s.logger.Info("file saved", "file_id", id, "location", location, "bytes", written)
	return domain.UploadedFile{
		ID:       id,
		Filename: filename,
		Size:     written,
		Location: location,
		State:    domain.FileTemporary,
	}, nil
}

// Promote moves (not copies) the file into the category's archive directory,
// creating it if absent. Rename failure gets one retry with a copy fallback
// for cross-device moves; after that the file stays Temporary and the error
// surfaces.
func (s *Store) Promote(_ context.Context, location string, category domain.DocumentType) (string, error) {
	typeDir := filepath.Join(s.processedDir, string(category))
	if err := os.MkdirAll(typeDir, 0o755); err != nil {
		return "", domain.WrapError(domain.ErrStorage, "create category dir", err)
	}

	newLocation := filepath.Join(typeDir, filepath.Base(location))
	if err := s.move(location, newLocation); err != nil {
		if retryErr := s.move(location, newLocation); retryErr != nil {
			return "", domain.WrapError(domain.ErrStorage, "promote file", retryErr)
		}
	}

	s.logger.Info("file archived", "from", location, "to", newLocation)
	return newLocation, nil
}

func (s *Store) move(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}
	// Rename is not atomic across devices; fall back to copy-then-remove.
	src, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(to)
		return fmt.Errorf("copy file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(to)
		return fmt.Errorf("flush destination: %w", err)
	}
	if err := os.Remove(from); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// Discard removes a temporary file. Already-gone files are not an error.
func (s *Store) Discard(_ context.Context, location string) error {
	err := os.Remove(location)
	if err == nil {
		s.logger.Info("temporary file removed", "location", location)
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return domain.WrapError(domain.ErrStorage, "discard file", err)
}
