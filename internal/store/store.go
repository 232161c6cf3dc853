// Package store keeps transcripts as plain text files, one per file id.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mgpai22/lekh/internal/logging"
)

const transcriptExt = ".txt"

var (
	ErrNotFound      = errors.New("transcript not found")
	ErrInvalidFileID = errors.New("invalid file id")
)

var validFileID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFileID rejects ids that could escape the transcript directory.
func ValidateFileID(fileID string) error {
	if !validFileID.MatchString(fileID) || fileID == "." || fileID == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFileID, fileID)
	}
	return nil
}

// FileStore saves transcripts under Dir as <fileID>.txt.
type FileStore struct {
	Dir    string
	logger *logging.Logger
}

func NewFileStore(dir string, logger *logging.Logger) *FileStore {
	return &FileStore{Dir: dir, logger: logger.Component("store")}
}

func (s *FileStore) Path(fileID string) string {
	return filepath.Join(s.Dir, fileID+transcriptExt)
}

func (s *FileStore) SaveTranscript(ctx context.Context, fileID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateFileID(fileID); err != nil {
		return err
	}

	path := s.Path(fileID)
	if err := WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	s.logger.Debugw("Transcript written", "file_id", fileID, "path", path, "bytes", len(text))
	return nil
}

func (s *FileStore) LoadTranscript(ctx context.Context, fileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateFileID(fileID); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.Path(fileID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}

// Exists reports whether a transcript for fileID is stored.
func (s *FileStore) Exists(fileID string) bool {
	if ValidateFileID(fileID) != nil {
		return false
	}
	_, err := os.Stat(s.Path(fileID))
	return err == nil
}
