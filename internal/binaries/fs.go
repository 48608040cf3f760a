package binaries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FSStore keeps binaries under <root>/<applicationId>/<versionId>.apk.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create binaries root: %w", err)
	}

	return &FSStore{root: root}, nil
}

func (s *FSStore) Save(_ context.Context, applicationID, versionID uuid.UUID, data []byte) error {
	path := s.path(applicationID, versionID)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create binary directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, wrErr := tmp.Write(data); wrErr != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write binary: %w", wrErr)
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync binary: %w", syncErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to close binary: %w", closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		return fmt.Errorf("failed to move binary into place: %w", renameErr)
	}

	return nil
}

func (s *FSStore) Open(_ context.Context, applicationID, versionID uuid.UUID) (io.ReadCloser, error) {
	file, err := os.Open(s.path(applicationID, versionID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open binary: %w", err)
	}

	return file, nil
}

func (s *FSStore) Delete(_ context.Context, applicationID, versionID uuid.UUID) error {
	err := os.Remove(s.path(applicationID, versionID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete binary: %w", err)
	}

	return nil
}

func (s *FSStore) path(applicationID, versionID uuid.UUID) string {
	return filepath.Join(s.root, filepath.FromSlash(objectName(applicationID, versionID)))
}
