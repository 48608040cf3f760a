package binaries

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("binary not found")

// Store keeps APK binaries addressed by application and version id. Version
// ids are never reused, so an object is only ever written by one upload.
type Store interface {
	Save(ctx context.Context, applicationID, versionID uuid.UUID, data []byte) error
	Open(ctx context.Context, applicationID, versionID uuid.UUID) (io.ReadCloser, error)
	// Delete removes the binary. Missing binaries are not an error.
	Delete(ctx context.Context, applicationID, versionID uuid.UUID) error
}

func objectName(applicationID, versionID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.apk", applicationID, versionID)
}
