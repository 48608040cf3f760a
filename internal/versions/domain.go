package versions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
)

type VersionDraft struct {
	ApplicationID uuid.UUID

	VersionCode            int64
	VersionName            string
	PackageName            string
	CertificateFingerprint string

	Size   int64
	SHA256 string

	// UploadedBy describes the principal that uploaded the binary.
	UploadedBy string
}

type Version struct {
	VersionDraft

	ID        uuid.UUID
	CreatedAt time.Time
}

// ApplicationReader resolves the application a version belongs to.
type ApplicationReader interface {
	Get(ctx context.Context, id uuid.UUID) (*applications.Application, error)
}
