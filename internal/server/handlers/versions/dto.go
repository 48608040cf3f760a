package versions

import (
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/versions"
)

type VersionResponse struct {
	ID                     uuid.UUID `json:"id"`
	ApplicationID          uuid.UUID `json:"application_id"`
	VersionCode            int64     `json:"version_code"`
	VersionName            string    `json:"version_name"`
	PackageName            string    `json:"package_name"`
	CertificateFingerprint string    `json:"certificate_fingerprint"`
	Size                   int64     `json:"size"`
	SHA256                 string    `json:"sha256"`
	UploadedBy             string    `json:"uploaded_by"`
	CreatedAt              time.Time `json:"created_at"`
}

func newVersionResponse(version versions.Version) VersionResponse {
	return VersionResponse{
		ID:                     version.ID,
		ApplicationID:          version.ApplicationID,
		VersionCode:            version.VersionCode,
		VersionName:            version.VersionName,
		PackageName:            version.PackageName,
		CertificateFingerprint: version.CertificateFingerprint,
		Size:                   version.Size,
		SHA256:                 version.SHA256,
		UploadedBy:             version.UploadedBy,
		CreatedAt:              version.CreatedAt,
	}
}
