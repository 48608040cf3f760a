package versions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
)

const (
	prefix = "version:"

	prefixByID          = prefix + "id:"
	prefixByApplication = prefix + "application:"
)

type versionModel struct {
	storage.BaseEntity

	ApplicationID uuid.UUID `json:"application_id"`

	VersionCode            int64  `json:"version_code"`
	VersionName            string `json:"version_name"`
	PackageName            string `json:"package_name"`
	CertificateFingerprint string `json:"certificate_fingerprint"`

	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`

	UploadedBy string `json:"uploaded_by"`
}

func newVersionModel(id uuid.UUID, draft *VersionDraft, now time.Time) *versionModel {
	return &versionModel{
		BaseEntity: storage.BaseEntity{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ApplicationID:          draft.ApplicationID,
		VersionCode:            draft.VersionCode,
		VersionName:            draft.VersionName,
		PackageName:            draft.PackageName,
		CertificateFingerprint: draft.CertificateFingerprint,
		Size:                   draft.Size,
		SHA256:                 draft.SHA256,
		UploadedBy:             draft.UploadedBy,
	}
}

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

func applicationPrefix(applicationID uuid.UUID) string {
	return prefixByApplication + applicationID.String() + ":"
}

// version codes are zero padded so that index order is numeric order
func keyByCode(applicationID uuid.UUID, versionCode int64) string {
	return fmt.Sprintf("%s%019d", applicationPrefix(applicationID), versionCode)
}

func (m *versionModel) StorageKey() string {
	return keyByID(m.ID)
}

func (m *versionModel) StorageIndexes() []string {
	return []string{keyByCode(m.ApplicationID, m.VersionCode)}
}

func (m *versionModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version: %w", err)
	}

	return data, nil
}

func (m *versionModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal version: %w", err)
	}

	return nil
}

func newVersion(model *versionModel) *Version {
	if model == nil {
		return nil
	}

	return &Version{
		VersionDraft: VersionDraft{
			ApplicationID:          model.ApplicationID,
			VersionCode:            model.VersionCode,
			VersionName:            model.VersionName,
			PackageName:            model.PackageName,
			CertificateFingerprint: model.CertificateFingerprint,
			Size:                   model.Size,
			SHA256:                 model.SHA256,
			UploadedBy:             model.UploadedBy,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
	}
}
