package versions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apk"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/binaries"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"go.uber.org/zap"
)

type Service struct {
	versions *Repository

	applications ApplicationReader
	extractor    apk.Extractor
	binaries     binaries.Store

	logger *zap.Logger
}

func NewService(
	versions *Repository,
	applications ApplicationReader,
	extractor apk.Extractor,
	binaries binaries.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		versions: versions,

		applications: applications,
		extractor:    extractor,
		binaries:     binaries,

		logger: logger,
	}
}

// Upload registers a new APK for an application. The package name must match
// the application bundle id, the version code must grow and the signer must
// stay the same across versions.
func (s *Service) Upload(ctx context.Context, applicationID uuid.UUID, uploadedBy string, data []byte) (*Version, error) {
	logger := s.logger.With(zap.String("application_id", applicationID.String()))

	application, err := s.applications.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errs.New(errs.KindInvalidArgument, "APK file is empty")
	}

	meta, err := s.extractor.Extract(data)
	if err != nil {
		logger.Info("failed to read APK metadata", zap.Error(err))
		return nil, err
	}

	if meta.PackageName != application.BundleID {
		return nil, errs.Newf(
			errs.KindInvalidArgument,
			"APK package %q does not match application bundle id %q",
			meta.PackageName, application.BundleID,
		)
	}

	if meta.VersionCode <= 0 {
		return nil, errs.New(errs.KindInvalidArgument, "version code must be positive")
	}

	latest, err := s.versions.GetLatest(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if latest != nil {
		if meta.VersionCode == latest.VersionCode {
			return nil, errs.Newf(errs.KindConflict, "version code %d already exists", meta.VersionCode)
		}
		if meta.VersionCode < latest.VersionCode {
			return nil, errs.Newf(
				errs.KindInvalidArgument,
				"version code %d must be greater than the latest version code %d",
				meta.VersionCode, latest.VersionCode,
			)
		}
		if meta.CertificateFingerprint != latest.CertificateFingerprint {
			return nil, errs.New(errs.KindInvalidArgument, "APK is signed with a different certificate than previous versions")
		}
	}

	sum := sha256.Sum256(data)
	id := uuid.Must(uuid.NewV7())

	if saveErr := s.binaries.Save(ctx, applicationID, id, data); saveErr != nil {
		logger.Error("failed to store APK", zap.Error(saveErr))
		return nil, saveErr
	}

	version, err := s.versions.Create(ctx, id, &VersionDraft{
		ApplicationID:          applicationID,
		VersionCode:            meta.VersionCode,
		VersionName:            meta.VersionName,
		PackageName:            meta.PackageName,
		CertificateFingerprint: meta.CertificateFingerprint,
		Size:                   int64(len(data)),
		SHA256:                 hex.EncodeToString(sum[:]),
		UploadedBy:             uploadedBy,
	})
	if err != nil {
		logger.Error("failed to create version", zap.Int64("version_code", meta.VersionCode), zap.Error(err))
		if delErr := s.binaries.Delete(ctx, applicationID, id); delErr != nil {
			logger.Error("failed to remove orphaned APK", zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info("version uploaded",
		zap.String("id", version.ID.String()),
		zap.Int64("version_code", version.VersionCode),
		zap.String("version_name", version.VersionName),
	)

	return version, nil
}

func (s *Service) List(ctx context.Context, applicationID uuid.UUID, page storage.Page) (storage.Paged[Version], error) {
	if _, err := s.applications.Get(ctx, applicationID); err != nil {
		return storage.Paged[Version]{}, err
	}

	return s.versions.List(ctx, applicationID, page)
}

func (s *Service) Get(ctx context.Context, applicationID uuid.UUID, versionCode int64) (*Version, error) {
	if _, err := s.applications.Get(ctx, applicationID); err != nil {
		return nil, err
	}

	return s.versions.GetByCode(ctx, applicationID, versionCode)
}

// GetLatest returns the version with the highest version code.
func (s *Service) GetLatest(ctx context.Context, applicationID uuid.UUID) (*Version, error) {
	if _, err := s.applications.Get(ctx, applicationID); err != nil {
		return nil, err
	}

	latest, err := s.versions.GetLatest(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, errs.New(errs.KindVersionNotFound, "application has no versions")
	}

	return latest, nil
}

// Download returns the version together with its binary. The caller closes
// the reader.
func (s *Service) Download(ctx context.Context, applicationID uuid.UUID, versionCode int64) (*Version, io.ReadCloser, error) {
	version, err := s.Get(ctx, applicationID, versionCode)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.binaries.Open(ctx, applicationID, version.ID)
	if errors.Is(err, binaries.ErrNotFound) {
		s.logger.Error("APK binary missing",
			zap.String("application_id", applicationID.String()),
			zap.Int64("version_code", versionCode),
		)
		return nil, nil, errs.Newf(errs.KindVersionNotFound, "binary of version %d not found", versionCode)
	}
	if err != nil {
		return nil, nil, err
	}

	return version, body, nil
}

// Delete removes the version record and then its binary.
func (s *Service) Delete(ctx context.Context, applicationID uuid.UUID, versionCode int64) error {
	logger := s.logger.With(
		zap.String("application_id", applicationID.String()),
		zap.Int64("version_code", versionCode),
	)

	if _, err := s.applications.Get(ctx, applicationID); err != nil {
		return err
	}

	deleted, err := s.versions.Delete(ctx, applicationID, versionCode)
	if err != nil {
		return err
	}

	if delErr := s.binaries.Delete(ctx, applicationID, deleted.ID); delErr != nil {
		logger.Error("failed to delete APK binary", zap.Error(delErr))
		return delErr
	}

	logger.Info("version deleted")
	return nil
}
