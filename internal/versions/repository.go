package versions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
)

type Repository struct {
	db *badger.DB

	versions *badgerfx.Repository[*versionModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,

		versions: badgerfx.NewRepository(func() *versionModel { return new(versionModel) }),
	}
}

// Create stores a new version under id. The version code must be unused
// within the application.
func (r *Repository) Create(_ context.Context, id uuid.UUID, draft *VersionDraft) (*Version, error) {
	model := newVersionModel(id, draft, time.Now())

	err := r.db.Update(func(txn *badger.Txn) error {
		exists, err := r.versions.Exists(txn, keyByCode(model.ApplicationID, model.VersionCode))
		if err != nil {
			return err
		}
		if exists {
			return errs.Newf(errs.KindConflict, "version code %d already exists", model.VersionCode)
		}

		return r.versions.Write(txn, model)
	})
	if errors.Is(err, badger.ErrConflict) {
		return nil, errs.Newf(errs.KindConflict, "version code %d already exists", model.VersionCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create version: %w", err)
	}

	return newVersion(model), nil
}

// GetByCode retrieves a version of an application by its version code.
func (r *Repository) GetByCode(_ context.Context, applicationID uuid.UUID, versionCode int64) (*Version, error) {
	var version *versionModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.getByCode(txn, applicationID, versionCode)
		if err == nil {
			version = found
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	return newVersion(version), nil
}

// GetLatest retrieves the version with the highest code, or nil when the
// application has none.
func (r *Repository) GetLatest(_ context.Context, applicationID uuid.UUID) (*Version, error) {
	var latest *versionModel

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchSize = 1

		return r.versions.ListByIndex(txn, applicationPrefix(applicationID), opts, func(model *versionModel) bool {
			latest = model
			return false
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest version: %w", err)
	}

	return newVersion(latest), nil
}

// List retrieves the versions of an application, newest first.
func (r *Repository) List(_ context.Context, applicationID uuid.UUID, page storage.Page) (storage.Paged[Version], error) {
	pager := storage.NewPager[Version](page)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		return r.versions.ListByIndex(txn, applicationPrefix(applicationID), opts, func(model *versionModel) bool {
			pager.Add(*newVersion(model))
			return true
		})
	})
	if err != nil {
		return storage.Paged[Version]{}, fmt.Errorf("failed to list versions: %w", err)
	}

	return pager.Result(), nil
}

// Delete removes a version record.
func (r *Repository) Delete(_ context.Context, applicationID uuid.UUID, versionCode int64) (*Version, error) {
	var deleted *versionModel

	err := r.db.Update(func(txn *badger.Txn) error {
		found, err := r.getByCode(txn, applicationID, versionCode)
		if err != nil {
			return err
		}

		if delErr := r.versions.Delete(txn, found.StorageKey()); delErr != nil {
			return delErr
		}

		deleted = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete version: %w", err)
	}

	return newVersion(deleted), nil
}

func (r *Repository) getByCode(txn *badger.Txn, applicationID uuid.UUID, versionCode int64) (*versionModel, error) {
	version, err := r.versions.ReadByIndex(txn, keyByCode(applicationID, versionCode))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.Newf(errs.KindVersionNotFound, "version %d not found", versionCode)
	}
	if err != nil {
		return nil, err
	}

	return version, nil
}
