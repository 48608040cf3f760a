package applications

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

	applications *badgerfx.Repository[*applicationModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,

		applications: badgerfx.NewRepository(func() *applicationModel { return new(applicationModel) }),
	}
}

// Create creates a new application.
func (r *Repository) Create(_ context.Context, draft *ApplicationDraft) (*Application, error) {
	model := newApplicationModel(draft, time.Now())

	err := r.db.Update(func(txn *badger.Txn) error {
		if err := r.checkUnique(txn, model.Name, keyByName(model.Name), "name"); err != nil {
			return err
		}
		if err := r.checkUnique(txn, model.BundleID, keyByBundle(model.BundleID), "bundle id"); err != nil {
			return err
		}

		return r.applications.Write(txn, model)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return newApplication(model), nil
}

// GetByID retrieves an application by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Application, error) {
	var application *applicationModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.getByID(txn, id)
		if err == nil {
			application = found
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get application by ID: %w", err)
	}

	return newApplication(application), nil
}

// List retrieves applications in creation order.
func (r *Repository) List(_ context.Context, page storage.Page) (storage.Paged[Application], error) {
	pager := storage.NewPager[Application](page)

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.applications.List(txn, prefixByID, badger.DefaultIteratorOptions)
		if err != nil {
			return err
		}

		for _, model := range models {
			pager.Add(*newApplication(model))
		}

		return nil
	})
	if err != nil {
		return storage.Paged[Application]{}, fmt.Errorf("failed to list applications: %w", err)
	}

	return pager.Result(), nil
}

// Update updates an existing application.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*Application) error) (*Application, error) {
	var updated *applicationModel

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.getByID(txn, id)
		if err != nil {
			return err
		}

		application := newApplication(old)
		if updErr := updater(application); updErr != nil {
			return updErr
		}

		if keyByBundle(application.BundleID) != keyByBundle(old.BundleID) {
			return errs.New(errs.KindInvalidArgument, "bundle id cannot be changed")
		}

		if keyByName(application.Name) != keyByName(old.Name) {
			if uniqErr := r.checkUnique(txn, application.Name, keyByName(application.Name), "name"); uniqErr != nil {
				return uniqErr
			}
		}

		model := &applicationModel{
			BaseEntity: storage.BaseEntity{
				ID:        old.ID,
				CreatedAt: old.CreatedAt,
				UpdatedAt: time.Now(),
			},
			Name:        application.Name,
			BundleID:    old.BundleID,
			Description: application.Description,
		}

		if wrErr := r.applications.Replace(txn, old, model); wrErr != nil {
			return wrErr
		}

		updated = model
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	return newApplication(updated), nil
}

func (r *Repository) getByID(txn *badger.Txn, id uuid.UUID) (*applicationModel, error) {
	application, err := r.applications.Read(txn, keyByID(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.Newf(errs.KindApplicationNotFound, "application %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	return application, nil
}

func (r *Repository) checkUnique(txn *badger.Txn, value, key, field string) error {
	exists, err := r.applications.Exists(txn, key)
	if err != nil {
		return err
	}
	if exists {
		return errs.Newf(errs.KindConflict, "application with %s %q already exists", field, value)
	}

	return nil
}
