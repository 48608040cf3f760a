package apikeys

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
)

// ErrDigestCollision is returned when a freshly generated secret hashes to
// an existing digest.
var ErrDigestCollision = errors.New("API key digest collision")

type Repository struct {
	db *badger.DB

	keys *badgerfx.Repository[*apiKeyModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,

		keys: badgerfx.NewRepository(func() *apiKeyModel { return new(apiKeyModel) }),
	}
}

// Create stores a new API key.
func (r *Repository) Create(_ context.Context, key *APIKey) error {
	model := newAPIKeyModel(key)

	err := r.db.Update(func(txn *badger.Txn) error {
		exists, err := r.keys.Exists(txn, keyByDigest(model.KeyHash))
		if err != nil {
			return err
		}
		if exists {
			return ErrDigestCollision
		}

		return r.keys.Write(txn, model)
	})
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// GetByID retrieves an API key by ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*APIKey, error) {
	var key *apiKeyModel
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		key, err = r.get(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return key.toDomain(), nil
}

// GetByIDAndApplicationID retrieves an API key owned by the application.
func (r *Repository) GetByIDAndApplicationID(ctx context.Context, id, applicationID uuid.UUID) (*APIKey, error) {
	key, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if key.ApplicationID != applicationID {
		return nil, errs.Newf(errs.KindAPIKeyNotFound, "API key %s not found", id)
	}

	return key, nil
}

// GetByDigest retrieves an API key by the digest of its secret.
func (r *Repository) GetByDigest(_ context.Context, digest string) (*APIKey, error) {
	var key *apiKeyModel
	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.keys.ReadByIndex(txn, keyByDigest(digest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errs.ErrAPIKeyNotFound
		}
		if err != nil {
			return err
		}

		key = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get API key by digest: %w", err)
	}

	return key.toDomain(), nil
}

// List retrieves the keys of an application in creation order.
func (r *Repository) List(
	_ context.Context,
	applicationID uuid.UUID,
	predicate func(*APIKey) bool,
	page storage.Page,
) (storage.Paged[APIKey], error) {
	pager := storage.NewPager[APIKey](page)

	err := r.db.View(func(txn *badger.Txn) error {
		return r.keys.ListByIndex(
			txn,
			applicationPrefix(applicationID),
			badger.DefaultIteratorOptions,
			func(model *apiKeyModel) bool {
				key := model.toDomain()
				if predicate == nil || predicate(key) {
					pager.Add(*key)
				}
				return true
			},
		)
	})
	if err != nil {
		return storage.Paged[APIKey]{}, fmt.Errorf("failed to list API keys: %w", err)
	}

	return pager.Result(), nil
}

// Update applies updater to the stored key inside a single transaction.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*APIKey) error) (*APIKey, error) {
	var updated *apiKeyModel

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.get(txn, id)
		if err != nil {
			return err
		}

		key := old.toDomain()
		if updErr := updater(key); updErr != nil {
			return updErr
		}

		// digest, owner and expiry are immutable
		key.KeyHash = old.KeyHash
		key.ApplicationID = old.ApplicationID
		key.ExpiresAt = old.ExpiresAt

		model := newAPIKeyModel(key)
		if wrErr := r.keys.Write(txn, model); wrErr != nil {
			return wrErr
		}

		updated = model
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update API key: %w", err)
	}

	return updated.toDomain(), nil
}

func (r *Repository) get(txn *badger.Txn, id uuid.UUID) (*apiKeyModel, error) {
	key, err := r.keys.Read(txn, keyByID(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.Newf(errs.KindAPIKeyNotFound, "API key %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	return key, nil
}
