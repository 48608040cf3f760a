package users

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

type Repository struct {
	db *badger.DB

	users *badgerfx.Repository[*userModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,

		users: badgerfx.NewRepository(func() *userModel { return new(userModel) }),
	}
}

// Create stores a new user. Logins are unique regardless of case.
func (r *Repository) Create(_ context.Context, user *User) error {
	model := newUserModel(user)

	err := r.db.Update(func(txn *badger.Txn) error {
		exists, err := r.users.Exists(txn, keyByLoginCI(model.Login))
		if err != nil {
			return err
		}
		if exists {
			return errs.Newf(errs.KindConflict, "user with login %q already exists", model.Login)
		}

		return r.users.Write(txn, model)
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	var user *userModel
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = r.get(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user.toDomain(), nil
}

// GetByLogin retrieves a user by exact login.
func (r *Repository) GetByLogin(_ context.Context, login string) (*User, error) {
	var user *userModel
	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.users.ReadByIndex(txn, keyByLogin(login))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errs.Newf(errs.KindUserNotFound, "user %q not found", login)
		}
		if err != nil {
			return err
		}

		user = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user.toDomain(), nil
}

func (r *Repository) ExistsByLogin(_ context.Context, login string) (bool, error) {
	return r.exists(keyByLogin(login))
}

func (r *Repository) ExistsByLoginIgnoreCase(_ context.Context, login string) (bool, error) {
	return r.exists(keyByLoginCI(login))
}

func (r *Repository) exists(key string) (bool, error) {
	var exists bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		exists, err = r.users.Exists(txn, key)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	return exists, nil
}

// List retrieves users matching filter in creation order.
func (r *Repository) List(_ context.Context, filter Filter, page storage.Page) (storage.Paged[User], error) {
	pager := storage.NewPager[User](page)

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.users.List(txn, prefixByID, badger.DefaultIteratorOptions)
		if err != nil {
			return err
		}

		for _, model := range models {
			user := model.toDomain()
			if filter.match(user) {
				pager.Add(*user)
			}
		}

		return nil
	})
	if err != nil {
		return storage.Paged[User]{}, fmt.Errorf("failed to list users: %w", err)
	}

	return pager.Result(), nil
}

// Update applies updater to the stored user inside a single transaction.
// Concurrent conflicting updates fail with badger.ErrConflict on commit.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*User) error) (*User, error) {
	var updated *userModel

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.get(txn, id)
		if err != nil {
			return err
		}

		user := old.toDomain()
		if updErr := updater(user); updErr != nil {
			return updErr
		}

		if user.Login != old.Login {
			return errs.New(errs.KindInvalidArgument, "login cannot be changed")
		}

		model := newUserModel(user)
		model.ID = old.ID
		model.CreatedAt = old.CreatedAt

		if wrErr := r.users.Replace(txn, old, model); wrErr != nil {
			return wrErr
		}

		updated = model
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated.toDomain(), nil
}

func (r *Repository) get(txn *badger.Txn, id uuid.UUID) (*userModel, error) {
	user, err := r.users.Read(txn, keyByID(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.Newf(errs.KindUserNotFound, "user %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
