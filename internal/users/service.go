package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/credentials"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"go.uber.org/zap"
)

type Service struct {
	users *Repository

	config Config
	logger *zap.Logger
}

func NewService(users *Repository, config Config, logger *zap.Logger) *Service {
	return &Service{
		users: users,

		config: config,
		logger: logger,
	}
}

// Create validates and stores a new active user. Only ADMIN accounts carry a
// password.
func (s *Service) Create(ctx context.Context, draft UserDraft) (*User, error) {
	role, ok := ParseRole(draft.Role)
	if !ok {
		return nil, errs.Newf(errs.KindInvalidRole, "invalid user role %q", draft.Role)
	}

	if !credentials.IsLoginValid(draft.Login) {
		return nil, errs.New(
			errs.KindInvalidArgument,
			"login must be 3 to 20 characters long and contain only letters, digits, '_' or '-'",
		)
	}

	var passwordHash *string
	switch {
	case role == RoleAdmin:
		hash, err := s.hashPassword(draft.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	case draft.Password != "":
		return nil, errs.Newf(errs.KindInvalidArgument, "%s users cannot have a password", role)
	}

	now := time.Now()
	user := &User{
		ID:           uuid.Must(uuid.NewV7()),
		Login:        draft.Login,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		TokenVersion: 0,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.String("login", draft.Login), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("id", user.ID.String()),
		zap.String("login", user.Login),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetByLogin(ctx context.Context, login string) (*User, error) {
	return s.users.GetByLogin(ctx, login)
}

func (s *Service) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return s.users.ExistsByLogin(ctx, login)
}

func (s *Service) ExistsByLoginIgnoreCase(ctx context.Context, login string) (bool, error) {
	return s.users.ExistsByLoginIgnoreCase(ctx, login)
}

func (s *Service) List(ctx context.Context, filter Filter, page storage.Page) (storage.Paged[User], error) {
	return s.users.List(ctx, filter, page)
}

// UpdatePassword sets a new password for the actor's own ADMIN account and
// invalidates every token issued before.
func (s *Service) UpdatePassword(ctx context.Context, actor authz.Principal, id uuid.UUID, password string) (*User, error) {
	if err := authz.CheckOwnResource(actor, id, "password"); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if eligibleErr := authz.CheckPasswordEligible(authz.Role(target.Role)); eligibleErr != nil {
		return nil, eligibleErr
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, id, func(u *User) error {
		if eligibleErr := authz.CheckPasswordEligible(authz.Role(u.Role)); eligibleErr != nil {
			return eligibleErr
		}

		u.PasswordHash = &hash
		u.TokenVersion++
		u.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update password", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("password updated", zap.String("id", id.String()), zap.Int64("token_version", user.TokenVersion))
	return user, nil
}

// SetActive changes the active flag of a user. A real change invalidates
// every token issued before.
func (s *Service) SetActive(ctx context.Context, actor authz.Principal, id uuid.UUID, active bool) (*User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if guardErr := authz.CheckActiveStatusChange(
		actor,
		authz.Target{ID: target.ID, Login: target.Login},
		s.config.SuperAdminLogin,
	); guardErr != nil {
		s.logger.Warn("active status change rejected",
			zap.String("actor", actor.String()),
			zap.String("target", id.String()),
			zap.Error(guardErr),
		)
		return nil, guardErr
	}

	user, err := s.users.Update(ctx, id, func(u *User) error {
		if u.Active == active {
			return nil
		}

		u.Active = active
		u.TokenVersion++
		u.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update active status", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("active status updated", zap.String("id", id.String()), zap.Bool("active", user.Active))
	return user, nil
}

// RecordLogin stamps a successful login.
func (s *Service) RecordLogin(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.Update(ctx, id, func(u *User) error {
		now := time.Now()
		u.LastLoginAt = &now
		u.UpdatedAt = now
		return nil
	})
}

// RecordInteraction stamps an authenticated request.
func (s *Service) RecordInteraction(ctx context.Context, id uuid.UUID) error {
	_, err := s.users.Update(ctx, id, func(u *User) error {
		now := time.Now()
		u.LastInteractionAt = &now
		return nil
	})

	return err
}

func (s *Service) hashPassword(password string) (string, error) {
	if !credentials.IsPasswordValid(password) {
		return "", errs.Newf(
			errs.KindInvalidArgument,
			"password must be %d characters to %d bytes long and contain a lowercase letter, an uppercase letter and a digit",
			credentials.MinPasswordLength,
			credentials.MaxPasswordBytes,
		)
	}

	hash, err := credentials.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hash, nil
}
