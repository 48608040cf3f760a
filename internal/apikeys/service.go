package apikeys

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/credentials"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"go.uber.org/zap"
)

const maxGenerateAttempts = 3

// MaxExpireBy is the largest expireBy, in milliseconds, that still fits a
// time.Duration.
const MaxExpireBy = int64(math.MaxInt64 / time.Millisecond)

type Service struct {
	keys *Repository

	applications ApplicationFinder

	logger *zap.Logger
	now    func() time.Time
}

func NewService(keys *Repository, applications ApplicationFinder, logger *zap.Logger) *Service {
	return &Service{
		keys: keys,

		applications: applications,

		logger: logger,
		now:    time.Now,
	}
}

// Create generates a new key for an application. The raw secret is only
// available in the returned value.
func (s *Service) Create(ctx context.Context, draft APIKeyDraft) (*CreatedAPIKey, error) {
	logger := s.logger.With(zap.String("application_id", draft.ApplicationID.String()))

	if err := s.ensureApplication(ctx, draft.ApplicationID); err != nil {
		return nil, err
	}

	role, ok := ParseRole(draft.Role)
	if !ok {
		return nil, errs.Newf(errs.KindInvalidRole, "invalid API key role %q, expected %s or %s", draft.Role, RoleCI, RoleConsumer)
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, errs.New(errs.KindInvalidArgument, "API key name must not be empty")
	}

	now := s.now()

	var expiresAt *time.Time
	if draft.ExpireBy != nil {
		switch expireBy := *draft.ExpireBy; {
		case expireBy < 0:
			return nil, errs.New(errs.KindInvalidArgument, "expireBy must not be negative")
		case expireBy > MaxExpireBy:
			return nil, errs.Newf(errs.KindInvalidArgument, "expireBy must not exceed %d", MaxExpireBy)
		case expireBy > 0:
			at := now.Add(time.Duration(expireBy) * time.Millisecond)
			expiresAt = &at
		}
	}

	for range maxGenerateAttempts {
		secret, err := credentials.GenerateSecret()
		if err != nil {
			return nil, err
		}

		key := APIKey{
			ID:            uuid.Must(uuid.NewV7()),
			Name:          name,
			KeyHash:       credentials.HashSecret(secret),
			Role:          role,
			ApplicationID: draft.ApplicationID,
			Active:        true,
			CreatedAt:     now,
			LastUsedAt:    nil,
			ExpiresAt:     expiresAt,
			TokenVersion:  0,
		}

		err = s.keys.Create(ctx, &key)
		if errors.Is(err, ErrDigestCollision) {
			logger.Warn("API key digest collision, regenerating")
			continue
		}
		if err != nil {
			logger.Error("failed to create API key", zap.Error(err))
			return nil, err
		}

		logger.Info("API key created",
			zap.String("id", key.ID.String()),
			zap.String("role", string(key.Role)),
		)

		return &CreatedAPIKey{APIKey: key, Secret: secret}, nil
	}

	return nil, fmt.Errorf("failed to create API key: %w", ErrDigestCollision)
}

// List returns the keys of an application. See Filter for the meaning of
// the active flag.
func (s *Service) List(
	ctx context.Context,
	applicationID uuid.UUID,
	filter Filter,
	page storage.Page,
) (storage.Paged[APIKey], error) {
	if err := s.ensureApplication(ctx, applicationID); err != nil {
		return storage.Paged[APIKey]{}, err
	}

	var role *Role
	if filter.Role != nil {
		parsed, ok := ParseRole(*filter.Role)
		if !ok {
			return storage.Paged[APIKey]{}, errs.Newf(errs.KindInvalidRole, "invalid API key role %q", *filter.Role)
		}
		role = &parsed
	}

	return s.keys.List(ctx, applicationID, func(key *APIKey) bool {
		if role != nil && key.Role != *role {
			return false
		}
		if filter.Active && !key.Active {
			return false
		}
		return true
	}, page)
}

// Revoke deactivates a key of the application. Revoking a revoked key is a
// no-op.
func (s *Service) Revoke(ctx context.Context, applicationID, id uuid.UUID) error {
	logger := s.logger.With(
		zap.String("application_id", applicationID.String()),
		zap.String("id", id.String()),
	)

	if err := s.ensureApplication(ctx, applicationID); err != nil {
		return err
	}

	key, err := s.keys.GetByIDAndApplicationID(ctx, id, applicationID)
	if err != nil {
		return err
	}

	if !key.Active {
		logger.Debug("API key already revoked")
		return nil
	}

	if _, updErr := s.keys.Update(ctx, id, func(k *APIKey) error {
		k.Active = false
		return nil
	}); updErr != nil {
		logger.Error("failed to revoke API key", zap.Error(updErr))
		return updErr
	}

	logger.Info("API key revoked")
	return nil
}

// Authenticate resolves a raw secret into its key. Failures are reported in
// order: unknown key, revoked key, expired key.
func (s *Service) Authenticate(ctx context.Context, secret string) (*APIKey, error) {
	key, err := s.keys.GetByDigest(ctx, credentials.HashSecret(secret))
	if errors.Is(err, errs.ErrAPIKeyNotFound) {
		return nil, errs.ErrInvalidAPIKey
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if usableErr := key.usable(now); usableErr != nil {
		return nil, usableErr
	}

	// the key may have been revoked since it was read
	updated, err := s.keys.Update(ctx, key.ID, func(k *APIKey) error {
		if usableErr := k.usable(now); usableErr != nil {
			return usableErr
		}
		k.LastUsedAt = &now
		return nil
	})
	if errors.Is(err, errs.ErrAPIKeyRevoked) || errors.Is(err, errs.ErrAPIKeyExpired) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("failed to stamp API key usage", zap.String("id", key.ID.String()), zap.Error(err))
		return nil, err
	}

	return updated, nil
}

func (s *Service) ensureApplication(ctx context.Context, applicationID uuid.UUID) error {
	exists, err := s.applications.Exists(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return errs.Newf(errs.KindApplicationNotFound, "application %s not found", applicationID)
	}

	return nil
}
