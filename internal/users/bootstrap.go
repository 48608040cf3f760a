package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"go.uber.org/zap"
)

// Bootstrap provisions the super admin account when it does not exist yet.
// It is safe to run on every start.
func (s *Service) Bootstrap(ctx context.Context) error {
	login := s.config.SuperAdminLogin
	if login == "" {
		s.logger.Warn("super admin login is not configured, skipping bootstrap")
		return nil
	}

	exists, err := s.users.ExistsByLoginIgnoreCase(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to check super admin: %w", err)
	}
	if exists {
		s.logger.Debug("super admin already exists", zap.String("login", login))
		return nil
	}

	_, err = s.Create(ctx, UserDraft{
		Login:    login,
		Password: s.config.SuperAdminPassword,
		Role:     string(RoleAdmin),
	})
	if errors.Is(err, errs.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	s.logger.Info("super admin created", zap.String("login", login))
	return nil
}
