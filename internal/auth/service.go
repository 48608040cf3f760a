package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/credentials"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/token"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
	"go.uber.org/zap"
)

type Service struct {
	users   *users.Service
	apiKeys *apikeys.Service
	tokens  *token.Engine

	metrics *Metrics
	logger  *zap.Logger
}

func NewService(
	users *users.Service,
	apiKeys *apikeys.Service,
	tokens *token.Engine,
	metrics *Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:   users,
		apiKeys: apiKeys,
		tokens:  tokens,

		metrics: metrics,
		logger:  logger,
	}
}

// Login authenticates an ADMIN user by login and password. The role check
// runs before the active check, and an unknown login is indistinguishable
// from a wrong password.
func (s *Service) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	pair, err := s.login(ctx, login, password)
	s.metrics.login(err)
	if err != nil {
		s.logger.Info("login failed", zap.String("login", login), zap.Error(err))
		return nil, err
	}

	s.logger.Info("login succeeded", zap.String("id", pair.User.ID.String()))
	return pair, nil
}

func (s *Service) login(ctx context.Context, login, password string) (*TokenPair, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, errs.ErrUserNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.Role != users.RoleAdmin {
		return nil, errs.New(errs.KindUnauthorizedAccess, "only ADMIN users can log in with username/password")
	}

	if !user.Active {
		return nil, errs.ErrUserNotActive
	}

	if user.PasswordHash == nil || !credentials.VerifyPassword(password, *user.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}

	user, err = s.users.RecordLogin(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issuePair(user)
}

// Refresh exchanges a valid refresh token for a new pair. Every rejection is
// reported as InvalidRefreshToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return nil, errs.ErrInvalidRefreshToken
	}

	if typ, ok := claims.Type(); !ok || typ != token.TypeRefresh {
		return nil, errs.ErrInvalidRefreshToken
	}

	userID, ok := claims.SubjectUserID()
	if !ok {
		return nil, errs.ErrInvalidRefreshToken
	}

	version, ok := claims.Version()
	if !ok {
		return nil, errs.ErrInvalidRefreshToken
	}

	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, errs.ErrUserNotFound) {
		return nil, errs.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	if user.TokenVersion != version {
		s.logger.Info("stale refresh token",
			zap.String("id", user.ID.String()),
			zap.Int64("token_version", version),
			zap.Int64("current_version", user.TokenVersion),
		)
		return nil, errs.ErrInvalidRefreshToken
	}

	return s.issuePair(user)
}

// LoginWithAPIKey authenticates a raw API key and issues an access token for
// its application. Unknown, revoked and expired keys fail differently.
func (s *Service) LoginWithAPIKey(ctx context.Context, secret string) (*apikeys.APIKey, token.Issued, error) {
	key, err := s.apiKeys.Authenticate(ctx, secret)
	s.metrics.apiKeyAuthentication(err)
	if err != nil {
		s.logger.Info("API key authentication failed", zap.Error(err))
		return nil, token.Issued{}, err
	}

	issued, err := s.tokens.IssueAPIKeyAccessToken(key.ApplicationID, string(key.Role))
	if err != nil {
		return nil, token.Issued{}, fmt.Errorf("failed to issue API key token: %w", err)
	}

	s.logger.Info("API key authenticated",
		zap.String("id", key.ID.String()),
		zap.String("application_id", key.ApplicationID.String()),
	)

	return key, issued, nil
}

// Authenticate resolves an access token into a principal. User tokens must
// belong to an existing active user and carry its current token version.
// Every rejection is reported as Unauthenticated.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (authz.Principal, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	if typ, ok := claims.Type(); !ok || typ != token.TypeAccess {
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	roleName, _ := claims.RoleName()
	role, ok := authz.ParseRole(roleName)
	if !ok {
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	if userID, isUser := claims.SubjectUserID(); isUser {
		return s.authenticateUser(ctx, claims, userID)
	}

	if applicationID, isKey := claims.SubjectApplicationID(); isKey {
		if role == authz.RoleAdmin {
			return authz.Principal{}, errs.ErrUnauthenticated
		}
		return authz.NewAPIKeyPrincipal(applicationID, role), nil
	}

	return authz.Principal{}, errs.ErrUnauthenticated
}

func (s *Service) authenticateUser(ctx context.Context, claims *token.Claims, userID uuid.UUID) (authz.Principal, error) {
	version, ok := claims.Version()
	if !ok {
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, errs.ErrUserNotFound) {
		return authz.Principal{}, errs.ErrUnauthenticated
	}
	if err != nil {
		return authz.Principal{}, err
	}

	if !user.Active || user.TokenVersion != version {
		s.logger.Debug("rejected user token", zap.String("id", userID.String()))
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	if recErr := s.users.RecordInteraction(ctx, user.ID); recErr != nil {
		s.logger.Warn("failed to record interaction", zap.String("id", user.ID.String()), zap.Error(recErr))
	}

	return user.Principal(), nil
}

func (s *Service) issuePair(user *users.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefreshToken(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{
		User:    user,
		Access:  access,
		Refresh: refresh,
	}, nil
}
