package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every validation failure. The cause is
// intentionally not exposed.
var ErrInvalidToken = errors.New("invalid token")

// Issued is a signed token together with its expiry.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Engine issues and validates HS256 tokens for a single issuer.
type Engine struct {
	config Config

	now func() time.Time
}

func New(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid token config: %w", err)
	}

	return &Engine{
		config: config,
		now:    time.Now,
	}, nil
}

// IssueAccessToken issues a short-lived token for a user.
func (e *Engine) IssueAccessToken(userID uuid.UUID, role string, version int64) (Issued, error) {
	return e.issue(subjectUserPrefix+userID.String(), role, TypeAccess, &version, "", e.config.AccessTTL)
}

// IssueRefreshToken issues a long-lived token for a user, accepted only by
// the refresh flow.
func (e *Engine) IssueRefreshToken(userID uuid.UUID, role string, version int64) (Issued, error) {
	return e.issue(subjectUserPrefix+userID.String(), role, TypeRefresh, &version, "", e.config.RefreshTTL)
}

// IssueAPIKeyAccessToken issues an access token for an application API key.
// Such tokens carry no token version.
func (e *Engine) IssueAPIKeyAccessToken(applicationID uuid.UUID, role string) (Issued, error) {
	return e.issue(
		subjectAPIKeyPrefix+applicationID.String(),
		role,
		TypeAccess,
		nil,
		applicationID.String(),
		e.config.AccessTTL,
	)
}

func (e *Engine) issue(
	subject, role string,
	tokenType Type,
	version *int64,
	applicationID string,
	ttl time.Duration,
) (Issued, error) {
	now := e.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Role:          role,
		TokenType:     string(tokenType),
		TokenVersion:  version,
		ApplicationID: applicationID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.config.Secret)
	if err != nil {
		return Issued{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Issued{Token: signed, ExpiresAt: expiresAt}, nil
}

// Validate checks signature, issuer and expiry and returns the claims.
// Any failure yields ErrInvalidToken.
func (e *Engine) Validate(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return e.config.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(e.config.Issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(e.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
