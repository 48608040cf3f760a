package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Type distinguishes access tokens from refresh tokens.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

const (
	subjectUserPrefix   = "user:"
	subjectAPIKeyPrefix = "apikey:"
)

// Claims is the claim set carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims

	Role          string `json:"role,omitempty"`
	TokenType     string `json:"tokenType,omitempty"`
	TokenVersion  *int64 `json:"tokenVersion,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
}

// Type returns the token type claim if it holds a known value.
func (c *Claims) Type() (Type, bool) {
	if c == nil {
		return "", false
	}

	switch t := Type(c.TokenType); t {
	case TypeAccess, TypeRefresh:
		return t, true
	default:
		return "", false
	}
}

// RoleName returns the raw role claim.
func (c *Claims) RoleName() (string, bool) {
	if c == nil || c.Role == "" {
		return "", false
	}

	return c.Role, true
}

// Version returns the token version claim. API-key tokens have none.
func (c *Claims) Version() (int64, bool) {
	if c == nil || c.TokenVersion == nil {
		return 0, false
	}

	return *c.TokenVersion, true
}

// SubjectUserID returns the user id of a "user:<id>" subject.
func (c *Claims) SubjectUserID() (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}

	raw, ok := strings.CutPrefix(c.Subject, subjectUserPrefix)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// SubjectApplicationID returns the application id of an "apikey:<id>"
// subject, falling back to the applicationId claim.
func (c *Claims) SubjectApplicationID() (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}

	raw, ok := strings.CutPrefix(c.Subject, subjectAPIKeyPrefix)
	if !ok {
		raw = c.ApplicationID
	}
	if raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
