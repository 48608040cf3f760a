package apikeys

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

// Role is the role granted by an API key.
type Role string

const (
	RoleCI       = Role(authz.RoleCI)
	RoleConsumer = Role(authz.RoleConsumer)
)

// ParseRole maps an external string onto an API key Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCI, RoleConsumer:
		return r, true
	default:
		return "", false
	}
}

type APIKeyDraft struct {
	ApplicationID uuid.UUID
	Name          string
	Role          string
	// ExpireBy is a lifetime in milliseconds from now. Nil or zero means the
	// key never expires.
	ExpireBy *int64
}

type APIKey struct {
	ID            uuid.UUID
	Name          string
	KeyHash       string
	Role          Role
	ApplicationID uuid.UUID
	Active        bool
	CreatedAt     time.Time
	LastUsedAt    *time.Time
	ExpiresAt     *time.Time
	TokenVersion  int64
}

func (k *APIKey) Principal() authz.Principal {
	return authz.NewAPIKeyPrincipal(k.ApplicationID, authz.Role(k.Role))
}

func (k *APIKey) expired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

// usable reports why the key cannot authenticate at now. Revocation is
// reported before expiry.
func (k *APIKey) usable(now time.Time) error {
	if !k.Active {
		return errs.ErrAPIKeyRevoked
	}
	if k.expired(now) {
		return errs.ErrAPIKeyExpired
	}
	return nil
}

// CreatedAPIKey is returned once, on creation, and is the only value that
// ever carries the raw secret.
type CreatedAPIKey struct {
	APIKey

	Secret string
}

type Filter struct {
	Role *string
	// Active narrows the result to active keys when true. False means no
	// filter at all, not "inactive only".
	Active bool
}

// ApplicationFinder reports whether an application exists.
type ApplicationFinder interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
