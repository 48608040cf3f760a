// Package authz holds the authenticated principal and the authorization
// predicates evaluated before domain operations run.
package authz

import (
	"github.com/google/uuid"
)

// Role is the role of an authenticated principal. User roles and API-key
// roles share these names.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCI       Role = "CI"
	RoleConsumer Role = "CONSUMER"
)

// ParseRole maps an external string onto a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCI, RoleConsumer:
		return r, true
	default:
		return "", false
	}
}

type PrincipalKind string

const (
	PrincipalUser   PrincipalKind = "user"
	PrincipalAPIKey PrincipalKind = "apikey"
)

// Principal is the identity derived from a validated credential.
type Principal struct {
	Kind          PrincipalKind
	UserID        uuid.UUID
	ApplicationID uuid.UUID
	Role          Role
}

func NewUserPrincipal(userID uuid.UUID, role Role) Principal {
	return Principal{
		Kind:   PrincipalUser,
		UserID: userID,
		Role:   role,
	}
}

func NewAPIKeyPrincipal(applicationID uuid.UUID, role Role) Principal {
	return Principal{
		Kind:          PrincipalAPIKey,
		ApplicationID: applicationID,
		Role:          role,
	}
}

func (p Principal) IsUser() bool {
	return p.Kind == PrincipalUser
}

func (p Principal) IsAPIKey() bool {
	return p.Kind == PrincipalAPIKey
}

func (p Principal) String() string {
	if p.IsAPIKey() {
		return string(PrincipalAPIKey) + ":" + p.ApplicationID.String()
	}

	return string(PrincipalUser) + ":" + p.UserID.String()
}
