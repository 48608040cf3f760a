package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
)

// Role is the role of a user account.
type Role string

const (
	RoleAdmin    = Role(authz.RoleAdmin)
	RoleCI       = Role(authz.RoleCI)
	RoleConsumer = Role(authz.RoleConsumer)
)

// ParseRole maps an external string onto a user Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCI, RoleConsumer:
		return r, true
	default:
		return "", false
	}
}

type UserDraft struct {
	Login    string
	Password string
	Role     string
}

type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash *string
	Role         Role
	Active       bool

	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLoginAt       *time.Time
	LastInteractionAt *time.Time

	// TokenVersion is bumped on every password or active status change and
	// invalidates tokens carrying an older value.
	TokenVersion int64
}

func (u *User) Principal() authz.Principal {
	return authz.NewUserPrincipal(u.ID, authz.Role(u.Role))
}

type Filter struct {
	Role   *Role
	Active *bool
}

func (f Filter) match(u *User) bool {
	if f.Role != nil && u.Role != *f.Role {
		return false
	}
	if f.Active != nil && u.Active != *f.Active {
		return false
	}

	return true
}
