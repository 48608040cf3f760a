package authz

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

// Target identifies the user an operation is applied to.
type Target struct {
	ID    uuid.UUID
	Login string
}

// RequireRole fails with ForbiddenAccess unless the principal holds one of
// the allowed roles.
func RequireRole(p Principal, allowed ...Role) error {
	if slices.Contains(allowed, p.Role) {
		return nil
	}

	return errs.Newf(errs.KindForbiddenAccess, "role %s is not allowed to perform this operation", p.Role)
}

// CheckActiveStatusChange guards activation and deactivation of users. The
// super admin is protected from every caller, itself included; otherwise a
// user may not toggle their own status.
func CheckActiveStatusChange(actor Principal, target Target, superAdminLogin string) error {
	if superAdminLogin != "" && strings.EqualFold(target.Login, superAdminLogin) {
		return errs.ErrSuperAdminProtection
	}

	if actor.IsUser() && actor.UserID == target.ID {
		return errs.ErrSelfModificationNotAllowed
	}

	return nil
}

// CheckOwnResource allows principals holding a privileged role to act on any
// user and everybody else only on themselves.
func CheckOwnResource(actor Principal, targetUserID uuid.UUID, resource string, privileged ...Role) error {
	if slices.Contains(privileged, actor.Role) {
		return nil
	}

	if actor.IsUser() && actor.UserID == targetUserID {
		return nil
	}

	return errs.Newf(errs.KindForbiddenAccess, "you can only access your own %s", resource)
}

// CheckPasswordEligible rejects password operations on accounts that do not
// log in with a password.
func CheckPasswordEligible(targetRole Role) error {
	if targetRole == RoleAdmin {
		return nil
	}

	return errs.Newf(errs.KindInvalidUserType, "password operations are only available for %s users", RoleAdmin)
}

// CheckApplicationScope restricts API-key principals to their own application.
func CheckApplicationScope(actor Principal, applicationID uuid.UUID) error {
	if !actor.IsAPIKey() || actor.ApplicationID == applicationID {
		return nil
	}

	return errs.New(errs.KindForbiddenAccess, "API key is not valid for this application")
}
