package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/auth"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

const (
	bearerPrefix = "Bearer "

	localsPrincipal = "principal"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (authz.Principal, error)
}

// Auth resolves the bearer token of a request into a principal.
type Auth struct {
	authenticator Authenticator
}

func NewAuth(authSvc *auth.Service) *Auth {
	return &Auth{authenticator: authSvc}
}

// Handler rejects requests without a valid access token. It runs once per
// request even when mounted on nested groups.
func (a *Auth) Handler(c *fiber.Ctx) error {
	if _, ok := c.Locals(localsPrincipal).(authz.Principal); ok {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return errs.New(errs.KindUnauthenticated, "missing bearer token")
	}

	principal, err := a.authenticator.Authenticate(c.Context(), strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil {
		return err
	}

	c.Locals(localsPrincipal, principal)

	return c.Next()
}

// GetPrincipal returns the principal stored by Auth.
func GetPrincipal(c *fiber.Ctx) authz.Principal {
	principal, _ := c.Locals(localsPrincipal).(authz.Principal)
	return principal
}

// RequireRoles allows only principals holding one of roles.
func RequireRoles(roles ...authz.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(localsPrincipal).(authz.Principal)
		if !ok {
			return errs.ErrUnauthenticated
		}

		if err := authz.RequireRole(principal, roles...); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequireApplicationScope keeps API-key principals inside the application
// named by the route parameter.
func RequireApplicationScope(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applicationID, err := uuid.Parse(c.Params(param))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid application id")
		}

		if scopeErr := authz.CheckApplicationScope(GetPrincipal(c), applicationID); scopeErr != nil {
			return scopeErr
		}

		return c.Next()
	}
}
