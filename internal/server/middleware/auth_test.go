package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	principals map[string]authz.Principal
	calls      int
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, accessToken string) (authz.Principal, error) {
	f.calls++

	principal, ok := f.principals[accessToken]
	if !ok {
		return authz.Principal{}, errs.ErrUnauthenticated
	}

	return principal, nil
}

func TestAuth(t *testing.T) {
	appID := uuid.New()
	otherAppID := uuid.New()

	authenticator := &fakeAuthenticator{
		principals: map[string]authz.Principal{
			"admin":    authz.NewUserPrincipal(uuid.New(), authz.RoleAdmin),
			"consumer": authz.NewUserPrincipal(uuid.New(), authz.RoleConsumer),
			"ci-key":   authz.NewAPIKeyPrincipal(appID, authz.RoleCI),
		},
	}
	a := &Auth{authenticator: authenticator}

	app := fiber.New()
	app.Use(Errors)

	outer := app.Group("/applications", a.Handler)
	outer.Get("/", RequireRoles(authz.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(GetPrincipal(c).String())
	})

	inner := app.Group("/applications/:id/versions", a.Handler)
	inner.Get("/", RequireRoles(authz.RoleAdmin, authz.RoleCI), RequireApplicationScope("id"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing token", "/applications", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/applications", "Basic admin", fiber.StatusUnauthorized},
		{"unknown token", "/applications", "Bearer nope", fiber.StatusUnauthorized},
		{"admin", "/applications", "Bearer admin", fiber.StatusOK},
		{"lowercase scheme", "/applications", "bearer admin", fiber.StatusOK},
		{"wrong role", "/applications", "Bearer consumer", fiber.StatusForbidden},
		{"key in scope", "/applications/" + appID.String() + "/versions", "Bearer ci-key", fiber.StatusOK},
		{"key out of scope", "/applications/" + otherAppID.String() + "/versions", "Bearer ci-key", fiber.StatusForbidden},
		{"bad application id", "/applications/nope/versions", "Bearer admin", fiber.StatusBadRequest},
		{"role before scope", "/applications/" + appID.String() + "/versions", "Bearer consumer", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_AuthenticatesOnce(t *testing.T) {
	authenticator := &fakeAuthenticator{
		principals: map[string]authz.Principal{
			"admin": authz.NewUserPrincipal(uuid.New(), authz.RoleAdmin),
		},
	}
	a := &Auth{authenticator: authenticator}

	app := fiber.New()
	app.Use(Errors)
	app.Group("/applications", a.Handler)
	app.Group("/applications/:id/versions", a.Handler).Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/applications/"+uuid.NewString()+"/versions", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer admin")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, authenticator.calls)
}
