package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
)

// Errors converts business errors into HTTP errors.
func Errors(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	var e *errs.Error
	if !errors.As(err, &e) {
		return err
	}

	status := StatusOf(e.Kind)
	if status == fiber.StatusInternalServerError {
		return err
	}

	return fiber.NewError(status, e.Message)
}

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidArgument,
		errs.KindInvalidRole,
		errs.KindInvalidUserType:
		return fiber.StatusBadRequest
	case errs.KindInvalidCredentials,
		errs.KindInvalidRefreshToken,
		errs.KindInvalidAPIKey,
		errs.KindAPIKeyRevoked,
		errs.KindAPIKeyExpired,
		errs.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case errs.KindUnauthorizedAccess,
		errs.KindUserNotActive,
		errs.KindForbiddenAccess,
		errs.KindSelfModificationNotAllowed,
		errs.KindSuperAdminProtection:
		return fiber.StatusForbidden
	case errs.KindUserNotFound,
		errs.KindApplicationNotFound,
		errs.KindAPIKeyNotFound,
		errs.KindVersionNotFound:
		return fiber.StatusNotFound
	case errs.KindConflict:
		return fiber.StatusConflict
	case errs.KindUnknown:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
