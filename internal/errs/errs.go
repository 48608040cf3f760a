// Package errs defines the closed set of business failures shared by the
// domain packages. Transport code maps every Kind to a response status.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies a business failure.
type Kind uint8

const (
	KindUnknown Kind = iota

	// Authentication
	KindInvalidCredentials
	KindUnauthorizedAccess
	KindUserNotActive
	KindInvalidRefreshToken
	KindInvalidAPIKey
	KindAPIKeyRevoked
	KindAPIKeyExpired
	KindUnauthenticated

	// Authorization
	KindForbiddenAccess
	KindSelfModificationNotAllowed
	KindSuperAdminProtection

	// Domain rules
	KindInvalidUserType
	KindInvalidRole
	KindInvalidArgument
	KindConflict

	// Missing entities
	KindUserNotFound
	KindApplicationNotFound
	KindAPIKeyNotFound
	KindVersionNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:                    "unknown",
	KindInvalidCredentials:         "invalid_credentials",
	KindUnauthorizedAccess:         "unauthorized_access",
	KindUserNotActive:              "user_not_active",
	KindInvalidRefreshToken:        "invalid_refresh_token",
	KindInvalidAPIKey:              "invalid_api_key",
	KindAPIKeyRevoked:              "api_key_revoked",
	KindAPIKeyExpired:              "api_key_expired",
	KindUnauthenticated:            "unauthenticated",
	KindForbiddenAccess:            "forbidden_access",
	KindSelfModificationNotAllowed: "self_modification_not_allowed",
	KindSuperAdminProtection:       "super_admin_protection",
	KindInvalidUserType:            "invalid_user_type",
	KindInvalidRole:                "invalid_role",
	KindInvalidArgument:            "invalid_argument",
	KindConflict:                   "conflict",
	KindUserNotFound:               "user_not_found",
	KindApplicationNotFound:        "application_not_found",
	KindAPIKeyNotFound:             "api_key_not_found",
	KindVersionNotFound:            "version_not_found",
}

var defaultMessages = map[Kind]string{
	KindInvalidCredentials:         "invalid login or password",
	KindUnauthorizedAccess:         "unauthorized access",
	KindUserNotActive:              "user is not active",
	KindInvalidRefreshToken:        "invalid refresh token",
	KindInvalidAPIKey:              "invalid API key",
	KindAPIKeyRevoked:              "API key has been revoked",
	KindAPIKeyExpired:              "API key has expired",
	KindUnauthenticated:            "authentication required",
	KindForbiddenAccess:            "access denied",
	KindSelfModificationNotAllowed: "you cannot change your own active status",
	KindSuperAdminProtection:       "super admin active status cannot be changed",
	KindInvalidUserType:            "operation is not allowed for this user type",
	KindInvalidRole:                "invalid role",
	KindInvalidArgument:            "invalid argument",
	KindConflict:                   "already exists",
	KindUserNotFound:               "user not found",
	KindApplicationNotFound:        "application not found",
	KindAPIKeyNotFound:             "API key not found",
	KindVersionNotFound:            "version not found",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return kindNames[KindUnknown]
}

// Error is a business failure of a known Kind.
type Error struct {
	Kind    Kind
	Message string
}

// New creates an Error with an explicit message. An empty message falls back
// to the kind default.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}

	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same Kind, so sentinels below work with
// errors.Is regardless of the concrete message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf extracts the Kind from err. Errors that carry no Kind report false.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return KindUnknown, false
}

var (
	ErrInvalidCredentials         = New(KindInvalidCredentials, "")
	ErrUnauthorizedAccess         = New(KindUnauthorizedAccess, "")
	ErrUserNotActive              = New(KindUserNotActive, "")
	ErrInvalidRefreshToken        = New(KindInvalidRefreshToken, "")
	ErrInvalidAPIKey              = New(KindInvalidAPIKey, "")
	ErrAPIKeyRevoked              = New(KindAPIKeyRevoked, "")
	ErrAPIKeyExpired              = New(KindAPIKeyExpired, "")
	ErrUnauthenticated            = New(KindUnauthenticated, "")
	ErrForbiddenAccess            = New(KindForbiddenAccess, "")
	ErrSelfModificationNotAllowed = New(KindSelfModificationNotAllowed, "")
	ErrSuperAdminProtection       = New(KindSuperAdminProtection, "")
	ErrInvalidUserType            = New(KindInvalidUserType, "")
	ErrInvalidRole                = New(KindInvalidRole, "")
	ErrInvalidArgument            = New(KindInvalidArgument, "")
	ErrConflict                   = New(KindConflict, "")
	ErrUserNotFound               = New(KindUserNotFound, "")
	ErrApplicationNotFound        = New(KindApplicationNotFound, "")
	ErrAPIKeyNotFound             = New(KindAPIKeyNotFound, "")
	ErrVersionNotFound            = New(KindVersionNotFound, "")
)
