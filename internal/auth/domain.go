package auth

import (
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/token"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
)

// TokenPair is the result of a successful human login or refresh.
type TokenPair struct {
	User *users.User

	Access  token.Issued
	Refresh token.Issued
}
