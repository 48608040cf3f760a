package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/token"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	superAdminLogin    = "root"
	superAdminPassword = "RootPassword1"
	alicePassword      = "Password123!"
)

type fixture struct {
	svc *Service

	users        *users.Service
	applications *applications.Service
	apiKeys      *apikeys.Service
	tokens       *token.Engine
	metrics      *Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	db, err := badgerfx.New(badgerfx.Config{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := token.New(token.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "droid-deploy-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	usersSvc := users.NewService(
		users.NewRepository(db),
		users.Config{SuperAdminLogin: superAdminLogin, SuperAdminPassword: superAdminPassword},
		logger,
	)
	appsSvc := applications.NewService(applications.NewRepository(db), logger)
	keysSvc := apikeys.NewService(apikeys.NewRepository(db), appsSvc, logger)
	metrics := NewMetrics(prometheus.NewRegistry())

	return fixture{
		svc: NewService(usersSvc, keysSvc, tokens, metrics, logger),

		users:        usersSvc,
		applications: appsSvc,
		apiKeys:      keysSvc,
		tokens:       tokens,
		metrics:      metrics,
	}
}

func (f fixture) createUser(t *testing.T, login, password, role string) *users.User {
	t.Helper()

	user, err := f.users.Create(context.Background(), users.UserDraft{Login: login, Password: password, Role: role})
	require.NoError(t, err)

	return user
}

func TestService_LoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.createUser(t, "alice", alicePassword, "ADMIN")

	pair, err := f.svc.Login(ctx, "alice", alicePassword)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, pair.User.ID)
	require.NotNil(t, pair.User.LastLoginAt)
	assert.True(t, pair.Refresh.ExpiresAt.After(pair.Access.ExpiresAt))

	claims, err := f.tokens.Validate(pair.Access.Token)
	require.NoError(t, err)
	typ, _ := claims.Type()
	assert.Equal(t, token.TypeAccess, typ)

	refreshed, err := f.svc.Refresh(ctx, pair.Refresh.Token)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access.Token, refreshed.Access.Token)
	assert.NotEqual(t, pair.Refresh.Token, refreshed.Refresh.Token)

	_, err = f.svc.Refresh(ctx, pair.Access.Token)
	assert.ErrorIs(t, err, errs.ErrInvalidRefreshToken)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrInvalidRefreshToken)

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues(outcomeSuccess)), 0)
}

func TestService_LoginRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.createUser(t, "alice", alicePassword, "ADMIN")
	f.createUser(t, "bob", alicePassword, "ADMIN")
	ci := f.createUser(t, "builder", "", "CI")

	_, err := f.users.SetActive(ctx, alice.Principal(), ci.ID, false)
	require.NoError(t, err)

	bob, err := f.users.GetByLogin(ctx, "bob")
	require.NoError(t, err)
	_, err = f.users.SetActive(ctx, alice.Principal(), bob.ID, false)
	require.NoError(t, err)

	cases := []struct {
		name     string
		login    string
		password string
		err      error
	}{
		{name: "unknown login", login: "nobody", password: alicePassword, err: errs.ErrInvalidCredentials},
		{name: "wrong password", login: "alice", password: "Password123?", err: errs.ErrInvalidCredentials},
		{name: "login is case sensitive", login: "Alice", password: alicePassword, err: errs.ErrInvalidCredentials},
		{name: "inactive non admin", login: "builder", password: "", err: errs.ErrUnauthorizedAccess},
		{name: "inactive admin", login: "bob", password: alicePassword, err: errs.ErrUserNotActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, loginErr := f.svc.Login(ctx, tc.login, tc.password)
			assert.ErrorIs(t, loginErr, tc.err)
		})
	}

	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues(errs.KindInvalidCredentials.String())), 0)
}

func TestService_PasswordChangeInvalidatesTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.createUser(t, "alice", alicePassword, "ADMIN")

	pair, err := f.svc.Login(ctx, "alice", alicePassword)
	require.NoError(t, err)

	principal, err := f.svc.Authenticate(ctx, pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.Principal(), principal)

	updated, err := f.users.UpdatePassword(ctx, alice.Principal(), alice.ID, "NewPassword456")
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.TokenVersion)

	_, err = f.svc.Refresh(ctx, pair.Refresh.Token)
	require.ErrorIs(t, err, errs.ErrInvalidRefreshToken)

	_, err = f.svc.Authenticate(ctx, pair.Access.Token)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = f.svc.Login(ctx, "alice", alicePassword)
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	fresh, err := f.svc.Login(ctx, "alice", "NewPassword456")
	require.NoError(t, err)
	_, err = f.svc.Refresh(ctx, fresh.Refresh.Token)
	require.NoError(t, err)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.createUser(t, "alice", alicePassword, "ADMIN")
	pair, err := f.svc.Login(ctx, "alice", alicePassword)
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, pair.Refresh.Token)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, pair.Access.Token)
	require.NoError(t, err)

	stored, err := f.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastInteractionAt)
}

func TestService_LoginWithAPIKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	app, err := f.applications.Create(ctx, applications.ApplicationDraft{Name: "Shop", BundleID: "com.example.shop"})
	require.NoError(t, err)

	created, err := f.apiKeys.Create(ctx, apikeys.APIKeyDraft{ApplicationID: app.ID, Name: "ci", Role: "CI"})
	require.NoError(t, err)

	key, issued, err := f.svc.LoginWithAPIKey(ctx, created.Secret)
	require.NoError(t, err)
	require.NotNil(t, key.LastUsedAt)

	principal, err := f.svc.Authenticate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, authz.NewAPIKeyPrincipal(app.ID, authz.RoleCI), principal)

	_, _, err = f.svc.LoginWithAPIKey(ctx, "unknown")
	require.ErrorIs(t, err, errs.ErrInvalidAPIKey)

	require.NoError(t, f.apiKeys.Revoke(ctx, app.ID, created.ID))

	_, _, err = f.svc.LoginWithAPIKey(ctx, created.Secret)
	require.ErrorIs(t, err, errs.ErrAPIKeyRevoked)

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.APIKeyAuthenticationsTotal.WithLabelValues(outcomeSuccess)), 0)
	assert.InDelta(t, 1,
		testutil.ToFloat64(f.metrics.APIKeyAuthenticationsTotal.WithLabelValues(errs.KindAPIKeyRevoked.String())),
		0,
	)
}
