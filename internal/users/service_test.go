package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/credentials"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	superAdminLogin    = "root"
	superAdminPassword = "RootPassword1"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	logger := zaptest.NewLogger(t)
	db, err := badgerfx.New(badgerfx.Config{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(
		NewRepository(db),
		Config{SuperAdminLogin: superAdminLogin, SuperAdminPassword: superAdminPassword},
		logger,
	)
}

func createAdmin(t *testing.T, svc *Service, login string) *User {
	t.Helper()

	user, err := svc.Create(context.Background(), UserDraft{Login: login, Password: "Password123!", Role: "ADMIN"})
	require.NoError(t, err)

	return user
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	admin := createAdmin(t, svc, "alice")
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.True(t, admin.Active)
	assert.Zero(t, admin.TokenVersion)
	require.NotNil(t, admin.PasswordHash)
	assert.True(t, credentials.VerifyPassword("Password123!", *admin.PasswordHash))

	stored, err := svc.Get(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.True(t, credentials.VerifyPassword("Password123!", *stored.PasswordHash))

	ci, err := svc.Create(ctx, UserDraft{Login: "ci-bot", Role: "CI"})
	require.NoError(t, err)
	assert.Nil(t, ci.PasswordHash)

	exists, err := svc.ExistsByLogin(ctx, "ALICE")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = svc.ExistsByLoginIgnoreCase(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_CreateRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	createAdmin(t, svc, "alice")

	tests := []struct {
		name  string
		draft UserDraft
		kind  errs.Kind
	}{
		{"duplicate login ignoring case", UserDraft{Login: "Alice", Password: "Password123!", Role: "ADMIN"}, errs.KindConflict},
		{"unknown role", UserDraft{Login: "bob", Password: "Password123!", Role: "ROOT"}, errs.KindInvalidRole},
		{"bad login", UserDraft{Login: "b", Password: "Password123!", Role: "ADMIN"}, errs.KindInvalidArgument},
		{"weak password", UserDraft{Login: "bob", Password: "password", Role: "ADMIN"}, errs.KindInvalidArgument},
		{"password too long to hash", UserDraft{Login: "bob", Password: strings.Repeat("Pa1", 27), Role: "ADMIN"}, errs.KindInvalidArgument},
		{"consumer with password", UserDraft{Login: "app", Password: "Password123!", Role: "CONSUMER"}, errs.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.draft)
			kind, ok := errs.KindOf(err)
			require.True(t, ok, "expected business error, got %v", err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	alice := createAdmin(t, svc, "alice")

	updated, err := svc.UpdatePassword(ctx, alice.Principal(), alice.ID, "NewPassword456")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.TokenVersion)
	assert.True(t, credentials.VerifyPassword("NewPassword456", *updated.PasswordHash))
	assert.False(t, credentials.VerifyPassword("Password123!", *updated.PasswordHash))

	updated, err = svc.UpdatePassword(ctx, alice.Principal(), alice.ID, "OtherPassword789")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.TokenVersion)

	_, err = svc.UpdatePassword(ctx, alice.Principal(), alice.ID, "weak")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = svc.UpdatePassword(ctx, alice.Principal(), alice.ID, strings.Repeat("Pa1", 27))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	bob := createAdmin(t, svc, "bob")
	_, err = svc.UpdatePassword(ctx, alice.Principal(), bob.ID, "NewPassword456")
	assert.ErrorIs(t, err, errs.ErrForbiddenAccess)

	stored, err := svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.TokenVersion)
}

func TestService_UpdatePasswordRequiresAdminTarget(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	ci, err := svc.Create(ctx, UserDraft{Login: "ci-bot", Role: "CI"})
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, ci.Principal(), ci.ID, "NewPassword456")
	assert.ErrorIs(t, err, errs.ErrInvalidUserType)
}

func TestService_SetActive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	alice := createAdmin(t, svc, "alice")
	bob := createAdmin(t, svc, "bob")

	updated, err := svc.SetActive(ctx, alice.Principal(), bob.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, int64(1), updated.TokenVersion)

	updated, err = svc.SetActive(ctx, alice.Principal(), bob.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.TokenVersion, "unchanged status must not bump the version")

	updated, err = svc.SetActive(ctx, alice.Principal(), bob.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Equal(t, int64(2), updated.TokenVersion)

	_, err = svc.SetActive(ctx, alice.Principal(), alice.ID, false)
	assert.ErrorIs(t, err, errs.ErrSelfModificationNotAllowed)

	_, err = svc.SetActive(ctx, alice.Principal(), uuid.New(), false)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestService_SuperAdminProtection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.Bootstrap(ctx))

	root, err := svc.GetByLogin(ctx, superAdminLogin)
	require.NoError(t, err)
	alice := createAdmin(t, svc, "alice")

	for _, actor := range []authz.Principal{root.Principal(), alice.Principal()} {
		_, err = svc.SetActive(ctx, actor, root.ID, false)
		assert.ErrorIs(t, err, errs.ErrSuperAdminProtection)
	}

	stored, err := svc.Get(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
	assert.Zero(t, stored.TokenVersion)
}

func TestService_Bootstrap(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Bootstrap(ctx))
	require.NoError(t, svc.Bootstrap(ctx))

	page, err := svc.List(ctx, Filter{}, storage.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	root := page.Items[0]
	assert.Equal(t, superAdminLogin, root.Login)
	assert.Equal(t, RoleAdmin, root.Role)
	require.NotNil(t, root.PasswordHash)
	assert.True(t, credentials.VerifyPassword(superAdminPassword, *root.PasswordHash))
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := createAdmin(t, svc, "alice")
	_, err := svc.Create(ctx, UserDraft{Login: "ci-bot", Role: "CI"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, UserDraft{Login: "consumer", Role: "CONSUMER"})
	require.NoError(t, err)
	bob := createAdmin(t, svc, "bob")
	_, err = svc.SetActive(ctx, alice.Principal(), bob.ID, false)
	require.NoError(t, err)

	admin := RoleAdmin
	page, err := svc.List(ctx, Filter{Role: &admin}, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	active := false
	page, err = svc.List(ctx, Filter{Active: &active}, storage.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "bob", page.Items[0].Login)

	page, err = svc.List(ctx, Filter{}, storage.Page{Number: 1, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].Login)
}

func TestService_RecordLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	alice := createAdmin(t, svc, "alice")
	assert.Nil(t, alice.LastLoginAt)

	updated, err := svc.RecordLogin(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastLoginAt)
	assert.Equal(t, alice.TokenVersion, updated.TokenVersion)

	require.NoError(t, svc.RecordInteraction(ctx, alice.ID))
	stored, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastInteractionAt)
}
