package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/cache"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

type userFixture struct {
	svc   *UserService
	users *fakeUserRepo
	roles *fakeRoleRepo
	redis *miniredis.Miniredis
}

// newUserFixture wires the user service to a real dispatcher with the
// invalidation handlers registered, backed by miniredis.
func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	dispatcher := events.NewInMemoryDispatcher()
	NewInvalidationService(dispatcher, cache.NewRedisCache(client), nil).RegisterHandlers()

	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	svc := NewUserService(users, roles, dispatcher, nil, bcrypt.MinCost)
	return &userFixture{svc: svc, users: users, roles: roles, redis: mr}
}

func (f *userFixture) seedUser(t *testing.T, username, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *userFixture) seedSnapshots(t *testing.T, userID int64) {
	t.Helper()
	for _, key := range cache.UserKeys(userID) {
		require.NoError(t, f.redis.Set(key, `[]`))
	}
}

func (f *userFixture) requireSnapshotsGone(t *testing.T, userID int64) {
	t.Helper()
	for _, key := range cache.UserKeys(userID) {
		require.False(t, f.redis.Exists(key), "expected %s to be dropped", key)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")
	f.seedSnapshots(t, user.ID)

	newEmail := "alice@corp.example.com"
	deptID := int64(4)
	updated, err := f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Email:        &newEmail,
		DepartmentID: &deptID,
	})
	require.NoError(t, err)
	require.Equal(t, newEmail, updated.Email)
	require.NotNil(t, updated.DepartmentID)
	require.Equal(t, deptID, *updated.DepartmentID)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, newEmail, stored.Email)

	f.requireSnapshotsGone(t, user.ID)
}

func TestUpdateProfileNoChangesSkipsWrite(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")
	f.seedSnapshots(t, user.ID)

	same := user.Username
	_, err := f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Username: &same})
	require.NoError(t, err)

	// Nothing changed, so the snapshots survive.
	for _, key := range cache.UserKeys(user.ID) {
		require.True(t, f.redis.Exists(key))
	}
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice", "alice@example.com", "secret123")
	bob := f.seedUser(t, "bob", "bob@example.com", "secret123")

	taken := "alice@example.com"
	_, err := f.svc.UpdateProfile(ctx, bob.ID, ProfileUpdate{Email: &taken})
	requireKind(t, err, apperrors.KindValidationFailed)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	name := "ghost"
	_, err := f.svc.UpdateProfile(context.Background(), 999, ProfileUpdate{Username: &name})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")
	f.seedSnapshots(t, user.ID)

	require.NoError(t, f.svc.ChangePassword(ctx, user.ID, "secret123", "changed456"))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, auth.ComparePassword(stored.PasswordHash, "changed456"))
	require.Error(t, auth.ComparePassword(stored.PasswordHash, "secret123"))

	f.requireSnapshotsGone(t, user.ID)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newUserFixture(t)
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")

	err := f.svc.ChangePassword(context.Background(), user.ID, "wrong", "changed456")
	requireKind(t, err, apperrors.KindAuthenticationFailed)
}

func TestChangePasswordTooShort(t *testing.T) {
	f := newUserFixture(t)
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")

	err := f.svc.ChangePassword(context.Background(), user.ID, "secret123", "tiny")
	requireKind(t, err, apperrors.KindValidationFailed)
}

func TestReplaceRolesInvalidatesSnapshots(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice", "alice@example.com", "secret123")
	f.seedSnapshots(t, user.ID)

	require.NoError(t, f.svc.ReplaceRoles(ctx, user.ID, []int64{1, 3}))

	roles, err := f.roles.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	f.requireSnapshotsGone(t, user.ID)
}

func TestReplaceRolesUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.ReplaceRoles(context.Background(), 999, []int64{1})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestInvalidationLeavesOtherUsersAlone(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", "alice@example.com", "secret123")
	bob := f.seedUser(t, "bob", "bob@example.com", "secret123")
	f.seedSnapshots(t, alice.ID)
	f.seedSnapshots(t, bob.ID)

	require.NoError(t, f.svc.ReplaceRoles(ctx, alice.ID, []int64{1}))

	f.requireSnapshotsGone(t, alice.ID)
	for _, key := range cache.UserKeys(bob.ID) {
		require.True(t, f.redis.Exists(key))
	}
}
