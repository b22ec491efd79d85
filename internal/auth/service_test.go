package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userservice/userservice/internal/db/models"
)

func TestLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	createUser(t, s, "alice", "alice123", RoleUser)

	res, err := s.Login(ctx, "alice", "alice123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.Type)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Equal(t, []string{"ROLE_USER"}, res.Roles)
	assert.Equal(t, []string{"USER_READ", "VIEW_DASHBOARD"}, res.Permissions)

	// the token carries the same snapshot
	p, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID, p.ID)
	assert.Equal(t, res.Roles, p.Authorities.Roles())
	assert.Equal(t, res.Permissions, p.Authorities.Permissions())
}

func TestLoginFailures(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	createUser(t, s, "alice", "alice123", RoleUser)
	bob := createUser(t, s, "bob", "bob12345", RoleUser)
	require.NoError(t, db.Model(bob).Update("enabled", false).Error)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "wrong password", username: "alice", password: "nope", want: ErrInvalidCredentials},
		{name: "unknown user", username: "mallory", password: "alice123", want: ErrInvalidCredentials},
		{name: "disabled with correct password", username: "bob", password: "bob12345", want: ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Login(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
		})
	}

	// unknown user and wrong password are indistinguishable
	_, errUnknown := s.Login(ctx, "mallory", "x")
	_, errWrong := s.Login(ctx, "alice", "x")
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

type countingHasher struct {
	Hasher
	hashes   int
	verifies int
	hashErr  error
}

func (h *countingHasher) Hash(plain string) (string, error) {
	h.hashes++

	if h.hashErr != nil {
		return "", h.hashErr
	}

	return h.Hasher.Hash(plain)
}

func (h *countingHasher) Verify(plain, hash string) (bool, error) {
	h.verifies++

	return h.Hasher.Verify(plain, hash)
}

func TestUnknownUserCostsOneVerification(t *testing.T) {
	db := setupTestDB(t)
	hasher := &countingHasher{Hasher: newTestHasher(t)}

	s, err := NewService(db, hasher, NewIssuer(testSecret, "test", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, hasher.hashes)

	for range 2 {
		_, err = s.Login(context.Background(), "mallory", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// the fallback hash is built once at construction, never during a login
	assert.Equal(t, 1, hasher.hashes)
	assert.Equal(t, 2, hasher.verifies)
}

func TestNewServiceFailsWithoutFallbackHash(t *testing.T) {
	boom := errors.New("entropy exhausted") //nolint:goerr113
	hasher := &countingHasher{Hasher: newTestHasher(t), hashErr: boom}

	s, err := NewService(setupTestDB(t), hasher, NewIssuer(testSecret, "test", time.Hour))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, s)
}

func TestLoginSeesRoleChangesOnlyOnReissue(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice123", RoleUser)

	first, err := s.Login(ctx, "alice", "alice123")
	require.NoError(t, err)

	_, err = s.AssignRole(ctx, alice.ID, string(RoleAdmin))
	require.NoError(t, err)

	old, err := s.ParseToken(first.Token)
	require.NoError(t, err)
	assert.False(t, old.Authorities.HasRole(RoleAdmin))

	second, err := s.Login(ctx, "alice", "alice123")
	require.NoError(t, err)
	assert.Contains(t, second.Roles, "ROLE_ADMIN")
	assert.Contains(t, second.Permissions, "USER_DELETE")
}

func TestUserQueries(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice123", RoleManager)
	createUser(t, s, "bob", "bob12345", RoleGuest)

	v, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Username)
	assert.Equal(t, models.UserStatusActive, v.Status)
	assert.Equal(t, []string{"ROLE_MANAGER"}, v.Roles)

	v, err = s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER_READ"}, v.Permissions)

	_, err = s.GetUser(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "mallory")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Username)
}

func TestSetEnabled(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice123", RoleUser)

	v, err := s.SetEnabled(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.False(t, v.Enabled)
	assert.Equal(t, models.UserStatusInactive, v.Status)
	assert.Equal(t, []string{"ROLE_USER"}, v.Roles)

	_, err = s.Login(ctx, "alice", "alice123")
	require.ErrorIs(t, err, ErrAccountDisabled)

	v, err = s.SetEnabled(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, v.Enabled)
	assert.Equal(t, models.UserStatusActive, v.Status)

	_, err = s.SetEnabled(ctx, 999, true)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice123", RoleAdmin, RoleUser)

	require.NoError(t, s.DeleteUser(ctx, alice.ID))
	require.ErrorIs(t, s.DeleteUser(ctx, alice.ID), ErrUserNotFound)

	var roles, links int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.UserRole{}).Count(&links).Error)
	assert.Equal(t, int64(4), roles)
	assert.Zero(t, links)
}
