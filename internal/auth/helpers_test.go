package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/userservice/userservice/internal/db/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// cheapParams keep argon2id fast in tests.
var cheapParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()

	h, err := NewPasswordHasher(HasherArgon2id, cheapParams, 0)
	require.NoError(t, err)

	return h
}

// setupTestDB creates an in-memory SQLite database with the reference roles and permissions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}, &models.UserRole{}))

	perms := make(map[PermissionName]models.Permission)

	for _, name := range AllPermissionNames() {
		p := models.Permission{Name: string(name), Description: name.Description()}
		require.NoError(t, db.Create(&p).Error)

		perms[name] = p
	}

	for roleName, permNames := range DefaultRolePermissions() {
		role := models.Role{Name: string(roleName), Description: roleName.Description()}
		for _, pn := range permNames {
			role.Permissions = append(role.Permissions, perms[pn])
		}

		require.NoError(t, db.Create(&role).Error)
	}

	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)

	s, err := NewService(db, newTestHasher(t), NewIssuer(testSecret, "test", time.Hour))
	require.NoError(t, err)

	return s, db
}

// createUser stores an enabled user holding the given roles.
func createUser(t *testing.T, s *Service, username, password string, roles ...RoleName) *models.User {
	t.Helper()

	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)

	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Status:   models.UserStatusActive,
		Enabled:  true,
	}
	require.NoError(t, s.db.Create(u).Error)

	for _, r := range roles {
		_, err = s.AssignRole(context.Background(), u.ID, string(r))
		require.NoError(t, err)
	}

	return u
}

func validRegistration(username string) RegisterRequest {
	return RegisterRequest{
		Username: username,
		Password: "secret123",
		Email:    username + "@example.com",
		Name:     "Test User",
		NID:      "1234567890",
		Phone:    "5550100",
	}
}
