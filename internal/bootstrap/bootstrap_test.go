package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/db"
	"github.com/userservice/userservice/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(conn))

	return conn
}

func testSeed() config.Seed {
	return config.Seed{
		Enabled: true,
		Users: []config.SeedUser{
			{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: "ROLE_ADMIN"},
			{Username: "manager", Email: "manager@example.com", Password: "manager123", Role: "ROLE_MANAGER"},
			{Username: "user", Email: "user@example.com", Password: "user123"},
			{Username: "guest", Email: "guest@example.com", Password: "guest123", Role: "ROLE_GUEST"},
		},
	}
}

func newService(t *testing.T, conn *gorm.DB) (*auth.Service, auth.Hasher) {
	t.Helper()

	hasher, err := auth.NewPasswordHasher(auth.HasherArgon2id,
		&argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}, 0)
	require.NoError(t, err)

	s, err := auth.NewService(conn, hasher, auth.NewIssuer("0123456789abcdef0123456789abcdef", "test", time.Hour))
	require.NoError(t, err)

	return s, hasher
}

func counts(t *testing.T, conn *gorm.DB) map[string]int64 {
	t.Helper()

	out := map[string]int64{}

	for _, table := range []string{"permissions", "roles", "users", "user_roles", "role_permissions"} {
		var n int64
		require.NoError(t, conn.Table(table).Count(&n).Error)

		out[table] = n
	}

	return out
}

func TestInitialize(t *testing.T) {
	conn := setupTestDB(t)
	svc, hasher := newService(t, conn)
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, conn, hasher, testSeed()))

	first := counts(t, conn)
	assert.Equal(t, int64(6), first["permissions"])
	assert.Equal(t, int64(4), first["roles"])
	assert.Equal(t, int64(4), first["users"])
	assert.Equal(t, int64(4), first["user_roles"])
	assert.Equal(t, int64(6+4+2+1), first["role_permissions"])

	// running again changes nothing
	require.NoError(t, Initialize(ctx, conn, hasher, testSeed()))
	assert.Equal(t, first, counts(t, conn))

	tests := []struct {
		username    string
		password    string
		roles       []string
		permissions []string
	}{
		{
			username:    "admin",
			password:    "admin123",
			roles:       []string{"ROLE_ADMIN"},
			permissions: []string{"ROLE_READ", "ROLE_UPDATE", "USER_DELETE", "USER_READ", "USER_UPDATE", "VIEW_DASHBOARD"},
		},
		{
			username:    "manager",
			password:    "manager123",
			roles:       []string{"ROLE_MANAGER"},
			permissions: []string{"ROLE_READ", "USER_READ", "USER_UPDATE", "VIEW_DASHBOARD"},
		},
		{
			username:    "user",
			password:    "user123",
			roles:       []string{"ROLE_USER"},
			permissions: []string{"USER_READ", "VIEW_DASHBOARD"},
		},
		{
			username:    "guest",
			password:    "guest123",
			roles:       []string{"ROLE_GUEST"},
			permissions: []string{"USER_READ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.roles, res.Roles)
			assert.Equal(t, tt.permissions, res.Permissions)
		})
	}

	var p models.Permission
	require.NoError(t, conn.Where("name = ?", "USER_DELETE").First(&p).Error)
	assert.Equal(t, "Permission for USER_DELETE", p.Description)
}

func TestInitializeWithoutSeedUsers(t *testing.T) {
	conn := setupTestDB(t)
	_, hasher := newService(t, conn)

	require.NoError(t, Initialize(context.Background(), conn, hasher, config.Seed{Enabled: false, Users: testSeed().Users}))

	c := counts(t, conn)
	assert.Equal(t, int64(4), c["roles"])
	assert.Zero(t, c["users"])
}

func TestInitializeRejectsUnknownRole(t *testing.T) {
	conn := setupTestDB(t)
	_, hasher := newService(t, conn)

	seed := config.Seed{Enabled: true, Users: []config.SeedUser{
		{Username: "root", Email: "root@example.com", Password: "root1234", Role: "ROLE_ROOT"},
	}}

	err := Initialize(context.Background(), conn, hasher, seed)
	require.ErrorIs(t, err, auth.ErrInvalidRoleName)

	// the failed run is rolled back entirely
	c := counts(t, conn)
	assert.Zero(t, c["permissions"])
	assert.Zero(t, c["users"])
}
