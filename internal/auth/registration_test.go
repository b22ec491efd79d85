package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/db/models"
)

func TestRegister(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, validRegistration("alice"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "User registered successfully!", res.Message)
	assert.Equal(t, StateComplete, res.State)

	// exactly the default role
	require.NotNil(t, res.User)
	assert.Equal(t, []string{"ROLE_USER"}, res.User.Roles)
	assert.Equal(t, "Test User", res.User.Name)
	assert.Equal(t, models.UserStatusActive, res.User.Status)
	assert.True(t, res.User.Enabled)

	login, err := s.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER_READ", "VIEW_DASHBOARD"}, login.Permissions)
}

// TestRegisterConcurrentDuplicate lets a competing row appear between the duplicate
// check and the insert, so the unique constraint is what rejects the registration.
func TestRegisterConcurrentDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		racer   models.User
		want    error
		message string
	}{
		{
			name:    "username",
			racer:   models.User{Username: "carol", Email: "racer@example.com"},
			want:    ErrDuplicateUsername,
			message: "Username is already taken!",
		},
		{
			name:    "email",
			racer:   models.User{Username: "racer", Email: "carol@example.com"},
			want:    ErrDuplicateEmail,
			message: "Email is already in use!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, db := newTestService(t)

			var (
				userQueries int
				raceErr     error
			)

			// the second users query is the email check, insert the competitor right after it
			err := db.Callback().Query().After("gorm:query").Register("test:competitor", func(tx *gorm.DB) {
				if tx.Statement.Table != "users" {
					return
				}

				userQueries++
				if userQueries != 2 {
					return
				}

				racer := tt.racer
				racer.Password = "x"
				racer.Status = models.UserStatusActive
				raceErr = tx.Session(&gorm.Session{NewDB: true}).Create(&racer).Error
			})
			require.NoError(t, err)

			res, err := s.Register(context.Background(), validRegistration("carol"))
			require.NoError(t, raceErr)
			require.ErrorIs(t, err, tt.want)
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)

			// the whole registration rolled back, the competitor with it
			var count int64
			require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	createUser(t, s, "admin", "admin123", RoleAdmin)

	countRows := func() (users, roles, links int64) {
		require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
		require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
		require.NoError(t, db.Model(&models.UserRole{}).Count(&links).Error)

		return users, roles, links
	}

	users, roles, links := countRows()

	dupEmail := validRegistration("someone")
	dupEmail.Email = "admin@example.com"

	both := validRegistration("admin")
	both.Email = "admin@example.com"

	tests := []struct {
		name    string
		req     RegisterRequest
		want    error
		message string
	}{
		{name: "username taken", req: validRegistration("admin"), want: ErrDuplicateUsername, message: "Username is already taken!"},
		{name: "email in use", req: dupEmail, want: ErrDuplicateEmail, message: "Email is already in use!"},
		{name: "username checked first", req: both, want: ErrDuplicateUsername, message: "Username is already taken!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Register(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsRejection(err))
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, StateRejected, res.State)

			u, r, l := countRows()
			assert.Equal(t, users, u)
			assert.Equal(t, roles, r)
			assert.Equal(t, links, l)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	short := validRegistration("al")
	badEmail := validRegistration("alice")
	badEmail.Email = "not-an-email"
	weak := validRegistration("alice")
	weak.Password = "12345"
	noPhone := validRegistration("alice")
	noPhone.Phone = ""

	for _, req := range []RegisterRequest{short, badEmail, weak, noPhone} {
		res, err := s.Register(ctx, req)
		require.ErrorIs(t, err, ErrValidation)
		assert.False(t, res.Success)
		assert.Equal(t, StateRejected, res.State)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 1)
	}

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRegisterWithoutDefaultRoleRollsBack(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Where("name = ?", string(DefaultRole)).Delete(&models.Role{}).Error)

	res, err := s.Register(ctx, validRegistration("alice"))
	require.Error(t, err)
	assert.False(t, IsRejection(err))
	assert.False(t, res.Success)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestCreateUser(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	req := CreateUserRequest(validRegistration("carol"))
	req.FirstName = "Carol"
	req.LastName = "Jones"

	v, err := s.CreateUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Carol", v.FirstName)
	assert.Equal(t, "1234567890", v.NID)
	assert.Equal(t, []string{"ROLE_USER"}, v.Roles)

	_, err = s.CreateUser(ctx, req)
	require.ErrorIs(t, err, ErrDuplicateUsername)
}
