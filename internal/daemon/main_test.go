package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/db/models"
	"github.com/userservice/userservice/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "userservice-test",
		DB:      config.DB{GormEngine: config.EngineSQLite, Name: ":memory:", LogLevel: "silent"},
		Log:     logger.Log{LogLevel: "error", AppName: "test", ServiceName: "test"},
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/checkalive",
			MetricsPath:   "/metrics",
		},
		Token: config.Token{
			Secret: strings.Repeat("s", config.MinTokenSecretLength),
			Issuer: "test",
			TTL:    time.Hour,
		},
		Hasher: config.Hasher{Algorithm: auth.HasherArgon2id, Argon2Memory: 1024, Argon2Iterations: 1, Argon2Parallelism: 1},
		Seed: config.Seed{
			Enabled: true,
			Users: []config.SeedUser{
				{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: "ROLE_ADMIN"},
			},
		},
	}
}

func TestNew(t *testing.T) {
	d, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, d.Web())

	var count int64
	require.NoError(t, d.DB().Model(&models.Role{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	body := strings.NewReader(`{"username":"admin","password":"admin123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Web().App.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewErrors(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.ErrorIs(t, err, ErrConfigNil)

	cfg := testConfig()
	cfg.Log.LogLevel = "loud"
	_, err = New(context.Background(), cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.DB.GormEngine = "oracle"
	_, err = New(context.Background(), cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.Seed.Users[0].Role = "ROLE_ROOT"
	_, err = New(context.Background(), cfg)
	require.ErrorIs(t, err, auth.ErrInvalidRoleName)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher(config.Hasher{Algorithm: auth.HasherArgon2id, Argon2Memory: 1024, Argon2Iterations: 1, Argon2Parallelism: 1})
	require.NoError(t, err)

	hash, err := h.Hash("secret")
	require.NoError(t, err)

	params, _, _, err := argon2id.DecodeHash(hash)
	require.NoError(t, err)
	assert.EqualValues(t, 1024, params.Memory)
	assert.EqualValues(t, 1, params.Iterations)

	h, err = NewHasher(config.Hasher{Algorithm: auth.HasherBcrypt, BcryptCost: 4})
	require.NoError(t, err)

	hash, err = h.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))

	_, err = NewHasher(config.Hasher{Algorithm: "md5"})
	require.ErrorIs(t, err, auth.ErrUnsupportedHash)
}
