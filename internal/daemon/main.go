// Package daemon assembles the service from its configuration.
package daemon

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/bootstrap"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/db"
	"github.com/userservice/userservice/internal/logger"
	"github.com/userservice/userservice/internal/web"
)

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	return d.webService.Start(addr)
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// DB returns the database connection.
func (d *Daemon) DB() *gorm.DB {
	return d.db
}

// New creates a new Daemon instance with the provided configuration.
// It opens and migrates the database and seeds the reference data before the web service is built.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	conn, err := Prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hasher, err := NewHasher(cfg.Hasher)
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.TTL)

	authService, err := auth.NewService(conn, hasher, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create auth service")
	}

	return &Daemon{
		cfg:        cfg,
		db:         conn,
		webService: web.New(cfg, authService),
	}, nil
}

// Prepare opens the database, migrates the schema and runs the bootstrap.
func Prepare(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.Migrate(conn); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	hasher, err := NewHasher(cfg.Hasher)
	if err != nil {
		return nil, err
	}

	if err = bootstrap.Initialize(ctx, conn, hasher, cfg.Seed); err != nil {
		return nil, errors.Wrap(err, "failed to initialize reference data")
	}

	return conn, nil
}

// NewHasher builds the password hasher from the config. Unset argon2 values fall back to argon2id.DefaultParams.
func NewHasher(cfg config.Hasher) (*auth.PasswordHasher, error) {
	params := *argon2id.DefaultParams

	if cfg.Argon2Memory > 0 {
		params.Memory = cfg.Argon2Memory
	}

	if cfg.Argon2Iterations > 0 {
		params.Iterations = cfg.Argon2Iterations
	}

	if cfg.Argon2Parallelism > 0 {
		params.Parallelism = cfg.Argon2Parallelism
	}

	hasher, err := auth.NewPasswordHasher(cfg.Algorithm, &params, cfg.BcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create password hasher")
	}

	return hasher, nil
}
