// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/db/dsn"
	"github.com/userservice/userservice/internal/db/models"
	"github.com/userservice/userservice/internal/logger/adapter/gormlogger"
)

// ErrUnknownEngine is returned for a gorm engine without a driver.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector returns the gorm driver for the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn.MySQL(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.EngineSQLite:
		return sqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.GormEngine)
	}
}

// Open connects to the configured database.
func Open(cfg *config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.New(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.GormEngine == config.EngineSQLite {
		// sqlite serializes writers, a single connection avoids SQLITE_BUSY under concurrent requests
		sqlDB, errDB := conn.DB()
		if errDB != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", errDB)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return conn, nil
}

// Migrate creates or updates all tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.UserRole{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
