// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/userservice/userservice/internal/config"
)

// MySQL builds the go-sql-driver/mysql Data Source Name from the configuration.
func MySQL(dbCfg *config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)

	return out
}

// Postgres builds the pgx key/value Data Source Name from the configuration.
// Extras are appended verbatim, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(dbCfg *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if extras := strings.TrimSpace(dbCfg.Extras); extras != "" {
		out += " " + extras
	}

	return out
}
