package config

import (
	"time"

	"github.com/userservice/userservice/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Token     Token
	Hasher    Hasher
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	Port          int    // listening port for the webserver
	ShutDownTime  int    // wait time for shutdown in seconds
	URL           string // base url for the webserver
	BodyLimit     int    // max request body size in bytes, 0 = fiber default
	CheckAliveURI string // liveness probe path
	EnableMetrics bool   // expose prometheus metrics
	MetricsPath   string // path of the prometheus handler
}

// Token holds the bearer token settings.
type Token struct {
	Secret string        // HMAC signing secret, at least MinTokenSecretLength bytes
	Issuer string        // iss claim written and expected on verification
	TTL    time.Duration // lifetime of an issued token
}

// Hasher selects and tunes the credential hashing algorithm.
type Hasher struct {
	Algorithm         string // argon2id or bcrypt
	Argon2Memory      uint32 // KiB
	Argon2Iterations  uint32
	Argon2Parallelism uint8
	BcryptCost        int
}

// Seed controls the reference data initialization at start.
type Seed struct {
	Enabled bool
	Users   []SeedUser
}

// SeedUser is a user created on an empty user table.
type SeedUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}
