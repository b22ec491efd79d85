package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrTokenSecretTooShort is returned if the token signing secret is missing or too short.
	ErrTokenSecretTooShort = errors.New("config token.secret must be at least 32 bytes")

	// ErrTokenTTLInvalid is returned if the token lifetime is not positive.
	ErrTokenTTLInvalid = errors.New("config token.ttl must be greater than 0")

	// ErrUnknownGormEngine is returned for an unsupported db.gormEngine value.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrUnknownHasher is returned for an unsupported hasher.algorithm value.
	ErrUnknownHasher = errors.New("config hasher.algorithm must be argon2id or bcrypt")
)
