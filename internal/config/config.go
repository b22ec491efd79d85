// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. USERSERVICE_TOKEN_SECRET.
	EnvPrefix = "USERSERVICE"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = "USERSERVICE_CONFIG_JSON"

	// MinTokenSecretLength is the minimum HMAC secret size in bytes.
	MinTokenSecretLength = 32

	// MainFile is the configuration file name looked up in the config path.
	MainFile = "main.toml"

	redacted = "******"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, MainFile))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(EnvConfigJSON); configAsJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge json config override")
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "userservice")
	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.shutdowntime", 5)
	v.SetDefault("webserver.checkaliveuri", "/checkalive")
	v.SetDefault("webserver.metricspath", "/metrics")
	v.SetDefault("token.issuer", "userservice")
	v.SetDefault("token.ttl", 24*time.Hour)
	v.SetDefault("token.secret", "")
	v.SetDefault("hasher.algorithm", "argon2id")
	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "userservice")
	v.SetDefault("log.servicename", "userservice")
}

// DumpConfig config as TOML String. Secrets are redacted.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(redact(*c))
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String. Secrets are redacted.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func redact(c Config) Config {
	if c.DB.Password != "" {
		c.DB.Password = redacted
	}

	if c.Token.Secret != "" {
		c.Token.Secret = redacted
	}

	users := make([]SeedUser, len(c.Seed.Users))
	for i, u := range c.Seed.Users {
		u.Password = redacted
		users[i] = u
	}

	c.Seed.Users = users

	return c
}

// validate the config settings needed to start the service
// and fill in fallbacks for optional values.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Token.Secret) < MinTokenSecretLength {
		return errors.Wrap(ErrTokenSecretTooShort, invalidErrMessage)
	}

	if c.Token.TTL <= 0 {
		return errors.Wrap(ErrTokenTTLInvalid, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Hasher.Algorithm {
	case "":
		c.Hasher.Algorithm = "argon2id"
	case "argon2id", "bcrypt":
	default:
		return errors.Wrap(ErrUnknownHasher, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.CheckAliveURI == "" {
		c.Webserver.CheckAliveURI = "/checkalive"
	}

	if c.Webserver.MetricsPath == "" {
		c.Webserver.MetricsPath = "/metrics"
	}

	return nil
}
