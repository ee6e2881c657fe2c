package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
)

type Config interface {
	EnvConfig
	TokenConfig
	DBConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type DBConfig interface {
	GetDatabaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// MigrateConfig is the narrower view used by cmd/migrate, which never signs tokens
type MigrateConfig interface {
	EnvConfig
	DBConfig
}

type mainConfig struct {
	EnvVars
	Token
	Database
	Cors
}

var _ Config = mainConfig{}

// New reads the process configuration from the environment once. The returned
// value is immutable; callers pass it (or one of its narrower interfaces) to
// the components that need it.
func New() (Config, error) {
	var c mainConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, autherrors.Wrapf(err, "[config.New] cleanenv.ReadEnv")
	}
	if err := c.Token.Validate(); err != nil {
		return nil, autherrors.Wrapf(err, "[config.New] token")
	}
	return c, nil
}

type migrateConfig struct {
	EnvVars
	Database
}

var _ MigrateConfig = migrateConfig{}

// NewMigrate reads the environment and database settings only, so migrations
// run without SECRET_KEY.
func NewMigrate() (MigrateConfig, error) {
	var c migrateConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, autherrors.Wrapf(err, "[config.NewMigrate] cleanenv.ReadEnv")
	}
	return c, nil
}

// Usage renders the environment variables understood by New.
func Usage() string {
	var c mainConfig
	desc, err := cleanenv.GetDescription(&c, nil)
	if err != nil {
		return err.Error()
	}
	return desc
}
