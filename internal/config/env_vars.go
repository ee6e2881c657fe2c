package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port     string `env:"PORT" env-default:"8080" env-description:"HTTP listen port"`
	AppName  string `env:"APP_NAME" env-default:"Forum Auth" env-description:"Name shown in the startup banner"`
	Env      string `env:"ENV" env-default:"DEV" env-description:"Deployment environment (DEV enables console logs and the route table)"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info" env-description:"zerolog level"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

type Database struct {
	URL string `env:"DATABASE_URL" env-description:"PostgreSQL connection string"`
}

var _ DBConfig = Database{}

func (d Database) GetDatabaseURL() string {
	return d.URL
}
