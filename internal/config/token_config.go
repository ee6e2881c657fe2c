package config

import (
	"time"

	"github.com/pkg/errors"
)

type TokenConfig interface {
	GetSecretKey() string
	GetAlgorithm() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

// Token holds the signing material and token lifetimes.
type Token struct {
	SecretKey          string `env:"SECRET_KEY" env-required:"true" env-description:"HMAC secret used to sign tokens"`
	Algorithm          string `env:"ALGORITHM" env-default:"HS256" env-description:"JWT signing algorithm (HS256, HS384, HS512)"`
	AccessTokenMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"15" env-description:"Access token lifetime in minutes"`
	RefreshTokenDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" env-default:"7" env-description:"Refresh token lifetime in days"`
}

var _ TokenConfig = Token{}

func (t Token) GetSecretKey() string {
	return t.SecretKey
}

func (t Token) GetAlgorithm() string {
	if t.Algorithm == "" {
		return "HS256"
	}
	return t.Algorithm
}

func (t Token) GetAccessTokenExpiry() time.Duration {
	return time.Duration(t.AccessTokenMinutes) * time.Minute
}

func (t Token) GetRefreshTokenExpiry() time.Duration {
	return time.Duration(t.RefreshTokenDays) * 24 * time.Hour
}

// Validate rejects configurations that would produce unusable tokens.
func (t Token) Validate() error {
	if t.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if t.AccessTokenMinutes <= 0 {
		return errors.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", t.AccessTokenMinutes)
	}
	if t.RefreshTokenDays <= 0 {
		return errors.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive, got %d", t.RefreshTokenDays)
	}
	return nil
}
