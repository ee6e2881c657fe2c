package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-forum-auth/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "top-secret")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "top-secret", c.GetSecretKey())
	require.Equal(t, "HS256", c.GetAlgorithm())
	require.Equal(t, 15*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 7*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "top-secret")
	t.Setenv("ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "30")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/forum")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "HS512", c.GetAlgorithm())
	require.Equal(t, 5*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 30*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "postgres://u:p@localhost:5432/forum", c.GetDatabaseURL())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("https://c.example"))
}

func TestNew_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := config.New()
	require.Error(t, err)
}

func TestToken_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, config.Token{SecretKey: "s", AccessTokenMinutes: 1, RefreshTokenDays: 1}.Validate())
	})

	t.Run("zero access lifetime", func(t *testing.T) {
		err := config.Token{SecretKey: "s", AccessTokenMinutes: 0, RefreshTokenDays: 1}.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
	})

	t.Run("negative refresh lifetime", func(t *testing.T) {
		err := config.Token{SecretKey: "s", AccessTokenMinutes: 1, RefreshTokenDays: -1}.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "REFRESH_TOKEN_EXPIRE_DAYS")
	})
}

func TestNewMigrate_DoesNotNeedSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/forum")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := config.NewMigrate()
	require.NoError(t, err)

	require.Equal(t, "postgres://u:p@localhost:5432/forum", c.GetDatabaseURL())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "DEV", c.GetEnv())
}

func TestToken_ValidateReportsOffendingValue(t *testing.T) {
	err := config.Token{SecretKey: "s", AccessTokenMinutes: -3, RefreshTokenDays: 1}.Validate()
	require.EqualError(t, err, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got -3")

	err = config.Token{AccessTokenMinutes: 1, RefreshTokenDays: 1}.Validate()
	require.EqualError(t, err, "SECRET_KEY is required")
}
