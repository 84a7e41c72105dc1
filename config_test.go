package auth_test

import (
	"os"
	"testing"
	"time"

	auth "github.com/forgestack/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"AUTH_ACCESS_SECRET",
		"AUTH_REFRESH_SECRET",
		"AUTH_ACCESS_TTL",
		"AUTH_REFRESH_TTL",
		"AUTH_ISSUER",
	} {
		// t.Setenv registers the restore, Unsetenv makes the variable
		// truly absent so envDefault values apply
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearAuthEnv(t)

		cfg, err := auth.LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		clearAuthEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("AUTH_ACCESS_SECRET", "prod-access")
		t.Setenv("AUTH_REFRESH_SECRET", "prod-refresh")
		t.Setenv("AUTH_ACCESS_TTL", "5m")

		cfg, err := auth.LoadConfig()
		require.NoError(t, err)
		assert.False(t, cfg.IsDevelopment())
		assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, []byte("prod-access"), cfg.AccessSecretBytes())
		assert.Equal(t, []byte("prod-refresh"), cfg.RefreshSecretBytes())
	})
}

func TestConfigFallbackSecrets(t *testing.T) {
	clearAuthEnv(t)

	cfg, err := auth.LoadConfig()
	require.NoError(t, err)

	t.Run("missing secrets log a prominent warning", func(t *testing.T) {
		logger := newCapturingLogger()

		_, err := auth.LoadConfigWithLogger(logger)
		require.NoError(t, err)
		assert.True(t, logger.has("warn", "insecure"))
	})

	t.Run("configured secrets do not warn", func(t *testing.T) {
		t.Setenv("AUTH_ACCESS_SECRET", "prod-access")
		t.Setenv("AUTH_REFRESH_SECRET", "prod-refresh")
		logger := newCapturingLogger()

		_, err := auth.LoadConfigWithLogger(logger)
		require.NoError(t, err)
		assert.False(t, logger.has("warn", ""))
	})

	t.Run("fallback secrets are distinct", func(t *testing.T) {
		assert.NotEmpty(t, cfg.AccessSecretBytes())
		assert.NotEmpty(t, cfg.RefreshSecretBytes())
		assert.NotEqual(t, cfg.AccessSecretBytes(), cfg.RefreshSecretBytes())
	})

	t.Run("fallback still issues working tokens", func(t *testing.T) {
		ts := auth.NewTokenServiceFromConfig(cfg, nil)

		token, err := ts.IssueAccess(testIdentity{id: "user-1", email: "a@x.com"})
		require.NoError(t, err)

		claims, err := ts.VerifyAccess(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("development tolerates missing secrets", func(t *testing.T) {
		clearAuthEnv(t)

		cfg, err := auth.LoadConfig()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
	})

	t.Run("production refuses missing secrets", func(t *testing.T) {
		clearAuthEnv(t)
		t.Setenv("APP_ENV", "production")

		cfg, err := auth.LoadConfig()
		require.NoError(t, err)
		require.Error(t, cfg.Validate())
	})

	t.Run("shared secret is refused", func(t *testing.T) {
		clearAuthEnv(t)
		t.Setenv("AUTH_ACCESS_SECRET", "same-secret")
		t.Setenv("AUTH_REFRESH_SECRET", "same-secret")

		cfg, err := auth.LoadConfig()
		require.NoError(t, err)
		require.Error(t, cfg.Validate())
	})
}
