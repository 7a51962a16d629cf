package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load("testdata/valid")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "access-secret", cfg.JWT.AccessTokenSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "refresh-secret", cfg.JWT.RefreshTokenSecret)
	assert.Equal(t, 72*time.Hour, cfg.JWT.RefreshTokenExpiry)
	// Defaults fill in what the file leaves out.
	assert.Equal(t, 10, cfg.JWT.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Server.SecureCookies)
}

func TestLoad_MissingRefreshSettingsFailsStartup(t *testing.T) {
	_, err := Load("testdata/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.refresh_token_secret")
	assert.Contains(t, err.Error(), "jwt.refresh_token_expiry")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "env-refresh-secret")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRY", "48h")

	cfg, err := Load("testdata/missing")
	require.NoError(t, err)
	assert.Equal(t, "env-refresh-secret", cfg.JWT.RefreshTokenSecret)
	assert.Equal(t, 48*time.Hour, cfg.JWT.RefreshTokenExpiry)
}

func TestValidate_SecretsMustDiffer(t *testing.T) {
	var cfg Config
	cfg.JWT.AccessTokenSecret = "same"
	cfg.JWT.RefreshTokenSecret = "same"
	cfg.JWT.AccessTokenExpiry = time.Minute
	cfg.JWT.RefreshTokenExpiry = time.Hour

	assert.Error(t, cfg.Validate())
}
