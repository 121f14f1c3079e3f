package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  env: production
  port: 9090
  base_url: https://app.example.com
jwt:
  access_secret: access-secret
  refresh_secret: refresh-secret
  access_ttl_minutes: 5
  refresh_ttl_days: 14
mongo:
  uri: mongodb://db:27017
mail:
  from_email: no-reply@example.com
  from_name: Example
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL())
	assert.Equal(t, "projecthub", cfg.Mongo.Database)
	assert.Equal(t, "users", cfg.Mongo.UserCollection)
	assert.Equal(t, 10, cfg.Security.PasswordHashCost)
	assert.Equal(t, 15*time.Second, cfg.App.ReadTimeout())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "3333")
	t.Setenv("MONGO_URI", "mongodb://other:27017")
	t.Setenv("JWT_ACCESS_SECRET", "env-access")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, 3333, cfg.App.Port)
	assert.Equal(t, "mongodb://other:27017", cfg.Mongo.URI)
	assert.Equal(t, "env-access", cfg.JWT.AccessSecret)
}

func TestLoadRequiresSecrets(t *testing.T) {
	_, err := Load(writeConfig(t, `
app:
  base_url: https://app.example.com
mongo:
  uri: mongodb://db:27017
jwt:
  access_secret: only-one
`))
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET")
}

func TestLoadRejectsSharedSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
app:
  base_url: https://app.example.com
mongo:
  uri: mongodb://db:27017
jwt:
  access_secret: same
  refresh_secret: same
`))
	assert.ErrorContains(t, err, "must differ")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
