package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("HOLDCOST_CREDENTIALS_USERNAME", "operator")
	t.Setenv("HOLDCOST_CREDENTIALS_PASSWORD_HASH", "$2a$10$hash")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setCredentials(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, int64(33554432), cfg.Server.MaxUploadBytes)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "data", cfg.Paths.DataDir)
		assert.Equal(t, "operator", cfg.Credentials.Username)
	})

	t.Run("environment overrides", func(t *testing.T) {
		setCredentials(t)
		t.Setenv("HOLDCOST_SERVER_PORT", "9090")
		t.Setenv("HOLDCOST_LOGGING_LEVEL", "debug")
		t.Setenv("HOLDCOST_PATHS_DATA_DIR", "/var/lib/holdcost")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "/var/lib/holdcost", cfg.Paths.DataDir)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("HOLDCOST_CREDENTIALS_USERNAME", "")
		t.Setenv("HOLDCOST_CREDENTIALS_PASSWORD_HASH", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials")
	})
}

func TestMerge(t *testing.T) {
	file := Config{}
	file.Server.Port = 9000
	file.Logging.Level = "warn"
	file.Paths.DataDir = "/srv/data"

	env := Config{}
	env.Server.Port = 8080

	merged := merge(file, env)
	assert.Equal(t, 8080, merged.Server.Port)
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, "/srv/data", merged.Paths.DataDir)
}

func TestValidate(t *testing.T) {
	valid := Config{}
	valid.Server.Port = 8080
	valid.Server.ReadTimeout = time.Second
	valid.Server.WriteTimeout = time.Second
	valid.Server.MaxUploadBytes = 1
	valid.Paths.DataDir = "data"
	valid.Credentials.Username = "operator"
	valid.Credentials.PasswordHash = "hash"
	require.NoError(t, valid.validate())

	badPort := valid
	badPort.Server.Port = -1
	assert.Error(t, badPort.validate())

	noData := valid
	noData.Paths.DataDir = ""
	assert.Error(t, noData.validate())
}
