package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db.internal"
port = 5433
user = "rental"
password = "from-file"
dbname = "rental"

[logs]
level = "debug"

[metrics]
enabled = true
service_name = "rental-test"

[rental]
serialization_retries = 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearDBEnv(t)

	t.Run("Success with defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleConfig))
		require.NoError(t, err)

		assert.Equal(t, 8090, cfg.Server.HTTPPort)
		assert.Equal(t, 30, cfg.Server.ShutdownTimeout) // default
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode) // default
		assert.Equal(t, "debug", cfg.Logs.Level)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "/metrics", cfg.Metrics.Path) // default
		assert.Equal(t, 5, cfg.Rental.SerializationRetries)
	})

	t.Run("Env overrides database", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "from-env")
		t.Setenv("DB_PORT", "6432")

		cfg, err := Load(writeConfig(t, sampleConfig))
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.Database.Password)
		assert.Equal(t, 6432, cfg.Database.Port)
	})

	t.Run("Invalid env port", func(t *testing.T) {
		t.Setenv("DB_PORT", "not-a-port")

		_, err := Load(writeConfig(t, sampleConfig))
		assert.Error(t, err)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[server]\nhttp_port = 8080\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.dbname is required")
		assert.Contains(t, err.Error(), "database.user is required")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=require", d.DSN())
}
