package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies that an empty environment yields the default configuration.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

// TestLoadFromEnvironment verifies that prefixed variables override the defaults.
func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTACTS_SERVER_PORT", "9090")
	t.Setenv("CONTACTS_SERVER_HOST", "127.0.0.1")
	t.Setenv("CONTACTS_SERVER_REQUEST_LOGGING", "false")
	t.Setenv("CONTACTS_SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CONTACTS_STORE_DRIVER", "mysql")
	t.Setenv("CONTACTS_STORE_MYSQL_USER", "dirk")
	t.Setenv("CONTACTS_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.False(t, cfg.Server.RequestLogging)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMySQL, cfg.Store.Driver)
	assert.Equal(t, "dirk", cfg.Store.MySQLUser)
	assert.Equal(t, "json", cfg.Log.Format)
}

// TestLoadInvalid verifies that values failing validation are reported as errors.
func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"CONTACTS_SERVER_PORT":  "70000",
		"CONTACTS_STORE_DRIVER": "postgres",
		"CONTACTS_LOG_LEVEL":    "loud",
		"CONTACTS_SERVER_MODE":  "fast",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// TestLoadMySQLRequiresUser verifies that the mysql driver cannot be selected without credentials.
func TestLoadMySQLRequiresUser(t *testing.T) {
	t.Setenv("CONTACTS_STORE_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("CONTACTS_SERVER_PORT"))
	assert.Equal(t, "store.mongo_uri", envKey("CONTACTS_STORE_MONGO_URI"))
	assert.Equal(t, "", envKey("CONTACTS_DEBUG"))
}
