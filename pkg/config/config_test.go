package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound key so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envKeys {
		t.Setenv(env, "")
	}
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_URL", "postgres://localhost/telecore")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Redis.PlanTTL)
	assert.Equal(t, "subscription_lifecycle", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, "@every 1h", cfg.Sweep.Schedule)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even when empty.
	for _, k := range []string{"DB_DRIVER", "JWT_SECRET", "KAFKA_BROKERS", "SWEEP_SCHEDULE"} {
		unsetEnv(t, k)
	}

	cfg, err := Load("testdata/app.env")
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "@every 5m", cfg.Sweep.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PLAN_CACHE_TTL", "30s")
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.PlanTTL)
	assert.False(t, cfg.Sweep.Enabled)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{"JWT_SECRET": "x"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET": "x"}},
		{"missing secret", map[string]string{"DB_DRIVER": "memory"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("testdata/missing.env")
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}
