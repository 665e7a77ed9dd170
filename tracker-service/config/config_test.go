package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "file values with defaults",
			file: `{"port": "9090", "database": {"driver": "memory"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "saga-tracker", cfg.ServiceName)
				assert.Equal(t, "9090", cfg.Port)
				assert.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
				assert.Equal(t, 5, cfg.Ingest.MaxAttempts)
				assert.Equal(t, 50*time.Millisecond, cfg.Ingest.RetryInterval)
				assert.Equal(t, 30*time.Second, cfg.Query.StatisticsCacheTTL)
				assert.Equal(t, 3, cfg.Consumer.MaxReceiveCount)
				assert.Equal(t, int32(1), cfg.Consumer.Readers)
				assert.Equal(t, int32(15), cfg.Consumer.WaitTimeSeconds)
				assert.Equal(t, 10*time.Second, cfg.Consumer.EmptyReceiveBackoff)
				assert.Equal(t, 20*time.Second, cfg.Consumer.ErrorBackoff)
				assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
			},
		},
		{
			name: "consumer polling settings",
			file: `{"version": "2.3.0", "consumer": {"readers": 4, "wait_time_seconds": 20, "empty_receive_backoff": "500ms", "error_backoff": "5s"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2.3.0", cfg.Version)
				assert.Equal(t, int32(4), cfg.Consumer.Readers)
				assert.Equal(t, int32(20), cfg.Consumer.WaitTimeSeconds)
				assert.Equal(t, 500*time.Millisecond, cfg.Consumer.EmptyReceiveBackoff)
				assert.Equal(t, 5*time.Second, cfg.Consumer.ErrorBackoff)
			},
		},
		{
			name:        "long poll beyond the SQS limit",
			file:        `{"consumer": {"wait_time_seconds": 21}}`,
			expectError: true,
		},
		{
			name:        "zero readers",
			file:        `{"consumer": {"readers": 0}}`,
			expectError: true,
		},
		{
			name: "durations parse from strings",
			file: `{"ingest": {"retry_interval": "250ms"}, "poller": {"interval": "1m"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 250*time.Millisecond, cfg.Ingest.RetryInterval)
				assert.Equal(t, time.Minute, cfg.Poller.Interval)
			},
		},
		{
			name: "environment overrides file",
			file: `{"port": "9090", "redis": {"addr": "cache:6379"}}`,
			env: map[string]string{
				"SAGA_TRACKER_PORT":       "7070",
				"SAGA_TRACKER_REDIS_ADDR": "other:6379",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "7070", cfg.Port)
				assert.Equal(t, "other:6379", cfg.Redis.Addr)
			},
		},
		{
			name:        "unknown driver",
			file:        `{"database": {"driver": "sqlite"}}`,
			expectError: true,
		},
		{
			name:        "zero ingest attempts",
			file:        `{"ingest": {"max_attempts": 0}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "unit.json"), []byte(tt.file), 0o600))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := readConfig(dir, "unit")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := readConfig(t.TempDir(), "absent")
	assert.Error(t, err)
}

func TestConfig_GetDatabaseURL(t *testing.T) {
	cfg := &Config{Database: Database{
		User:     "tracker",
		Password: "secret",
		Host:     "db",
		Port:     5432,
		Database: "sagas",
		SSLMode:  "require",
	}}
	assert.Equal(t, "postgres://tracker:secret@db:5432/sagas?sslmode=require", cfg.GetDatabaseURL())

	cfg.Database.URL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.GetDatabaseURL())
}
