package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "event-service", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "event_db", cfg.Database.DBName)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "event-service", cfg.Kafka.ClientID)

	assert.Equal(t, 1*time.Second, cfg.Worker.OutboxPollInterval)
	assert.Equal(t, 100, cfg.Worker.OutboxBatchSize)
	assert.Equal(t, 1*time.Hour, cfg.Worker.OutboxCleanupInterval)
	assert.Equal(t, 7, cfg.Worker.OutboxRetentionDays)
	assert.Equal(t, 1*time.Minute, cfg.Worker.CompletionInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DBNAME", "event_test")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("WORKER_OUTBOX_BATCH_SIZE", "25")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "event_test", cfg.Database.DBName)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 25, cfg.Worker.OutboxBatchSize)
	assert.False(t, cfg.Redis.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "app name is required",
		},
		{
			name:    "invalid server port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "DATABASE_HOST is required",
		},
		{
			name:    "missing JWT secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: "JWT secret is required",
		},
		{
			name:    "default JWT secret in production",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: "JWT secret must be changed in production",
		},
		{
			name:    "invalid outbox batch size",
			mutate:  func(c *Config) { c.Worker.OutboxBatchSize = -1 },
			wantErr: "invalid outbox batch size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "events",
		Password: "secret",
		DBName:   "event_db",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=events password=secret dbname=event_db sslmode=require",
		cfg.DSN(),
	)
}

func TestConfig_Environment(t *testing.T) {
	cfg := &Config{}

	cfg.App.Environment = "development"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
