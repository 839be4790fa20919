package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	if content == "" {
		return filepath.Join(tmpDir, "nonexistent.yaml")
	}
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadOrderSyncConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *OrderSyncConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  driver: postgres
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: orders
marketplace:
  platform: trendyol
  base_url: "http://localhost:9000"
  page_size: 50
  timeout: "5s"
  requests_per_second: 2.5
  burst: 2
fetcher:
  max_pages: 20
writer:
  command: "/usr/local/bin/order-writer"
  args: ["-config", "writer.yaml"]
  timeout: "1m"
  language: tr
sync:
  statuses: ["Created", "Shipped"]
  lookback: "24h"
  schedule: "0 */10 * * * *"
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_ORDERS"
`,
			validate: func(t *testing.T, cfg *OrderSyncConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, DriverPostgres, cfg.Database.Driver)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "http://localhost:9000", cfg.Marketplace.BaseURL)
				assert.Equal(t, 50, cfg.Marketplace.PageSize)
				assert.Equal(t, 5*time.Second, cfg.Marketplace.Timeout)
				assert.InDelta(t, 2.5, cfg.Marketplace.RequestsPerSecond, 0.001)
				assert.Equal(t, 20, cfg.Fetcher.MaxPages)
				assert.Equal(t, "/usr/local/bin/order-writer", cfg.Writer.Command)
				assert.Equal(t, []string{"-config", "writer.yaml"}, cfg.Writer.Args)
				assert.Equal(t, time.Minute, cfg.Writer.Timeout)
				assert.Equal(t, "tr", cfg.Writer.Language)
				assert.Equal(t, []string{"Created", "Shipped"}, cfg.Sync.Statuses)
				assert.Equal(t, 24*time.Hour, cfg.Sync.Lookback)
				assert.Equal(t, "0 */10 * * * *", cfg.Sync.Schedule)
				assert.Equal(t, "TEST_ORDERS", cfg.NATS.StreamName)
			},
		},
		{
			name: "config with defaults",
			configFile: `
marketplace:
  base_url: "http://localhost:9000"
`,
			validate: func(t *testing.T, cfg *OrderSyncConfig) {
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
				assert.Equal(t, "orders.db", cfg.Database.Path)
				assert.Equal(t, "trendyol", cfg.Marketplace.Platform)
				assert.Equal(t, 200, cfg.Marketplace.PageSize)
				assert.Equal(t, 20*time.Second, cfg.Marketplace.Timeout)
				assert.Equal(t, "PackageLastModifiedDate", cfg.Marketplace.OrderByField)
				assert.Equal(t, 10000, cfg.Fetcher.MaxPages)
				assert.Equal(t, "order-writer", cfg.Writer.Command)
				assert.Equal(t, 5*time.Minute, cfg.Writer.Timeout)
				assert.Equal(t, 14*24*time.Hour, cfg.Sync.Lookback)
				assert.True(t, cfg.Sync.RunOnStart)
				assert.Equal(t, "ORDER_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, "orders.changed", cfg.NATS.SubjectPrefix)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
			},
		},
		{
			name:       "missing config file",
			configFile: "",
			validate: func(t *testing.T, cfg *OrderSyncConfig) {
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
			},
		},
		{
			name: "invalid yaml",
			configFile: `
				database:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := writeConfigFile(t, tt.configFile)

			cfg, err := LoadOrderSyncConfig(configFile, t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadOrderWriterConfig(t *testing.T) {
	tests := []struct {
		name       string
		configFile string
		validate   func(*testing.T, *OrderWriterConfig)
	}{
		{
			name: "valid config file",
			configFile: `
database:
  driver: sqlite
  path: "/var/lib/orders/orders.db"
store:
  snapshot_batch_size: 10
  line_item_batch_size: 250
language: tr
`,
			validate: func(t *testing.T, cfg *OrderWriterConfig) {
				assert.Equal(t, "/var/lib/orders/orders.db", cfg.Database.Path)
				assert.Equal(t, "/var/lib/orders/orders.db", cfg.Database.DSN())
				assert.Equal(t, 10, cfg.Store.SnapshotBatchSize)
				assert.Equal(t, 250, cfg.Store.LineItemBatchSize)
				assert.Equal(t, "tr", cfg.Language)
			},
		},
		{
			name:       "defaults",
			configFile: "debug: false\n",
			validate: func(t *testing.T, cfg *OrderWriterConfig) {
				assert.Equal(t, 1, cfg.Store.SnapshotBatchSize)
				assert.Equal(t, 500, cfg.Store.LineItemBatchSize)
				assert.Equal(t, "en", cfg.Language)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadOrderWriterConfig(writeConfigFile(t, tt.configFile), t.TempDir())
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadAPIConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
server:
  port: 9090
auth:
  api_keys: ["key-1", "key-2"]
database:
  driver: postgres
  host: db
  user: u
  password: p
  dbname: orders
`)

	cfg, err := LoadAPIConfig(configFile, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"key-1", "key-2"}, cfg.Auth.APIKeys)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "postgres",
			config: DatabaseConfig{
				Driver:   DriverPostgres,
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
		{
			name:     "sqlite file",
			config:   DatabaseConfig{Driver: DriverSQLite, Path: "data/orders.db"},
			expected: "data/orders.db",
		},
		{
			name:     "sqlite memory",
			config:   DatabaseConfig{Driver: DriverSQLite, Path: "file::memory:?cache=shared"},
			expected: "file::memory:?cache=shared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	envContent := `ORDER_SYNC_DEBUG=true
ORDER_SYNC_DATABASE_DRIVER=postgres
ORDER_SYNC_DATABASE_HOST=env-host
ORDER_SYNC_DATABASE_PORT=3306
ORDER_SYNC_MARKETPLACE_PAGE_SIZE=75
`
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))
	t.Cleanup(func() {
		for _, key := range []string{
			"ORDER_SYNC_DEBUG",
			"ORDER_SYNC_DATABASE_DRIVER",
			"ORDER_SYNC_DATABASE_HOST",
			"ORDER_SYNC_DATABASE_PORT",
			"ORDER_SYNC_MARKETPLACE_PAGE_SIZE",
		} {
			_ = os.Unsetenv(key)
		}
	})

	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  driver: sqlite
  host: file-host
  port: 5432
marketplace:
  page_size: 10
`
	require.NoError(t, os.WriteFile(configPath, []byte(configFile), 0600))

	cfg, err := LoadOrderSyncConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// .env values are loaded into the process env and win over the file
	assert.True(t, cfg.Debug)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 75, cfg.Marketplace.PageSize)
}
