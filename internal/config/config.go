package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite database file
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// MarketplaceConfig holds the marketplace order API configuration
type MarketplaceConfig struct {
	Platform          string        `mapstructure:"platform"`
	BaseURL           string        `mapstructure:"base_url"`
	PageSize          int           `mapstructure:"page_size"`
	OrderByField      string        `mapstructure:"order_by_field"`
	OrderByDirection  string        `mapstructure:"order_by_direction"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetryElapsed   time.Duration `mapstructure:"max_retry_elapsed"`
}

// FetcherConfig holds fetch orchestrator configuration
type FetcherConfig struct {
	MaxPages int `mapstructure:"max_pages"`
}

// StoreConfig holds persistence batching configuration
type StoreConfig struct {
	SnapshotBatchSize int `mapstructure:"snapshot_batch_size"`
	LineItemBatchSize int `mapstructure:"line_item_batch_size"`
}

// WriterConfig describes how the write delegate process is spawned
type WriterConfig struct {
	Command  string        `mapstructure:"command"`
	Args     []string      `mapstructure:"args"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Language string        `mapstructure:"language"`
}

// SyncConfig holds sync cycle configuration
type SyncConfig struct {
	Statuses   []string      `mapstructure:"statuses"`
	Lookback   time.Duration `mapstructure:"lookback"`
	Schedule   string        `mapstructure:"schedule"` // cron expression with seconds, empty runs once
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSOrigins lists the browser origins allowed to call the API, empty allows all
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// OrderSyncConfig holds configuration for order-sync
type OrderSyncConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Fetcher     FetcherConfig     `mapstructure:"fetcher"`
	Writer      WriterConfig      `mapstructure:"writer"`
	Sync        SyncConfig        `mapstructure:"sync"`
	NATS        NATSConfig        `mapstructure:"nats"`
}

// OrderWriterConfig holds configuration for order-writer
type OrderWriterConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Store      StoreConfig    `mapstructure:"store"`
	Language   string         `mapstructure:"language"`
}

// APIConfig holds configuration for the query API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Auth       AuthConfig     `mapstructure:"auth"`
}

// LoadOrderSyncConfig loads configuration for order-sync
func LoadOrderSyncConfig(configFile string, envPath string) (*OrderSyncConfig, error) {
	v := configureViper("order-sync", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("marketplace.platform", "trendyol")
	v.SetDefault("marketplace.base_url", "https://api.trendyol.com/sapigw")
	v.SetDefault("marketplace.page_size", 200)
	v.SetDefault("marketplace.order_by_field", "PackageLastModifiedDate")
	v.SetDefault("marketplace.order_by_direction", "DESC")
	v.SetDefault("marketplace.timeout", "20s")
	v.SetDefault("marketplace.requests_per_second", 10)
	v.SetDefault("marketplace.burst", 5)
	v.SetDefault("marketplace.max_retry_elapsed", "30s")
	v.SetDefault("fetcher.max_pages", 10000)
	v.SetDefault("writer.command", "order-writer")
	v.SetDefault("writer.timeout", "5m")
	v.SetDefault("writer.language", "en")
	v.SetDefault("sync.statuses", []string{"Created", "Picking", "Invoiced", "Shipped", "Delivered", "Cancelled"})
	v.SetDefault("sync.lookback", "336h")
	v.SetDefault("sync.run_on_start", true)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "ORDER_EVENTS")
	v.SetDefault("nats.subject_prefix", "orders.changed")
	v.SetDefault("nats.connection_name", "order-sync")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config OrderSyncConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadOrderWriterConfig loads configuration for order-writer
func LoadOrderWriterConfig(configFile string, envPath string) (*OrderWriterConfig, error) {
	v := configureViper("order-writer", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("store.snapshot_batch_size", 1)
	v.SetDefault("store.line_item_batch_size", 500)
	v.SetDefault("language", "en")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config OrderWriterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "orders.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

// readConfig reads the config file, falling back to env vars when no file is found
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("ORDER_SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"language",
		// Database
		"database.driver",
		"database.path",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Marketplace
		"marketplace.platform",
		"marketplace.base_url",
		"marketplace.page_size",
		"marketplace.order_by_field",
		"marketplace.order_by_direction",
		"marketplace.timeout",
		"marketplace.requests_per_second",
		"marketplace.burst",
		"marketplace.max_retry_elapsed",
		// Fetcher / store
		"fetcher.max_pages",
		"store.snapshot_batch_size",
		"store.line_item_batch_size",
		// Writer
		"writer.command",
		"writer.args",
		"writer.timeout",
		"writer.language",
		// Sync
		"sync.statuses",
		"sync.lookback",
		"sync.schedule",
		"sync.run_on_start",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}
