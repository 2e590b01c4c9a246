package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all ledger configuration.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // postgres, mongo, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	MarkerTTL time.Duration `mapstructure:"marker_ttl"`
	Timeout   time.Duration `mapstructure:"timeout"` // dial, read and write
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LedgerConfig tunes the mutation engines.
type LedgerConfig struct {
	StructuredRetryLimit    int              `mapstructure:"structured_retry_limit"`
	AuditWorkers            int              `mapstructure:"audit_workers"`
	AuditQueueSize          int              `mapstructure:"audit_queue_size"`
	TouchWorkers            int              `mapstructure:"touch_workers"`
	TouchQueueSize          int              `mapstructure:"touch_queue_size"`
	AllowCrossGuildRollback bool             `mapstructure:"allow_cross_guild_rollback"`
	Currencies              []CurrencyConfig `mapstructure:"currencies"` // empty = built-in set
}

// CurrencyConfig registers one currency id.
type CurrencyConfig struct {
	ID          string   `mapstructure:"id"`
	Kind        string   `mapstructure:"kind"` // scalar, structured
	Parts       []string `mapstructure:"parts"`
	PrimaryPart string   `mapstructure:"primary_part"`
	AllowDebt   bool     `mapstructure:"allow_debt"`
}

type TracingConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"` // OTLP/HTTP collector URL; empty disables export
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: GLEDGER_.
// Nested keys use underscore: GLEDGER_DATABASE_HOST, GLEDGER_STORE_DRIVER, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "guild_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("mongo.database", "guild_ledger")
	v.SetDefault("mongo.timeout", "10s")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.marker_ttl", "720h")
	v.SetDefault("redis.timeout", "3s")
	v.SetDefault("ledger.structured_retry_limit", 3)
	v.SetDefault("ledger.audit_workers", 4)
	v.SetDefault("ledger.audit_queue_size", 1024)
	v.SetDefault("ledger.touch_workers", 2)
	v.SetDefault("ledger.touch_queue_size", 256)
	v.SetDefault("ledger.allow_cross_guild_rollback", false)
	v.SetDefault("tracing.service_name", "guild-ledger")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: GLEDGER_DATABASE_HOST -> database.host
	v.SetEnvPrefix("GLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the ledger cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "mongo", "memory":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Ledger.StructuredRetryLimit < 1 {
		return fmt.Errorf("ledger.structured_retry_limit must be at least 1")
	}
	if c.Ledger.AuditWorkers < 1 {
		return fmt.Errorf("ledger.audit_workers must be at least 1")
	}
	return nil
}
