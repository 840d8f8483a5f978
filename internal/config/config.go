package config

import (
	"time"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// ShutdownTimeout is the grace period for in-flight requests on shutdown.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// JournalConfig configures the journal itself.
type JournalConfig struct {
	// OwnerID is the single owner every request is attributed to.
	OwnerID string `mapstructure:"owner_id" validate:"required"`
	// Timezone is an IANA name; "Local" uses the host zone.
	Timezone        string `mapstructure:"timezone"          validate:"required"`
	SeedDemoEntries bool   `mapstructure:"seed_demo_entries"`
}

// Location resolves Timezone. Load has already validated it.
func (j JournalConfig) Location() *time.Location {
	loc, err := time.LoadLocation(j.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StoreConfig selects and configures the entry store.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"     validate:"required,oneof=memory file sqlite postgres redis"`
	FilePath   string `mapstructure:"file_path"   validate:"required_if=Backend file"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// DatabaseConfig contains the PostgreSQL settings used by the postgres backend.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"omitempty,url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// RedisConfig contains the settings used by the redis backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"       validate:"omitempty,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"         validate:"gte=0,lte=15"`
	KeyPrefix string `mapstructure:"key_prefix"`
}
