package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "ONELINE"

// ErrInvalidConfig is wrapped by every validation failure returned from Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Options tune where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file path. When empty, oneline.yaml is
	// searched in the working directory and $HOME/.oneline.
	ConfigFile string
	// EnvFile is loaded into the process environment first when it exists.
	// Variables already set are not overridden. Defaults to ".env".
	EnvFile string
	// DefaultBackend replaces BackendMemory as the store.backend default.
	// Short-lived processes set it so entries outlive the process.
	DefaultBackend string
}

// setDefaults registers the built-in defaults on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("journal.owner_id", "mockUser")
	v.SetDefault("journal.timezone", "Local")
	v.SetDefault("journal.seed_demo_entries", false)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.file_path", "oneline-entries.json")
	v.SetDefault("store.sqlite_path", "oneline.db")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "oneline:")
}

// Load configuration from defaults, an optional config file and environment
// variables, in increasing order of precedence.
// Returns a populated Config or an error if loading or validation fails.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	if opts.DefaultBackend != "" {
		v.SetDefault("store.backend", opts.DefaultBackend)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("oneline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.oneline")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search path is optional.
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)
	cfg.Journal.OwnerID = strings.TrimSpace(cfg.Journal.OwnerID)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: validation failed: %w", ErrInvalidConfig, err)
	}

	if _, err := time.LoadLocation(cfg.Journal.Timezone); err != nil {
		return fmt.Errorf("%w: validation failed: journal.timezone: %w", ErrInvalidConfig, err)
	}

	switch cfg.Store.Backend {
	case BackendPostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("%w: validation failed: database.url is required for the postgres backend",
				ErrInvalidConfig)
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("%w: validation failed: redis.addr is required for the redis backend",
				ErrInvalidConfig)
		}
	}
	return nil
}

// splitOrigins accepts both a YAML list and a comma separated environment
// value, which viper hands over as a single element.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
