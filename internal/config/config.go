// Package config loads service configuration from defaults, an optional file,
// COURSES_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. COURSES_SERVER_ADDR.
const EnvPrefix = "COURSES"

// Schema names accepted by Config.Schema.
const (
	SchemaCourse = "course"
	SchemaName   = "name"
)

// Config holds the service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Seed      bool            `mapstructure:"seed"`
	Schema    string          `mapstructure:"schema"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SnapshotConfig points at the SQLite file the store is loaded from and saved
// to. An empty path disables snapshots.
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
	Name string `mapstructure:"name"`
}

// RateLimitConfig limits requests per client. RPM zero disables the limiter.
type RateLimitConfig struct {
	RPM   int `mapstructure:"rpm"`
	Burst int `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "JSON")
	v.SetDefault("snapshot.path", "")
	v.SetDefault("snapshot.name", "courses")
	v.SetDefault("ratelimit.rpm", 0)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("seed", true)
	v.SetDefault("schema", SchemaCourse)
}

// Load reads the configuration into a Config. file is optional; flags bound to
// v beforehand take precedence over the environment and the file.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Schema != SchemaCourse && c.Schema != SchemaName {
		errs = append(errs, fmt.Errorf("schema must be %q or %q, got %q", SchemaCourse, SchemaName, c.Schema))
	}
	if c.RateLimit.RPM < 0 {
		errs = append(errs, fmt.Errorf("ratelimit.rpm must not be negative, got %d", c.RateLimit.RPM))
	}
	if c.RateLimit.RPM > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("ratelimit.burst must be at least 1, got %d", c.RateLimit.Burst))
	}
	if c.Snapshot.Path != "" && c.Snapshot.Name == "" {
		errs = append(errs, errors.New("snapshot.name must not be empty when snapshot.path is set"))
	}
	return errors.Join(errs...)
}
