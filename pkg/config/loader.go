// pkg/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "NETDIVERT_"
	configEnvVar = "CONFIG_PATH"
)

// Loader loads configuration from layered sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/netdivert/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths sets the search paths for the config file.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load loads configuration with precedence, lowest to highest:
//  1. Defaults
//  2. Config file (yaml)
//  3. Environment variables
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		// The file is optional; only environment and defaults are required.
		fmt.Printf("Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults loads the baseline configuration values.
func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "netdivertd",
		"app.version":     "0.1.0",
		"app.environment": "development",
		"app.debug":       false,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   true,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "netdivert",
		"metrics.subsystem": "solver",

		// Cache
		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 5 * time.Minute,
		"cache.max_entries": 10000,

		// Solver
		"solver.step_cost":             1.0,
		"solver.change_cost":           5.0,
		"solver.unwanted_change_cost":  50.0,
		"solver.router_entry_cost":     3.0,
		"solver.default_timeout":       30 * time.Second,
		"solver.max_ally_permutations": 40320, // 8!, keeps brute force bounded
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadConfigFile loads configuration from the first matching file.
func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv loads configuration from environment variables.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		// NETDIVERT_SOLVER_STEP_COST -> solver.step_cost
		return strings.ReplaceAll(
			strings.ToLower(
				strings.TrimPrefix(s, l.envPrefix),
			),
			"_", ".",
		)
	}), nil)
}

// MustLoad loads configuration or panics.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load is a convenience function using the default loader.
func Load() (*Config, error) {
	return NewLoader().Load()
}
