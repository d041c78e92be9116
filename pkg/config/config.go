// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level configuration for the diversion core and its
// harness binary.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Cache   CacheConfig   `koanf:"cache"`
	Solver  SolverConfig  `koanf:"solver"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig configures the Prometheus collectors in pkg/metrics.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// CacheConfig configures pkg/cache's SolveResult memoization layer.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // for the in-memory driver
}

// Address returns the cache backend's network address.
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SolverConfig holds the default cost parameters and resource limits for
// pkg/solver, overridable per request through solver.Params.
type SolverConfig struct {
	// StepCost is the per-edge cost of a path step that stays off the
	// original attack path.
	StepCost float64 `koanf:"step_cost"`
	// ChangeCost is added to StepCost as the weight of the synthetic reverse
	// edge AugmentedGraphBuilder adds for every original edge.
	ChangeCost float64 `koanf:"change_cost"`
	// UnwantedChangeCost penalizes routing traffic into a sink's existing
	// incoming edges, discouraging reuse of edges the victim already owns.
	UnwantedChangeCost float64 `koanf:"unwanted_change_cost"`
	// RouterEntryCost is the per-routing-table-entry cost used by
	// ComputeEditCost; each reversed edge is charged twice this amount.
	RouterEntryCost float64 `koanf:"router_entry_cost"`
	// DefaultTimeout bounds a single SolveOrchestrator.Solve call when the
	// caller does not set one explicitly.
	DefaultTimeout time.Duration `koanf:"default_timeout"`
	// MaxAllyPermutations caps CentralCompleteSolver's brute-force search:
	// when the number of ally orderings exceeds it, no ordering is explored
	// and the solver returns a CodeIterationLimit error.
	MaxAllyPermutations int `koanf:"max_ally_permutations"`
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Solver.StepCost < 0 {
		errs = append(errs, "solver.step_cost must be non-negative")
	}
	if c.Solver.ChangeCost < 0 {
		errs = append(errs, "solver.change_cost must be non-negative")
	}
	if c.Solver.UnwantedChangeCost < 0 {
		errs = append(errs, "solver.unwanted_change_cost must be non-negative")
	}
	if c.Solver.MaxAllyPermutations < 0 {
		errs = append(errs, "solver.max_ally_permutations must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment reports whether the app is running in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the app is running in a production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
