// Package config defines the spinematch process configuration and its
// loading from defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/spinematch/internal/domain/spine"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a YAML file with products, charts and
	// chronograph records. Empty starts with an empty catalog.
	CatalogPath string `koanf:"catalog_path"`

	// DefaultMethod is used when a request names no calculation method.
	DefaultMethod string `koanf:"default_method"`

	// DefaultLimit and MaxLimit bound the number of recommended arrows.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// MaxDeviation is the deflection deviation at which compatibility reaches zero.
	MaxDeviation int `koanf:"max_deviation"`
	// MaxWoodDeviation is the same bound in pound-test units.
	MaxWoodDeviation int `koanf:"max_wood_deviation"`

	// SpeedFloorFPS and SpeedCeilingFPS bound estimated arrow speeds.
	SpeedFloorFPS   float64 `koanf:"speed_floor_fps"`
	SpeedCeilingFPS float64 `koanf:"speed_ceiling_fps"`

	// BatchWorkers bounds parallel sessions in a batch request.
	BatchWorkers int `koanf:"batch_workers"`
	// MaxBatch caps the number of requests accepted in one batch.
	MaxBatch int `koanf:"max_batch"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DefaultMethod:    "universal",
		DefaultLimit:     20,
		MaxLimit:         100,
		MaxDeviation:     100,
		MaxWoodDeviation: 15,
		SpeedFloorFPS:    150,
		SpeedCeilingFPS:  450,
		BatchWorkers:     runtime.NumCPU(),
		MaxBatch:         100,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultLimit <= 0:
		return fmt.Errorf("%w: default_limit must be positive", ErrInvalidConfig)
	case c.MaxLimit < c.DefaultLimit:
		return fmt.Errorf("%w: max_limit %d is below default_limit %d", ErrInvalidConfig, c.MaxLimit, c.DefaultLimit)
	case c.MaxDeviation <= 0 || c.MaxWoodDeviation <= 0:
		return fmt.Errorf("%w: deviation bounds must be positive", ErrInvalidConfig)
	case c.SpeedFloorFPS <= 0 || c.SpeedCeilingFPS <= c.SpeedFloorFPS:
		return fmt.Errorf("%w: speed bounds [%v, %v] are not a valid band", ErrInvalidConfig, c.SpeedFloorFPS, c.SpeedCeilingFPS)
	case c.BatchWorkers <= 0:
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	case c.MaxBatch <= 0:
		return fmt.Errorf("%w: max_batch must be positive", ErrInvalidConfig)
	}
	if _, err := spine.ParseMethod(c.DefaultMethod); err != nil {
		return fmt.Errorf("%w: default_method: %w", ErrInvalidConfig, err)
	}
	return nil
}
