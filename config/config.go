// Package config loads engine settings from defaults, environment variables
// (QUARRY_*) and an optional config file.
package config

import (
	"github.com/spf13/viper"

	"github.com/quarrydb/quarry/common"
)

// Config holds the engine's tunables.
type Config struct {
	// LockPolicy selects how lock conflicts are resolved. Only "nowait" is
	// implemented: conflicting requests abort the requesting transaction.
	LockPolicy string `mapstructure:"lock_policy"`

	// OutputLimit caps the number of rows the CLI prints per query.
	// Zero means unlimited.
	OutputLimit int `mapstructure:"output_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LockPolicy:  "nowait",
		OutputLimit: 0,
	}
}

// Load reads configuration from the optional file at path, layered over
// environment variables and defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("lock_policy", "nowait")
	v.SetDefault("output_limit", 0)
	v.SetEnvPrefix("quarry")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, common.Errorf(common.OperationError,
				"reading config %q: %v", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, common.Errorf(common.OperationError, "parsing config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot honor.
func (c Config) Validate() error {
	if c.LockPolicy != "nowait" {
		return common.Errorf(common.OperationError,
			"unsupported lock_policy %q (only \"nowait\" is implemented)", c.LockPolicy)
	}
	if c.OutputLimit < 0 {
		return common.Errorf(common.OperationError,
			"output_limit must be non-negative, got %d", c.OutputLimit)
	}
	return nil
}
