// Package config reads synprune's environment configuration.
// Flags override anything set here; the environment only supplies defaults
// so CI jobs and shell profiles can pin behavior without repeating flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all environment-tunable settings.
type Config struct {
	// OutDir is where reduced datasets are written.
	OutDir string `env:"SYNPRUNE_OUT" env-default:"synprune-out"`

	// Seed fixes the random source for reproducible reductions.
	// 0 means derive a seed from the current time.
	Seed int64 `env:"SYNPRUNE_SEED" env-default:"0"`

	// CacheDir holds the aggregate cache database. Empty means
	// <user cache dir>/synprune.
	CacheDir string `env:"SYNPRUNE_CACHE_DIR" env-default:""`

	// NoCache disables the aggregate cache entirely.
	NoCache bool `env:"SYNPRUNE_NO_CACHE" env-default:"false"`

	// NoColor disables ANSI colors in report output. Set from the
	// conventional NO_COLOR variable, which is a presence flag: any value,
	// including empty, disables color.
	NoColor bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SYNPRUNE_LOG_LEVEL" env-default:"warn"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if _, present := os.LookupEnv("NO_COLOR"); present {
		cfg.NoColor = true
	}
	return cfg, nil
}

// CachePath returns the path of the aggregate cache database.
func (c Config) CachePath() (string, error) {
	dir := c.CacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve cache dir: %w", err)
		}
		dir = filepath.Join(base, "synprune")
	}
	return filepath.Join(dir, "synprune.db"), nil
}
