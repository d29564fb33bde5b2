// Package config loads the per-user configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultResolution is the granularity divisor applied before layout:
// nodes smaller than total/resolution are hidden.
const DefaultResolution = 10000

// Config controls scanning and rendering behaviour.
type Config struct {
	// Workers is the scan parallelism. 0 picks the scanner default.
	Workers int `toml:"workers"`

	// Resolution hides nodes smaller than total/resolution.
	Resolution int64 `toml:"resolution"`

	FollowSymlinks bool     `toml:"follow-symlinks"`
	Cache          bool     `toml:"cache"`
	Ignore         []string `toml:"ignore"`

	// CacheDir overrides the snapshot directory. Empty picks the
	// per-user cache location.
	CacheDir string `toml:"cache-dir"`

	// Colors maps a category to a hex color, overriding the palette.
	Colors map[string]string `toml:"colors"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Resolution: DefaultResolution,
		Cache:      true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".dirmap.toml"
	}
	return filepath.Join(dir, "dirmap", "config.toml")
}

// Load reads the file at path. A missing file yields the defaults;
// keys absent from the file keep their default values. A file that
// exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	return cfg, nil
}
