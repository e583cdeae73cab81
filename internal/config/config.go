// Package config handles arkvm.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "arkvm.toml"

// Config holds run settings. Command line flags take precedence.
type Config struct {
	Debug     bool   `toml:"debug"`
	Trace     bool   `toml:"trace"`
	NoColor   bool   `toml:"no-color"`
	Dump      bool   `toml:"dump"`
	MaxSteps  int    `toml:"max-steps"`
	Precision uint32 `toml:"precision"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{Precision: 34}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: max-steps must not be negative", path)
	}
	if cfg.Precision == 0 {
		cfg.Precision = Default().Precision
	}

	cfg.Path = path
	return cfg, nil
}

// FindAndLoad walks up from startDir to find an arkvm.toml file and loads
// it. Returns the default configuration if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
