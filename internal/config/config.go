// Package config loads the TOML configuration shared by libffboundary and
// the ffbcheck harness.
//
// Example:
//
//	[library]
//	path = "/opt/ffboundary/lib/libffboundary.so"
//	search_dirs = ["./build"]
//
//	[boundary]
//	max_objects = 1024
//
//	[log]
//	level = "debug"
//	development = true
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "FFBOUNDARY_CONFIG"

type Config struct {
	Library  LibraryConfig
	Boundary BoundaryConfig
	Log      LogConfig
}

type LibraryConfig struct {
	// Path is an explicit shared library path. Empty means search.
	Path string
	// SearchDirs are tried before the platform defaults.
	SearchDirs []string
}

type BoundaryConfig struct {
	// MaxObjects bounds live objects; 0 means unbounded.
	MaxObjects int
}

type LogConfig struct {
	Level       zapcore.Level
	Development bool
}

type fileConfig struct {
	Library struct {
		Path       string   `toml:"path"`
		SearchDirs []string `toml:"search_dirs"`
	} `toml:"library"`
	Boundary struct {
		MaxObjects int `toml:"max_objects"`
	} `toml:"boundary"`
	Log struct {
		Level       string `toml:"level"`
		Development bool   `toml:"development"`
	} `toml:"log"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: zapcore.InfoLevel},
	}
}

// Load reads path and applies every key it defines on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load ffboundary config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load ffboundary config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("library", "path") {
		cfg.Library.Path = strings.TrimSpace(raw.Library.Path)
	}
	if meta.IsDefined("library", "search_dirs") {
		cfg.Library.SearchDirs = normalizeDirs(raw.Library.SearchDirs)
	}
	if meta.IsDefined("boundary", "max_objects") {
		cfg.Boundary.MaxObjects = raw.Boundary.MaxObjects
	}
	if meta.IsDefined("log", "level") {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(raw.Log.Level))
		if err != nil {
			return Config{}, fmt.Errorf("parse log.level: %w", err)
		}
		cfg.Log.Level = lvl
	}
	if meta.IsDefined("log", "development") {
		cfg.Log.Development = raw.Log.Development
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads the file named by FFBOUNDARY_CONFIG, or returns Default when
// the variable is unset.
func FromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvConfig))
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Validate(cfg Config) error {
	if cfg.Boundary.MaxObjects < 0 {
		return fmt.Errorf("boundary.max_objects must be >= 0, got %d", cfg.Boundary.MaxObjects)
	}
	return nil
}

// Logger builds a zap logger for cfg.Log.
func (c Config) Logger() (*zap.Logger, error) {
	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.Log.Level)
	return zc.Build()
}

func normalizeDirs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
