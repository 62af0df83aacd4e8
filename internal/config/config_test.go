package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffboundary.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[library]
path = " /opt/lib/libffboundary.so "
search_dirs = ["./build", " ", "/usr/local/lib"]

[boundary]
max_objects = 16

[log]
level = "debug"
development = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Library.Path != "/opt/lib/libffboundary.so" {
		t.Fatalf("unexpected path: %q", cfg.Library.Path)
	}
	if len(cfg.Library.SearchDirs) != 2 || cfg.Library.SearchDirs[0] != "./build" {
		t.Fatalf("unexpected search dirs: %+v", cfg.Library.SearchDirs)
	}
	if cfg.Boundary.MaxObjects != 16 {
		t.Fatalf("unexpected max objects: %d", cfg.Boundary.MaxObjects)
	}
	if cfg.Log.Level != zapcore.DebugLevel {
		t.Fatalf("unexpected level: %v", cfg.Log.Level)
	}
	if !cfg.Log.Development {
		t.Fatalf("expected development logging")
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[boundary]
max_objects = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Level != zapcore.InfoLevel {
		t.Fatalf("expected default level, got %v", cfg.Log.Level)
	}
	if cfg.Library.Path != "" || cfg.Library.SearchDirs != nil {
		t.Fatalf("expected empty library config, got %+v", cfg.Library)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"negative max": "[boundary]\nmax_objects = -1\n",
		"bad level":    "[log]\nlevel = \"loud\"\n",
		"unknown key":  "[boundary]\nmax_handles = 3\n",
		"invalid toml": "[boundary\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv without file: %v", err)
	}
	if cfg.Boundary.MaxObjects != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	t.Setenv(EnvConfig, writeConfig(t, "[boundary]\nmax_objects = 5\n"))
	cfg, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Boundary.MaxObjects != 5 {
		t.Fatalf("unexpected max objects: %d", cfg.Boundary.MaxObjects)
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Development = true
	l, err := cfg.Logger()
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled by default")
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled by default")
	}
}
