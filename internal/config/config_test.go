package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnsureCreatesAndLoadsConfig(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	cfg, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if cfg.Version != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, cfg.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Server.Addr == "" {
		t.Fatalf("expected default server address")
	}
	if loaded.Database.Path == "" {
		t.Fatalf("expected default database path")
	}
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "version = 1\n\n[server]\naddr = \"0.0.0.0:9000\"\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("level should default to info, got %q", cfg.Logging.Level)
	}
	if cfg.Database.Path == "" {
		t.Fatalf("database path should default")
	}
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 99
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, cfg); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestResolveDatabasePathCreatesParent(t *testing.T) {
	tmp := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(tmp, "nested", "scanpath.db")

	resolved, err := ResolveDatabasePath(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != cfg.Database.Path {
		t.Fatalf("resolved = %q, want %q", resolved, cfg.Database.Path)
	}
	if _, err := os.Stat(filepath.Join(tmp, "nested")); err != nil {
		t.Fatalf("parent directory should exist: %v", err)
	}
}
