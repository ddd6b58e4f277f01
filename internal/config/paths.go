package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scanpath/config.toml"
	}
	return filepath.Join(home, ".scanpath", "config.toml")
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}

// ResolveDatabasePath expands the configured database path and ensures its
// parent directory exists.
func ResolveDatabasePath(cfg Config) (string, error) {
	expanded, err := ExpandPath(cfg.Database.Path)
	if err != nil {
		return "", err
	}
	expanded = filepath.Clean(expanded)
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", err
	}
	return expanded, nil
}
