// Package config loads wallet settings from flags, environment, .env and
// config files.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultConfigDir is where config.yaml is looked up.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/wallet")
}

// DefaultCachePath is the sqlite cache location when none is configured.
func DefaultCachePath() string {
	return ExpandPath("~/.local/share/wallet/cache.db")
}
