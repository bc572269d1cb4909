// Package config manages gitecho configuration and filesystem paths.
//
// The log file defaults to ~/.gitecho.log (the same path the installed hook
// block redirects detached sessions to). Optional settings live at
// ~/.config/gitecho/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by gitecho.
type Paths struct {
	// LogFile is the append-only sink for background sessions
	// (default: ~/.gitecho.log)
	LogFile string

	// SettingsFile is the path to the optional settings file
	// (default: ~/.config/gitecho/config.yaml)
	SettingsFile string
}

// DefaultPaths returns the default paths for gitecho.
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Paths{
		LogFile:      filepath.Join(home, ".gitecho.log"),
		SettingsFile: filepath.Join(home, ".config", "gitecho", "config.yaml"),
	}, nil
}

// HookPath returns the pre-push hook file for the repository at root.
func HookPath(root string) string {
	return filepath.Join(root, ".git", "hooks", "pre-push")
}
