package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/gitecho/internal/fsops"
)

const (
	// DefaultConfirmTimeoutSeconds bounds how long a background session
	// waits for the primary remote to reflect the captured ref updates.
	DefaultConfirmTimeoutSeconds = 12

	// DefaultPollIntervalSeconds is the delay between confirmation probes.
	DefaultPollIntervalSeconds = 1
)

// Settings are the user-tunable knobs, read from the optional yaml settings
// file. Zero values fall back to defaults, so a partial file is fine.
type Settings struct {
	// ConfirmTimeoutSeconds is the origin confirmation deadline.
	ConfirmTimeoutSeconds int `yaml:"confirm_timeout_seconds"`

	// PollIntervalSeconds is the delay between confirmation probes.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// LogFile overrides the default log file path when non-empty.
	LogFile string `yaml:"log_file"`
}

// DefaultSettings returns Settings with every default applied.
func DefaultSettings() *Settings {
	return &Settings{
		ConfirmTimeoutSeconds: DefaultConfirmTimeoutSeconds,
		PollIntervalSeconds:   DefaultPollIntervalSeconds,
	}
}

// LoadSettings reads the settings file at path. A missing file yields
// defaults; a malformed file is an error.
func LoadSettings(fs fsops.FS, path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if settings.ConfirmTimeoutSeconds <= 0 {
		settings.ConfirmTimeoutSeconds = DefaultConfirmTimeoutSeconds
	}
	if settings.PollIntervalSeconds <= 0 {
		settings.PollIntervalSeconds = DefaultPollIntervalSeconds
	}

	return settings, nil
}

// ConfirmTimeout returns the confirmation deadline as a duration.
func (s *Settings) ConfirmTimeout() time.Duration {
	return time.Duration(s.ConfirmTimeoutSeconds) * time.Second
}

// PollInterval returns the probe interval as a duration.
func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}
