package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Rows:         8,
		Cols:         8,
		Delay:        10,
		FlowDuration: 5,
		QueueSize:    5,
		WallDensity:  0.15,
		MapDir:       "maps",
		DBPath:       "~/.pipes/results.db",
		LogLevel:     "info",
		LogFile:      "~/.pipes/pipes.log",
		SSH: SSHSettings{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default settings file.
func DefaultYAML() []byte {
	return defaultSettingsYAML
}
