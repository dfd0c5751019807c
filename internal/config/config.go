// Package config provides YAML-based settings for the pipes game:
// default map size, timing, queue length, and where maps and results live.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-pipes/internal/pipes/clock"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// Settings is the user configuration.
type Settings struct {
	Rows         int     `yaml:"rows"`          // generated map height
	Cols         int     `yaml:"cols"`          // generated map width
	Delay        int     `yaml:"delay"`         // seconds before the first flow
	FlowDuration int     `yaml:"flow_duration"` // seconds between flow steps
	QueueSize    int     `yaml:"queue_size"`
	WallDensity  float64 `yaml:"wall_density"`

	MapDir   string `yaml:"map_dir"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	SSH SSHSettings `yaml:"ssh"`
}

// SSHSettings configures `pipes serve`.
type SSHSettings struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Messages reported by Validate.
const (
	MsgRows      = "Row number should be at least 3!"
	MsgCols      = "Column number should be at least 3!"
	MsgDelay     = "Delay value should be a positive integer!"
	MsgFlow      = "Flow rate should be a positive integer!"
	MsgQueueSize = "Queue size should be a positive integer!"
	MsgDensity   = "Wall density should be between 0 and 0.9!"
)

// SettingsError reports the first invalid setting.
type SettingsError struct {
	Field   string
	Message string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate returns the first invalid field, or nil. Rows and Cols size
// generated maps, which need an inner cell between their border walls.
func (s Settings) Validate() error {
	switch {
	case s.Rows < 3:
		return &SettingsError{Field: "rows", Message: MsgRows}
	case s.Cols < 3:
		return &SettingsError{Field: "cols", Message: MsgCols}
	case s.Delay < 1:
		return &SettingsError{Field: "delay", Message: MsgDelay}
	case s.FlowDuration < 1:
		return &SettingsError{Field: "flow_duration", Message: MsgFlow}
	case s.QueueSize < 1:
		return &SettingsError{Field: "queue_size", Message: MsgQueueSize}
	case s.WallDensity < 0 || s.WallDensity > 0.9:
		return &SettingsError{Field: "wall_density", Message: MsgDensity}
	}
	return nil
}

// GenParams returns generator parameters for "<generate>" levels.
func (s Settings) GenParams(seed int64) core.GenParams {
	p := core.DefaultGenParams()
	p.Rows = s.Rows
	p.Cols = s.Cols
	p.Delay = s.Delay
	p.WallDensity = s.WallDensity
	p.Seed = seed
	return p
}

// ClockConfig returns the flow clock periods.
func (s Settings) ClockConfig() clock.Config {
	return clock.Config{
		TickEvery: time.Second,
		FlowEvery: time.Duration(s.FlowDuration) * time.Second,
	}
}
