package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override settings.
const (
	EnvMapDir   = "PIPES_MAP_DIR"
	EnvDBPath   = "PIPES_DB"
	EnvLogLevel = "PIPES_LOG_LEVEL"
	EnvDelay    = "PIPES_DELAY"
	EnvSSHAddr  = "PIPES_SSH_ADDR"
)

// Load reads settings.
// Search order: customPath -> ~/.pipes/settings.yaml -> ./configs/settings.yaml -> embedded default.
// Keys missing from the file keep their default values. The returned
// string names the source that was used.
func Load(customPath string) (Settings, string, error) {
	if customPath != "" {
		s, err := readFile(customPath)
		if err != nil {
			return s, customPath, err
		}
		return s, customPath, nil
	}

	if userPath := UserPath(); userPath != "" {
		if s, err := readFile(userPath); err == nil {
			return s, userPath, nil
		}
	}

	local := filepath.Join("configs", "settings.yaml")
	if s, err := readFile(local); err == nil {
		return s, local, nil
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(defaultSettingsYAML, &s); err != nil {
		return DefaultSettings(), "builtin", nil
	}
	return s, "embedded", nil
}

func readFile(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return s, nil
}

// Save validates s and writes it to path as YAML.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads the given .env files (default ".env"), ignoring missing
// ones, then applies PIPES_* variables on top of s.
func ApplyEnv(s *Settings, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvMapDir); v != "" {
		s.MapDir = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSSHAddr); v != "" {
		s.SSH.Address = v
	}
	if v := os.Getenv(EnvDelay); v != "" {
		delay, err := strconv.Atoi(v)
		if err != nil {
			return &SettingsError{Field: "delay", Message: MsgDelay}
		}
		s.Delay = delay
	}
	return s.Validate()
}

// UserPath returns ~/.pipes/settings.yaml, or empty if home is unavailable.
func UserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pipes", "settings.yaml")
}

// ExpandHome replaces a leading ~ with the home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
