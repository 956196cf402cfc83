package main

import (
	"time"
)

// Export modes
const (
	ExportModeFile      = "file"
	ExportModeClipboard = "clipboard"
)

// Config holds runtime configuration
type Config struct {
	// Portfolio content and prompt identity
	Profile ProfileSettings

	// Resolved theme
	ThemeName string
	Theme     ThemePreset

	// Local "Save File" delivery
	ExportMode string
	ExportDir  string

	// SSH server
	SSHAddr     string
	HostKeyPath string
	IdleTimeout time.Duration // 0 = no idle timeout
	MaxTimeout  time.Duration // 0 = no session limit

	// LogFile receives local TUI logs ("" = discard)
	LogFile string

	// Settings holds the full settings for reference
	Settings *Settings
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return configFromSettings(DefaultSettings())
}

// LoadConfig loads configuration from the settings file at path (empty =
// default location) with TERMFOLIO_* environment overrides applied
func LoadConfig(path string) (*Config, error) {
	settings, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}
	return configFromSettings(settings), nil
}

func configFromSettings(s *Settings) *Config {
	cfg := &Config{
		Profile:     s.Profile,
		ThemeName:   s.Theme.Name,
		Theme:       ResolveTheme(s.Theme.Name),
		ExportMode:  s.Export.Mode,
		ExportDir:   s.Export.Dir,
		SSHAddr:     s.SSH.Addr,
		HostKeyPath: s.SSH.HostKeyPath,
		LogFile:     s.Log.File,
		Settings:    s,
	}

	if _, ok := ThemePresets[cfg.ThemeName]; !ok {
		cfg.ThemeName = "default"
	}

	switch cfg.ExportMode {
	case ExportModeFile, ExportModeClipboard:
	default:
		cfg.ExportMode = ExportModeFile
	}

	if s.SSH.IdleTimeoutSeconds > 0 {
		cfg.IdleTimeout = time.Duration(s.SSH.IdleTimeoutSeconds) * time.Second
	}
	if s.SSH.MaxTimeoutSeconds > 0 {
		cfg.MaxTimeout = time.Duration(s.SSH.MaxTimeoutSeconds) * time.Second
	}

	return cfg
}
