package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings represents user-configurable settings stored in ~/.termfolio/config.yaml
type Settings struct {
	Profile ProfileSettings `mapstructure:"profile" yaml:"profile"`
	Theme   ThemeSettings   `mapstructure:"theme" yaml:"theme"`
	Export  ExportSettings  `mapstructure:"export" yaml:"export"`
	SSH     SSHSettings     `mapstructure:"ssh" yaml:"ssh"`
	Log     LogSettings     `mapstructure:"log" yaml:"log"`
}

// ProfileSettings holds the portfolio owner's identity and canned answers
type ProfileSettings struct {
	// User and Host form the prompt, e.g. quadeer@pc:~$
	User string `mapstructure:"user" yaml:"user"`
	Host string `mapstructure:"host" yaml:"host"`
	// Title is drawn above the terminal window
	Title string `mapstructure:"title" yaml:"title"`
	// Label is drawn in the window title bar
	Label    string   `mapstructure:"label" yaml:"label"`
	About    []string `mapstructure:"about" yaml:"about"`
	Projects []string `mapstructure:"projects" yaml:"projects"`
	Contact  []string `mapstructure:"contact" yaml:"contact"`
}

// ThemeSettings configures the UI appearance
type ThemeSettings struct {
	// Name is the theme preset name
	Name string `mapstructure:"name" yaml:"name"`
}

// ExportSettings configures where "Save File" delivers code.cpp locally
type ExportSettings struct {
	// Mode is "file" or "clipboard"
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Dir is the target directory for file exports ("" = working directory)
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// SSHSettings configures `termfolio serve`
type SSHSettings struct {
	Addr               string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath        string `mapstructure:"host_key_path" yaml:"host_key_path"`
	IdleTimeoutSeconds int    `mapstructure:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	MaxTimeoutSeconds  int    `mapstructure:"max_timeout_seconds" yaml:"max_timeout_seconds"`
}

// LogSettings configures logging for the local TUI
type LogSettings struct {
	// File receives logs while the local TUI owns the terminal ("" = discard)
	File string `mapstructure:"file" yaml:"file"`
}

// ThemePreset defines colors for a complete theme (lipgloss color strings)
type ThemePreset struct {
	Prompt   string
	Emphasis string
	Error    string
	Warning  string
	Info     string
	Accent   string
	Dim      string
	Frame    string
}

// DefaultSettings returns the default settings
func DefaultSettings() *Settings {
	return &Settings{
		Profile: ProfileSettings{
			User:  "quadeer",
			Host:  "pc",
			Title: "Quadeer's Terminal",
			Label: "Quadeer.dmskrose",
			About: []string{
				"I am a Linux enthusiast with a passion for AI/ML and a keen interest in cybersecurity.",
			},
			Projects: []string{
				"Project 1: Awesome Project",
				"Project 2: Another Cool Project",
			},
			Contact: []string{
				"Email: example@example.com",
				"LinkedIn: linkedin.com/in/example",
			},
		},
		Theme: ThemeSettings{
			Name: "default",
		},
		Export: ExportSettings{
			Mode: ExportModeFile,
			Dir:  defaultDataPath("exports"),
		},
		SSH: SSHSettings{
			Addr:               ":2222",
			HostKeyPath:        defaultDataPath("ssh_host_ed25519"),
			IdleTimeoutSeconds: 600,
			MaxTimeoutSeconds:  3600,
		},
	}
}

// SettingsPath returns the path to the settings file
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termfolio", "config.yaml"), nil
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".termfolio", name)
	}
	return filepath.Join(home, ".termfolio", name)
}

// LoadSettings loads settings from path (or SettingsPath when empty).
// A missing file yields the defaults; TERMFOLIO_* variables override both,
// e.g. TERMFOLIO_THEME_NAME=nord or TERMFOLIO_SSH_ADDR=:22.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			// Can't determine home directory - defaults plus env only
			p = ""
		}
		path = p
	}

	v := viper.New()
	v.SetEnvPrefix("TERMFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("profile.user", settings.Profile.User)
	v.SetDefault("profile.host", settings.Profile.Host)
	v.SetDefault("profile.title", settings.Profile.Title)
	v.SetDefault("profile.label", settings.Profile.Label)
	v.SetDefault("profile.about", settings.Profile.About)
	v.SetDefault("profile.projects", settings.Profile.Projects)
	v.SetDefault("profile.contact", settings.Profile.Contact)
	v.SetDefault("theme.name", settings.Theme.Name)
	v.SetDefault("export.mode", settings.Export.Mode)
	v.SetDefault("export.dir", settings.Export.Dir)
	v.SetDefault("ssh.addr", settings.SSH.Addr)
	v.SetDefault("ssh.host_key_path", settings.SSH.HostKeyPath)
	v.SetDefault("ssh.idle_timeout_seconds", settings.SSH.IdleTimeoutSeconds)
	v.SetDefault("ssh.max_timeout_seconds", settings.SSH.MaxTimeoutSeconds)
	v.SetDefault("log.file", settings.Log.File)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return settings, ErrSettings(path, err)
			}
		}
	}

	if err := v.Unmarshal(settings); err != nil {
		return settings, ErrSettings(path, err)
	}
	return settings, nil
}

// SaveSettings writes settings as YAML to path (or SettingsPath when empty)
func SaveSettings(settings *Settings, path string) error {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ThemePresets contains all available theme presets
var ThemePresets = map[string]ThemePreset{
	"default": {
		Prompt:   "12", // Blue
		Emphasis: "10", // Green
		Error:    "9",  // Red
		Warning:  "11", // Yellow
		Info:     "14", // Cyan
		Accent:   "13", // Magenta
		Dim:      "8",  // Gray
		Frame:    "240",
	},
	"matrix": {
		Prompt:   "46",
		Emphasis: "46",
		Error:    "22",
		Warning:  "46",
		Info:     "46",
		Accent:   "46",
		Dim:      "22",
		Frame:    "22",
	},
	"solarized": {
		Prompt:   "33",
		Emphasis: "64",
		Error:    "160",
		Warning:  "136",
		Info:     "37",
		Accent:   "33",
		Dim:      "240",
		Frame:    "235",
	},
	"gruvbox": {
		Prompt:   "208",
		Emphasis: "142",
		Error:    "167",
		Warning:  "214",
		Info:     "108",
		Accent:   "208",
		Dim:      "245",
		Frame:    "237",
	},
	"dracula": {
		Prompt:   "141",
		Emphasis: "84",
		Error:    "210",
		Warning:  "212",
		Info:     "117",
		Accent:   "141",
		Dim:      "61",
		Frame:    "236",
	},
	"nord": {
		Prompt:   "67",
		Emphasis: "108",
		Error:    "174",
		Warning:  "222",
		Info:     "110",
		Accent:   "67",
		Dim:      "60",
		Frame:    "238",
	},
}

// ResolveTheme returns the preset for name, falling back to default
func ResolveTheme(name string) ThemePreset {
	if preset, ok := ThemePresets[name]; ok {
		return preset
	}
	return ThemePresets["default"]
}

// AvailableThemes returns the list of available theme names
func AvailableThemes() []string {
	return []string{"default", "matrix", "solarized", "gruvbox", "dracula", "nord"}
}
