package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Profile.User != "quadeer" || s.Profile.Host != "pc" {
		t.Errorf("prompt identity = %s@%s, want quadeer@pc", s.Profile.User, s.Profile.Host)
	}
	if s.Profile.Title != "Quadeer's Terminal" {
		t.Errorf("Profile.Title = %q", s.Profile.Title)
	}
	if len(s.Profile.Projects) != 2 {
		t.Errorf("len(Profile.Projects) = %d, want 2", len(s.Profile.Projects))
	}
	if len(s.Profile.Contact) != 2 {
		t.Errorf("len(Profile.Contact) = %d, want 2", len(s.Profile.Contact))
	}
	if s.Theme.Name != "default" {
		t.Errorf("Theme.Name = %q, want default", s.Theme.Name)
	}
	if s.Export.Mode != ExportModeFile {
		t.Errorf("Export.Mode = %q, want file", s.Export.Mode)
	}
	if !strings.HasSuffix(s.Export.Dir, filepath.Join(".termfolio", "exports")) {
		t.Errorf("Export.Dir = %q, want the termfolio data directory", s.Export.Dir)
	}
	if s.SSH.Addr != ":2222" {
		t.Errorf("SSH.Addr = %q, want :2222", s.SSH.Addr)
	}
	if !strings.HasSuffix(s.SSH.HostKeyPath, filepath.Join(".termfolio", "ssh_host_ed25519")) {
		t.Errorf("SSH.HostKeyPath = %q", s.SSH.HostKeyPath)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yaml")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Error("missing file should yield defaults")
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := DefaultSettings()
	s.Theme.Name = "nord"
	s.Profile.User = "ada"
	s.Profile.Projects = []string{"Analytical Engine"}
	s.SSH.IdleTimeoutSeconds = 30

	if err := SaveSettings(s, path); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if loaded.Theme.Name != "nord" || loaded.Profile.User != "ada" || loaded.SSH.IdleTimeoutSeconds != 30 {
		t.Errorf("loaded = %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Profile.Projects, []string{"Analytical Engine"}) {
		t.Errorf("Projects = %q", loaded.Profile.Projects)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme:\n  name: dracula\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Theme.Name != "dracula" {
		t.Errorf("Theme.Name = %q, want dracula", s.Theme.Name)
	}
	if s.Profile.User != "quadeer" || s.SSH.Addr != ":2222" {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme:\n  name: dracula\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TERMFOLIO_THEME_NAME", "gruvbox")
	t.Setenv("TERMFOLIO_SSH_ADDR", ":2022")
	t.Setenv("TERMFOLIO_PROFILE_USER", "grace")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Theme.Name != "gruvbox" {
		t.Errorf("Theme.Name = %q, want gruvbox", s.Theme.Name)
	}
	if s.SSH.Addr != ":2022" {
		t.Errorf("SSH.Addr = %q, want :2022", s.SSH.Addr)
	}
	if s.Profile.User != "grace" {
		t.Errorf("Profile.User = %q, want grace", s.Profile.User)
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSettings(path)
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestThemePresets(t *testing.T) {
	for _, name := range AvailableThemes() {
		t.Run(name, func(t *testing.T) {
			preset, ok := ThemePresets[name]
			if !ok {
				t.Fatalf("theme %q listed but not defined", name)
			}
			if preset.Prompt == "" || preset.Emphasis == "" || preset.Frame == "" || preset.Dim == "" {
				t.Errorf("theme %q has empty colours: %+v", name, preset)
			}
		})
	}
	if len(AvailableThemes()) != len(ThemePresets) {
		t.Error("AvailableThemes() and ThemePresets disagree")
	}
}

func TestResolveTheme(t *testing.T) {
	if ResolveTheme("nord") != ThemePresets["nord"] {
		t.Error("ResolveTheme(nord) should return the nord preset")
	}
	if ResolveTheme("unknown") != ThemePresets["default"] {
		t.Error("unknown theme should fall back to default")
	}
}
