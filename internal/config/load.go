package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load resolves the effective configuration. Later sources win: built-in
// defaults, then the first config file found, then CLI flags.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = firstConfigFile()
	}
	if path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// firstConfigFile probes the working directory, then the user config dir.
func firstConfigFile() string {
	for _, p := range []string{"./config.yaml", filepath.Join(ConfigDir(), "config.yaml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ConfigDir returns the per-user directory for veldt configuration.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Veldt")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Veldt")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "veldt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "veldt")
}

// mergeFile overlays YAML values from path onto cfg. Fields the file
// leaves out keep their current values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
