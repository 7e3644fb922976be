package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.groupstool/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is one named set of defaults.
type Profile struct {
	API     string `yaml:"api,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
	CACert  string `yaml:"ca-cert,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// ActiveProfile returns the profile named by override, or the current
// profile when override is empty. Naming a profile that does not exist is
// an error; an unset current profile yields an empty Profile.
func (c *UserConfig) ActiveProfile(override string) (Profile, error) {
	if override != "" {
		p, ok := c.Profiles[override]
		if !ok {
			return Profile{}, fmt.Errorf("profile %q not found in %s", override, ConfigPath())
		}
		return p, nil
	}
	return c.Profiles[c.CurrentProfile], nil
}

// ConfigDir returns the path to ~/.groupstool/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".groupstool")
}

// ConfigPath returns the path to ~/.groupstool/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads ~/.groupstool/config.yaml. The file is optional: a
// missing file yields an empty config.
func LoadUserConfig() (*UserConfig, error) {
	cfg := &UserConfig{Profiles: map[string]Profile{}}

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", ConfigPath(), err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}
