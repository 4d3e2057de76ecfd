// ABOUTME: Configuration management: vault location, refresh cadence, proxy policy
// ABOUTME: YAML file under the XDG config directory with ~ expansion and defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config stores feedvault configuration.
type Config struct {
	// VaultDir is the root directory where saved notes are written.
	// Supports ~ expansion. Defaults to ~/Documents/feedvault.
	VaultDir string `yaml:"vault_dir,omitempty"`

	// SettingsPath is the feed subscription store. Defaults to
	// settings.json under the XDG data directory.
	SettingsPath string `yaml:"settings_path,omitempty"`

	// RefreshInterval is the global refresh cadence in minutes, used when a
	// feed has no scan interval of its own. Defaults to 60.
	RefreshInterval int `yaml:"refresh_interval,omitempty"`

	// ImportDelay is the pause between fetches during an OPML import, in
	// seconds. Defaults to 2.
	ImportDelay int `yaml:"import_delay,omitempty"`

	// EnableProxies allows the CORS-bypass proxy fallbacks in the fetch
	// cascade. Off by default: proxies hand feed URLs to a third party.
	EnableProxies bool `yaml:"enable_proxies,omitempty"`
}

// GetVaultDir returns the vault directory with ~ expanded.
func (c *Config) GetVaultDir() string {
	if c.VaultDir == "" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Documents", "feedvault")
	}
	return ExpandPath(c.VaultDir)
}

// GetSettingsPath returns the settings store path with ~ expanded.
func (c *Config) GetSettingsPath() string {
	if c.SettingsPath == "" {
		return filepath.Join(dataDir(), "settings.json")
	}
	return ExpandPath(c.SettingsPath)
}

// GetRefreshInterval returns the global refresh cadence in minutes.
func (c *Config) GetRefreshInterval() int {
	if c.RefreshInterval <= 0 {
		return 60
	}
	return c.RefreshInterval
}

// GetImportDelay returns the import pacing delay in seconds.
func (c *Config) GetImportDelay() int {
	if c.ImportDelay <= 0 {
		return 2
	}
	return c.ImportDelay
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func dataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "feedvault")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "feedvault", "config.yaml")
}

// Load reads config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk, creating parent directories.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
