package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for gamekit
type Config struct {
	Update   UpdateConfig   `mapstructure:"update"`
	Template TemplateConfig `mapstructure:"template"`
	Sync     SyncConfig     `mapstructure:"sync"`
	MCP      MCPConfig      `mapstructure:"mcp"`
	Unity    UnityConfig    `mapstructure:"unity"`
}

// UpdateConfig controls the background self-update.
type UpdateConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Interval       time.Duration `mapstructure:"interval"`
	InstallTimeout time.Duration `mapstructure:"install_timeout"`
	InstallCommand string        `mapstructure:"install_command"` // {{package}} and {{version}} are substituted
	Package        string        `mapstructure:"package"`
	RegistryURL    string        `mapstructure:"registry_url"`
}

// TemplateConfig says where the project template comes from.
type TemplateConfig struct {
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
	Method string `mapstructure:"method"` // "archive" or "git"
	Path   string `mapstructure:"path"`   // local override, skips download
}

// SyncConfig tunes update-commands.
type SyncConfig struct {
	HashWorkers int `mapstructure:"hash_workers"`
}

// MCPConfig configures the generated .mcp.json.
type MCPConfig struct {
	RelayPath string `mapstructure:"relay_path"` // empty: platform default
}

// UnityConfig locates Unity editors.
type UnityConfig struct {
	HubPath    string `mapstructure:"hub_path"`    // empty: platform default
	MinVersion string `mapstructure:"min_version"` // oldest editor doctor accepts
}

var defaultConfig = Config{
	Update: UpdateConfig{
		Enabled:        true,
		Interval:       parseDurationDefault("1h"),
		InstallTimeout: parseDurationDefault("60s"),
		InstallCommand: "npm install -g {{package}}@{{version}}",
		Package:        "gamekit-cli",
		RegistryURL:    "https://registry.npmjs.org",
	},
	Template: TemplateConfig{
		Repo:   "TeisJayaswal/test-game-ai",
		Branch: "main",
		Method: "archive",
	},
	Sync: SyncConfig{
		HashWorkers: 4,
	},
	Unity: UnityConfig{
		MinVersion: "2021.3",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	return defaultConfig
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("update.enabled", defaultConfig.Update.Enabled)
	v.SetDefault("update.interval", defaultConfig.Update.Interval)
	v.SetDefault("update.install_timeout", defaultConfig.Update.InstallTimeout)
	v.SetDefault("update.install_command", defaultConfig.Update.InstallCommand)
	v.SetDefault("update.package", defaultConfig.Update.Package)
	v.SetDefault("update.registry_url", defaultConfig.Update.RegistryURL)

	v.SetDefault("template.repo", defaultConfig.Template.Repo)
	v.SetDefault("template.branch", defaultConfig.Template.Branch)
	v.SetDefault("template.method", defaultConfig.Template.Method)
	v.SetDefault("template.path", defaultConfig.Template.Path)

	v.SetDefault("sync.hash_workers", defaultConfig.Sync.HashWorkers)
	v.SetDefault("mcp.relay_path", defaultConfig.MCP.RelayPath)
	v.SetDefault("unity.hub_path", defaultConfig.Unity.HubPath)
	v.SetDefault("unity.min_version", defaultConfig.Unity.MinVersion)

	// Environment variables
	v.SetEnvPrefix("GAMEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from defaults, the user config file
// (~/.gamekit/config/gamekit.yaml) and GAMEKIT_* environment variables.
func LoadConfig() (*Config, error) {
	v := newViper()

	v.SetConfigName("gamekit")
	v.SetConfigType("yaml")
	if configDir, err := GetConfigDir(); err == nil {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	return &config, nil
}

// ProjectConfigFiles are looked up in the working directory, first match wins.
var ProjectConfigFiles = []string{".gamekit.yaml", ".gamekit.yml"}

// LoadProjectConfig loads the user configuration and overlays the first project
// config file found in dir. Environment variables still win.
func LoadProjectConfig(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if configDir, err := GetConfigDir(); err == nil {
		userFile := filepath.Join(configDir, "gamekit.yaml")
		if _, err := os.Stat(userFile); err == nil {
			v.SetConfigFile(userFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading %s: %w", userFile, err)
			}
		}
	}

	for _, name := range ProjectConfigFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", p, err)
		}
		break
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	return &config, nil
}

// parseDurationDefault is a helper to create default duration values from string literal
func parseDurationDefault(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// GetGamekitHome returns the gamekit home directory
func GetGamekitHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("GAMEKIT_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}
	return filepath.Join(homeDir, ".gamekit"), nil
}

// EnsureGamekitHome creates the gamekit home directory if it doesn't exist
func EnsureGamekitHome() (string, error) {
	homeDir, err := GetGamekitHome()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(homeDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create gamekit home directory: %v", err)
	}
	return homeDir, nil
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	homeDir, err := EnsureGamekitHome()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, "config")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDir, nil
}
