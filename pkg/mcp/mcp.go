// Package mcp generates the .mcp.json file that points an AI assistant at the
// Unity MCP relay installed by the advanced-unity-mcp package.
package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

const (
	// ServerName is the key used under mcpServers.
	ServerName = "advanced-unity-mcp"
	// ConfigFile is written at the project root.
	ConfigFile = ".mcp.json"
)

// Platform identifies the host flavour the relay launcher is built for.
type Platform string

const (
	Mac     Platform = "darwin"
	Windows Platform = "windows"
)

// CurrentPlatform maps runtime.GOOS onto a supported Platform.
func CurrentPlatform() (Platform, error) {
	return ParsePlatform(runtime.GOOS)
}

// ParsePlatform accepts GOOS values and the "win32" alias.
func ParsePlatform(goos string) (Platform, error) {
	switch goos {
	case "darwin":
		return Mac, nil
	case "windows", "win32":
		return Windows, nil
	default:
		return "", apperr.Errorf(apperr.InvalidInput, "mcp platform", "unsupported platform %q", goos)
	}
}

// Server is one mcpServers entry.
type Server struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Config is the .mcp.json document.
type Config struct {
	MCPServers map[string]Server `json:"mcpServers"`
}

// Env holds the directories the relay path is derived from.
type Env struct {
	Home         string
	LocalAppData string
	// RelayPath overrides the derived location when set.
	RelayPath string
}

// EnvFromOS reads the user's home and LOCALAPPDATA.
func EnvFromOS(relayOverride string) Env {
	home, _ := os.UserHomeDir()
	return Env{Home: home, LocalAppData: os.Getenv("LOCALAPPDATA"), RelayPath: relayOverride}
}

// RelayPath returns where the Unity package installs its relay launcher.
func RelayPath(p Platform, env Env) (string, error) {
	if env.RelayPath != "" {
		return env.RelayPath, nil
	}
	switch p {
	case Mac:
		if env.Home == "" {
			return "", apperr.Errorf(apperr.InvalidInput, "mcp relay", "home directory unknown")
		}
		return filepath.Join(env.Home, ".codemaestro", "advanced-unity-mcp", "launch.sh"), nil
	case Windows:
		if env.LocalAppData == "" {
			return "", apperr.Errorf(apperr.InvalidInput, "mcp relay", "LOCALAPPDATA is not set")
		}
		return filepath.Join(env.LocalAppData, "CodeMaestro", "advanced-unity-mcp", "launch.bat"), nil
	default:
		return "", apperr.Errorf(apperr.InvalidInput, "mcp relay", "unsupported platform %q", p)
	}
}

// Build returns the configuration for p. Mac launches the relay through bash;
// Windows runs the .bat directly with no arguments.
func Build(p Platform, env Env) (*Config, error) {
	relay, err := RelayPath(p, env)
	if err != nil {
		return nil, err
	}
	srv := Server{Command: "bash", Args: []string{relay}}
	if p == Windows {
		srv = Server{Command: relay, Args: []string{}}
	}
	return &Config{MCPServers: map[string]Server{ServerName: srv}}, nil
}

// Path returns the .mcp.json location for projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, ConfigFile)
}

// Exists reports whether projectDir already has a .mcp.json.
func Exists(projectDir string) bool {
	_, err := os.Stat(Path(projectDir))
	return err == nil
}

// Write builds the configuration for p and writes it to projectDir,
// replacing any existing file.
func Write(projectDir string, p Platform, env Env) (*Config, error) {
	cfg, err := Build(p, env)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ConfigFile, err)
	}
	data = append(data, '\n')
	if err := safeio.WriteFileAtomic(Path(projectDir), data, 0o644); err != nil {
		return nil, apperr.New(apperr.IO, "write", Path(projectDir), err)
	}
	return cfg, nil
}

// RelayExists reports whether the relay launcher has been installed yet.
// Unity installs it the first time the project resolves its packages.
func RelayExists(p Platform, env Env) bool {
	relay, err := RelayPath(p, env)
	if err != nil {
		return false
	}
	info, err := os.Stat(relay)
	return err == nil && !info.IsDir()
}
