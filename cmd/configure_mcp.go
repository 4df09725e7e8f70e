/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/spf13/cobra"
)

var configureMCPCmd = &cobra.Command{
	Use:   "configure-mcp",
	Short: "Write .mcp.json so Claude can talk to the Unity editor",
	Long: `Write .mcp.json in the current directory registering the advanced-unity-mcp
server. The relay launcher is installed by the Unity package the first time the
project is opened; run wait-for-mcp to block until it appears.`,
	Args: cobra.NoArgs,
	RunE: runConfigureMCP,
}

func init() {
	configureMCPCmd.Flags().String("platform", "", "Target platform (darwin|windows); defaults to the current OS")
	if err := ops.RegisterCommand("configure-mcp", ops.GroupProject, configureMCPCmd, "Write .mcp.json for the Unity MCP relay"); err != nil {
		panic(fmt.Sprintf("Failed to register configure-mcp command: %v", err))
	}
}

func runConfigureMCP(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)

	platform, err := s.mcpPlatform()
	if name, _ := cmd.Flags().GetString("platform"); name != "" {
		platform, err = mcp.ParsePlatform(name)
	}
	if err != nil {
		return err
	}

	env := s.mcpEnv()
	existed := mcp.Exists(s.workDir)
	cfg, err := mcp.Write(s.workDir, platform, env)
	if err != nil {
		p.Failf("Failed to write %s", mcp.ConfigFile)
		return err
	}
	if existed {
		p.OK("Updated %s", mcp.ConfigFile)
	} else {
		p.OK("Created %s", mcp.ConfigFile)
	}
	server := cfg.MCPServers[mcp.ServerName]
	p.Note("%s -> %s", mcp.ServerName, server.Command)

	if !mcp.RelayExists(platform, env) {
		p.Warnf("The relay is not installed yet.")
		p.Note("Open the project in Unity so the MCP package can install it, then run `gamekit wait-for-mcp`.")
	}
	return nil
}
