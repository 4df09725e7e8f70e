/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/spf13/cobra"
)

var waitForMCPCmd = &cobra.Command{
	Use:   "wait-for-mcp",
	Short: "Wait until Unity has installed the MCP relay",
	Args:  cobra.NoArgs,
	RunE:  runWaitForMCP,
}

func init() {
	waitForMCPCmd.Flags().Duration("timeout", mcp.DefaultWaitTimeout, "How long to wait for the relay")
	waitForMCPCmd.Flags().Duration("interval", 2*time.Second, "Polling interval")
	if err := ops.RegisterCommand("wait-for-mcp", ops.GroupProject, waitForMCPCmd, "Wait for Unity to install the MCP relay"); err != nil {
		panic(fmt.Sprintf("Failed to register wait-for-mcp command: %v", err))
	}
}

func runWaitForMCP(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)
	platform, err := s.mcpPlatform()
	if err != nil {
		return err
	}
	env := s.mcpEnv()
	relay, err := mcp.RelayPath(platform, env)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")

	p.Note("Waiting for %s (up to %s)...", relay, timeout)
	if !mcp.WaitForRelay(cmd.Context(), platform, env, timeout, interval) {
		p.Failf("MCP relay did not appear")
		p.Note("Make sure the project is open in Unity and the package finished installing.")
		return apperr.Errorf(apperr.NotFound, "wait for mcp", "relay %s not found after %s", relay, timeout)
	}
	p.OK("MCP relay is ready")
	return nil
}
