/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/buildinfo"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/fulmenhq/gamekit/pkg/versioning"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show gamekit version information",
	Long: `Show the gamekit version. --extended adds build details and the commands
version recorded in the current project; --check asks the registry for the
latest release.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show build details and the project's commands version")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
	versionCmd.Flags().Bool("check", false, "Check the registry for a newer release")
	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		panic(fmt.Sprintf("Failed to register version command: %v", err))
	}
}

type versionInfo struct {
	Version         string `json:"version"`
	ModuleVersion   string `json:"moduleVersion,omitempty"`
	GoVersion       string `json:"goVersion"`
	Platform        string `json:"platform"`
	Arch            string `json:"arch"`
	CommandsVersion string `json:"commandsVersion,omitempty"`
	CommandsStale   bool   `json:"commandsOutdated,omitempty"`
	Latest          string `json:"latest,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	// --json is also a persistent log flag; read the local one.
	jsonOutput, _ := cmd.LocalFlags().GetBool("json")
	check, _ := cmd.Flags().GetBool("check")
	out := cmd.OutOrStdout()

	info := versionInfo{
		Version:       buildinfo.Version(),
		ModuleVersion: buildinfo.ModuleVersion(),
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS,
		Arch:          runtime.GOARCH,
	}

	if extended || check {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if extended {
			installed, outdated, err := templatesync.Outdated(s.workDir, s.version)
			if err != nil {
				logger.Debug("commands version unavailable", logger.Err(err))
			}
			info.CommandsVersion, info.CommandsStale = installed, outdated
		}
		if check {
			latest, err := s.npmClient().LatestVersion(cmd.Context(), s.cfg.Update.Package)
			if err != nil {
				return err
			}
			info.Latest = latest
			info.UpdateAvailable = versioning.Newer(latest, info.Version)
		}
	}

	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	_, _ = fmt.Fprintf(out, "gamekit %s\n", info.Version)
	if extended {
		if info.ModuleVersion != "" {
			_, _ = fmt.Fprintf(out, "Module: %s\n", info.ModuleVersion)
		}
		_, _ = fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		_, _ = fmt.Fprintf(out, "Platform: %s/%s\n", info.Platform, info.Arch)
		switch {
		case info.CommandsVersion == "":
			_, _ = fmt.Fprintln(out, "Project commands: not installed")
		case info.CommandsStale:
			_, _ = fmt.Fprintf(out, "Project commands: %s (run `gamekit update-commands`)\n", info.CommandsVersion)
		default:
			_, _ = fmt.Fprintf(out, "Project commands: %s\n", info.CommandsVersion)
		}
	}
	if check {
		if info.UpdateAvailable {
			_, _ = fmt.Fprintf(out, "Update available: %s (run `gamekit upgrade`)\n", info.Latest)
		} else {
			_, _ = fmt.Fprintln(out, "You are on the latest version")
		}
	}
	return nil
}
