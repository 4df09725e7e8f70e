/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/template"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/spf13/cobra"
)

var installCommandsCmd = &cobra.Command{
	Use:   "install-commands",
	Short: "Install Claude commands, skills, and agents into the current directory",
	Long: `Copy the template's .claude folder into the current directory, overwriting
files with the same name, and record them so update-commands can track later
changes.`,
	Args: cobra.NoArgs,
	RunE: runInstallCommands,
}

func init() {
	installCommandsCmd.Flags().Bool("refresh", false, "Download the template again before installing")
	if err := ops.RegisterCommand("install-commands", ops.GroupProject, installCommandsCmd, "Install Claude commands, skills, and agents"); err != nil {
		panic(fmt.Sprintf("Failed to register install-commands command: %v", err))
	}
}

func runInstallCommands(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)
	p.Heading("Installing Claude commands...")

	claudeDir := filepath.Join(s.workDir, manifest.TrackedDir)
	if _, err := os.Stat(claudeDir); err == nil {
		p.Warnf("%s folder already exists and will be overwritten.", manifest.TrackedDir)
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	tmpl, err := s.ensureTemplate(ctx, refresh)
	if err != nil {
		return err
	}
	src := filepath.Join(tmpl, manifest.TrackedDir)
	if !template.Usable(tmpl) {
		return apperr.Errorf(apperr.NotFound, "install commands", "template has no %s folder", manifest.TrackedDir)
	}
	stats, err := template.Copy(src, claudeDir, template.Vars{ProjectName: filepath.Base(s.workDir)})
	if err != nil {
		p.Failf("Failed to install commands")
		return err
	}
	opts, err := s.diffOptions(tmpl)
	if err != nil {
		return err
	}
	m, err := templatesync.Adopt(ctx, s.workDir, tmpl, manifest.NewStore(s.workDir), s.version, opts)
	if err != nil {
		return err
	}
	p.OK("Claude commands installed! (%d files, %d tracked)", stats.Files, len(m.Hashes))

	p.Steps("Installed:",
		"CLAUDE.md - Claude's instructions for game development",
		"commands/ - Custom slash commands (e.g., /playtest, /build)",
		"skills/ - Game development skills (e.g., adding-enemies, adding-ui)",
		"agents/ - Specialized agents (e.g., asset-finder, code-debugger)",
	)
	p.Note(`Run "claude" in this directory to start coding with AI!`)
	return nil
}
