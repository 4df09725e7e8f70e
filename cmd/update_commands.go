/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/internal/ui"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/template"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/spf13/cobra"
)

var updateCommandsCmd = &cobra.Command{
	Use:   "update-commands",
	Short: "Update Claude commands, skills, and agents to the latest template",
	Long: `Compare the project's .claude folder with the template and bring it up to date.

New files are added and files you never touched are refreshed without asking.
For files you edited since the last install you choose whether to keep your
version or replace it. The manifest is only rewritten when every step succeeds.`,
	Args: cobra.NoArgs,
	RunE: runUpdateCommands,
}

func init() {
	updateCommandsCmd.Flags().Bool("dry-run", false, "Show what would change without writing anything")
	updateCommandsCmd.Flags().Bool("yes-keep", false, "Keep every file you modified without asking")
	updateCommandsCmd.Flags().Bool("yes-replace", false, "Replace every file you modified without asking")
	updateCommandsCmd.Flags().Bool("force", false, "Compare with the template even when the recorded version is current")
	updateCommandsCmd.Flags().Bool("refresh", false, "Download the template again and compare even when the recorded version is current")
	updateCommandsCmd.Flags().String("format", "text", "Output format for the result (text|json)")
	updateCommandsCmd.MarkFlagsMutuallyExclusive("yes-keep", "yes-replace")

	if err := ops.RegisterCommand("update-commands", ops.GroupSync, updateCommandsCmd, "Update Claude commands to the latest template"); err != nil {
		panic(fmt.Sprintf("Failed to register update-commands command: %v", err))
	}
}

// resolverFor picks how modified files are decided: flags first, then an
// interactive chooser on a terminal, then plain line prompts. Questions go
// wherever p writes, which is stderr when stdout carries JSON.
func resolverFor(cmd *cobra.Command, p *ui.Printer) templatesync.Resolver {
	if keep, _ := cmd.Flags().GetBool("yes-keep"); keep {
		return templatesync.Always(templatesync.Keep)
	}
	if replace, _ := cmd.Flags().GetBool("yes-replace"); replace {
		return templatesync.Always(templatesync.Replace)
	}
	if deps.interactive(cmd.InOrStdin()) {
		return &ui.PromptResolver{In: cmd.InOrStdin(), Out: p.Out, Theme: p.Theme}
	}
	return ui.NewLineResolver(cmd.InOrStdin(), p.Out)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func runUpdateCommands(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return apperr.Errorf(apperr.InvalidInput, "update commands", "unknown format %q", format)
	}
	if format == "json" {
		// Keep stdout for the result document.
		p = ui.NewPrinter(cmd.ErrOrStderr(), true)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	refresh, _ := cmd.Flags().GetBool("refresh")

	p.Heading("Checking for command updates...")

	claudeDir := filepath.Join(s.workDir, manifest.TrackedDir)
	if _, err := os.Stat(claudeDir); err != nil {
		p.Warnf("No %s directory found in current directory.", manifest.TrackedDir)
		p.Note("Run this command from a gamekit project, or use `gamekit init` first.")
		return apperr.New(apperr.NotFound, "update commands", claudeDir, err)
	}

	installed, outdated, err := templatesync.Outdated(s.workDir, s.version)
	if err != nil {
		return err
	}
	if installed != "" {
		p.Note("Installed commands version: %s", installed)
		p.Note("Latest commands version: %s", s.version)
	}
	if !outdated && installed != "" && !force && !refresh {
		p.OK("Commands are already up to date!")
		return nil
	}

	tmpl, err := s.ensureTemplate(ctx, refresh)
	if err != nil {
		p.Failf("Failed to check for updates")
		return err
	}
	if !template.Usable(tmpl) {
		p.Failf("Template %s directory not found", manifest.TrackedDir)
		return apperr.Errorf(apperr.NotFound, "update commands", "template has no %s folder", manifest.TrackedDir)
	}

	store := manifest.NewStore(s.workDir)
	m, _, err := store.LoadOrNew()
	if err != nil {
		return err
	}
	opts, err := s.diffOptions(tmpl)
	if err != nil {
		return err
	}
	changes, err := templatesync.Diff(ctx, s.workDir, tmpl, m, opts)
	if err != nil {
		p.Failf("Failed to check for updates")
		return err
	}

	pending := templatesync.Pending(changes)
	if len(pending) > 0 && format == "text" {
		var added, stale, modified int
		for _, c := range pending {
			switch ui.ChangeLabel(c) {
			case "add":
				added++
			case "update":
				stale++
			default:
				modified++
			}
		}
		p.Heading("Update summary:")
		if added > 0 {
			p.Note("%s to add", plural(added, "new file"))
		}
		if stale > 0 {
			p.Note("%s to update", plural(stale, "file"))
		}
		if modified > 0 {
			p.Note("%s you've modified", plural(modified, "file"))
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		if err := ui.ChangesTable(pending).Render(cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	res, err := templatesync.Reconcile(ctx, changes, tmpl, s.workDir, store, templatesync.ReconcileOptions{
		Resolver: resolverFor(cmd, p),
		Version:  s.version,
		DryRun:   dryRun,
	})
	if err != nil {
		if errors.Is(err, ui.ErrAborted) {
			p.Warnf("Update cancelled; the manifest was not changed.")
		}
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if len(pending) == 0 {
		p.OK("All files are up to date!")
		return nil
	}
	if dryRun {
		p.Heading("Dry run: nothing was written.")
		if len(res.Conflicts) > 0 {
			p.Note("%s would need a decision", plural(len(res.Conflicts), "modified file"))
		}
		return nil
	}

	if len(res.Applied) > 0 {
		p.Heading("Updated:")
		for _, f := range res.Applied {
			p.OK("%s", f)
		}
	}
	if len(res.Preserved) > 0 {
		p.Heading("Preserved (your changes kept):")
		for _, f := range res.Preserved {
			p.Warnf("%s", f)
		}
	}
	p.OK("Updated to v%s", s.version)
	if len(res.Preserved) > 0 {
		p.Note("(%s preserved)", plural(len(res.Preserved), "file"))
	}
	return nil
}
