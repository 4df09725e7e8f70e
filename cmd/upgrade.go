/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/selfupdate"
	"github.com/fulmenhq/gamekit/pkg/versioning"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade gamekit to the latest published version now",
	Long: `Check the npm registry for a newer gamekit and install it in the foreground.
Background checks do the same thing at most once an hour; this command skips
the interval and shows any error directly.`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().Bool("check", false, "Only report whether a newer version exists")
	if err := ops.RegisterCommand("upgrade", ops.GroupSupport, upgradeCmd, "Upgrade gamekit to the latest version"); err != nil {
		panic(fmt.Sprintf("Failed to register upgrade command: %v", err))
	}
}

func runUpgrade(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)

	if check, _ := cmd.Flags().GetBool("check"); check {
		latest, err := s.npmClient().LatestVersion(ctx, s.cfg.Update.Package)
		if err != nil {
			return err
		}
		if versioning.Newer(latest, s.version) {
			p.Warnf("gamekit %s is available (you have %s). Run `gamekit upgrade`.", latest, s.version)
		} else {
			p.OK("gamekit %s is the latest version", s.version)
		}
		return nil
	}

	log, err := selfupdate.OpenLog(s.updateEnv())
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	p.Note("Checking for updates... (current: %s)", s.version)
	w := s.worker(log)
	w.Foreground = true
	out, err := w.Run(ctx)
	if err != nil {
		p.Failf("Upgrade failed")
		p.Note("Details are in %s", s.updateEnv().LogPath())
		return err
	}
	if !out.Updated {
		p.OK("Already up to date (%s)", out.Current)
		return nil
	}
	p.OK("Updated to gamekit v%s", out.Latest)
	p.Note("Run `gamekit update-commands` in your projects to pick up new commands.")
	return nil
}
