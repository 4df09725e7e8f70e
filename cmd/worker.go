/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/selfupdate"
	"github.com/spf13/cobra"
)

// upgradeWorkerCmd is what the background agent spawns. It has no terminal,
// so everything goes to update.log and failures never surface as exit noise.
var upgradeWorkerCmd = &cobra.Command{
	Use:    selfupdate.WorkerCommand,
	Short:  "Run a background update check (internal)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runUpgradeWorker,
}

func init() {
	if err := ops.RegisterCommand(selfupdate.WorkerCommand, ops.GroupInternal, upgradeWorkerCmd, "Background update worker"); err != nil {
		panic(fmt.Sprintf("Failed to register %s command: %v", selfupdate.WorkerCommand, err))
	}
}

func runUpgradeWorker(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		logger.Debug("update worker: session unavailable", logger.Err(err))
		return nil
	}
	log, err := selfupdate.OpenLog(s.updateEnv())
	if err != nil {
		logger.Debug("update worker: log unavailable", logger.Err(err))
		return nil
	}
	defer func() { _ = log.Close() }()

	if _, err := s.worker(log).Run(cmd.Context()); err != nil {
		logger.Debug("update worker failed", logger.Err(err))
	}
	return nil
}
