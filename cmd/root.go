/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/buildinfo"
	"github.com/fulmenhq/gamekit/pkg/exitcode"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/selfupdate"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamekit",
		Short: "AI-powered Unity game development with Claude",
		Long: `gamekit creates Unity game projects wired for Normcore multiplayer and
Claude Code, and keeps the project's Claude commands, skills, and agents in
step with the upstream template.

Examples:
   gamekit init my-game        # Create a Unity project with Claude and MCP configured
   gamekit update-commands     # Pull the latest commands into this project
   gamekit doctor              # Diagnose setup issues`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
			if cmd.Name() == selfupdate.WorkerCommand {
				return
			}
			runStartupHooks(cmd)
		},
		// With no subcommand, run the wizard.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	addInitFlags(cmd)

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("gamekit {{.Version}}\n")

	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		titles := map[ops.CommandGroup]string{
			ops.GroupProject: "Project Commands:",
			ops.GroupSync:    "Sync Commands:",
			ops.GroupSupport: "Support Commands:",
		}
		for _, group := range ops.VisibleGroups {
			cmd.Println()
			cmd.Println(titles[group])
			for _, c := range reg.GetCommandsByGroup(group) {
				cmd.Printf("  %-17s %s\n", c.Name, c.Description)
			}
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.LocalFlags().FlagUsages())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(initCmd)
	cmd.AddCommand(createCmd)
	cmd.AddCommand(installCommandsCmd)
	cmd.AddCommand(updateCommandsCmd)
	cmd.AddCommand(configureMCPCmd)
	cmd.AddCommand(waitForMCPCmd)
	cmd.AddCommand(doctorCmd)
	cmd.AddCommand(upgradeCmd)
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(upgradeWorkerCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.FromError(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun := false
	if f := cmd.Flags().Lookup("dry-run"); f != nil {
		dryRun = f.Value.String() == "true"
	}

	logLevel, err := logger.ParseLevel(logLevelStr)
	if err != nil {
		logLevel = logger.InfoLevel
	}

	config := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "gamekit",
		DryRun:    dryRun,
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
}
