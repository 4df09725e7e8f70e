/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/gamekit/internal/normcore"
	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/template"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Copy the template into a new folder without launching Unity",
	Long: `Create a project folder from the gamekit template and configure its
Normcore app key. Unlike init, no Unity editor is needed; open the folder in
Unity Hub afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("app-key", "", "Normcore app key (prompted when omitted)")
	if err := ops.RegisterCommand("create", ops.GroupProject, createCmd, "Create a project from the template without Unity"); err != nil {
		panic(fmt.Sprintf("Failed to register create command: %v", err))
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)
	p.Heading("Welcome to gamekit!")

	name, projectPath, err := promptProjectName(cmd, s, args, "Project name:")
	if err != nil {
		return err
	}

	appKey, _ := cmd.Flags().GetString("app-key")
	if appKey == "" {
		p.Note("Get your free Normcore App Key:")
		p.Note("1. Go to: %s", normcore.DashboardURL)
		p.Note("2. Sign up (free) and create an app")
		p.Note("3. Copy the App Key")
		appKey, err = promptLine(cmd, "Paste your Normcore App Key:", func(in string) error {
			_, err := normcore.ValidateAppKey(in)
			return err
		})
		if err != nil {
			return err
		}
	}
	if appKey, err = normcore.ValidateAppKey(appKey); err != nil {
		return err
	}

	tmpl, err := s.ensureTemplate(cmd.Context(), false)
	if err != nil {
		return err
	}
	if err := scaffold(cmd, s, tmpl, projectPath, template.Vars{ProjectName: name, AppKey: appKey}); err != nil {
		p.Failf("Failed to create project")
		return err
	}
	if !normcore.HasAppKey(projectPath) {
		p.Warnf("Template has no %s; set the app key in Unity", normcore.SettingsPath)
	}
	p.OK("Unity project created!")

	p.Steps("Next steps:",
		"cd "+name,
		"gamekit configure-mcp",
		"Open the project in Unity Hub",
	)
	return nil
}
