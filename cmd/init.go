/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/internal/normcore"
	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/internal/unity"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/fulmenhq/gamekit/pkg/safeio"
	"github.com/fulmenhq/gamekit/pkg/template"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new Unity game project",
	Long: `Create a new Unity project with the selected editor, copy the gamekit
template into it, pin the Unity MCP package for that editor, write .mcp.json,
and open the project in Unity.

The newest Unity 6 editor is used unless --unity names another installed version.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	addInitFlags(initCmd)
	if err := ops.RegisterCommand("init", ops.GroupProject, initCmd, "Create a new Unity game project (wizard)"); err != nil {
		panic(fmt.Sprintf("Failed to register init command: %v", err))
	}
}

func addInitFlags(c *cobra.Command) {
	c.Flags().String("unity", "", "Unity editor version to create the project with")
	c.Flags().String("app-key", "", "Normcore app key to write into the project")
	c.Flags().Bool("no-open", false, "Do not open the project in Unity afterwards")
}

// promptProjectName reads a name from args or stdin and resolves the new
// project directory under the working directory.
func promptProjectName(cmd *cobra.Command, s *session, args []string, question string) (string, string, error) {
	validate := func(name string) error {
		if name == "" {
			return fmt.Errorf("project name is required")
		}
		if err := safeio.ValidateName(name); err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(s.workDir, name)); err == nil {
			return apperr.Errorf(apperr.InvalidInput, "create project", "folder %q already exists", name)
		}
		return nil
	}
	var name string
	if len(args) > 0 {
		name = args[0]
		if err := validate(name); err != nil {
			return "", "", err
		}
	} else {
		var err error
		if name, err = promptLine(cmd, question, validate); err != nil {
			return "", "", err
		}
	}
	dest, err := safeio.EnsureWithin(s.workDir, filepath.Join(s.workDir, name))
	if err != nil {
		return "", "", err
	}
	return name, dest, nil
}

func pickEditor(installs []unity.Install, requested string) (unity.Install, error) {
	if requested != "" {
		return unity.Select(installs, requested)
	}
	for _, in := range installs {
		if in.Unity6 {
			return in, nil
		}
	}
	return installs[0], nil
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := loadSession()
	if err != nil {
		return err
	}
	p := printerFor(cmd)
	p.Heading("gamekit - Create Game")

	installs, err := s.unityLocator().Find()
	if err != nil {
		return err
	}
	if len(installs) == 0 {
		p.Failf("No Unity installations found.")
		p.Note("Unity Hub installs Unity to:")
		p.Note("  Mac: /Applications/Unity/Hub/Editor/")
		p.Note(`  Windows: C:\Program Files\Unity\Hub\Editor\`)
		p.Note("Please install Unity via Unity Hub and try again.")
		return apperr.Errorf(apperr.NotFound, "find unity", "no Unity installations found")
	}
	p.OK("Found %d Unity installation(s)", len(installs))

	name, projectPath, err := promptProjectName(cmd, s, args, "What's your game called?")
	if err != nil {
		return err
	}
	requested, _ := cmd.Flags().GetString("unity")
	editor, err := pickEditor(installs, requested)
	if err != nil {
		return err
	}
	appKey, _ := cmd.Flags().GetString("app-key")
	if appKey != "" {
		if appKey, err = normcore.ValidateAppKey(appKey); err != nil {
			return err
		}
	}

	p.Heading("Creating %q with Unity %s", name, editor.Version)
	logger.Debug("creating unity project", logger.String("editor", editor.Path), logger.String("path", projectPath))
	if err := deps.creator.Create(ctx, editor.Path, projectPath); err != nil {
		p.Failf("Failed to create Unity project")
		return err
	}
	p.OK("Unity project created")

	tmpl, err := s.ensureTemplate(ctx, false)
	if err != nil {
		return err
	}
	if err := scaffold(cmd, s, tmpl, projectPath, template.Vars{ProjectName: name, AppKey: appKey}); err != nil {
		return err
	}
	if _, err := unity.PinMCPPackage(projectPath, editor.Version); err != nil {
		return err
	}
	p.OK("Claude commands installed")

	if err := writeMCPConfig(s, projectPath); err != nil {
		p.Warnf("Could not configure MCP: %v", err)
	} else {
		p.OK("MCP configured")
	}

	if noOpen, _ := cmd.Flags().GetBool("no-open"); !noOpen {
		if err := unity.Open(deps.editorSpawner(editor.Path), projectPath); err != nil {
			p.Warnf("Could not open Unity automatically")
			p.Note("Please open the project manually in Unity Hub.")
		} else {
			p.OK("Unity is opening (packages will install automatically)")
		}
	}

	p.Heading("Project created!")
	p.Steps("Next steps:",
		"cd "+name,
		"Wait for Unity to finish loading (packages install automatically, about 1-2 min)",
		"claude",
	)
	p.Note("Tip: Use /new-game to start building!")
	return nil
}

// scaffold copies the whole template into projectPath, injects the app key,
// and records the installed commands baseline.
func scaffold(cmd *cobra.Command, s *session, tmpl, projectPath string, vars template.Vars) error {
	stats, err := template.Copy(tmpl, projectPath, vars)
	if err != nil {
		return err
	}
	logger.Debug("template copied", logger.Int("files", stats.Files), logger.Int("rendered", stats.Rendered))

	if vars.AppKey != "" && normcore.HasSettings(projectPath) {
		if err := normcore.InjectAppKey(projectPath, vars.AppKey); err != nil {
			return err
		}
	}
	opts, err := s.diffOptions(tmpl)
	if err != nil {
		return err
	}
	_, err = templatesync.Adopt(cmd.Context(), projectPath, tmpl, manifest.NewStore(projectPath), s.version, opts)
	return err
}

func writeMCPConfig(s *session, projectPath string) error {
	platform, err := s.mcpPlatform()
	if err != nil {
		return err
	}
	_, err = mcp.Write(projectPath, platform, s.mcpEnv())
	return err
}

