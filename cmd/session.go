/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fulmenhq/gamekit/internal/ui"
	"github.com/fulmenhq/gamekit/internal/unity"
	"github.com/fulmenhq/gamekit/pkg/buildinfo"
	"github.com/fulmenhq/gamekit/pkg/config"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/fulmenhq/gamekit/pkg/registry"
	"github.com/fulmenhq/gamekit/pkg/selfupdate"
	"github.com/fulmenhq/gamekit/pkg/template"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// collaborators are the side-effecting pieces commands depend on. Tests
// replace them through the package-level deps value.
type collaborators struct {
	creator       unity.Creator
	editorSpawner func(editorPath string) unity.Spawner
	workerSpawner func() (selfupdate.Spawner, error)
	http          registry.HTTPFetcher // nil uses a real client
	installer     func(cfg config.UpdateConfig) selfupdate.Installer
	interactive   func(in io.Reader) bool
	goos          string
}

func defaultCollaborators() collaborators {
	return collaborators{
		creator: &unity.BatchCreator{},
		editorSpawner: func(editorPath string) unity.Spawner {
			return &selfupdate.ExecSpawner{Executable: editorPath}
		},
		workerSpawner: func() (selfupdate.Spawner, error) {
			sp, err := selfupdate.NewExecSpawner()
			if err != nil {
				return nil, err
			}
			return sp, nil
		},
		installer: func(cfg config.UpdateConfig) selfupdate.Installer {
			return &selfupdate.CommandInstaller{Template: cfg.InstallCommand, Package: cfg.Package}
		},
		interactive: func(in io.Reader) bool {
			f, ok := in.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
		goos: runtime.GOOS,
	}
}

var deps = defaultCollaborators()

// session is the per-invocation view of configuration and locations.
type session struct {
	cfg     *config.Config
	home    string
	workDir string
	version string
}

func loadSession() (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	home, err := config.EnsureGamekitHome()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadProjectConfig(wd)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, home: home, workDir: wd, version: buildinfo.Version()}, nil
}

func (s *session) updateEnv() selfupdate.Env {
	return selfupdate.NewEnv(s.home)
}

func (s *session) agent(sp selfupdate.Spawner) *selfupdate.Agent {
	return &selfupdate.Agent{
		Env:      s.updateEnv(),
		Current:  s.version,
		Interval: s.cfg.Update.Interval,
		Enabled:  s.cfg.Update.Enabled,
		Spawner:  sp,
	}
}

func (s *session) npmClient() *registry.NPMClient {
	if deps.http != nil {
		return registry.NewNPMClientWithFetcher(s.cfg.Update.RegistryURL, deps.http)
	}
	return registry.NewNPMClient(s.cfg.Update.RegistryURL)
}

func (s *session) worker(log *selfupdate.UpdateLog) *selfupdate.Worker {
	return &selfupdate.Worker{
		Env:       s.updateEnv(),
		Package:   s.cfg.Update.Package,
		Current:   s.version,
		Source:    s.npmClient(),
		Installer: deps.installer(s.cfg.Update),
		Timeout:   s.cfg.Update.InstallTimeout,
		Log:       log,
	}
}

func (s *session) templateSource() template.Source {
	return template.Source{
		Repo:   s.cfg.Template.Repo,
		Branch: s.cfg.Template.Branch,
		Method: s.cfg.Template.Method,
	}
}

func (s *session) fetcher() *template.Fetcher {
	f := template.NewFetcher(s.home, s.templateSource())
	if deps.http != nil {
		f.HTTP = deps.http
	}
	return f
}

// ensureTemplate returns a local template, downloading it when none is found
// or when refresh is set and no explicit template.path is configured.
func (s *session) ensureTemplate(ctx context.Context, refresh bool) (string, error) {
	loc := template.NewLocator(s.home, s.cfg.Template.Path)
	if refresh && s.cfg.Template.Path == "" {
		return s.fetcher().Fetch(ctx)
	}
	dir, err := template.Ensure(ctx, loc, s.fetcher())
	if err != nil {
		return "", err
	}
	desc, err := template.LoadDescriptor(dir)
	if err != nil {
		return "", err
	}
	if desc.RequiresNewerCLI(s.version) {
		logger.Warn("Template expects a newer gamekit; run `gamekit upgrade`",
			logger.String("min_cli_version", desc.MinCLIVersion), logger.String("current", s.version))
	}
	return dir, nil
}

func (s *session) diffOptions(templateDir string) (templatesync.DiffOptions, error) {
	desc, err := template.LoadDescriptor(templateDir)
	if err != nil {
		return templatesync.DiffOptions{}, err
	}
	return templatesync.DiffOptions{Workers: s.cfg.Sync.HashWorkers, Descriptor: desc}, nil
}

func (s *session) mcpEnv() mcp.Env {
	return mcp.EnvFromOS(s.cfg.MCP.RelayPath)
}

func (s *session) mcpPlatform() (mcp.Platform, error) {
	return mcp.ParsePlatform(deps.goos)
}

func (s *session) unityLocator() *unity.Locator {
	return &unity.Locator{HubPath: s.cfg.Unity.HubPath, GOOS: deps.goos}
}

func printerFor(cmd *cobra.Command) *ui.Printer {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return ui.NewPrinter(cmd.OutOrStdout(), noColor || os.Getenv("NO_COLOR") != "")
}

// runStartupHooks prints the applied-upgrade notice and the outdated-commands
// hint, then starts a background update check. upgrade installs in the
// foreground, so it never starts the worker. Nothing here fails the command.
func runStartupHooks(cmd *cobra.Command) {
	s, err := loadSession()
	if err != nil {
		logger.Debug("startup checks skipped", logger.Err(err))
		return
	}
	p := ui.NewPrinter(cmd.ErrOrStderr(), printerFor(cmd).Theme.Plain)

	sp, err := deps.workerSpawner()
	if err != nil {
		logger.Debug("update worker unavailable", logger.Err(err))
	}
	agent := s.agent(sp)
	if v, ok := agent.TakeNotice(); ok {
		p.OK("Updated to gamekit v%s", v)
	}
	if _, outdated, err := templatesync.Outdated(s.workDir, s.version); err == nil && outdated {
		_, _ = fmt.Fprintln(p.Out, p.Theme.Warn("⚡ New commands available! Run `gamekit update-commands` to update."))
	}
	if sp != nil && cmd.Name() != "upgrade" {
		agent.MaybeStart()
	}
}
