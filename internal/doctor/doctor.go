// Package doctor diagnoses a gamekit project: Unity layout, Normcore key,
// installed assistant files, MCP wiring, configuration and external tools.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fulmenhq/gamekit/internal/normcore"
	"github.com/fulmenhq/gamekit/internal/unity"
	"github.com/fulmenhq/gamekit/pkg/config"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
	"github.com/fulmenhq/gamekit/pkg/versioning"
)

// Severity grades a check result.
type Severity int

const (
	Pass Severity = iota
	Warn
	Fail
)

func (s Severity) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	default:
		return "fail"
	}
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Severity Severity
	Detail   string
	Fix      string
}

// Env is everything the checks read.
type Env struct {
	ProjectDir string
	Version    string // running gamekit version
	Config     config.Config
	Platform   string // GOOS
	MCP        mcp.Env
	Unity      *unity.Locator
	ToolLookup ToolLookup
}

// Check inspects one aspect of the environment.
type Check struct {
	Name string
	Run  func(env Env) Result
}

// Report collects check results in order.
type Report struct {
	Results []Result
}

// OK reports whether no check failed. Warnings do not count.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if res.Severity == Fail {
			return false
		}
	}
	return true
}

// Count returns how many results have severity s.
func (r Report) Count(s Severity) int {
	n := 0
	for _, res := range r.Results {
		if res.Severity == s {
			n++
		}
	}
	return n
}

var titler = cases.Title(language.English)

// Label title-cases a check name for display.
func Label(name string) string {
	return titler.String(strings.ReplaceAll(name, "-", " "))
}

// Run executes checks in order.
func Run(env Env, checks []Check) Report {
	var rep Report
	for _, c := range checks {
		res := c.Run(env)
		if res.Name == "" {
			res.Name = c.Name
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

// DefaultChecks is the doctor command's check list.
func DefaultChecks() []Check {
	return []Check{
		{Name: "unity project", Run: checkUnityProject},
		{Name: "normcore app key", Run: checkNormcore},
		{Name: "claude helpers installed", Run: checkClaudeHelpers},
		{Name: "commands up to date", Run: checkCommandsCurrent},
		{Name: "project config", Run: checkProjectConfig},
		{Name: "mcp config", Run: checkMCP},
		{Name: "unity editor", Run: checkUnityEditor},
		{Name: "tools", Run: checkTools},
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func checkUnityProject(env Env) Result {
	if exists(filepath.Join(env.ProjectDir, "Assets")) && exists(filepath.Join(env.ProjectDir, "Packages")) {
		return Result{Severity: Pass}
	}
	return Result{Severity: Fail, Fix: "Run this from inside a Unity project, or run: gamekit init"}
}

func checkNormcore(env Env) Result {
	if !normcore.HasSettings(env.ProjectDir) {
		return Result{Severity: Fail, Detail: "Normcore not found in project", Fix: "Install commands into a project created from the gamekit template"}
	}
	if !normcore.HasAppKey(env.ProjectDir) {
		return Result{Severity: Fail, Fix: "Set your app key in " + normcore.SettingsPath + " (" + normcore.DashboardURL + ")"}
	}
	return Result{Severity: Pass}
}

func checkClaudeHelpers(env Env) Result {
	if exists(filepath.Join(env.ProjectDir, manifest.TrackedDir, "CLAUDE.md")) {
		return Result{Severity: Pass}
	}
	return Result{Severity: Fail, Fix: "Run: gamekit install-commands"}
}

func checkCommandsCurrent(env Env) Result {
	installed, outdated, err := templatesync.Outdated(env.ProjectDir, env.Version)
	switch {
	case err != nil:
		return Result{Severity: Warn, Detail: err.Error(), Fix: "Run: gamekit update-commands"}
	case outdated:
		if installed == "" {
			installed = "an unknown version"
		}
		return Result{Severity: Warn, Detail: fmt.Sprintf("installed with %s, running %s", installed, env.Version), Fix: "Run: gamekit update-commands"}
	case installed == "":
		return Result{Severity: Warn, Detail: "no commands manifest", Fix: "Run: gamekit install-commands"}
	}
	return Result{Severity: Pass, Detail: installed}
}

func checkProjectConfig(env Env) Result {
	for _, name := range config.ProjectConfigFiles {
		p := filepath.Join(env.ProjectDir, name)
		if !exists(p) {
			continue
		}
		if err := config.ValidateFile(p); err != nil {
			return Result{Severity: Fail, Detail: err.Error(), Fix: "Fix " + name + " or remove it"}
		}
		return Result{Severity: Pass, Detail: name}
	}
	return Result{Severity: Pass, Detail: "defaults"}
}

func checkMCP(env Env) Result {
	if !mcp.Exists(env.ProjectDir) {
		return Result{Severity: Warn, Detail: mcp.ConfigFile + " missing", Fix: "Run: gamekit configure-mcp"}
	}
	p, err := mcp.ParsePlatform(env.Platform)
	if err != nil {
		return Result{Severity: Warn, Detail: err.Error()}
	}
	if !mcp.RelayExists(p, env.MCP) {
		return Result{Severity: Warn, Detail: "relay not installed yet", Fix: "Open the project in Unity, then run: gamekit wait-for-mcp"}
	}
	return Result{Severity: Pass}
}

func checkUnityEditor(env Env) Result {
	if env.Unity == nil {
		return Result{Severity: Warn, Detail: "editor lookup disabled"}
	}
	installs, err := env.Unity.Find()
	if err != nil {
		return Result{Severity: Warn, Detail: err.Error()}
	}
	if len(installs) == 0 {
		return Result{Severity: Warn, Detail: "no editors found", Fix: "Install Unity via Unity Hub"}
	}
	minVersion := env.Config.Unity.MinVersion
	newest := installs[0].Version
	if minVersion != "" && versioning.CompareLoose(newest, minVersion) < 0 {
		return Result{Severity: Warn, Detail: fmt.Sprintf("newest editor %s is older than %s", newest, minVersion), Fix: "Install Unity " + minVersion + " or newer"}
	}
	return Result{Severity: Pass, Detail: newest}
}

func checkTools(env Env) Result {
	lookup := env.ToolLookup
	if lookup.LookPath == nil {
		lookup = DefaultToolLookup()
	}
	var missing, fixes, found []string
	sev := Pass
	for _, t := range KnownTools(env.Config.Template.Method == "git") {
		st := lookup.CheckTool(t)
		if st.Present {
			found = append(found, strings.TrimSpace(st.Name+" "+st.Version))
			continue
		}
		missing = append(missing, st.Name)
		fixes = append(fixes, st.Instructions)
		if t.Required {
			sev = Fail
		} else if sev == Pass {
			sev = Warn
		}
	}
	if len(missing) == 0 {
		return Result{Severity: Pass, Detail: strings.Join(found, ", ")}
	}
	return Result{Severity: sev, Detail: "missing: " + strings.Join(missing, ", "), Fix: strings.Join(fixes, "; ")}
}
