package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/gamekit/internal/normcore"
	"github.com/fulmenhq/gamekit/internal/unity"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/mcp"
	"github.com/fulmenhq/gamekit/pkg/templatesync"
)

const testAppKey = "0b7e4a52-3f7c-4d8e-9a1b-2c3d4e5f6a7b"

// fakeTemplate builds a template tree and points template.path at it.
func fakeTemplate(t *testing.T) string {
	t.Helper()
	tmpl := t.TempDir()
	writeFile(t, filepath.Join(tmpl, ".claude", "CLAUDE.md"), "# claude v1\n")
	writeFile(t, filepath.Join(tmpl, ".claude", "commands", "build.md"), "build v1\n")
	writeFile(t, filepath.Join(tmpl, normcore.SettingsPath), "MonoBehaviour:\n  _normcoreAppKey: \n  _matcherURL: wss://normcore\n")
	t.Setenv("GAMEKIT_TEMPLATE_PATH", tmpl)
	return tmpl
}

func TestInstallAndUpdateCommands(t *testing.T) {
	work := testEnv(t)
	tmpl := fakeTemplate(t)

	out, err := runCommand(t, "", "install-commands")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Claude commands installed!")
	assert.Equal(t, "build v1\n", readFile(t, filepath.Join(work, ".claude", "commands", "build.md")))
	assert.FileExists(t, manifest.NewStore(work).Path())

	// Template moves on, and the user edits CLAUDE.md.
	writeFile(t, filepath.Join(tmpl, ".claude", "commands", "build.md"), "build v2\n")
	writeFile(t, filepath.Join(tmpl, ".claude", "skills", "adding-ui.md"), "ui\n")
	writeFile(t, filepath.Join(work, ".claude", "CLAUDE.md"), "mine\n")

	out, err = runCommand(t, "", "update-commands", "--force", "--yes-keep")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Preserved (your changes kept):")
	assert.Equal(t, "build v2\n", readFile(t, filepath.Join(work, ".claude", "commands", "build.md")))
	assert.Equal(t, "ui\n", readFile(t, filepath.Join(work, ".claude", "skills", "adding-ui.md")))
	assert.Equal(t, "mine\n", readFile(t, filepath.Join(work, ".claude", "CLAUDE.md")))

	// Keeping does not rebaseline, so the next run asks again.
	out, err = runCommand(t, "", "update-commands", "--force", "--yes-replace")
	require.NoError(t, err, out)
	assert.Equal(t, "# claude v1\n", readFile(t, filepath.Join(work, ".claude", "CLAUDE.md")))

	out, err = runCommand(t, "", "update-commands", "--force")
	require.NoError(t, err, out)
	assert.Contains(t, out, "All files are up to date!")
}

func TestUpdateCommandsDryRunWritesNothing(t *testing.T) {
	work := testEnv(t)
	tmpl := fakeTemplate(t)
	_, err := runCommand(t, "", "install-commands")
	require.NoError(t, err)

	before := readFile(t, manifest.NewStore(work).Path())
	writeFile(t, filepath.Join(tmpl, ".claude", "commands", "build.md"), "build v2\n")
	writeFile(t, filepath.Join(work, ".claude", "CLAUDE.md"), "mine\n")

	out, err := runCommand(t, "", "update-commands", "--force", "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "update")
	assert.Equal(t, "build v1\n", readFile(t, filepath.Join(work, ".claude", "commands", "build.md")))
	assert.Equal(t, before, readFile(t, manifest.NewStore(work).Path()))
}

func TestUpdateCommandsJSON(t *testing.T) {
	work := testEnv(t)
	tmpl := fakeTemplate(t)
	_, err := runCommand(t, "", "install-commands")
	require.NoError(t, err)
	writeFile(t, filepath.Join(tmpl, ".claude", "commands", "build.md"), "build v2\n")

	cmd := newRootCommand()
	registerSubcommands(cmd)
	resetFlags(cmd)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"update-commands", "--force", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var res templatesync.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res), stdout.String())
	assert.Equal(t, []string{"commands/build.md"}, res.Applied)
	assert.True(t, res.ManifestWritten)
	assert.DirExists(t, filepath.Join(work, ".claude"))
}

func TestUpdateCommandsJSONPromptsOnStderr(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)
	_, err := runCommand(t, "", "install-commands")
	require.NoError(t, err)
	writeFile(t, filepath.Join(work, ".claude", "CLAUDE.md"), "mine\n")

	cmd := newRootCommand()
	registerSubcommands(cmd)
	resetFlags(cmd)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("k\n"))
	cmd.SetArgs([]string{"update-commands", "--force", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var res templatesync.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res), stdout.String())
	assert.Equal(t, []string{"CLAUDE.md"}, res.Preserved)
	assert.Contains(t, stderr.String(), "Keep or replace?")
	assert.NotContains(t, stdout.String(), "Keep or replace?")
}

func TestUpdateCommandsRefreshSkipsVersionShortcut(t *testing.T) {
	work := testEnv(t)
	tmpl := fakeTemplate(t)
	_, err := runCommand(t, "", "install-commands")
	require.NoError(t, err)

	out, err := runCommand(t, "", "update-commands")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Commands are already up to date!")

	// Same version, new template content: only --refresh looks again.
	writeFile(t, filepath.Join(tmpl, ".claude", "commands", "build.md"), "build v2\n")
	out, err = runCommand(t, "", "update-commands", "--refresh")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "Commands are already up to date!")
	assert.Equal(t, "build v2\n", readFile(t, filepath.Join(work, ".claude", "commands", "build.md")))
}

func TestUpdateCommandsAbortKeepsManifest(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)
	_, err := runCommand(t, "", "install-commands")
	require.NoError(t, err)
	before := readFile(t, manifest.NewStore(work).Path())
	writeFile(t, filepath.Join(work, ".claude", "CLAUDE.md"), "mine\n")

	// No answer on stdin: the line prompt aborts.
	out, err := runCommand(t, "", "update-commands", "--force")
	require.Error(t, err)
	assert.Contains(t, out, "Update cancelled")
	assert.Equal(t, before, readFile(t, manifest.NewStore(work).Path()))
}

func TestUpdateCommandsWithoutClaudeDir(t *testing.T) {
	testEnv(t)
	_ = fakeTemplate(t)
	out, err := runCommand(t, "", "update-commands")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NotFound))
	assert.Contains(t, out, "No .claude directory found")
}

func TestCreateProject(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)

	out, err := runCommand(t, "", "create", "space-race", "--app-key", testAppKey)
	require.NoError(t, err, out)

	project := filepath.Join(work, "space-race")
	assert.FileExists(t, filepath.Join(project, ".claude", "CLAUDE.md"))
	assert.FileExists(t, manifest.NewStore(project).Path())
	assert.Equal(t, testAppKey, normcore.AppKey(project))
	assert.Contains(t, out, "cd space-race")
}

func TestCreatePromptsForNameAndKey(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)

	out, err := runCommand(t, "tower-defense\nnot-a-key\n"+testAppKey+"\n", "create")
	require.NoError(t, err, out)
	assert.True(t, normcore.HasAppKey(filepath.Join(work, "tower-defense")))
}

func TestCreateRejectsExistingFolder(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(work, "taken"), 0o755))

	_, err := runCommand(t, "", "create", "taken", "--app-key", testAppKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.InvalidInput))
}

type fakeCreator struct {
	editor, project string
}

func (f *fakeCreator) Create(_ context.Context, editorPath, projectPath string) error {
	f.editor, f.project = editorPath, projectPath
	if err := os.MkdirAll(filepath.Join(projectPath, "Assets"), 0o755); err != nil {
		return err
	}
	path := unity.PackagesManifestPath(projectPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(`{"dependencies":{}}`), 0o644)
}

func fakeHub(t *testing.T, versions ...string) string {
	t.Helper()
	hub := t.TempDir()
	for _, v := range versions {
		writeFile(t, unity.ExecutablePath(hub, v, "darwin"), "bin")
	}
	t.Setenv("GAMEKIT_UNITY_HUB_PATH", hub)
	return hub
}

func TestInitCreatesAndScaffolds(t *testing.T) {
	work := testEnv(t)
	_ = fakeTemplate(t)
	hub := fakeHub(t, "2022.3.20f1", "6000.0.23f1")
	t.Setenv("GAMEKIT_MCP_RELAY_PATH", filepath.Join(t.TempDir(), "launch.sh"))

	creator := &fakeCreator{}
	deps.creator = creator
	deps.goos = "darwin"

	out, err := runCommand(t, "", "init", "kart", "--app-key", testAppKey, "--no-open")
	require.NoError(t, err, out)

	project := filepath.Join(work, "kart")
	assert.Equal(t, project, creator.project)
	assert.Equal(t, unity.ExecutablePath(hub, "6000.0.23f1", "darwin"), creator.editor)
	assert.Contains(t, readFile(t, unity.PackagesManifestPath(project)), unity.MCPPackageURL("6000.0.23f1"))
	assert.FileExists(t, mcp.Path(project))
	assert.True(t, normcore.HasAppKey(project))
}

func TestInitWithoutUnity(t *testing.T) {
	testEnv(t)
	_ = fakeTemplate(t)
	fakeHub(t)
	deps.goos = "darwin"

	out, err := runCommand(t, "", "init", "kart")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NotFound))
	assert.Contains(t, out, "No Unity installations found.")
}

func TestConfigureMCP(t *testing.T) {
	work := testEnv(t)
	relay := filepath.Join(t.TempDir(), "launch.sh")
	t.Setenv("GAMEKIT_MCP_RELAY_PATH", relay)
	deps.goos = "darwin"

	out, err := runCommand(t, "", "configure-mcp")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created .mcp.json")
	assert.Contains(t, out, "relay is not installed yet")

	var cfg mcp.Config
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(work, mcp.ConfigFile))), &cfg))
	assert.Equal(t, "bash", cfg.MCPServers[mcp.ServerName].Command)
	assert.Equal(t, []string{relay}, cfg.MCPServers[mcp.ServerName].Args)

	writeFile(t, relay, "#!/bin/sh\n")
	out, err = runCommand(t, "", "configure-mcp", "--platform", "windows")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Updated .mcp.json")
}

func TestWaitForMCP(t *testing.T) {
	testEnv(t)
	relay := filepath.Join(t.TempDir(), "launch.sh")
	t.Setenv("GAMEKIT_MCP_RELAY_PATH", relay)
	deps.goos = "darwin"

	_, err := runCommand(t, "", "wait-for-mcp", "--timeout", "50ms", "--interval", "10ms")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NotFound))

	writeFile(t, relay, "#!/bin/sh\n")
	out, err := runCommand(t, "", "wait-for-mcp", "--timeout", "1s", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "MCP relay is ready")
}

func TestDoctorJSONReportsFailures(t *testing.T) {
	testEnv(t)
	fakeHub(t)

	cmd := newRootCommand()
	registerSubcommands(cmd)
	resetFlags(cmd)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"doctor", "--format", "json"})
	err := cmd.Execute()
	require.Error(t, err, "an empty folder is not a Unity project")

	var results []doctorResultJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results), stdout.String())
	require.NotEmpty(t, results)
	assert.Equal(t, "unity project", results[0].Name)
	assert.Equal(t, "fail", results[0].Severity)
}

func TestVersionJSON(t *testing.T) {
	testEnv(t)
	cmd := newRootCommand()
	registerSubcommands(cmd)
	resetFlags(cmd)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"version", "--json", "--extended"})
	require.NoError(t, cmd.Execute())

	var info versionInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &info), stdout.String())
	assert.NotEmpty(t, info.Version)
	assert.Empty(t, info.CommandsVersion)
}
