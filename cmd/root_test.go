package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/internal/unity"
	"github.com/fulmenhq/gamekit/pkg/registry"
	"github.com/fulmenhq/gamekit/pkg/selfupdate"
)

func TestInitializeLogger(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")

	// This should not panic
	initializeLogger(cmd)
}

func TestInitializeLogger_InvalidLevel(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "invalid", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")

	// Should default to info level
	initializeLogger(cmd)
}

func TestInitializeLogger_DryRun(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "debug", "")
	cmd.Flags().Bool("json", true, "")
	cmd.Flags().Bool("no-color", true, "")
	cmd.Flags().Bool("dry-run", true, "")

	initializeLogger(cmd)
}

type nopSpawner struct{ calls int }

func (n *nopSpawner) Spawn(...string) error {
	n.calls++
	return nil
}

// resetFlags restores every flag in the tree; subcommands are package level
// and keep parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// testEnv isolates a command run: temp gamekit home, temp working directory,
// no background checks and fake process launchers.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("GAMEKIT_HOME", t.TempDir())
	t.Setenv(selfupdate.NoUpdateCheckEnv, "1")
	t.Setenv("NO_COLOR", "1")
	work := t.TempDir()
	t.Chdir(work)

	saved := deps
	t.Cleanup(func() { deps = saved })
	deps.workerSpawner = func() (selfupdate.Spawner, error) { return &nopSpawner{}, nil }
	deps.editorSpawner = func(string) unity.Spawner { return &nopSpawner{} }
	deps.interactive = func(io.Reader) bool { return false }
	return work
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	registerSubcommands(cmd)
	resetFlags(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestRootCmd_Help(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "gamekit creates Unity game projects")
	assert.Contains(t, out, "Project Commands:")
	assert.Contains(t, out, "Sync Commands:")
	assert.Contains(t, out, "update-commands")
	assert.Contains(t, out, "doctor")
	assert.NotContains(t, out, selfupdate.WorkerCommand)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	testEnv(t)
	out, err := runCommand(t, "", "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gamekit "), out)
}

func TestRootCmd_InvalidFlag(t *testing.T) {
	testEnv(t)
	_, err := runCommand(t, "", "--invalid-flag")
	assert.Error(t, err)
}

func TestWorkerCommandHidden(t *testing.T) {
	assert.True(t, upgradeWorkerCmd.Hidden)
	assert.Equal(t, selfupdate.WorkerCommand, upgradeWorkerCmd.Name())
}

func TestStartupHintForOutdatedCommands(t *testing.T) {
	work := testEnv(t)
	writeFile(t, filepath.Join(work, ".claude", ".gamekit-manifest.json"), `{"version":"","hashes":{}}`)

	out, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "New commands available")
}

func TestUpgradeDoesNotStartBackgroundWorker(t *testing.T) {
	spawnsFor := func(args ...string) int {
		testEnv(t)
		t.Setenv(selfupdate.NoUpdateCheckEnv, "")
		sp := &nopSpawner{}
		deps.workerSpawner = func() (selfupdate.Spawner, error) { return sp, nil }
		mock := registry.NewMockHTTPFetcher()
		mock.AddResponse("https://registry.npmjs.org/gamekit-cli/latest", 200, `{"version":"0.0.0"}`)
		deps.http = mock

		out, err := runCommand(t, "", args...)
		require.NoError(t, err, out)
		return sp.calls
	}

	assert.Equal(t, 0, spawnsFor("upgrade"))
	assert.Equal(t, 1, spawnsFor("version"))
}

func TestCommandTaxonomy(t *testing.T) {
	errs := ops.NewTaxonomyValidator().Validate(ops.GetRegistry())
	assert.Empty(t, errs)
}
