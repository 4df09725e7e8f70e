package unity

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCreateTimeout bounds a batch-mode project creation.
const DefaultCreateTimeout = 10 * time.Minute

// Creator creates an empty Unity project at projectPath using the editor at
// editorPath.
type Creator interface {
	Create(ctx context.Context, editorPath, projectPath string) error
}

// Spawner starts a detached process. selfupdate.ExecSpawner satisfies it.
type Spawner interface {
	Spawn(args ...string) error
}

// CommandRunner runs a command to completion and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() // #nosec G204 -- editor path comes from the Hub listing
}

// BatchCreator runs the editor in batch mode with -createProject.
type BatchCreator struct {
	Timeout time.Duration
	Run     CommandRunner
}

// CreateArgs returns the editor arguments for creating projectPath.
func CreateArgs(projectPath string) []string {
	return []string{"-batchmode", "-quit", "-createProject", projectPath, "-logFile", "-"}
}

// OpenArgs returns the editor arguments for opening projectPath.
func OpenArgs(projectPath string) []string {
	return []string{"-projectPath", projectPath}
}

func (c *BatchCreator) Create(ctx context.Context, editorPath, projectPath string) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCreateTimeout
	}
	run := c.Run
	if run == nil {
		run = execRunner
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := run(ctx, editorPath, CreateArgs(projectPath)...)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("unity project creation timed out after %s: %w", timeout, ctx.Err())
		}
		return fmt.Errorf("unity project creation failed: %w%s", err, tail(out))
	}
	return nil
}

// Open launches the editor on projectPath without waiting for it.
func Open(s Spawner, projectPath string) error {
	return s.Spawn(OpenArgs(projectPath)...)
}

func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n" + strings.Join(lines, "\n")
}
