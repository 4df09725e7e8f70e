package selfupdate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aymerick/raymond"
)

// installWaitDelay bounds how long Install waits for the output pipe to close
// once the command has exited or been killed.
const installWaitDelay = 5 * time.Second

// ErrInstallTimeout is returned when the install command outlives its deadline.
var ErrInstallTimeout = errors.New("install timed out")

// CommandInstaller runs a package manager command rendered from Template.
type CommandInstaller struct {
	Template string // e.g. "npm install -g {{package}}@{{version}}"
	Package  string
}

// Command renders the argv for version.
func (c *CommandInstaller) Command(version string) ([]string, error) {
	tpl := c.Template
	if tpl == "" {
		tpl = DefaultInstallCommand
	}
	pkg := c.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	rendered, err := raymond.Render(tpl, map[string]string{"version": version, "package": pkg})
	if err != nil {
		return nil, fmt.Errorf("render install command: %w", err)
	}
	argv := strings.Fields(rendered)
	if len(argv) == 0 {
		return nil, errors.New("install command is empty")
	}
	return argv, nil
}

// Install runs the command and waits for it. Output is not parsed; only the
// exit status matters, with the tail of stderr attached to failures.
func (c *CommandInstaller) Install(ctx context.Context, version string) error {
	argv, err := c.Command(version)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 -- argv comes from user configuration
	killGroupOnCancel(cmd)
	cmd.WaitDelay = installWaitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrInstallTimeout
		}
		// The command succeeded but a forked helper kept stderr open.
		if errors.Is(err, exec.ErrWaitDelay) {
			return nil
		}
		if tail := lastLine(stderr.String()); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
