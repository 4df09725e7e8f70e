package selfupdate

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecSpawner starts Executable with the given arguments, detached from the
// caller's session and stdio, and releases it without waiting.
type ExecSpawner struct {
	Executable string
	Env        []string // extra KEY=VALUE entries
}

// NewExecSpawner targets the running binary.
func NewExecSpawner() (*ExecSpawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return &ExecSpawner{Executable: exe}, nil
}

func (s *ExecSpawner) Spawn(args ...string) error {
	cmd := exec.Command(s.Executable, args...) // #nosec G204 -- re-executes this binary
	// nil stdio means the null device.
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
	cmd.Env = append(os.Environ(), s.Env...)
	cmd.SysProcAttr = detachedAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.Executable, err)
	}
	return cmd.Process.Release()
}
