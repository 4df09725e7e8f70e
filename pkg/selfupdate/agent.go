package selfupdate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/safeio"
	"github.com/fulmenhq/gamekit/pkg/versioning"
)

// Spawner starts a process that outlives the caller.
type Spawner interface {
	Spawn(args ...string) error
}

// Agent runs in every foreground invocation.
type Agent struct {
	Env      Env
	Current  string
	Interval time.Duration
	Enabled  bool
	Spawner  Spawner
}

// Disabled reports why background checks are off, or "" when they are on.
func (a *Agent) Disabled() string {
	switch {
	case !a.Enabled:
		return "disabled by configuration"
	case os.Getenv(NoUpdateCheckEnv) != "":
		return NoUpdateCheckEnv + " is set"
	case a.Current == "" || a.Current == "dev":
		return "development build"
	}
	return ""
}

// Due reports whether a check should run now. When it should, the marker is
// rewritten first so other invocations inside the window skip. The write is
// not locked; two processes racing here may both check.
func (a *Agent) Due() (bool, error) {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	now := a.Env.now()

	if last, ok := a.lastCheck(); ok && now.Sub(last) < interval {
		return false, nil
	}
	data := []byte(strconv.FormatInt(now.UnixMilli(), 10))
	if err := safeio.WriteFileAtomic(a.Env.path(markerFile), data, 0o644); err != nil {
		return false, fmt.Errorf("write update marker: %w", err)
	}
	return true, nil
}

func (a *Agent) lastCheck() (time.Time, bool) {
	raw, err := os.ReadFile(a.Env.path(markerFile))
	if err != nil {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// MaybeStart spawns the detached worker when a check is due and reports
// whether it did. Nothing here waits on the worker, and failures are only
// logged at debug level.
func (a *Agent) MaybeStart() bool {
	if reason := a.Disabled(); reason != "" {
		logger.Trace("update check skipped", logger.String("reason", reason))
		return false
	}
	due, err := a.Due()
	if err != nil {
		logger.Debug("update check skipped", logger.Err(err))
		return false
	}
	if !due {
		return false
	}
	if err := a.Spawner.Spawn(WorkerCommand); err != nil {
		logger.Debug("failed to start update worker", logger.Err(err))
		return false
	}
	return true
}

// MarkPending records a version installed by the worker.
func MarkPending(env Env, version string) error {
	return safeio.WriteFileAtomic(env.path(pendingFile), []byte(version+"\n"), 0o644)
}

// TakeNotice returns a version the worker installed that the running binary
// now reports, clearing the marker so the notice is shown once. If the running
// binary is still older the marker stays for a later invocation.
func (a *Agent) TakeNotice() (string, bool) {
	p := a.Env.path(pendingFile)
	raw, err := os.ReadFile(p) // #nosec G304 -- fixed name under gamekit home
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("unreadable pending update marker", logger.Err(err))
		}
		return "", false
	}
	pending := strings.TrimSpace(string(raw))
	if pending == "" {
		_ = os.Remove(p)
		return "", false
	}
	if versioning.CompareLoose(a.Current, pending) < 0 {
		return "", false
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// Without removal the notice would repeat; stay quiet instead.
		logger.Debug("failed to clear pending update marker", logger.Err(err))
		return "", false
	}
	return pending, true
}
