// Package selfupdate keeps the installed gamekit current without blocking the
// command the user ran. A debounced check in the foreground process spawns a
// detached worker; the worker asks the registry for the latest release,
// installs it, and leaves a marker so the next invocation can say so once.
//
// All state lives under Env.Root:
//
//	last-update-check  epoch milliseconds of the last due check
//	update.log         append-only worker log
//	pending-update     version installed by the worker, not yet announced
package selfupdate

import (
	"path/filepath"
	"time"
)

const (
	markerFile  = "last-update-check"
	logFile     = "update.log"
	pendingFile = "pending-update"

	// DefaultInterval is the minimum spacing between checks.
	DefaultInterval = time.Hour
	// DefaultInstallTimeout bounds the package manager invocation.
	DefaultInstallTimeout = 60 * time.Second
	// DefaultPackage is the npm package gamekit is published as.
	DefaultPackage = "gamekit-cli"
	// DefaultInstallCommand is rendered with {{version}} and {{package}}.
	DefaultInstallCommand = "npm install -g {{package}}@{{version}}"

	// NoUpdateCheckEnv disables background checks when set to any value.
	NoUpdateCheckEnv = "GAMEKIT_NO_UPDATE_CHECK"
	// WorkerCommand is the hidden subcommand the detached process runs.
	WorkerCommand = "__upgrade-worker"
)

// Env is the process-wide state location and clock, injected so tests can use
// a temp dir and a fixed time.
type Env struct {
	Root string
	Now  func() time.Time
}

// NewEnv returns an Env rooted at root using the wall clock.
func NewEnv(root string) Env {
	return Env{Root: root, Now: time.Now}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) path(name string) string {
	return filepath.Join(e.Root, name)
}

// LogPath is the update log location.
func (e Env) LogPath() string { return e.path(logFile) }
