package selfupdate

import (
	"context"
	"fmt"
	"time"

	"github.com/fulmenhq/gamekit/pkg/versioning"
)

// VersionSource reports the latest published version of a package.
type VersionSource interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Installer installs an exact version of the CLI.
type Installer interface {
	Install(ctx context.Context, version string) error
}

// Outcome describes one worker run.
type Outcome struct {
	Current string
	Latest  string
	Updated bool
}

// Worker performs a check and, when a newer release exists, the install.
type Worker struct {
	Env       Env
	Package   string
	Current   string
	Source    VersionSource
	Installer Installer
	Timeout   time.Duration
	Log       *UpdateLog

	// Foreground runs report the update themselves and leave no pending
	// notice for the next invocation.
	Foreground bool
}

// Run logs every step to the update log. Errors are logged and returned; the
// detached process exits with them, the foreground upgrade command shows them.
func (w *Worker) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{Current: w.Current}
	pkg := w.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	w.Log.Printf("Checking for updates... (current: %s)", w.Current)
	latest, err := w.Source.LatestVersion(ctx, pkg)
	if err != nil {
		w.Log.Printf("Update check failed: %v", err)
		return out, err
	}
	out.Latest = latest
	w.Log.Printf("Latest version: %s", latest)

	if !versioning.Newer(latest, w.Current) {
		w.Log.Printf("Already up to date.")
		return out, nil
	}

	w.Log.Printf("New version available! Updating...")
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultInstallTimeout
	}
	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := w.Installer.Install(ictx, latest); err != nil {
		w.Log.Printf("Update failed: %v", err)
		return out, fmt.Errorf("install %s@%s: %w", pkg, latest, err)
	}
	w.Log.Printf("Updated to version %s successfully!", latest)
	out.Updated = true
	if w.Foreground {
		return out, nil
	}

	if err := MarkPending(w.Env, latest); err != nil {
		w.Log.Printf("Failed to record pending notice: %v", err)
	}
	return out, nil
}
