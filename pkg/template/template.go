// Package template finds, downloads and copies the gamekit project template.
//
// A usable template directory is one containing the tracked subtree (.claude).
// Lookups try an explicit override, then copies bundled next to the executable,
// then the per-user cache populated by Fetcher.
package template

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/manifest"
)

const (
	// CacheDirName is the cache location under the gamekit home.
	CacheDirName = "template"
	// archiveSubdir holds the template inside the upstream repository.
	archiveSubdir = "template"
)

// Usable reports whether dir holds the tracked subtree.
func Usable(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, manifest.TrackedDir))
	return err == nil && info.IsDir()
}

// Locator resolves an existing template directory without touching the network.
type Locator struct {
	Override string   // template.path; tried first when set
	Bundled  []string // copies shipped with the binary
	CacheDir string   // <home>/template
}

// NewLocator builds the default candidate list for the given gamekit home.
func NewLocator(home, override string) *Locator {
	l := &Locator{Override: override, CacheDir: filepath.Join(home, CacheDirName)}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		l.Bundled = []string{
			filepath.Join(dir, "template"),
			filepath.Join(dir, "..", "share", "gamekit", "template"),
		}
	}
	return l
}

// Candidates returns every directory Locate considers, in order.
func (l *Locator) Candidates() []string {
	var out []string
	if l.Override != "" {
		out = append(out, l.Override)
	}
	out = append(out, l.Bundled...)
	if l.CacheDir != "" {
		out = append(out, l.CacheDir)
	}
	return out
}

// Locate returns the first usable candidate or an apperr.NotFound error.
func (l *Locator) Locate() (string, error) {
	for _, dir := range l.Candidates() {
		if Usable(dir) {
			logger.Debug("template located", logger.String("path", dir))
			return dir, nil
		}
	}
	return "", apperr.Errorf(apperr.NotFound, "locate template", "no template with %s found in %v", manifest.TrackedDir, l.Candidates())
}

// Ensure returns a located template, fetching one into the cache when none exists.
func Ensure(ctx context.Context, l *Locator, f *Fetcher) (string, error) {
	dir, err := l.Locate()
	if err == nil {
		return dir, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return "", err
	}
	logger.Info("Template not found locally, downloading")
	return f.Fetch(ctx)
}
