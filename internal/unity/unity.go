// Package unity locates Unity Hub editor installs and drives the editor to
// create and open projects.
package unity

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/versioning"
)

const (
	macHubEditor     = "/Applications/Unity/Hub/Editor"
	windowsHubEditor = `C:\Program Files\Unity\Hub\Editor`
)

// HubEditorPath returns the directory Unity Hub installs editors into.
func HubEditorPath(goos string) (string, error) {
	switch goos {
	case "darwin":
		return macHubEditor, nil
	case "windows", "win32":
		return windowsHubEditor, nil
	default:
		return "", apperr.Errorf(apperr.InvalidInput, "unity hub path", "unsupported platform %q", goos)
	}
}

// ExecutablePath returns the editor binary for version under hubPath.
func ExecutablePath(hubPath, version, goos string) string {
	if goos == "windows" || goos == "win32" {
		return filepath.Join(hubPath, version, "Editor", "Unity.exe")
	}
	return filepath.Join(hubPath, version, "Unity.app", "Contents", "MacOS", "Unity")
}

// IsUnity6OrNewer reports whether version is a 6000.x (or later) editor.
// Unparsable versions report false.
func IsUnity6OrNewer(version string) bool {
	v, err := versioning.Parse(version)
	if err != nil {
		return false
	}
	return v.Major >= 6000
}

// Install is one editor found under the Hub directory.
type Install struct {
	Version string
	Path    string
	Unity6  bool
}

// Label is the text shown when choosing an editor.
func (i Install) Label() string {
	if i.Unity6 {
		return i.Version + " (Unity 6 - recommended)"
	}
	return i.Version
}

// Locator finds installed editors. HubPath overrides the platform default.
type Locator struct {
	HubPath string
	GOOS    string
}

// NewLocator returns a Locator for the running platform.
func NewLocator(hubPath string) *Locator {
	return &Locator{HubPath: hubPath, GOOS: runtime.GOOS}
}

// Hub resolves the editor directory.
func (l *Locator) Hub() (string, error) {
	if l.HubPath != "" {
		return l.HubPath, nil
	}
	return HubEditorPath(l.GOOS)
}

// Find lists every version directory holding an editor binary, newest first.
// A missing Hub directory yields no installs and no error.
func (l *Locator) Find() ([]Install, error) {
	hub, err := l.Hub()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(hub)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.New(apperr.IO, "list editors", hub, err)
	}

	var installs []Install
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := versioning.Parse(e.Name()); err != nil {
			continue
		}
		exe := ExecutablePath(hub, e.Name(), l.GOOS)
		if _, err := os.Stat(exe); err != nil {
			continue
		}
		installs = append(installs, Install{Version: e.Name(), Path: exe, Unity6: IsUnity6OrNewer(e.Name())})
	}
	sort.SliceStable(installs, func(i, j int) bool {
		return versioning.CompareLoose(installs[i].Version, installs[j].Version) > 0
	})
	return installs, nil
}

// Select returns the install matching version.
func Select(installs []Install, version string) (Install, error) {
	for _, in := range installs {
		if in.Version == version {
			return in, nil
		}
	}
	return Install{}, apperr.Errorf(apperr.NotFound, "select editor", "Unity %s is not installed", version)
}
