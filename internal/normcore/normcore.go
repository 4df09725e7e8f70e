// Package normcore configures the Normcore SDK settings asset shipped with the
// project template.
package normcore

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

// SettingsPath is the app settings asset relative to the project root.
const SettingsPath = "Assets/Normal/Resources/NormcoreAppSettings.asset"

// DashboardURL is where users create an app and copy its key.
const DashboardURL = "https://normcore.io/dashboard"

var (
	keyLine  = regexp.MustCompile(`(?m)^([ \t]*_normcoreAppKey:)[^\r\n]*`)
	keyValue = regexp.MustCompile(`_normcoreAppKey:[ \t]*(\S+)`)
)

// ValidateAppKey trims key and checks it is a well-formed app key.
func ValidateAppKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) < 20 {
		return "", apperr.New(apperr.InvalidInput, "validate app key", "", errors.New("app key appears too short"))
	}
	if _, err := uuid.Parse(trimmed); err != nil {
		return "", apperr.New(apperr.InvalidInput, "validate app key", "", errors.New("app key must be a UUID copied from the Normcore dashboard"))
	}
	return trimmed, nil
}

func settingsFile(projectDir string) string {
	return filepath.Join(projectDir, filepath.FromSlash(SettingsPath))
}

// InjectAppKey writes key into the settings asset, replacing whatever value
// the _normcoreAppKey line held.
func InjectAppKey(projectDir, key string) error {
	path := settingsFile(projectDir)
	raw, err := os.ReadFile(path) // #nosec G304 -- project-local asset
	if err != nil {
		if os.IsNotExist(err) {
			return apperr.New(apperr.NotFound, "inject app key", path, err)
		}
		return apperr.New(apperr.IO, "read", path, err)
	}
	if !keyLine.Match(raw) {
		return apperr.New(apperr.InvalidInput, "inject app key", path, errors.New("no _normcoreAppKey field"))
	}
	out := keyLine.ReplaceAllFunc(raw, func(line []byte) []byte {
		sub := keyLine.FindSubmatch(line)
		return append(append([]byte{}, sub[1]...), []byte(" "+key)...)
	})
	if err := safeio.WriteFilePreservePerms(path, out); err != nil {
		return apperr.New(apperr.IO, "write", path, err)
	}
	return nil
}

// AppKey returns the configured key, or "" when the asset is missing or the
// field is empty.
func AppKey(projectDir string) string {
	raw, err := os.ReadFile(settingsFile(projectDir)) // #nosec G304 -- project-local asset
	if err != nil {
		return ""
	}
	m := keyValue.FindSubmatch(raw)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// HasAppKey reports whether the settings asset carries a non-empty key.
func HasAppKey(projectDir string) bool {
	return AppKey(projectDir) != ""
}

// HasSettings reports whether the project ships the Normcore settings asset.
func HasSettings(projectDir string) bool {
	_, err := os.Stat(settingsFile(projectDir))
	return err == nil
}
