package templatesync

import (
	"errors"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/versioning"
)

// Outdated reports whether the project's commands were installed by an older
// gamekit than current. Projects without a manifest, and dev builds, are never
// outdated. The installed version is returned for messaging.
func Outdated(projectDir, current string) (string, bool, error) {
	m, err := manifest.NewStore(projectDir).Load()
	if err != nil {
		if errors.Is(err, apperr.NotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if current == "" || current == "dev" {
		return m.Version, false, nil
	}
	if m.Version == "" {
		return "", true, nil
	}
	return m.Version, versioning.Newer(current, m.Version), nil
}
