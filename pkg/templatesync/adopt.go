package templatesync

import (
	"context"

	"github.com/fulmenhq/gamekit/pkg/manifest"
)

// Adopt records the project's current copy of every template file as the
// installed baseline and stamps version. It runs after a wholesale copy (init,
// install-commands) so later Diffs treat those files as unchanged. Project
// files the template does not ship stay unrecorded.
func Adopt(ctx context.Context, projectDir, templateDir string, store *manifest.Store, version string, opts DiffOptions) (*manifest.Manifest, error) {
	changes, err := Diff(ctx, projectDir, templateDir, manifest.New(), opts)
	if err != nil {
		return nil, err
	}
	m := manifest.New()
	m.Version = version
	for _, c := range changes {
		if c.CurrentHash == "" {
			continue
		}
		m.Record(c.File, c.CurrentHash)
	}
	if err := store.Save(m); err != nil {
		return nil, err
	}
	return m, nil
}
