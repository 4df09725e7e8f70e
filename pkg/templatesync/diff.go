package templatesync

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/contenthash"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/template"
)

// DefaultHashWorkers bounds concurrent hashing when DiffOptions.Workers is unset.
const DefaultHashWorkers = 4

// DiffOptions tunes Diff.
type DiffOptions struct {
	Workers    int
	Descriptor *template.Descriptor // exclude globs; nil means none
}

type trackedFile struct {
	key string
	rel string // filepath form
}

// Diff classifies every regular file under templateDir/.claude. Output is
// sorted by File. Files only present in the project are ignored.
func Diff(ctx context.Context, projectDir, templateDir string, m *manifest.Manifest, opts DiffOptions) ([]FileChange, error) {
	if m == nil {
		m = manifest.New()
	}
	files, err := enumerate(filepath.Join(templateDir, manifest.TrackedDir), opts.Descriptor)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultHashWorkers
	}

	changes := make([]FileChange, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := classify(projectDir, templateDir, f, m)
			if err != nil {
				return err
			}
			changes[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return changes, nil
}

func enumerate(root string, desc *template.Descriptor) ([]trackedFile, error) {
	var files []trackedFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return apperr.New(apperr.NotFound, "diff", root, err)
			}
			return apperr.New(apperr.IO, "diff", p, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return apperr.New(apperr.IO, "diff", p, err)
		}
		key := manifest.Key(rel)
		if key == manifest.FileName {
			return nil
		}
		if desc != nil && desc.Excluded(key) {
			return nil
		}
		files = append(files, trackedFile{key: key, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].key < files[j].key })
	return files, nil
}

func classify(projectDir, templateDir string, f trackedFile, m *manifest.Manifest) (FileChange, error) {
	c := FileChange{File: f.key}
	if filepath.ToSlash(f.rel) != f.key {
		c.Rel = f.rel
	}

	templatePath := filepath.Join(templateDir, manifest.TrackedDir, f.rel)
	th, err := contenthash.File(templatePath)
	if err != nil {
		return c, apperr.New(apperr.IO, "hash template file", templatePath, err)
	}
	c.TemplateHash = th

	projectPath := filepath.Join(projectDir, manifest.TrackedDir, f.rel)
	if _, err := os.Lstat(projectPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Status = StatusNew
			return c, nil
		}
		return c, apperr.New(apperr.IO, "stat project file", projectPath, err)
	}
	ch, err := contenthash.File(projectPath)
	if err != nil {
		return c, apperr.New(apperr.IO, "hash project file", projectPath, err)
	}
	c.CurrentHash = ch

	if recorded, ok := m.Hash(f.key); ok && recorded == ch {
		c.Status = StatusUnchanged
	} else {
		c.Status = StatusModified
	}
	return c, nil
}
