package templatesync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/contenthash"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/manifest"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

// Decision is a resolver's answer for a user-modified file.
type Decision int

const (
	// Keep leaves the project copy untouched.
	Keep Decision = iota
	// Replace overwrites the project copy with the template.
	Replace
)

func (d Decision) String() string {
	if d == Replace {
		return "replace"
	}
	return "keep"
}

// Resolver decides what happens to a file the user changed.
type Resolver interface {
	Resolve(ctx context.Context, change FileChange) (Decision, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, change FileChange) (Decision, error)

func (f ResolverFunc) Resolve(ctx context.Context, change FileChange) (Decision, error) {
	return f(ctx, change)
}

// Always returns a Resolver giving the same answer for every file.
func Always(d Decision) Resolver {
	return ResolverFunc(func(context.Context, FileChange) (Decision, error) { return d, nil })
}

// ReconcileOptions configures Reconcile.
type ReconcileOptions struct {
	Resolver Resolver
	Version  string // stamped into the manifest
	DryRun   bool
}

// Result lists what Reconcile did, in application order.
type Result struct {
	Applied   []string `json:"applied"`
	Preserved []string `json:"preserved"`
	// Conflicts holds modified files a dry run would have asked about.
	Conflicts       []string `json:"conflicts,omitempty"`
	ManifestWritten bool     `json:"manifest_written"`
}

// Reconcile applies changes produced by Diff: new files first, then stale
// ones, then user-modified files as decided by the resolver. Afterwards every
// tracked file except the preserved ones is re-hashed from disk into the
// manifest, which is written atomically. A failure part way leaves applied
// files in place and the manifest untouched.
func Reconcile(ctx context.Context, changes []FileChange, templateDir, projectDir string, store *manifest.Store, opts ReconcileOptions) (*Result, error) {
	prev, found, err := store.LoadOrNew()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	preserved := make(map[string]bool)

	var fresh, stale, modified []FileChange
	for _, c := range changes {
		switch {
		case c.Status == StatusNew:
			fresh = append(fresh, c)
		case c.Stale():
			stale = append(stale, c)
		case c.Status == StatusModified && c.CurrentHash != c.TemplateHash:
			modified = append(modified, c)
		}
	}

	apply := func(c FileChange) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !opts.DryRun {
			if err := copyTracked(templateDir, projectDir, c); err != nil {
				return err
			}
		}
		res.Applied = append(res.Applied, c.File)
		logger.Debug("applied template file", logger.String("file", c.File), logger.String("status", string(c.Status)))
		return nil
	}

	for _, c := range fresh {
		if err := apply(c); err != nil {
			return res, err
		}
	}
	for _, c := range stale {
		if err := apply(c); err != nil {
			return res, err
		}
	}
	for _, c := range modified {
		if opts.DryRun {
			res.Conflicts = append(res.Conflicts, c.File)
			continue
		}
		if opts.Resolver == nil {
			return res, apperr.Errorf(apperr.InvalidInput, "reconcile", "%s was modified locally and no resolver is configured", c.File)
		}
		d, err := opts.Resolver.Resolve(ctx, c)
		if err != nil {
			return res, fmt.Errorf("resolve %s: %w", c.File, err)
		}
		if d == Keep {
			preserved[c.File] = true
			res.Preserved = append(res.Preserved, c.File)
			logger.Debug("preserved local file", logger.String("file", c.File))
			continue
		}
		if err := apply(c); err != nil {
			return res, err
		}
	}

	if opts.DryRun {
		return res, nil
	}

	next := prev.Clone()
	for _, c := range changes {
		if preserved[c.File] {
			continue
		}
		p := filepath.Join(projectDir, manifest.TrackedDir, c.rel())
		h, err := contenthash.File(p)
		if err != nil {
			return res, apperr.New(apperr.IO, "hash applied file", p, err)
		}
		next.Record(c.File, h)
	}
	if opts.Version != "" {
		next.Version = opts.Version
	}

	if found && next.Equal(prev) {
		return res, nil
	}
	if err := store.Save(next); err != nil {
		return res, err
	}
	res.ManifestWritten = true
	return res, nil
}

func copyTracked(templateDir, projectDir string, c FileChange) error {
	src, err := safeio.JoinContained(filepath.Join(templateDir, manifest.TrackedDir), c.rel())
	if err != nil {
		return apperr.New(apperr.InvalidInput, "copy", c.File, err)
	}
	dst, err := safeio.JoinContained(filepath.Join(projectDir, manifest.TrackedDir), c.rel())
	if err != nil {
		return apperr.New(apperr.InvalidInput, "copy", c.File, err)
	}
	if err := safeio.CopyFile(src, dst); err != nil {
		return apperr.New(apperr.IO, "copy", dst, err)
	}
	return nil
}
