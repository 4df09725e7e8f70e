package template

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/registry"
)

// Fetch methods.
const (
	MethodArchive = "archive"
	MethodGit     = "git"
)

// DefaultRepo is the upstream template repository.
const DefaultRepo = "TeisJayaswal/test-game-ai"

// Source identifies the upstream template.
type Source struct {
	Repo    string // owner/name
	Branch  string
	Method  string // MethodArchive or MethodGit
	BaseURL string // defaults to https://github.com
}

// ArchiveURL returns the branch tarball location.
func (s Source) ArchiveURL() string {
	return fmt.Sprintf("%s/%s/archive/refs/heads/%s.tar.gz", s.base(), s.Repo, s.branch())
}

// CloneURL returns the git remote.
func (s Source) CloneURL() string {
	return fmt.Sprintf("%s/%s.git", s.base(), s.Repo)
}

func (s Source) base() string {
	if s.BaseURL == "" {
		return "https://github.com"
	}
	return strings.TrimRight(s.BaseURL, "/")
}

func (s Source) branch() string {
	if s.Branch == "" {
		return "main"
	}
	return s.Branch
}

func (s Source) repoName() string {
	return path.Base(s.Repo)
}

// Fetcher downloads the template into <Home>/template.
type Fetcher struct {
	Source Source
	Home   string
	HTTP   registry.HTTPFetcher
}

// NewFetcher returns a Fetcher using the default HTTP client (five redirects max).
func NewFetcher(home string, src Source) *Fetcher {
	return &Fetcher{
		Source: src,
		Home:   home,
		HTTP:   registry.NewRealHTTPFetcher(registry.NewHTTPClient(2*time.Minute, 5)),
	}
}

// CacheDir is where a successful fetch leaves the template.
func (f *Fetcher) CacheDir() string {
	return filepath.Join(f.Home, CacheDirName)
}

// Fetch downloads into a staging directory, validates the result, then swaps
// it into the cache. The existing cache is untouched unless the new template is
// complete.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if err := os.MkdirAll(f.Home, 0o750); err != nil {
		return "", apperr.New(apperr.IO, "create gamekit home", f.Home, err)
	}
	staging, err := os.MkdirTemp(f.Home, ".template-staging-*")
	if err != nil {
		return "", apperr.New(apperr.IO, "create staging dir", f.Home, err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	var staged string
	switch f.Source.Method {
	case "", MethodArchive:
		staged, err = f.fetchArchive(ctx, staging)
	case MethodGit:
		staged, err = f.fetchGit(ctx, staging)
	default:
		err = apperr.Errorf(apperr.InvalidInput, "fetch template", "unknown method %q", f.Source.Method)
	}
	if err != nil {
		return "", err
	}

	if !Usable(staged) {
		return "", apperr.Errorf(apperr.NotFound, "fetch template", "downloaded template has no .claude directory")
	}
	if err := swapDir(staged, f.CacheDir()); err != nil {
		return "", err
	}
	logger.Info("Template downloaded", logger.String("path", f.CacheDir()))
	return f.CacheDir(), nil
}

func (f *Fetcher) fetchArchive(ctx context.Context, staging string) (string, error) {
	archiveURL := f.Source.ArchiveURL()
	logger.Debug("downloading template archive", logger.String("url", archiveURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return "", apperr.New(apperr.Network, "download template", archiveURL, err)
	}
	req.Header.Set("User-Agent", registry.UserAgent)

	resp, err := f.HTTP.Do(req)
	if err != nil {
		return "", apperr.New(apperr.Network, "download template", archiveURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", apperr.Errorf(apperr.Network, "download template", "%s returned status %d", archiveURL, resp.StatusCode)
	}

	extractDir := filepath.Join(staging, "extract")
	if err := ExtractTarGz(resp.Body, extractDir); err != nil {
		return "", err
	}

	// GitHub archives unpack to <repo>-<branch>/.
	matches, err := filepath.Glob(filepath.Join(extractDir, f.Source.repoName()+"-*"))
	if err != nil || len(matches) == 0 {
		return "", apperr.Errorf(apperr.NotFound, "download template", "archive has no %s-* directory", f.Source.repoName())
	}
	return filepath.Join(matches[0], archiveSubdir), nil
}

func (f *Fetcher) fetchGit(ctx context.Context, staging string) (string, error) {
	cloneURL := f.Source.CloneURL()
	target := filepath.Join(staging, "repo")
	logger.Debug("cloning template repository", logger.String("url", cloneURL), logger.String("branch", f.Source.branch()))

	_, err := git.PlainCloneContext(ctx, target, false, &git.CloneOptions{
		URL:           cloneURL,
		ReferenceName: plumbing.NewBranchReferenceName(f.Source.branch()),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	if err != nil {
		return "", apperr.New(apperr.Network, "clone template", cloneURL, err)
	}
	return filepath.Join(target, archiveSubdir), nil
}

// swapDir moves staged into dest. The previous dest is parked next to it and
// restored if the final rename fails.
func swapDir(staged, dest string) error {
	backup := dest + ".previous"
	_ = os.RemoveAll(backup)

	hadPrevious := false
	if _, err := os.Stat(dest); err == nil {
		if err := os.Rename(dest, backup); err != nil {
			return apperr.New(apperr.IO, "replace template cache", dest, err)
		}
		hadPrevious = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return apperr.New(apperr.IO, "replace template cache", dest, err)
	}

	if err := os.Rename(staged, dest); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, dest)
		}
		return apperr.New(apperr.IO, "replace template cache", dest, err)
	}
	if hadPrevious {
		_ = os.RemoveAll(backup)
	}
	return nil
}
