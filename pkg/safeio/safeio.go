package safeio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/fulmenhq/gamekit/pkg/apperr"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateName accepts template and project names made of letters, digits,
// dashes and underscores only. Anything else (slashes, dots, spaces) is
// rejected before it can reach the filesystem.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return apperr.New(apperr.InvalidInput, "validate name", name,
			errors.New("only letters, numbers, dashes, and underscores are allowed"))
	}
	return nil
}

// EnsureWithin resolves dest and rejects it unless it is root itself or lies
// below root. It returns the resolved absolute destination.
func EnsureWithin(root, dest string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", apperr.New(apperr.InvalidInput, "resolve root", root, err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", apperr.New(apperr.InvalidInput, "resolve destination", dest, err)
	}
	if !contained(rootAbs, destAbs) {
		return "", apperr.New(apperr.InvalidInput, "validate destination", dest,
			fmt.Errorf("must be within %s", rootAbs))
	}
	return destAbs, nil
}

func contained(rootAbs, pathAbs string) bool {
	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// CleanRelPath cleans a slash-separated path that must stay relative to some
// root (manifest keys, archive entries). Absolute paths and traversal are rejected.
func CleanRelPath(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", errors.New("absolute path not allowed")
	}
	c := filepath.ToSlash(filepath.Clean(filepath.FromSlash(slashed)))
	if c == ".." || strings.HasPrefix(c, "../") {
		return "", errors.New("path traversal detected")
	}
	return c, nil
}

// JoinContained joins a relative path onto baseDir and verifies the result
// still lies under baseDir.
func JoinContained(baseDir, rel string) (string, error) {
	clean, err := CleanRelPath(rel)
	if err != nil {
		return "", err
	}
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.New("failed to resolve base directory")
	}
	full := filepath.Join(baseAbs, filepath.FromSlash(clean))
	if !contained(baseAbs, full) {
		return "", errors.New("path is outside base directory")
	}
	return full, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.New("failed to resolve base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}
	if !contained(baseDirAbs, filePathAbs) {
		return nil, errors.New("file path is outside base directory")
	}
	// #nosec G304 -- filePathAbs has been verified to be contained within baseDirAbs
	return os.ReadFile(filePathAbs)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

// CopyFile copies src to dst, creating parent directories and carrying the
// source permission bits over.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller validates paths
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) // #nosec G304 -- caller validates paths
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	return out.Close()
}

// WriteFileAtomic replaces path with data through a temp file and rename, so
// readers see either the old or the new content. Parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	return nil
}
