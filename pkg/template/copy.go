package template

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

// Vars are the placeholders substituted into text files on copy.
type Vars struct {
	AppKey      string
	ProjectName string
}

func (v Vars) replacements() [][2][]byte {
	return [][2][]byte{
		{[]byte("{{APP_KEY}}"), []byte(v.AppKey)},
		{[]byte("{{PROJECT_NAME}}"), []byte(v.ProjectName)},
	}
}

func (v Vars) empty() bool {
	return v.AppKey == "" && v.ProjectName == ""
}

// textExtensions are rendered; everything else is copied byte for byte.
var textExtensions = map[string]bool{
	".md": true, ".txt": true, ".json": true, ".cs": true, ".meta": true,
	".asset": true, ".unity": true, ".prefab": true, ".mat": true,
	".yml": true, ".yaml": true, ".asmdef": true, ".asmref": true, ".xml": true,
	".shader": true, ".cginc": true, ".hlsl": true, ".compute": true,
}

// IsText reports whether name is rendered during Copy. Extensionless dotfiles
// such as .gitignore count as text.
func IsText(name string) bool {
	base := filepath.Base(name)
	if base == ".DS_Store" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if textExtensions[ext] {
		return true
	}
	return strings.HasPrefix(base, ".") && ext == base
}

// CopyStats summarizes a Copy.
type CopyStats struct {
	Files    int
	Rendered int
	Skipped  int
}

// Copy recursively copies src into dst. Symlinks and the template descriptor
// are skipped. Text files that mention a placeholder are rendered with vars.
func Copy(src, dst string, vars Vars) (CopyStats, error) {
	var stats CopyStats
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return apperr.New(apperr.IO, "copy template", p, err)
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return apperr.New(apperr.IO, "copy template", p, err)
		}
		target := filepath.Join(dst, rel)

		switch {
		case rel == DescriptorFile:
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			logger.Debug("skipping symlink", logger.String("path", rel))
			stats.Skipped++
			return nil
		case d.IsDir():
			if err := os.MkdirAll(target, 0o750); err != nil {
				return apperr.New(apperr.IO, "copy template", target, err)
			}
			return nil
		case !d.Type().IsRegular():
			stats.Skipped++
			return nil
		}

		rendered, err := copyOne(p, target, vars)
		if err != nil {
			return err
		}
		stats.Files++
		if rendered {
			stats.Rendered++
		}
		return nil
	})
	return stats, err
}

func copyOne(src, dst string, vars Vars) (bool, error) {
	if vars.empty() || !IsText(src) {
		if err := safeio.CopyFile(src, dst); err != nil {
			return false, apperr.New(apperr.IO, "copy template", dst, err)
		}
		return false, nil
	}

	raw, err := os.ReadFile(src) // #nosec G304 -- walking a located template
	if err != nil {
		return false, apperr.New(apperr.IO, "copy template", src, err)
	}
	out, rendered, err := Render(raw, vars)
	if err != nil {
		return false, apperr.New(apperr.InvalidInput, "render template", src, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return false, apperr.New(apperr.IO, "copy template", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, apperr.New(apperr.IO, "copy template", dst, err)
	}
	if err := os.WriteFile(dst, out, info.Mode().Perm()); err != nil {
		return false, apperr.New(apperr.IO, "copy template", dst, err)
	}
	return rendered, nil
}

// Render substitutes the {{APP_KEY}} and {{PROJECT_NAME}} literals in raw.
// Any other braces are template content and pass through untouched.
func Render(raw []byte, vars Vars) ([]byte, bool, error) {
	out := raw
	rendered := false
	for _, r := range vars.replacements() {
		if bytes.Contains(out, r[0]) {
			out = bytes.ReplaceAll(out, r[0], r[1])
			rendered = true
		}
	}
	return out, rendered, nil
}
