package template

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/logger"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

// maxEntrySize bounds a single extracted file.
const maxEntrySize = 256 << 20

// ExtractTarGz unpacks a gzip-compressed tar stream into dest. Entries that
// would land outside dest are rejected; links and special files are skipped.
func ExtractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return apperr.New(apperr.Unparsable, "extract template", dest, err)
	}
	defer func() { _ = gz.Close() }()

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return apperr.New(apperr.IO, "extract template", dest, err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperr.New(apperr.Unparsable, "extract template", dest, err)
		}

		target, err := safeio.JoinContained(dest, hdr.Name)
		if err != nil {
			return apperr.New(apperr.InvalidInput, "extract template", hdr.Name, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return apperr.New(apperr.IO, "extract template", target, err)
			}
		case tar.TypeReg:
			if hdr.Size > maxEntrySize {
				return apperr.Errorf(apperr.InvalidInput, "extract template", "%s exceeds %d bytes", hdr.Name, maxEntrySize)
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return apperr.New(apperr.IO, "extract template", target, err)
			}
		default:
			logger.Trace("skipping archive entry", logger.String("name", hdr.Name), logger.Int("type", int(hdr.Typeflag)))
		}
	}
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) // #nosec G304 -- target validated by JoinContained
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(r, maxEntrySize)); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}
