// Package contenthash fingerprints file content for drift detection.
//
// Digests are lower-case hex SHA-256 strings. The same encoding is used for
// on-disk content and for hashes recorded in a project manifest, so the two
// compare byte-for-byte.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Size is the length of an encoded digest.
const Size = sha256.Size * 2

// Bytes returns the digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Reader digests everything read from r.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File digests the file at path without loading it fully into memory.
func File(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- callers pass paths from a validated tree walk
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	sum, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// Valid reports whether s looks like a digest produced by this package.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
