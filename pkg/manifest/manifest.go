// Package manifest persists a project's installed template version and the
// content hash of every tracked file as last applied by gamekit.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fulmenhq/gamekit/internal/schema"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

const (
	// TrackedDir is the project subtree kept in sync with the template.
	TrackedDir = ".claude"
	// FileName is the manifest's name inside TrackedDir.
	FileName = ".gamekit-manifest.json"

	schemaName = "manifest-v1"
)

// Manifest is the on-disk record for one project.
type Manifest struct {
	Version string            `json:"version"`
	Hashes  map[string]string `json:"hashes"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Hashes: make(map[string]string)}
}

// Key normalizes a tracked-relative path into a manifest key: forward slashes,
// no leading "./", Unicode NFC so macOS and Linux spellings compare equal.
func Key(rel string) string {
	k := path.Clean(filepath.ToSlash(rel))
	k = strings.TrimPrefix(k, "./")
	return norm.NFC.String(k)
}

// Hash returns the recorded hash for rel and whether one exists.
func (m *Manifest) Hash(rel string) (string, bool) {
	h, ok := m.Hashes[Key(rel)]
	return h, ok
}

// Record stores hash for rel.
func (m *Manifest) Record(rel, hash string) {
	if m.Hashes == nil {
		m.Hashes = make(map[string]string)
	}
	m.Hashes[Key(rel)] = hash
}

// Forget drops rel from the manifest.
func (m *Manifest) Forget(rel string) {
	delete(m.Hashes, Key(rel))
}

// Files returns the recorded keys sorted.
func (m *Manifest) Files() []string {
	keys := make([]string, 0, len(m.Hashes))
	for k := range m.Hashes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{Version: m.Version, Hashes: make(map[string]string, len(m.Hashes))}
	for k, v := range m.Hashes {
		c.Hashes[k] = v
	}
	return c
}

// Equal reports whether both manifests record the same version and hashes.
func (m *Manifest) Equal(o *Manifest) bool {
	if m.Version != o.Version || len(m.Hashes) != len(o.Hashes) {
		return false
	}
	for k, v := range m.Hashes {
		if o.Hashes[k] != v {
			return false
		}
	}
	return true
}

// Store reads and writes the manifest of one project directory.
type Store struct {
	projectDir string
}

// NewStore returns the store for projectDir.
func NewStore(projectDir string) *Store {
	return &Store{projectDir: projectDir}
}

// Path returns the manifest location.
func (s *Store) Path() string {
	return filepath.Join(s.projectDir, TrackedDir, FileName)
}

// Load reads the manifest. A missing file is apperr.NotFound; undecodable or
// schema-invalid content is apperr.InvalidInput.
func (s *Store) Load() (*Manifest, error) {
	p := s.Path()
	raw, err := os.ReadFile(p) // #nosec G304 -- fixed location under the project
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.NotFound, "load manifest", p, err)
		}
		return nil, apperr.New(apperr.IO, "load manifest", p, err)
	}

	res, err := schema.ValidateJSON(raw, schemaName)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "load manifest", p, err)
	}
	if !res.Valid {
		return nil, apperr.New(apperr.InvalidInput, "load manifest", p, errors.New(res.Summary()))
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apperr.New(apperr.InvalidInput, "load manifest", p, err)
	}
	// Re-key so manifests written on another OS normalize the same way.
	normalized := make(map[string]string, len(m.Hashes))
	for k, v := range m.Hashes {
		normalized[Key(k)] = v
	}
	m.Hashes = normalized
	return &m, nil
}

// LoadOrNew returns the stored manifest, or an empty one when none exists yet.
// The boolean reports whether a manifest was found.
func (s *Store) LoadOrNew() (*Manifest, bool, error) {
	m, err := s.Load()
	if err == nil {
		return m, true, nil
	}
	if errors.Is(err, apperr.NotFound) {
		return New(), false, nil
	}
	return nil, false, err
}

// Save writes m atomically.
func (s *Store) Save(m *Manifest) error {
	if m.Hashes == nil {
		m.Hashes = make(map[string]string)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := safeio.WriteFileAtomic(s.Path(), data, 0o644); err != nil {
		return apperr.New(apperr.IO, "save manifest", s.Path(), err)
	}
	return nil
}
