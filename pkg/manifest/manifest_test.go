package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/gamekit/pkg/apperr"
)

const (
	hashA = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	hashB = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NotFound))

	m, found, err := store.LoadOrNew()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, m.Version)
	assert.NotNil(t, m.Hashes)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	m := New()
	m.Version = "1.3.0"
	m.Record("commands/build.md", hashA)
	m.Record("skills\\unity.md", hashB)
	require.NoError(t, store.Save(m))

	assert.FileExists(t, filepath.Join(dir, ".claude", ".gamekit-manifest.json"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
	assert.Equal(t, []string{"commands/build.md", "skills/unity.md"}, got.Files())
}

func TestStore_LoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not_json", "{"},
		{"bad_hash", `{"version":"1.0.0","hashes":{"a.md":"zz"}}`},
		{"missing_hashes", `{"version":"1.0.0"}`},
		{"extra_field", `{"version":"1.0.0","hashes":{},"extra":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			p := filepath.Join(dir, TrackedDir, FileName)
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
			require.NoError(t, os.WriteFile(p, []byte(tc.body), 0o644))

			_, err := NewStore(dir).Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.InvalidInput), "got %v", err)

			_, _, err = NewStore(dir).LoadOrNew()
			assert.Error(t, err, "corrupt manifest must not be treated as a first install")
		})
	}
}

func TestKey_NormalizesUnicodeAndSeparators(t *testing.T) {
	nfd := "commands/cafe\u0301.md"
	nfc := "commands/caf\u00e9.md"
	assert.Equal(t, Key(nfc), Key(nfd))
	assert.Equal(t, "commands/build.md", Key("./commands/build.md"))

	m := New()
	m.Record(nfd, hashA)
	h, ok := m.Hash(nfc)
	assert.True(t, ok)
	assert.Equal(t, hashA, h)
}

func TestManifest_CloneIsIndependent(t *testing.T) {
	m := New()
	m.Version = "1.0.0"
	m.Record("a.md", hashA)

	c := m.Clone()
	c.Record("a.md", hashB)
	c.Forget("missing.md")

	h, _ := m.Hash("a.md")
	assert.Equal(t, hashA, h)
	assert.False(t, m.Equal(c))
}
