package normcore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!114 &11400000
MonoBehaviour:
  m_ObjectHideFlags: 0
  m_Name: NormcoreAppSettings
  m_EditorClassIdentifier:
  _normcoreAppKey:
  _matcherURL: wss://normcore-matcher.normcore.io:3000
`

const testKey = "3f2b8c1e-9d4a-4b7e-8f10-2c6d5e4a9b01"

func writeAsset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, filepath.FromSlash(SettingsPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sampleAsset), 0o644))
	return dir
}

func TestHasAppKeyEmpty(t *testing.T) {
	dir := writeAsset(t)
	assert.True(t, HasSettings(dir))
	assert.False(t, HasAppKey(dir), "empty value must not pick up the next line")
}

func TestInjectAppKey(t *testing.T) {
	dir := writeAsset(t)
	require.NoError(t, InjectAppKey(dir, testKey))

	assert.True(t, HasAppKey(dir))
	assert.Equal(t, testKey, AppKey(dir))

	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(SettingsPath)))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "  _normcoreAppKey: "+testKey+"\n")
	assert.Contains(t, content, "_matcherURL: wss://normcore-matcher.normcore.io:3000")
	assert.Equal(t, 1, strings.Count(content, "_normcoreAppKey"))
}

func TestInjectAppKeyReplacesExisting(t *testing.T) {
	dir := writeAsset(t)
	require.NoError(t, InjectAppKey(dir, "old-key-0000000000000000"))
	require.NoError(t, InjectAppKey(dir, testKey))
	assert.Equal(t, testKey, AppKey(dir))
}

func TestInjectAppKeyMissingAsset(t *testing.T) {
	dir := t.TempDir()
	err := InjectAppKey(dir, testKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.NotFound))
	assert.False(t, HasSettings(dir))
	assert.False(t, HasAppKey(dir))
}

func TestInjectAppKeyNoField(t *testing.T) {
	dir := writeAsset(t)
	path := filepath.Join(dir, filepath.FromSlash(SettingsPath))
	require.NoError(t, os.WriteFile(path, []byte("MonoBehaviour:\n  m_Name: x\n"), 0o644))
	err := InjectAppKey(dir, testKey)
	assert.True(t, errors.Is(err, apperr.InvalidInput))
}

func TestValidateAppKey(t *testing.T) {
	got, err := ValidateAppKey("  " + testKey + "\n")
	require.NoError(t, err)
	assert.Equal(t, testKey, got)

	_, err = ValidateAppKey("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")

	_, err = ValidateAppKey("this-is-long-enough-but-not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.InvalidInput))
}
