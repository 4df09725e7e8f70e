package template

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsText(t *testing.T) {
	assert.True(t, IsText("Assets/Scene.unity"))
	assert.True(t, IsText("notes.MD"))
	assert.True(t, IsText(".gitignore"))
	assert.False(t, IsText(".DS_Store"))
	assert.False(t, IsText("Textures/logo.png"))
	assert.False(t, IsText("Makefile"))
}

func TestRender(t *testing.T) {
	vars := Vars{AppKey: "0f9a5c3e-1111-4222-8333-444455556666", ProjectName: "space_race"}

	out, rendered, err := Render([]byte("_normcoreAppKey: {{APP_KEY}}\nname: {{PROJECT_NAME}}\n"), vars)
	require.NoError(t, err)
	assert.True(t, rendered)
	assert.Equal(t, "_normcoreAppKey: 0f9a5c3e-1111-4222-8333-444455556666\nname: space_race\n", string(out))

	raw := []byte("Use {{ mustache }} freely")
	out, rendered, err = Render(raw, vars)
	require.NoError(t, err)
	assert.False(t, rendered)
	assert.Equal(t, raw, out)
}

func TestRenderLeavesOtherBraces(t *testing.T) {
	vars := Vars{AppKey: "abc", ProjectName: "kart"}

	out, rendered, err := Render([]byte("key: {{APP_KEY}}\nexample: {{args}} <b>\n"), vars)
	require.NoError(t, err)
	assert.True(t, rendered)
	assert.Equal(t, "key: abc\nexample: {{args}} <b>\n", string(out))

	// Handlebars syntax around a placeholder is copied as is.
	out, _, err = Render([]byte("{{> partial}}\n{{#if x}}{{PROJECT_NAME}}{{/if}}\nvar s = $\"{{{{x}}}}\";\n"), vars)
	require.NoError(t, err)
	assert.Equal(t, "{{> partial}}\n{{#if x}}kart{{/if}}\nvar s = $\"{{{{x}}}}\";\n", string(out))
}

func TestCopy(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "game")
	writeTree(t, src, map[string]string{
		".claude/CLAUDE.md":         "# {{PROJECT_NAME}}",
		"Assets/Settings.asset":     "key: {{APP_KEY}}",
		"Assets/logo.png":           "{{APP_KEY}}",
		"ProjectSettings/plain.txt": "no placeholders",
		DescriptorFile:              "name: game\n",
	})
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join(src, "Assets"), filepath.Join(src, "loop")))
	}

	stats, err := Copy(src, dst, Vars{AppKey: "abc", ProjectName: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 2, stats.Rendered)

	assert.Equal(t, "# demo", readFile(t, filepath.Join(dst, ".claude", "CLAUDE.md")))
	assert.Equal(t, "key: abc", readFile(t, filepath.Join(dst, "Assets", "Settings.asset")))
	assert.Equal(t, "{{APP_KEY}}", readFile(t, filepath.Join(dst, "Assets", "logo.png")), "binary files are copied verbatim")
	assert.NoFileExists(t, filepath.Join(dst, "loop"))
	assert.NoFileExists(t, filepath.Join(dst, DescriptorFile))
}

func TestCopy_NoVarsIsVerbatim(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "{{APP_KEY}}"})

	stats, err := Copy(src, dst, Vars{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rendered)
	assert.Equal(t, "{{APP_KEY}}", readFile(t, filepath.Join(dst, "a.md")))
}
