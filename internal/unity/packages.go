package unity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/fulmenhq/gamekit/pkg/safeio"
)

const (
	// MCPPackageName is the Packages/manifest.json dependency key.
	MCPPackageName = "com.codemaestroai.advancedunitymcp"
	mcpRepoURL     = "https://github.com/codemaestroai/advanced-unity-mcp.git"
)

// MCPPackageURL picks the package variant matching the editor generation.
func MCPPackageURL(editorVersion string) string {
	if IsUnity6OrNewer(editorVersion) {
		return mcpRepoURL + "?path=Unity6"
	}
	return mcpRepoURL + "?path=Unity2020_2022"
}

// PackagesManifestPath returns Packages/manifest.json under projectDir.
func PackagesManifestPath(projectDir string) string {
	return filepath.Join(projectDir, "Packages", "manifest.json")
}

// PinMCPPackage sets the MCP dependency in the project's package manifest to
// the URL for editorVersion. It reports false when the project has no
// manifest yet.
func PinMCPPackage(projectDir, editorVersion string) (bool, error) {
	path := PackagesManifestPath(projectDir)
	raw, err := os.ReadFile(path) // #nosec G304 -- project-local file
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperr.New(apperr.IO, "read", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, apperr.New(apperr.InvalidInput, "parse", path, err)
	}
	deps, _ := doc["dependencies"].(map[string]any)
	if deps == nil {
		deps = map[string]any{}
	}
	deps[MCPPackageName] = MCPPackageURL(editorVersion)
	doc["dependencies"] = deps

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := safeio.WriteFileAtomic(path, out, 0o644); err != nil {
		return false, apperr.New(apperr.IO, "write", path, err)
	}
	return true, nil
}
