package buildinfo

import (
	"runtime/debug"
	"strings"
)

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return ""
}

// Version returns the version gamekit reports and compares against the
// registry: the ldflags value, else the module version, else "0.0.0".
func Version() string {
	if BinaryVersion != "" && BinaryVersion != "dev" {
		return strings.TrimPrefix(BinaryVersion, "v")
	}
	if mv := ModuleVersion(); mv != "" {
		return strings.TrimPrefix(mv, "v")
	}
	return "0.0.0"
}
