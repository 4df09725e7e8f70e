package doctor

import (
	"bytes"
	"os/exec"
	"strings"
)

// Tool is an external program gamekit shells out to.
type Tool struct {
	Name         string // executable looked up on PATH
	VersionArgs  []string
	Instructions string // shown when the tool is missing
	Required     bool   // missing required tools fail the check
}

// ToolStatus is the result of probing one Tool.
type ToolStatus struct {
	Name         string
	Present      bool
	Version      string
	Instructions string
}

// KnownTools lists the programs gamekit workflows depend on. git is only
// required when templates are fetched with the git method.
func KnownTools(gitRequired bool) []Tool {
	return []Tool{
		{
			Name:         "npm",
			VersionArgs:  []string{"--version"},
			Instructions: "Install Node.js (https://nodejs.org); self-update runs npm install -g",
			Required:     true,
		},
		{
			Name:         "git",
			VersionArgs:  []string{"--version"},
			Instructions: "Install git, or set template.method: archive",
			Required:     gitRequired,
		},
		{
			Name:         "claude",
			VersionArgs:  []string{"--version"},
			Instructions: "Install Claude Code to use the generated commands",
		},
	}
}

// ToolLookup runs PATH lookups and version commands; tests replace it.
type ToolLookup struct {
	LookPath func(string) (string, error)
	Output   func(name string, args ...string) (string, bool)
}

// DefaultToolLookup uses the real PATH.
func DefaultToolLookup() ToolLookup {
	return ToolLookup{LookPath: exec.LookPath, Output: tryCommand}
}

// CheckTool looks t up on PATH and reads its version when present.
func (p ToolLookup) CheckTool(t Tool) ToolStatus {
	if _, err := p.LookPath(t.Name); err != nil {
		return ToolStatus{Name: t.Name, Instructions: t.Instructions}
	}
	st := ToolStatus{Name: t.Name, Present: true}
	if len(t.VersionArgs) > 0 && p.Output != nil {
		if out, ok := p.Output(t.Name, t.VersionArgs...); ok {
			st.Version = sanitizeVersion(out)
		}
	}
	return st
}

func tryCommand(name string, args ...string) (string, bool) {
	cmd := exec.Command(name, args...) // #nosec G204 -- fixed tool list
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(errb.String()); s != "" {
			return s, true
		}
		return "", false
	}
	s := strings.TrimSpace(out.String())
	if s == "" {
		if ss := strings.TrimSpace(errb.String()); ss != "" {
			return ss, true
		}
	}
	return s, true
}

func sanitizeVersion(s string) string {
	line := firstLine(strings.TrimSpace(s))
	// "git version 2.43.0" and "1.0.33 (Claude Code)"
	line = strings.TrimPrefix(line, "git ")
	line = strings.TrimPrefix(line, "version ")
	line = strings.TrimPrefix(line, "Version ")
	if i := strings.IndexByte(line, ' '); i > 0 {
		line = line[:i]
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
