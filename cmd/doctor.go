/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/gamekit/internal/doctor"
	"github.com/fulmenhq/gamekit/internal/ops"
	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose project and environment setup",
	Long: `Check the current project and machine: Unity project layout, Normcore app
key, installed Claude commands and their version, .mcp.json, Unity editors, and
the external tools gamekit relies on (npm, git, claude).

Exits non-zero when any check fails. Warnings do not fail the run.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().String("format", "text", "Output format (text|json)")
	if err := ops.RegisterCommand("doctor", ops.GroupSupport, doctorCmd, "Diagnose project and environment setup"); err != nil {
		panic(fmt.Sprintf("Failed to register doctor command: %v", err))
	}
}

type doctorResultJSON struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
	Fix      string `json:"fix,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	env := doctor.Env{
		ProjectDir: s.workDir,
		Version:    s.version,
		Config:     *s.cfg,
		Platform:   deps.goos,
		MCP:        s.mcpEnv(),
		Unity:      s.unityLocator(),
		ToolLookup: doctor.DefaultToolLookup(),
	}
	rep := doctor.Run(env, doctor.DefaultChecks())

	switch format {
	case "json":
		out := make([]doctorResultJSON, 0, len(rep.Results))
		for _, r := range rep.Results {
			out = append(out, doctorResultJSON{Name: r.Name, Severity: r.Severity.String(), Detail: r.Detail, Fix: r.Fix})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	case "text":
		p := printerFor(cmd)
		p.Heading("gamekit doctor")
		for _, r := range rep.Results {
			label := doctor.Label(r.Name)
			if r.Detail != "" {
				label += ": " + r.Detail
			}
			switch r.Severity {
			case doctor.Pass:
				p.OK("%s", label)
			case doctor.Warn:
				p.Warnf("%s", label)
			default:
				p.Failf("%s", label)
			}
			if r.Fix != "" && r.Severity != doctor.Pass {
				p.Note("  %s", r.Fix)
			}
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		p.Note("%d passed, %d warnings, %d failed", rep.Count(doctor.Pass), rep.Count(doctor.Warn), rep.Count(doctor.Fail))
	default:
		return apperr.Errorf(apperr.InvalidInput, "doctor", "unknown format %q", format)
	}

	if !rep.OK() {
		return apperr.Errorf(apperr.InvalidInput, "doctor", "%d check(s) failed", rep.Count(doctor.Fail))
	}
	return nil
}
