/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sort"
)

// TaxonomyValidator checks that core commands are registered in the groups
// the help output and the background agent rely on.
type TaxonomyValidator struct {
	coreCommands map[string]CommandGroup
}

// ErrorSeverity grades a validation finding.
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
)

// ValidationError is one taxonomy finding.
type ValidationError struct {
	Severity ErrorSeverity
	Command  string
	Message  string
}

func (e ValidationError) Error() string {
	sev := "ERROR"
	if e.Severity == SeverityWarning {
		sev = "WARNING"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, e.Command, e.Message)
}

// NewTaxonomyValidator returns a validator for gamekit's core command set.
func NewTaxonomyValidator() *TaxonomyValidator {
	return &TaxonomyValidator{coreCommands: CoreCommands()}
}

// CoreCommands maps every built-in command to its expected group.
func CoreCommands() map[string]CommandGroup {
	return map[string]CommandGroup{
		"init":             GroupProject,
		"create":           GroupProject,
		"install-commands": GroupProject,
		"configure-mcp":    GroupProject,
		"wait-for-mcp":     GroupProject,
		"update-commands":  GroupSync,
		"doctor":           GroupSupport,
		"upgrade":          GroupSupport,
		"version":          GroupSupport,
		"__upgrade-worker": GroupInternal,
	}
}

// Validate returns findings sorted by command name.
func (v *TaxonomyValidator) Validate(registry *Registry) []ValidationError {
	var errs []ValidationError
	for name, group := range v.coreCommands {
		cmd, ok := registry.GetCommand(name)
		if !ok {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: "Core command is not registered"})
			continue
		}
		if cmd.Group != group {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: fmt.Sprintf("Incorrect group: expected %s, got %s", group, cmd.Group)})
		}
		if group == GroupInternal && cmd.Command != nil && !cmd.Command.Hidden {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: "Internal command must be hidden"})
		}
	}
	for name := range registry.GetAllCommands() {
		if _, core := v.coreCommands[name]; !core {
			errs = append(errs, ValidationError{Severity: SeverityWarning, Command: name, Message: "Extension command detected"})
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Command < errs[j].Command })
	return errs
}
