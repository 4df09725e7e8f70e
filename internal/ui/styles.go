// Package ui renders gamekit's terminal output: styled status lines, aligned
// tables and the keep/replace prompt used while updating commands.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme styles output. A plain theme writes text unchanged.
type Theme struct {
	Plain bool

	title   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
}

// NewTheme builds the default palette; plain disables styling.
func NewTheme(plain bool) *Theme {
	return &Theme{
		Plain:   plain,
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

func (t *Theme) render(s lipgloss.Style, text string) string {
	if t.Plain {
		return text
	}
	return s.Render(text)
}

func (t *Theme) Title(s string) string   { return t.render(t.title, s) }
func (t *Theme) Success(s string) string { return t.render(t.success, s) }
func (t *Theme) Warn(s string) string    { return t.render(t.warn, s) }
func (t *Theme) Fail(s string) string    { return t.render(t.fail, s) }
func (t *Theme) Muted(s string) string   { return t.render(t.muted, s) }
func (t *Theme) Accent(s string) string  { return t.render(t.accent, s) }

// Printer writes themed lines to Out.
type Printer struct {
	Out   io.Writer
	Theme *Theme
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, plain bool) *Printer {
	return &Printer{Out: out, Theme: NewTheme(plain)}
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.Out, s)
}

// Heading prints a blank line and a title.
func (p *Printer) Heading(format string, args ...any) {
	p.line("")
	p.line(p.Theme.Title(fmt.Sprintf(format, args...)))
}

// OK prints a check-marked success line.
func (p *Printer) OK(format string, args ...any) {
	p.line(p.Theme.Success("✓ " + fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.Theme.Warn("! " + fmt.Sprintf(format, args...)))
}

// Failf prints a failure line.
func (p *Printer) Failf(format string, args ...any) {
	p.line(p.Theme.Fail("✗ " + fmt.Sprintf(format, args...)))
}

// Note prints a dimmed, indented line.
func (p *Printer) Note(format string, args ...any) {
	p.line(p.Theme.Muted("  " + fmt.Sprintf(format, args...)))
}

// Steps prints a numbered list under a heading.
func (p *Printer) Steps(title string, steps ...string) {
	p.line(p.Theme.Title(title))
	for i, s := range steps {
		p.line(p.Theme.Muted(fmt.Sprintf("  %d. %s", i+1, s)))
	}
	p.line("")
}
