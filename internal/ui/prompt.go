package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fulmenhq/gamekit/pkg/templatesync"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted by user")

var choices = []templatesync.Decision{templatesync.Keep, templatesync.Replace}

type choiceModel struct {
	file     string
	theme    *Theme
	cursor   int
	chosen   bool
	aborted  bool
	decision templatesync.Decision
}

func newChoiceModel(file string, theme *Theme) choiceModel {
	return choiceModel{file: file, theme: theme}
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	case "up", "left", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "right", "tab":
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case "k":
		m.decision, m.chosen = templatesync.Keep, true
		return m, tea.Quit
	case "r":
		m.decision, m.chosen = templatesync.Replace, true
		return m, tea.Quit
	case "enter":
		m.decision, m.chosen = choices[m.cursor], true
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.chosen || m.aborted {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s has local changes.\n", m.theme.Accent(m.file))
	labels := map[templatesync.Decision]string{
		templatesync.Keep:    "Keep my version",
		templatesync.Replace: "Replace with the new version",
	}
	for i, c := range choices {
		cursor := "  "
		label := labels[c]
		if i == m.cursor {
			cursor = "> "
			label = m.theme.Title(label)
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, label)
	}
	b.WriteString(m.theme.Muted("(k keep, r replace, enter select, esc abort)") + "\n")
	return b.String()
}

// PromptResolver asks about each modified file with an interactive chooser.
type PromptResolver struct {
	In    io.Reader
	Out   io.Writer
	Theme *Theme
}

func (p *PromptResolver) Resolve(ctx context.Context, change templatesync.FileChange) (templatesync.Decision, error) {
	theme := p.Theme
	if theme == nil {
		theme = NewTheme(false)
	}
	prog := tea.NewProgram(newChoiceModel(change.File, theme),
		tea.WithInput(p.In), tea.WithOutput(p.Out), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return templatesync.Keep, ctx.Err()
		}
		return templatesync.Keep, fmt.Errorf("prompt for %s: %w", change.File, err)
	}
	m := final.(choiceModel)
	if m.aborted || !m.chosen {
		return templatesync.Keep, ErrAborted
	}
	return m.decision, nil
}

// LineResolver reads "k"/"r" answers line by line. It serves pipes and
// terminals without cursor support; end of input aborts.
type LineResolver struct {
	Out     io.Writer
	scanner *bufio.Scanner
}

// NewLineResolver reads answers from in and writes questions to out.
func NewLineResolver(in io.Reader, out io.Writer) *LineResolver {
	return &LineResolver{Out: out, scanner: bufio.NewScanner(in)}
}

func (l *LineResolver) Resolve(ctx context.Context, change templatesync.FileChange) (templatesync.Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return templatesync.Keep, err
		}
		_, _ = fmt.Fprintf(l.Out, "%s has local changes. Keep or replace? [k/r]: ", change.File)
		if !l.scanner.Scan() {
			_, _ = fmt.Fprintln(l.Out)
			if err := l.scanner.Err(); err != nil {
				return templatesync.Keep, err
			}
			return templatesync.Keep, ErrAborted
		}
		switch strings.ToLower(strings.TrimSpace(l.scanner.Text())) {
		case "k", "keep":
			return templatesync.Keep, nil
		case "r", "replace":
			return templatesync.Replace, nil
		}
	}
}
