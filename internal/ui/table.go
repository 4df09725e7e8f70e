package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/gamekit/pkg/templatesync"
)

// Table aligns columns by display width so wide filenames line up.
type Table struct {
	Header []string
	Rows   [][]string
}

// Add appends a row.
func (t *Table) Add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	var w []int
	grow := func(row []string) {
		for i, c := range row {
			if i >= len(w) {
				w = append(w, 0)
			}
			if n := runewidth.StringWidth(c); n > w[i] {
				w[i] = n
			}
		}
	}
	grow(t.Header)
	for _, r := range t.Rows {
		grow(r)
	}
	return w
}

// Render writes the table with two-space gutters and no trailing padding.
func (t *Table) Render(out io.Writer) error {
	w := t.widths()
	write := func(row []string) error {
		cells := make([]string, len(row))
		for i, c := range row {
			if i == len(row)-1 {
				cells[i] = c
				continue
			}
			cells[i] = runewidth.FillRight(c, w[i])
		}
		_, err := fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
		return err
	}
	if len(t.Header) > 0 {
		if err := write(t.Header); err != nil {
			return err
		}
		rule := make([]string, len(t.Header))
		for i := range t.Header {
			rule[i] = strings.Repeat("-", w[i])
		}
		if err := write(rule); err != nil {
			return err
		}
	}
	for _, r := range t.Rows {
		if err := write(r); err != nil {
			return err
		}
	}
	return nil
}

// ChangeLabel names what update-commands will do with a change.
func ChangeLabel(c templatesync.FileChange) string {
	switch {
	case c.Status == templatesync.StatusNew:
		return "add"
	case c.Stale():
		return "update"
	case c.UpToDate():
		return "current"
	default:
		return "modified"
	}
}

// ChangesTable lists changes as ACTION/FILE rows.
func ChangesTable(changes []templatesync.FileChange) *Table {
	t := &Table{Header: []string{"ACTION", "FILE"}}
	for _, c := range changes {
		t.Add(ChangeLabel(c), c.File)
	}
	return t
}
