package tui

import (
	"fmt"
	"strings"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"

	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formEdit formKind = iota
	formDelete
)

// rowForm is an add/edit form over the editable columns of a grid, or a
// delete confirmation.
type rowForm struct {
	kind    formKind
	form    *huh.Form
	grid    int
	row     model.Row
	columns grid.Columns

	text    map[string]*string
	flags   map[string]*bool
	confirm *bool
}

func newEditForm(gridIdx int, cols grid.Columns, row model.Row) *rowForm {
	rf := &rowForm{
		kind:    formEdit,
		grid:    gridIdx,
		row:     row,
		columns: cols.Editable(),
		text:    make(map[string]*string),
		flags:   make(map[string]*bool),
	}

	var fields []huh.Field
	for _, c := range rf.columns {
		switch c.Type {
		case grid.TypeBoolean:
			b, _ := row[c.Field].(bool)
			rf.flags[c.Field] = &b
			fields = append(fields, huh.NewConfirm().
				Title(c.Label).
				Affirmative("Yes").
				Negative("No").
				Value(rf.flags[c.Field]))

		case grid.TypeSingleSelect:
			s := row.String(c.Field)
			rf.text[c.Field] = &s
			var opts []huh.Option[string]
			if !c.Required {
				opts = append(opts, huh.NewOption("(none)", ""))
			}
			for _, o := range c.Options {
				opts = append(opts, huh.NewOption(o.Label, o.Value))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(c.Label).
				Options(opts...).
				Value(rf.text[c.Field]))

		default:
			s := row.String(c.Field)
			rf.text[c.Field] = &s
			col := c
			fields = append(fields, huh.NewInput().
				Title(c.Label).
				Placeholder(placeholder(c)).
				Value(rf.text[c.Field]).
				Validate(func(v string) error {
					_, err := grid.ParseValue(col, v)
					return err
				}))
		}
	}

	title := "Edit row " + row.ID()
	if row.IsNew() {
		title = "New row"
	}
	fields = append([]huh.Field{huh.NewNote().Title(title)}, fields...)
	rf.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true)
	return rf
}

func newDeleteForm(gridIdx int, row model.Row, label string) *rowForm {
	confirmed := false
	rf := &rowForm{kind: formDelete, grid: gridIdx, row: row, confirm: &confirmed}
	rf.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s?", label)).
			Affirmative("Delete").
			Negative("Keep").
			Value(rf.confirm),
	))
	return rf
}

func placeholder(c grid.Column) string {
	hint := ""
	switch c.Type {
	case grid.TypeNumber:
		hint = "0.00"
	case grid.TypeDate:
		hint = "YYYY-MM-DD"
	}
	if !c.Required {
		if hint == "" {
			return "optional"
		}
		hint += " (optional)"
	}
	return hint
}

// result returns the row with the form values applied. Inputs already
// passed validation; a value that still fails to parse is left unchanged.
func (rf *rowForm) result() model.Row {
	out := rf.row.Clone()
	for _, c := range rf.columns {
		if b, ok := rf.flags[c.Field]; ok {
			out[c.Field] = *b
			continue
		}
		s, ok := rf.text[c.Field]
		if !ok {
			continue
		}
		v, err := grid.ParseValue(c, strings.TrimSpace(*s))
		if err != nil {
			continue
		}
		out[c.Field] = v
	}
	return out
}

// confirmed reports whether a delete form was accepted.
func (rf *rowForm) confirmed() bool {
	return rf.confirm != nil && *rf.confirm
}
