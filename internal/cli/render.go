package cli

import (
	"fmt"
	"strings"

	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	successStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	Widths     []int  // optional column widths, auto-calculated if nil
	RightAlign []bool // per column; left-aligned when unset
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderSuccess renders a success alert line.
func RenderSuccess(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// RenderError renders an error alert. Multi-line messages keep one line per
// field.
func RenderError(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// ResourceTable builds a table of rows using the display rules of cols.
// Number columns are right-aligned.
func ResourceTable(title string, cols grid.Columns, rows []model.Row) Table {
	t := Table{Title: title}
	t.Headers = append(t.Headers, "ID")
	t.RightAlign = append(t.RightAlign, true)
	for _, c := range cols {
		t.Headers = append(t.Headers, c.Label)
		t.RightAlign = append(t.RightAlign, c.Type == grid.TypeNumber)
	}
	for _, r := range rows {
		line := []string{r.ID()}
		for _, c := range cols {
			cell := FormatCell(c, r)
			if c.Width > 0 {
				cell = Truncate(cell, c.Width)
			}
			line = append(line, cell)
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], t.rightAligned(i))))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], t.rightAligned(i))))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

func (t Table) rightAligned(i int) bool {
	return i < len(t.RightAlign) && t.RightAlign[i]
}

// pad fits s into a cell of width w plus one space of padding per side.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + s + " "
	}
	return " " + s + strings.Repeat(" ", gap) + " "
}

// ColorForLevel maps a budget level to its display color.
func ColorForLevel(l model.BudgetLevel) lipgloss.Color {
	switch l {
	case model.BudgetOver:
		return ColorRed
	case model.BudgetHigh:
		return ColorOrange
	case model.BudgetWarn:
		return ColorYellow
	default:
		return ColorGreen
	}
}

// RenderBudgetBar renders a text progress bar for a budget, colored by its
// level, followed by the spent percentage.
func RenderBudgetBar(stats model.BudgetStats, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(stats.Progress * float64(width))
	filled = min(max(filled, 0), width)

	bar := lipgloss.NewStyle().Foreground(ColorForLevel(stats.Level)).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))

	pct := 0.0
	if stats.Planned > 0 {
		pct = stats.Spent / stats.Planned
	}
	return fmt.Sprintf("[%s] %s", bar, FormatPercent(pct))
}
