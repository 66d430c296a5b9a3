package tui

import (
	"fmt"
	"strings"

	"github.com/budgie-app/budgie/internal/cli"
	"github.com/budgie-app/budgie/internal/tui/components"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	browseHints = "? help · a add · e edit · d delete · / filter · s sort · n/p page · q quit"
	// tab bar (2) + query line (1) + status bar (1)
	chromeHeight = 4
	budgetCardH  = 6
)

// resizeTables fits every table to the content zone.
func (a *App) resizeTables() {
	for _, gv := range a.grids {
		gv.table.SetWidth(a.width)
		gv.table.SetHeight(a.tableHeight(gv))
	}
}

func (a App) tableHeight(gv *gridView) int {
	h := a.height - chromeHeight
	if isBudgets(gv.res) {
		h -= budgetCardH
	}
	return max(h, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgie needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1-6", "Jump to grid"},
			{"← →", "Previous / Next grid"},
			{"j k", "Move selection"},
			{"n p", "Next / Previous page"},
			{"+ -", "Page size"},
		}},
		{"Query", []struct{ key, desc string }{
			{"s", "Sort by next column"},
			{"S", "Flip sort direction"},
			{"x", "Clear sort"},
			{"/", "Add filter"},
			{"F", "Clear filters"},
		}},
		{"Rows", []struct{ key, desc string }{
			{"a", "Add row"},
			{"e Enter", "Edit row"},
			{"d", "Delete row"},
			{"r", "Reload"},
			{"c", "Dismiss message"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	h := a.height
	gv := a.current()

	queryStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Width(w)
	header := components.RenderTabBar(a.active, w) + "\n" +
		queryStyle.Render(" "+cli.Truncate(gv.queryLine(), w-2))

	status := components.StatusInfo{
		PageInfo: cli.FormatPageInfo(gv.engine.Query().Pagination.Page, gv.engine.PageCount(), gv.engine.Count()),
		Hints:    browseHints,
	}
	if alert, ok := a.hub.Alerts.Current(); ok {
		status.Alert = &alert
	}
	if gv.engine.Loading() {
		status.Loading = a.spinner.View()
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.mode {
	case modeForm:
		content = a.form.form.View()
	case modeFilter:
		content = a.viewFilterInput()
	default:
		content = gv.table.View()
		if isBudgets(gv.res) {
			if card := gv.budgetDetail(w); card != "" {
				content += "\n" + card
			}
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, w, t.Background)

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewFilterInput() string {
	t := theme.Active
	gv := a.current()

	labelStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	fields := make([]string, len(gv.res.Columns))
	for i, c := range gv.res.Columns {
		fields[i] = c.Field
	}

	var b strings.Builder
	b.WriteString(gv.table.View())
	b.WriteString("\n\n ")
	b.WriteString(labelStyle.Render("Filter "))
	b.WriteString(a.filterIn.View())
	b.WriteString("\n ")
	b.WriteString(dimStyle.Render("fields: " + strings.Join(fields, ", ")))
	b.WriteString("\n ")
	b.WriteString(dimStyle.Render("enter apply · esc cancel"))
	return b.String()
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
