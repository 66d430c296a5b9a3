package components

import (
	"strings"

	"github.com/budgie-app/budgie/internal/resources"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs has one tab per resource grid.
var Tabs = tabsFor(resources.All)

func tabsFor(all []resources.Resource) []Tab {
	tabs := make([]Tab, len(all))
	for i, r := range all {
		tabs[i] = Tab{Name: r.Title, Key: r.Key}
	}
	return tabs
}

// TabVisualWidth returns the rendered width of a tab. RenderTabBar and
// mouse hit-testing must agree on it.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(string(tab.Key) + " " + tab.Name)
	}

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return nameStyle.Render(" ") + keyStyle.Render(string(tab.Key)) + nameStyle.Render(" "+tab.Name+" ")
}

// RenderTabBar renders the tab bar with the given active index, followed by
// a rule line.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	row := strings.Join(parts, sep)

	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(width)
	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", max(width, 0)))
	return rowStyle.Render(row) + "\n" + rule
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
