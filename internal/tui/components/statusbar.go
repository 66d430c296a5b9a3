package components

import (
	"strings"

	"github.com/budgie-app/budgie/internal/notify"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar shows.
type StatusInfo struct {
	Alert    *notify.Alert // nil when no alert is active
	PageInfo string
	Loading  string // spinner frame while a fetch is in flight
	Hints    string
}

// RenderStatusBar renders the bottom status bar. An active alert replaces
// the key hints. Multi-line alerts are joined so the bar stays one line.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " " + info.Hints
	leftStyle := style
	if info.Alert != nil {
		msg := strings.ReplaceAll(info.Alert.Message, "\n", " · ")
		switch info.Alert.Kind {
		case notify.KindError:
			left = " ✗ " + msg
			leftStyle = style.Foreground(t.Red).Bold(true)
		default:
			left = " ✓ " + msg
			leftStyle = style.Foreground(t.Green).Bold(true)
		}
	}

	right := info.PageInfo + " "
	if info.Loading != "" {
		right = info.Loading + " " + right
	}

	avail := width - lipgloss.Width(right)
	if lipgloss.Width(left) > avail {
		left = truncateRunes(left, avail)
	}
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return leftStyle.Render(left) + style.Render(strings.Repeat(" ", padding)+right)
}

func truncateRunes(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}
