package components

import (
	"fmt"

	"github.com/budgie-app/budgie/internal/model"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForLevel returns green/yellow/orange/red for a budget level.
func ColorForLevel(l model.BudgetLevel) string {
	t := theme.Active
	switch l {
	case model.BudgetOver:
		return string(t.Red)
	case model.BudgetHigh:
		return string(t.Orange)
	case model.BudgetWarn:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// BudgetBar renders a labeled budget utilisation bar with the spent
// percentage. The bar is clamped at full; the percentage is not.
func BudgetBar(label string, stats model.BudgetStats, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForLevel(stats.Level)

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	pct := 0.0
	if stats.Planned > 0 {
		pct = stats.Spent / stats.Planned
	}

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(stats.Progress) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// MiniBar renders an unstyled block bar for use inside table cells.
func MiniBar(ratio float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(ratio*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	out := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		if i < filled {
			out = append(out, '█')
		} else {
			out = append(out, '░')
		}
	}
	return string(out)
}
