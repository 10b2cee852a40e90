package components

import (
	"fmt"

	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPayback returns Loss, Warn, Caution or Profit as the payback share of the
// horizon grows. A smaller share means a faster payback.
func ColorForPayback(share float64) lipgloss.Color {
	t := theme.Active
	switch {
	case share >= 1:
		return t.Loss
	case share >= 0.66:
		return t.Warn
	case share >= 0.33:
		return t.Caution
	default:
		return t.Profit
	}
}

// PaybackBar renders a labeled bar showing how much of the horizon passes
// before break-even.
func PaybackBar(label string, share float64, labelW, barWidth int) string {
	t := theme.Active

	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	color := ColorForPayback(share)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(share) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", share*100))
}
