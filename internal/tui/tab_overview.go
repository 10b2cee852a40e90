package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/tui/components"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	m := sum.Metrics

	breakevenNote := "never within horizon"
	breakevenColor := t.Loss
	if sum.Series.HasBreakeven {
		breakevenNote = fmt.Sprintf("of %d months", a.horizon)
		breakevenColor = t.Profit
	}

	cards := components.MetricCardRow([]components.Metric{
		{
			Label: "Monthly Net Benefit",
			Value: a.money.Format(m.MonthlyNetBenefit),
			Note:  "savings + inspection cost delta",
			Color: t.Gain(m.MonthlyNetBenefit),
		},
		{
			Label: "Break-even",
			Value: m.BreakevenLabel,
			Note:  breakevenNote,
			Color: breakevenColor,
		},
		{
			Label: fmt.Sprintf("ROI at %s", cli.FormatMonth(a.horizon)),
			Value: cli.FormatSignedPercent(m.FinalROIPercent),
			Color: t.Gain(m.FinalROIPercent),
		},
		{
			Label: "Net Savings",
			Value: a.money.Format(m.FinalNetSavings),
			Note:  fmt.Sprintf("after %d months", a.horizon),
			Color: t.Gain(m.FinalNetSavings),
		},
	}, cw)

	paramW := cw * 3 / 5
	sideW := cw - paramW

	paramsCard := components.ContentCard("Parameters", a.renderParamList(components.CardInnerWidth(paramW)), paramW)

	innerSide := components.CardInnerWidth(sideW)
	barW := max(innerSide-14, 8)
	var side strings.Builder
	side.WriteString(components.PaybackBar("Payback", m.PaybackProgress, 8, barW))
	side.WriteString("\n\n")
	side.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Cumulative savings"))
	side.WriteString("\n")
	side.WriteString(components.Sparkline(sum.Series.CumulativeSavings, t.Accent))
	sideCard := components.ContentCard("Payback", side.String(), sideW)

	return cards + "\n" + components.CardRow([]string{paramsCard, sideCard})
}

// renderParamList lists every parameter with its value and range, marking the
// selected one.
func (a App) renderParamList(width int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	rangeStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	labelW := 0
	for _, f := range a.fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}
	labelW = min(labelW, width/2)

	lines := make([]string, len(a.fields))
	for i, f := range a.fields {
		label := fmt.Sprintf("%-*s", labelW, truncStr(f.Label, labelW))
		value := a.formatField(f)
		rng := fmt.Sprintf("%s..%s", cli.FormatParam(f.Min, f.Step), cli.FormatParam(f.Max, f.Step))
		if i == a.cursor {
			lines[i] = selStyle.Render("▸ " + label + "  " + value)
		} else {
			lines[i] = labelStyle.Render("  "+label) + valueStyle.Render("  "+value)
		}
		lines[i] += rangeStyle.Render("  " + rng)
	}
	return strings.Join(lines, "\n")
}
