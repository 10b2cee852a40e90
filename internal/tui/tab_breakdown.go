package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/tui/components"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	leftW := cw / 2
	rightW := cw - leftW

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	// Cost breakdown
	innerL := components.CardInnerWidth(leftW)
	amountW := 16
	catW := max(innerL-amountW-1, 10)
	var cost strings.Builder
	cost.WriteString(headStyle.Render(fmt.Sprintf("%-*s %*s", catW, "Category", amountW, "Amount")))
	for _, row := range a.summary.Breakdown {
		amt := lipgloss.NewStyle().Foreground(t.Gain(row.Amount)).Background(t.Surface).
			Render(fmt.Sprintf("%*s", amountW, a.money.Format(row.Amount)))
		cost.WriteString("\n")
		cost.WriteString(labelStyle.Render(fmt.Sprintf("%-*s ", catW, truncStr(row.Category, catW))))
		cost.WriteString(amt)
	}
	costCard := components.ContentCard("Cost Breakdown", cost.String(), leftW)

	// Month table
	every := a.cfg.General.TableEvery
	if every < 1 {
		every = 3
	}
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var months strings.Builder
	months.WriteString(headStyle.Render(fmt.Sprintf("%-6s %16s %10s", "Month", "Cumulative", "ROI")))
	series := a.summary.Series
	for _, m := range series.Months() {
		if m%every != 0 && m != series.BreakevenMonth && m != series.Len() {
			continue
		}
		v, _ := series.Month(m)
		line := fmt.Sprintf("%-6s %16s %10s", cli.FormatMonth(m), a.money.Format(v.CumulativeSavings), cli.FormatPercent(v.ROIPercent))
		months.WriteString("\n")
		if series.HasBreakeven && m == series.BreakevenMonth {
			months.WriteString(lipgloss.NewStyle().Foreground(t.Profit).Background(t.Surface).Bold(true).Render(line + " ◂ break-even"))
		} else {
			months.WriteString(valueStyle.Render(line))
		}
	}
	monthCard := components.ContentCard(fmt.Sprintf("Projection (every %d months)", every), months.String(), rightW)

	return components.CardRow([]string{costCard, monthCard})
}
