package tui

import (
	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/tui/components"
)

func (a App) renderChartTab(cw, h int) string {
	series := a.summary.Series
	labels := make([]string, series.Len())
	for i, m := range series.Months() {
		labels[i] = cli.FormatMonth(m)
	}

	// two cards, each with a border and title line
	chartH := max((h-6)/2, 4)
	inner := components.CardInnerWidth(cw)

	savings := components.ContentCard(
		"Cumulative Savings ("+a.money.Unit+") · "+a.summary.Metrics.BreakevenLabel,
		components.SignedBarChart(series.CumulativeSavings, labels, inner, chartH),
		cw,
	)
	roi := components.ContentCard(
		"ROI (%) · "+cli.FormatSignedPercent(a.summary.Metrics.FinalROIPercent)+" at "+cli.FormatMonth(series.Len()),
		components.SignedBarChart(series.ROIPercent, labels, inner, chartH),
		cw,
	)
	return savings + "\n" + roi
}
