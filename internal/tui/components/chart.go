package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline scaled between the series minimum
// and maximum, so negative values render too.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// SignedBarChart renders one column per value above and below a zero axis.
// Gains use the theme's green and losses its red.
func SignedBarChart(values []float64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 4 {
		return Sparkline(values, t.Accent)
	}

	maxPos, maxNeg := 0.0, 0.0
	for _, v := range values {
		maxPos = math.Max(maxPos, v)
		maxNeg = math.Max(maxNeg, -v)
	}
	if maxPos == 0 && maxNeg == 0 {
		maxPos = 1
	}

	// one row is the zero axis; the rest is shared in proportion to extent
	plotRows := height - 1
	step := niceStep((maxPos + maxNeg) / float64(plotRows))
	for int(math.Ceil(maxPos/step))+int(math.Ceil(maxNeg/step)) > plotRows {
		step = niceStep(step * 1.01)
	}
	posRows := int(math.Ceil(maxPos / step))
	negRows := int(math.Ceil(maxNeg / step))

	topLabel := formatChartLabel(step * float64(posRows))
	bottomLabel := formatChartLabel(-step * float64(negRows))
	yLabelW := max(len(topLabel), len(bottomLabel), 2) + 1

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	values, labels = sampleColumns(values, labels, chartW)
	n := len(values)
	gap := 1
	barW := (chartW - (n - 1)) / n
	if barW < 1 {
		gap = 0
		barW = 1
	}
	if barW > 3 {
		barW = 3
	}
	axisLen := n*barW + max(0, n-1)*gap

	lower := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	gainStyle := lipgloss.NewStyle().Foreground(t.Profit).Background(t.Surface)
	lossStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	writeCell := func(i int, style lipgloss.Style, r rune) {
		if i > 0 && gap > 0 {
			b.WriteString(blank.Render(" "))
		}
		b.WriteString(style.Render(strings.Repeat(string(r), barW)))
	}

	for row := posRows; row >= 1; row-- {
		rowTop := step * float64(row)
		rowBottom := step * float64(row-1)
		label := ""
		if row == posRows {
			label = topLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			switch {
			case v >= rowTop:
				writeCell(i, gainStyle, '█')
			case v > rowBottom:
				idx := int((v - rowBottom) / step * 8)
				idx = max(1, min(idx, 8))
				writeCell(i, gainStyle, lower[idx])
			default:
				writeCell(i, blank, ' ')
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("┼"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	for row := 1; row <= negRows; row++ {
		rowTop := step * float64(row-1)
		rowBottom := step * float64(row)
		label := ""
		if row == negRows {
			label = bottomLabel
		}
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			depth := -v
			switch {
			case depth >= rowBottom:
				writeCell(i, lossStyle, '█')
			case depth > rowTop:
				if (depth-rowTop)/step >= 0.5 {
					writeCell(i, lossStyle, '▀')
				} else {
					writeCell(i, lossStyle, '▔')
				}
			default:
				writeCell(i, blank, ' ')
			}
		}
	}

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(labelStyle.Render(axisLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// sampleColumns thins values so that at least one column fits per cell.
func sampleColumns(values []float64, labels []string, chartW int) ([]float64, []string) {
	n := len(values)
	if n <= chartW || n < 2 {
		return values, labels
	}
	maxN := max(chartW, 2)
	sampled := make([]float64, maxN)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, maxN)
	}
	for i := range sampled {
		srcIdx := i * (n - 1) / (maxN - 1)
		sampled[i] = values[srcIdx]
		if sampledLabels != nil {
			sampledLabels[i] = labels[srcIdx]
		}
	}
	return sampled, sampledLabels
}

// axisLabels spaces labels under their columns, always keeping the last one.
func axisLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	lastPos := (n - 1) * (barW + gap)
	if lastPos+len(labels[n-1]) > axisLen {
		lastPos = max(0, axisLen-len(labels[n-1]))
	}

	minSpacing := 6
	labelStep := max(1, (n*minSpacing)/(axisLen+1))

	lastEnd := -1
	for i := 0; i < n-1; i += labelStep {
		pos := i * (barW + gap)
		end := pos + len(labels[i])
		if pos <= lastEnd || end >= lastPos {
			continue
		}
		copy(buf[pos:end], labels[i])
		lastEnd = end
	}
	end := min(lastPos+len(labels[n-1]), axisLen)
	copy(buf[lastPos:end], labels[n-1])
	return strings.TrimRight(string(buf), " ")
}

// niceStep rounds raw up to 1, 2, 2.5 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*base >= raw*(1-1e-9) {
			return m * base
		}
	}
	return 10 * base
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
