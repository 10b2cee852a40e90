package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/meshroi/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{80, 3}, {100, 4}, {7, 7}, {121, 5}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("ledger")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	tallLines := len(strings.Split(tallCard, "\n"))
	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Fatalf("joined height = %d, want %d", got, tallLines)
	}
	if got := lipgloss.Width(joined); got != 44 {
		t.Fatalf("joined width = %d, want 44", got)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Break-even", Value: "Month 2"},
		{Label: "ROI", Value: "1,452%", Color: theme.Active.Profit},
		{Label: "Net", Value: "₹596.00 L", Note: "after 36 months"},
	}, 90)
	if got := lipgloss.Width(row); got != 90 {
		t.Fatalf("row width = %d, want 90", got)
	}
	if !strings.Contains(row, "Month 2") || !strings.Contains(row, "after 36 months") {
		t.Fatal("metric values missing from row")
	}
}

func TestSignedBarChartHasBothSides(t *testing.T) {
	values := []float64{-10, -5, 0, 5, 10, 15}
	labels := []string{"M01", "M02", "M03", "M04", "M05", "M06"}
	out := SignedBarChart(values, labels, 60, 10)

	lines := strings.Split(out, "\n")
	if len(lines) > 11 {
		t.Fatalf("chart has %d lines, want at most 11", len(lines))
	}
	zero := -1
	for i, l := range lines {
		if strings.Contains(l, "┼") {
			zero = i
		}
	}
	if zero <= 0 || zero >= len(lines)-2 {
		t.Fatalf("zero axis at line %d of %d", zero, len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "M01") || !strings.Contains(lines[len(lines)-1], "M06") {
		t.Fatalf("axis labels = %q", lines[len(lines)-1])
	}
	for _, l := range lines {
		if w := lipgloss.Width(l); w > 60 {
			t.Fatalf("line width %d exceeds 60: %q", w, l)
		}
	}
}

func TestSignedBarChartAllNegative(t *testing.T) {
	out := SignedBarChart([]float64{-10, -10, -10}, nil, 40, 6)
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "┼") {
		t.Fatalf("all-negative chart should start at the zero axis, got %q", lines[0])
	}
}

func TestSignedBarChartFallsBackToSparkline(t *testing.T) {
	out := SignedBarChart([]float64{1, 2, 3}, nil, 10, 2)
	if strings.Contains(out, "\n") {
		t.Fatal("small chart should render as a one-line sparkline")
	}
}

func TestNiceStep(t *testing.T) {
	tests := []struct{ raw, want float64 }{
		{0.7, 1}, {1, 1}, {1.2, 2}, {2.2, 2.5}, {3, 5}, {7, 10}, {40, 50}, {0, 1},
	}
	for _, tt := range tests {
		if got := niceStep(tt.raw); got != tt.want {
			t.Fatalf("niceStep(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{0: "0", 25: "25", -25: "-25", 2.5: "2.5", 1500: "1.5k", 3000: "3k"}
	for v, want := range tests {
		if got := formatChartLabel(v); got != want {
			t.Fatalf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('1') != 0 || TabIdxByKey('4') != 3 || TabIdxByKey('9') != -1 {
		t.Fatal("unexpected tab index mapping")
	}
}
