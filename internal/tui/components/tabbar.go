package components

import (
	"strings"

	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: '1'},
	{Name: "Chart", Key: '2'},
	{Name: "Breakdown", Key: '3'},
	{Name: "Scenarios", Key: '4'},
}

func tabLabel(tab Tab) string {
	return "[" + string(tab.Key) + "] " + tab.Name
}

// TabVisualWidth returns the rendered width of a tab label.
func TabVisualWidth(tab Tab) int {
	return lipgloss.Width(tabLabel(tab)) + 2
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tabLabel(tab)))
		} else {
			parts = append(parts, inactiveStyle.Render(tabLabel(tab)))
		}
	}

	row := strings.Join(parts, sepStyle.Render("│"))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
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
