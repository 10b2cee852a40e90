package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/tui/components"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateScenariosTab handles list keys. handled is false for keys the
// calculator should process instead.
func (a App) updateScenariosTab(key string) (tea.Model, tea.Cmd, bool) {
	if a.store == nil || len(a.scen.list) == 0 {
		return a, nil, false
	}

	switch key {
	case "up", "k":
		if a.scen.cursor > 0 {
			a.scen.cursor--
		}
		return a, nil, true
	case "down", "j":
		if a.scen.cursor < len(a.scen.list)-1 {
			a.scen.cursor++
		}
		return a, nil, true
	case "enter":
		sc := a.scen.list[a.scen.cursor]
		a.params = sc.Params
		a.horizon = min(sc.HorizonOr(a.defaultHorizon), maxHorizon)
		a.name = sc.Name
		a.recompute()
		a.activeTab = tabOverview
		a.setFlash("loaded "+sc.Name, false)
		return a, nil, true
	case "d":
		return a, deleteScenarioCmd(a.store, a.scen.list[a.scen.cursor].Name), true
	}
	return a, nil, false
}

func (a App) renderScenariosTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.store == nil {
		return components.ContentCard("Saved Scenarios", muted.Render(errNoStore.Error()+"; press s after restarting without --no-store"), cw)
	}
	if a.scen.err != nil {
		warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		return components.ContentCard("Saved Scenarios", warn.Render(a.scen.err.Error()), cw)
	}
	if len(a.scen.list) == 0 {
		return components.ContentCard("Saved Scenarios", muted.Render("No saved scenarios yet. Press s to save the current parameters."), cw)
	}

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	nameW := max(components.CardInnerWidth(cw)-64, 12)
	format := fmt.Sprintf("  %%-%ds %%8s %%14s %%14s %%12s %%8s", nameW)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf(format, "Name", "Horizon", "Investment", "Net/Month", "Break-even", "ROI")))
	for i, sc := range a.scen.list {
		horizon := sc.HorizonOr(a.defaultHorizon)
		label, roi := "invalid", ""
		if sum, err := report.Build(sc.Params, horizon); err == nil {
			label = sum.Metrics.BreakevenLabel
			roi = cli.FormatPercent(sum.Metrics.FinalROIPercent)
		}
		line := fmt.Sprintf(format,
			truncStr(sc.Name, nameW),
			fmt.Sprintf("%dm", horizon),
			a.money.Format(sc.Params.InitialInvestment),
			a.money.Format(sc.Params.MonthlyNetBenefit()),
			label,
			roi,
		)
		b.WriteString("\n")
		if i == a.scen.cursor {
			b.WriteString(selStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(muted.Render("enter load · d delete · j/k move"))

	return components.ContentCard(fmt.Sprintf("Saved Scenarios (%d)", len(a.scen.list)), b.String(), cw)
}
