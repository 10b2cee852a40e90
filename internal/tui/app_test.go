package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/scenario"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeStore struct {
	saved   []scenario.Scenario
	deleted []string
	list    []scenario.Scenario
	saveErr error
}

func (f *fakeStore) ListScenarios() ([]scenario.Scenario, error) { return f.list, nil }

func (f *fakeStore) SaveScenario(sc scenario.Scenario) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, sc)
	f.list = append(f.list, sc)
	return nil
}

func (f *fakeStore) DeleteScenario(name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func newTestApp(st ScenarioStore) App {
	opts := Options{Config: config.DefaultConfig()}
	if st != nil {
		opts.Store = st
	}
	return NewApp(opts)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, msgs ...tea.Msg) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var m tea.Model
		m, cmd = a.Update(msg)
		var ok bool
		a, ok = m.(App)
		if !ok {
			t.Fatalf("Update returned %T, want App", m)
		}
	}
	return a, cmd
}

func TestNewAppComputesDefaults(t *testing.T) {
	a := newTestApp(nil)
	sum := a.Summary()
	if sum.Series.Len() != 36 {
		t.Fatalf("series length = %d, want 36", sum.Series.Len())
	}
	if sum.Metrics.BreakevenLabel != "Month 2" {
		t.Fatalf("break-even = %q, want Month 2", sum.Metrics.BreakevenLabel)
	}
}

func TestNudgeRecomputes(t *testing.T) {
	a := newTestApp(nil)
	before := a.Summary().Metrics.MonthlyNetBenefit

	// cursor starts on initial investment
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyRight})
	if got := a.params.InitialInvestment; got != 26 {
		t.Fatalf("investment = %v, want 26", got)
	}
	if got := a.Summary().Input.InitialInvestment; got != 26 {
		t.Fatalf("summary investment = %v, want 26", got)
	}

	// monthly savings, two steps down
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyDown}, runes("h"), runes("h"))
	if got := a.params.MonthlySavings; got != 2 {
		t.Fatalf("monthly savings = %v, want 2", got)
	}
	if got := a.Summary().Metrics.MonthlyNetBenefit; got != before-1 {
		t.Fatalf("net benefit = %v, want %v", got, before-1)
	}
}

func TestNudgeClampsAtRange(t *testing.T) {
	a := newTestApp(nil)
	for i := 0; i < 200; i++ {
		a, _ = press(t, a, runes("l"))
	}
	if got := a.params.InitialInvestment; got != 100 {
		t.Fatalf("investment = %v, want max 100", got)
	}
}

func TestHorizonKeys(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, runes("]"), runes("]"))
	if a.Summary().Series.Len() != 38 {
		t.Fatalf("series length = %d, want 38", a.Summary().Series.Len())
	}
	for i := 0; i < 50; i++ {
		a, _ = press(t, a, runes("["))
	}
	if a.horizon != 1 || a.Summary().Series.Len() != 1 {
		t.Fatalf("horizon = %d, want floor of 1", a.horizon)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, runes("l"), runes("l"), runes("]"), runes("r"))
	if a.params != costmodel.Defaults() {
		t.Fatalf("params after reset = %+v", a.params)
	}
	if a.horizon != 36 {
		t.Fatalf("horizon after reset = %d", a.horizon)
	}
}

func TestTabSwitching(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeTab != tabChart {
		t.Fatalf("tab after Tab = %d", a.activeTab)
	}
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if a.activeTab != tabScenarios {
		t.Fatalf("tab after two shift+tab = %d", a.activeTab)
	}
	a, _ = press(t, a, runes("3"))
	if a.activeTab != tabBreakdown {
		t.Fatalf("tab after 3 = %d", a.activeTab)
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, tea.MouseMsg{X: 16, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if a.activeTab != tabChart {
		t.Fatalf("tab after click = %d, want chart", a.activeTab)
	}
	if got := a.tabAtX(500); got != -1 {
		t.Fatalf("tabAtX(500) = %d, want -1", got)
	}
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, runes("?"))
	if !a.showHelp {
		t.Fatal("help not shown")
	}
	a, _ = press(t, a, runes("l"))
	if a.showHelp || a.params.InitialInvestment != 25 {
		t.Fatal("key while help is open should only dismiss help")
	}
}

func TestSaveWithoutStoreWarns(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, runes("s"))
	if a.saving || !a.flashWarn {
		t.Fatalf("saving = %v, flash = %q", a.saving, a.flash)
	}
}

func TestSaveFlow(t *testing.T) {
	st := &fakeStore{}
	a := newTestApp(st)
	a, _ = press(t, a, runes("l"), runes("s"))
	if !a.saving {
		t.Fatal("save prompt not opened")
	}

	a, cmd := press(t, a, runes("p"), runes("i"), runes("l"), runes("o"), runes("t"), tea.KeyMsg{Type: tea.KeyEnter})
	if a.saving {
		t.Fatal("save prompt still open after enter")
	}
	if cmd == nil {
		t.Fatal("enter did not return a save command")
	}
	a, _ = press(t, a, cmd())

	if len(st.saved) != 1 || st.saved[0].Name != "pilot" {
		t.Fatalf("saved = %+v", st.saved)
	}
	if st.saved[0].Params.InitialInvestment != 26 || st.saved[0].Horizon != 36 {
		t.Fatalf("saved params = %+v", st.saved[0])
	}
	if a.name != "pilot" || a.flashWarn {
		t.Fatalf("name = %q, flash = %q", a.name, a.flash)
	}
}

func TestSaveFailureFlashes(t *testing.T) {
	st := &fakeStore{saveErr: errors.New("disk full")}
	a := newTestApp(st)
	a, cmd := press(t, a, runes("s"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	a, _ = press(t, a, cmd())
	if !a.flashWarn || !strings.Contains(a.flash, "disk full") {
		t.Fatalf("flash = %q", a.flash)
	}
}

func TestScenariosTabLoadsSelection(t *testing.T) {
	slow := scenario.New("slow")
	slow.Horizon = 24
	slow.Params.ManualCostPerUnit = 50
	slow.Params.AICostPerUnit = 50

	st := &fakeStore{list: []scenario.Scenario{scenario.New("base"), slow}}
	a := newTestApp(st)
	a, _ = press(t, a, scenariosLoadedMsg{list: st.list}, runes("4"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	if a.name != "slow" || a.activeTab != tabOverview {
		t.Fatalf("name = %q, tab = %d", a.name, a.activeTab)
	}
	sum := a.Summary()
	if sum.Series.Len() != 24 || sum.Series.BreakevenMonth != 17 {
		t.Fatalf("len = %d, break-even = %d, want 24/17", sum.Series.Len(), sum.Series.BreakevenMonth)
	}

	_, cmd := press(t, a, runes("4"), runes("d"))
	if cmd == nil {
		t.Fatal("d did not return a delete command")
	}
	cmd()
	if len(st.deleted) != 1 || st.deleted[0] != "slow" {
		t.Fatalf("deleted = %v", st.deleted)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(&fakeStore{})
	a, _ = press(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})

	wants := []string{"Monthly Net Benefit", "Cumulative Savings", "Cost Breakdown", "No saved scenarios"}
	for i, want := range wants {
		a.activeTab = i
		view := a.View()
		if !strings.Contains(view, want) {
			t.Fatalf("tab %d view missing %q", i, want)
		}
		if lines := strings.Count(view, "\n") + 1; lines > 40 {
			t.Fatalf("tab %d renders %d lines for a 40-line terminal", i, lines)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(nil)
	a, _ = press(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("narrow terminal message missing")
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	vals.Horizon = "48"
	vals.Currency = "$"
	vals.Unit = "k"
	vals.Theme = "blueprint"
	if err := vals.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.HorizonMonths != 48 || cfg.General.Currency != "$" || cfg.Appearance.Theme != "blueprint" {
		t.Fatalf("cfg = %+v", cfg)
	}

	vals.Horizon = "0"
	if err := vals.Apply(&cfg); err == nil {
		t.Fatal("Apply accepted horizon 0")
	}
}
