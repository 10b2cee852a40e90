// Package tui provides the interactive Bubble Tea calculator.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"
	"github.com/theirongolddev/meshroi/internal/tui/components"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabOverview = iota
	tabChart
	tabBreakdown
	tabScenarios
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	maxHorizon = 120
)

// ScenarioStore is the part of the scenario database the calculator uses.
type ScenarioStore interface {
	ListScenarios() ([]scenario.Scenario, error)
	SaveScenario(sc scenario.Scenario) error
	DeleteScenario(name string) error
}

// Options configures a new App.
type Options struct {
	Config    config.Config
	Params    costmodel.Params
	Horizon   int
	Name      string
	Store     ScenarioStore // nil disables saving and the scenarios list
	NeedSetup bool
}

// scenariosLoadedMsg carries the saved scenarios read from the store.
type scenariosLoadedMsg struct {
	list []scenario.Scenario
	err  error
}

// scenarioSavedMsg reports the outcome of a save or delete.
type scenarioSavedMsg struct {
	name    string
	deleted bool
	err     error
}

type scenariosState struct {
	list   []scenario.Scenario
	cursor int
	err    error
}

// App is the root Bubble Tea model.
type App struct {
	cfg   config.Config
	money cli.Money
	store ScenarioStore

	// Inputs
	params         costmodel.Params
	defaults       costmodel.Params
	horizon        int
	defaultHorizon int
	name           string
	fields         []costmodel.Field
	cursor         int

	// Derived
	summary report.Summary
	err     error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	flashWarn bool

	// Save prompt
	saving    bool
	nameInput textinput.Model

	scen scenariosState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = opts.Config.General.HorizonMonths
	}
	if horizon <= 0 {
		horizon = projection.DefaultHorizonMonths
	}
	params := opts.Params
	if params == (costmodel.Params{}) {
		params = opts.Config.Defaults
	}

	a := App{
		cfg:            opts.Config,
		money:          cli.Money{Currency: opts.Config.General.Currency, Unit: opts.Config.General.Unit},
		store:          opts.Store,
		params:         params,
		defaults:       params,
		horizon:        min(horizon, maxHorizon),
		defaultHorizon: min(horizon, maxHorizon),
		name:           opts.Name,
		fields:         costmodel.Fields(),
		needSetup:      opts.NeedSetup,
	}
	if a.needSetup {
		a.setupVals = SetupValuesFrom(opts.Config)
		a.setupForm = NewSetupForm(&a.setupVals)
	}
	a.recompute()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.store != nil {
		cmds = append(cmds, loadScenariosCmd(a.store))
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Summary returns the projection currently on screen.
func (a App) Summary() report.Summary {
	return a.summary
}

func (a *App) recompute() {
	sum, err := report.Build(a.params, a.horizon)
	a.err = err
	if err == nil {
		sum.Name = a.name
		a.summary = sum
	}
}

func (a *App) setFlash(msg string, warn bool) {
	a.flash = msg
	a.flashWarn = warn
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil || a.saving {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case scenariosLoadedMsg:
		a.scen.list = msg.list
		a.scen.err = msg.err
		if a.scen.cursor >= len(a.scen.list) {
			a.scen.cursor = max(0, len(a.scen.list)-1)
		}
		return a, nil

	case scenarioSavedMsg:
		switch {
		case msg.err != nil:
			a.setFlash("save failed: "+msg.err.Error(), true)
		case msg.deleted:
			a.setFlash("deleted "+msg.name, false)
		default:
			a.name = msg.name
			a.summary.Name = msg.name
			a.setFlash("saved "+msg.name, false)
		}
		return a, loadScenariosCmd(a.store)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.saving {
			return a.updateSaveInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.flash = ""

		switch key {
		case "q":
			return a, tea.Quit
		case "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		}
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}

		if a.activeTab == tabScenarios {
			if model, cmd, handled := a.updateScenariosTab(key); handled {
				return model, cmd
			}
		}

		return a.updateCalculator(key)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.saving {
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

// updateCalculator handles the parameter keys shared by every tab.
func (a App) updateCalculator(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.fields)-1 {
			a.cursor++
		}
	case "left", "h":
		a.fields[a.cursor].Nudge(&a.params, -1)
		a.recompute()
	case "right", "l":
		a.fields[a.cursor].Nudge(&a.params, 1)
		a.recompute()
	case "[":
		if a.horizon > 1 {
			a.horizon--
			a.recompute()
		}
	case "]":
		if a.horizon < maxHorizon {
			a.horizon++
			a.recompute()
		}
	case "r":
		a.params = a.defaults
		a.horizon = a.defaultHorizon
		a.recompute()
		a.setFlash("reset to defaults", false)
	case "s":
		if a.store == nil {
			a.setFlash("no scenario store (started with --no-store)", true)
			return a, nil
		}
		a.saving = true
		a.nameInput = newNameInput(a.name)
		return a, a.nameInput.Focus()
	}
	return a, nil
}

func newNameInput(current string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "scenario name"
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(current)
	return ti
}

func (a App) updateSaveInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			a.setFlash("name required", true)
			return a, nil
		}
		a.saving = false
		sc := scenario.Scenario{Name: name, Horizon: a.horizon, Params: a.params}
		return a, saveScenarioCmd(a.store, sc)
	case "esc":
		a.saving = false
		return a, nil
	}

	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

// applySetup persists the setup answers and applies them to this session.
func (a *App) applySetup() {
	if err := a.setupVals.Apply(&a.cfg); err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	theme.SetActive(a.cfg.Appearance.Theme)
	a.money = cli.Money{Currency: a.cfg.General.Currency, Unit: a.cfg.General.Unit}
	a.horizon = a.cfg.General.HorizonMonths
	a.defaultHorizon = a.horizon
	a.recompute()

	if err := config.Save(a.cfg); err != nil {
		a.setFlash("config not saved: "+err.Error(), true)
		return
	}
	a.setFlash("saved "+config.Path(), false)
}

func loadScenariosCmd(st ScenarioStore) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := st.ListScenarios()
		return scenariosLoadedMsg{list: list, err: err}
	}
}

func saveScenarioCmd(st ScenarioStore, sc scenario.Scenario) tea.Cmd {
	return func() tea.Msg {
		return scenarioSavedMsg{name: sc.Name, err: st.SaveScenario(sc)}
	}
}

func deleteScenarioCmd(st ScenarioStore, name string) tea.Cmd {
	return func() tea.Msg {
		return scenarioSavedMsg{name: name, deleted: true, err: st.DeleteScenario(name)}
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  meshroi needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Parameters", []struct{ key, desc string }{
			{"↑ ↓  j k", "Select parameter"},
			{"← →  h l", "Decrease / increase by one step"},
			{"[ ]", "Shorten / extend horizon"},
			{"r", "Reset to defaults"},
		}},
		{"Scenarios", []struct{ key, desc string }{
			{"s", "Save current parameters"},
			{"Enter", "Load selected (Scenarios tab)"},
			{"d", "Delete selected (Scenarios tab)"},
		}},
		{"Navigation", []struct{ key, desc string }{
			{"1-4", "Jump to tab"},
			{"Tab ⇧Tab", "Next / previous tab"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderParamPill(w)

	hints := "[←→]adjust  [↑↓]select  [s]ave  [r]eset  [?]help  [q]uit"
	message := a.flash
	warn := a.flashWarn
	if a.err != nil {
		message, warn = a.err.Error(), true
	}
	statusBar := components.RenderStatusBar(w, hints, message, warn)
	if a.saving {
		statusBar = lipgloss.NewStyle().Background(t.Surface).Width(w).
			Render(" Save as: " + a.nameInput.View() + "  (enter to save, esc to cancel)")
	}

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabChart:
		content = a.renderChartTab(cw, contentH)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabScenarios:
		content = a.renderScenariosTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderParamPill shows the selected parameter and the horizon under the tabs.
func (a App) renderParamPill(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	f := a.fields[a.cursor]
	pill := dim.Render(" ◂ ") + accent.Render(f.Label+": "+a.formatField(f)) + dim.Render(" ▸") +
		dim.Render("  │  horizon ") + accent.Render(fmt.Sprintf("%d months", a.horizon))
	if a.name != "" {
		pill += dim.Render("  │  ") + accent.Render(a.name)
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)
}

// formatField renders a parameter value in its own unit.
func (a App) formatField(f costmodel.Field) string {
	v := f.Get(a.params)
	switch f.Unit {
	case "L":
		return strings.TrimSpace(a.money.Currency + " " + cli.FormatParam(v, f.Step) + " " + a.money.Unit)
	case "Rs":
		return strings.TrimSpace(a.money.Currency + " " + cli.FormatParam(v, f.Step))
	default:
		return cli.FormatParam(v, f.Step) + " " + f.Unit
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

var errNoStore = errors.New("scenario store disabled")

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
