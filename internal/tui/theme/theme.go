// Package theme defines the color palettes of the calculator TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the calculator's color roles to concrete colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards, tables, status bar
	SurfaceHover lipgloss.Color // active tab, selected row
	Border       lipgloss.Color
	BorderFocus  lipgloss.Color // help overlay, focused input
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in help

	// Money roles. Profit and Loss color signed amounts; Caution and Warn
	// grade slow paybacks.
	Profit  lipgloss.Color
	Loss    lipgloss.Color
	Caution lipgloss.Color
	Warn    lipgloss.Color
}

// Active is the currently selected theme.
var Active = Ledger

// Ledger is the default: ink-green accents on a dark ledger page.
var Ledger = Theme{
	Name:         "ledger",
	Background:   lipgloss.Color("#0F1411"),
	Surface:      lipgloss.Color("#18201B"),
	SurfaceHover: lipgloss.Color("#243029"),
	Border:       lipgloss.Color("#34443A"),
	BorderFocus:  lipgloss.Color("#4FB286"),
	TextDim:      lipgloss.Color("#56675C"),
	TextMuted:    lipgloss.Color("#8FA295"),
	TextPrimary:  lipgloss.Color("#EEF3EC"),
	Accent:       lipgloss.Color("#4FB286"),
	AccentBright: lipgloss.Color("#7DD3A8"),
	Key:          lipgloss.Color("#E3C46B"),
	Profit:       lipgloss.Color("#6CC24A"),
	Loss:         lipgloss.Color("#E0584B"),
	Caution:      lipgloss.Color("#E3C46B"),
	Warn:         lipgloss.Color("#E8894A"),
}

// Blueprint uses drafting-table blues for plant and engineering reviews.
var Blueprint = Theme{
	Name:         "blueprint",
	Background:   lipgloss.Color("#0B1929"),
	Surface:      lipgloss.Color("#122740"),
	SurfaceHover: lipgloss.Color("#1C3A5C"),
	Border:       lipgloss.Color("#2E5380"),
	BorderFocus:  lipgloss.Color("#6FB7FF"),
	TextDim:      lipgloss.Color("#4E6E93"),
	TextMuted:    lipgloss.Color("#93B2D4"),
	TextPrimary:  lipgloss.Color("#E6F0FA"),
	Accent:       lipgloss.Color("#6FB7FF"),
	AccentBright: lipgloss.Color("#A8D4FF"),
	Key:          lipgloss.Color("#7FE0D6"),
	Profit:       lipgloss.Color("#7FD992"),
	Loss:         lipgloss.Color("#FF7A7A"),
	Caution:      lipgloss.Color("#F2D479"),
	Warn:         lipgloss.Color("#FFAA5C"),
}

// Graphite is a low-saturation grey palette for projectors and screenshots.
var Graphite = Theme{
	Name:         "graphite",
	Background:   lipgloss.Color("#161616"),
	Surface:      lipgloss.Color("#222222"),
	SurfaceHover: lipgloss.Color("#333333"),
	Border:       lipgloss.Color("#444444"),
	BorderFocus:  lipgloss.Color("#BBBBBB"),
	TextDim:      lipgloss.Color("#5E5E5E"),
	TextMuted:    lipgloss.Color("#9A9A9A"),
	TextPrimary:  lipgloss.Color("#F2F2F2"),
	Accent:       lipgloss.Color("#BBBBBB"),
	AccentBright: lipgloss.Color("#FFFFFF"),
	Key:          lipgloss.Color("#D8D8D8"),
	Profit:       lipgloss.Color("#8CC08C"),
	Loss:         lipgloss.Color("#D98080"),
	Caution:      lipgloss.Color("#D6C58A"),
	Warn:         lipgloss.Color("#D9A070"),
}

// Terminal uses the 16 ANSI colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderFocus:  lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Key:          lipgloss.Color("11"),
	Profit:       lipgloss.Color("2"),
	Loss:         lipgloss.Color("1"),
	Caution:      lipgloss.Color("3"),
	Warn:         lipgloss.Color("9"),
}

// All lists the themes in display order.
var All = []Theme{Ledger, Blueprint, Graphite, Terminal}

// ByName returns the named theme, or Ledger when there is none.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Ledger
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Gain colors a signed amount: Profit at or above zero, Loss below.
func (t Theme) Gain(v float64) lipgloss.Color {
	if v >= 0 {
		return t.Profit
	}
	return t.Loss
}
