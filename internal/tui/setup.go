package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Currency string
	Unit     string
	Horizon  string
	Theme    string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Currency: cfg.General.Currency,
		Unit:     cfg.General.Unit,
		Horizon:  strconv.Itoa(cfg.General.HorizonMonths),
		Theme:    cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	h, err := parseHorizon(v.Horizon)
	if err != nil {
		return err
	}
	cfg.General.HorizonMonths = h
	cfg.General.Currency = strings.TrimSpace(v.Currency)
	cfg.General.Unit = strings.TrimSpace(v.Unit)
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return nil
}

func parseHorizon(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || h < 1 || h > maxHorizon {
		return 0, fmt.Errorf("horizon must be a whole number of months between 1 and %d", maxHorizon)
	}
	return h, nil
}

// NewSetupForm builds the configuration form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Break-even projector setup").
				Description("Defaults for the projection horizon and how amounts are shown.\n"),

			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency),

			huh.NewInput().
				Title("Amount unit").
				Description("Suffix after every amount, e.g. L for lakhs").
				Value(&vals.Unit),

			huh.NewInput().
				Title("Horizon (months)").
				Validate(func(s string) error {
					_, err := parseHorizon(s)
					return err
				}).
				Value(&vals.Horizon),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}
