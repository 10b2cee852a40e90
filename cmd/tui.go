package cmd

import (
	"fmt"

	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/tui"
	"github.com/theirongolddev/meshroi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive break-even calculator",
	RunE:  runTUI,
}

func init() {
	addProjectFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(c *cobra.Command, _ []string) error {
	sc, err := resolveInput(c)
	if err != nil {
		return err
	}

	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		Config:    appCfg,
		Params:    sc.Params,
		Horizon:   sc.Horizon,
		Name:      sc.Name,
		NeedSetup: !config.Exists(),
	}

	st, err := openStore()
	if err != nil {
		logger.Warn("scenario store unavailable", zap.Error(err))
	}
	if st != nil {
		defer func() { _ = st.Close() }()
		opts.Store = st
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
