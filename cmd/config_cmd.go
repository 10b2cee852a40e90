package cmd

import (
	"fmt"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/costmodel"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Horizon:     %d months\n", cfg.General.HorizonMonths)
	fmt.Printf("    Currency:    %q\n", cfg.General.Currency)
	fmt.Printf("    Unit:        %q\n", cfg.General.Unit)
	fmt.Printf("    Table every: %d months\n", cfg.General.TableEvery)
	fmt.Println()

	fmt.Println("  [Defaults]")
	for _, f := range costmodel.Fields() {
		fmt.Printf("    %-32s %s %s\n", f.Label+":", cli.FormatParam(f.Get(cfg.Defaults), f.Step), f.Unit)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Store]")
	if flagNoStore {
		fmt.Println("    Disabled (--no-store)")
	} else {
		fmt.Printf("    Path: %s\n", storePath())
	}
	fmt.Println()

	fmt.Println("  Run `meshroi setup` to reconfigure.")
	return nil
}
