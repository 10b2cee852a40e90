package cmd

import (
	"fmt"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/report"

	"github.com/spf13/cobra"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Monthly cost breakdown of the inspection system",
	RunE:  runBreakdown,
}

func init() {
	addProjectFlags(breakdownCmd)
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(c *cobra.Command, _ []string) error {
	sc, err := resolveInput(c)
	if err != nil {
		return err
	}
	sum, err := report.Build(sc.Params, sc.Horizon)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("COST BREAKDOWN"))
	fmt.Println()
	fmt.Print(cli.RenderTable(breakdownTable(sum, money())))
	return nil
}
