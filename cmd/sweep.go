package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagAxes []string
	flagTop  int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sensitivity grid over one or more parameters",
	Long: "Evaluate every combination of the given parameter axes, e.g.\n" +
		"  meshroi sweep --axis monthly_savings=1:10:0.5 --axis ai_cost_per_unit=20,45,80",
	RunE: runSweep,
}

func init() {
	addProjectFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&flagAxes, "axis", nil, "Axis as field=start:end:step or field=a,b,c (repeatable)")
	sweepCmd.Flags().IntVar(&flagTop, "top", 15, "Rows to show, earliest break-even first (0 = all)")
	_ = sweepCmd.MarkFlagRequired("axis")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(c *cobra.Command, _ []string) error {
	base, err := resolveInput(c)
	if err != nil {
		return err
	}

	axes := make([]pipeline.Axis, 0, len(flagAxes))
	for _, spec := range flagAxes {
		ax, err := pipeline.ParseAxis(spec)
		if err != nil {
			return err
		}
		axes = append(axes, ax)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%500 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Evaluating [%d/%d]", current, total)
		}
	}

	start := time.Now()
	res, err := pipeline.Run(ctx, base.Params, base.Horizon, axes, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Evaluated %s combinations in %s    \n",
			cli.FormatNumber(int64(len(res.Rows))), time.Since(start).Round(time.Millisecond))
	}
	logger.Debug("sweep finished", zap.Int("rows", len(res.Rows)), zap.Duration("elapsed", time.Since(start)))

	res.SortByBreakeven()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SENSITIVITY  %d months", res.Horizon)))
	fmt.Println()
	fmt.Print(cli.RenderTable(sweepTable(res, flagTop)))
	fmt.Printf("\n  %s of combinations break even within %d months\n",
		cli.FormatPercent(res.BreakevenShare()*100), res.Horizon)
	return nil
}

func sweepTable(res *pipeline.Result, top int) cli.Table {
	m := money()
	headers := make([]string, 0, len(res.Axes)+3)
	for _, ax := range res.Axes {
		headers = append(headers, ax.Field)
	}
	headers = append(headers, "Net/Month", "Break-even", "ROI")

	rows := res.Rows
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, 0, len(headers))
		for _, ax := range res.Axes {
			row = append(row, fmt.Sprintf("%g", r.Values[ax.Field]))
		}
		breakeven := "never"
		if r.HasBreakeven {
			breakeven = cli.FormatMonth(r.BreakevenMonth)
		}
		row = append(row, m.Format(r.MonthlyNetBenefit), breakeven, cli.FormatSignedPercent(r.FinalROIPercent))
		out = append(out, row)
	}

	title := fmt.Sprintf("%d combinations", len(res.Rows))
	if len(rows) < len(res.Rows) {
		title = fmt.Sprintf("Top %d of %d combinations", len(rows), len(res.Rows))
	}
	return cli.Table{Title: title, Headers: headers, Rows: out}
}
