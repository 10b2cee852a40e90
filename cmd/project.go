package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagSaveAs string
	flagEvery  int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project cumulative savings, ROI and the break-even month",
	RunE:  runProject,
}

func init() {
	addProjectFlags(projectCmd)
	for _, c := range []*cobra.Command{rootCmd, projectCmd} {
		c.Flags().StringVar(&flagSaveAs, "save", "", "Save the resolved parameters under this name")
		c.Flags().IntVar(&flagEvery, "every", 0, "Show every Nth month in the table (default from config)")
	}
	rootCmd.AddCommand(projectCmd)
}

func runProject(c *cobra.Command, _ []string) error {
	sc, err := resolveInput(c)
	if err != nil {
		return err
	}

	sum, err := report.Build(sc.Params, sc.Horizon)
	if err != nil {
		return err
	}
	sum.Name = sc.Name
	logger.Debug("projection built",
		zap.Int("horizon", sc.Horizon),
		zap.Float64("monthly_net_benefit", sum.Metrics.MonthlyNetBenefit),
		zap.Int("breakeven_month", sum.Series.BreakevenMonth),
	)

	if err := persistRun(&sum); err != nil {
		return err
	}

	every := flagEvery
	if every <= 0 {
		every = appCfg.General.TableEvery
	}
	fmt.Print(renderProjection(sum, money(), every))
	return nil
}

// persistRun records the run and handles --save. A missing store only
// disables history.
func persistRun(sum *report.Summary) error {
	st, err := openStore()
	if err != nil {
		if flagSaveAs != "" {
			return err
		}
		logger.Warn("run history unavailable", zap.Error(err))
		return nil
	}
	if st == nil {
		if flagSaveAs != "" {
			return fmt.Errorf("--save needs the scenario database; drop --no-store")
		}
		return nil
	}
	defer func() { _ = st.Close() }()

	if flagSaveAs != "" {
		sc := scenarioFromSummary(*sum)
		sc.Name = flagSaveAs
		if err := st.SaveScenario(sc); err != nil {
			return err
		}
		sum.Name = flagSaveAs
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Saved scenario %q\n", flagSaveAs)
		}
	}
	if err := st.RecordRun(*sum); err != nil {
		logger.Warn("record run failed", zap.Error(err))
	}
	return nil
}

func renderProjection(sum report.Summary, m cli.Money, every int) string {
	title := "BREAK-EVEN PROJECTION"
	if sum.Name != "" {
		title += "  " + sum.Name
	}
	title += fmt.Sprintf("  %d months", sum.Series.Len())

	out := "\n" + cli.RenderTitle(title) + "\n\n"
	out += cli.RenderTable(metricsTable(sum, m))
	out += "\n" + cli.RenderTable(monthTable(sum, m, every))
	out += "\n  Cumulative  " + cli.RenderSparkline(sum.Series.CumulativeSavings) + "\n"
	out += "\n" + cli.RenderTable(breakdownTable(sum, m))

	if !sum.Series.HasBreakeven {
		out += "\n" + cli.RenderWarning(fmt.Sprintf("  No break-even within %d months", sum.Series.Len())) + "\n"
	}
	return out
}

func metricsTable(sum report.Summary, m cli.Money) cli.Table {
	mt := sum.Metrics
	return cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Initial Investment", m.Format(sum.Input.InitialInvestment)},
			{"Monthly Net Benefit", m.Format(mt.MonthlyNetBenefit)},
			{"---"},
			{"Break-even", mt.BreakevenLabel},
			{"Payback", cli.RenderProgressBar(mt.PaybackProgress, 20) + " " + cli.FormatPercent(mt.PaybackProgress*100) + " of horizon"},
			{"---"},
			{"ROI at " + cli.FormatMonth(sum.Series.Len()), cli.FormatSignedPercent(mt.FinalROIPercent)},
			{"Net Savings", m.Format(mt.FinalNetSavings)},
		},
	}
}

// monthTable lists every Nth month plus the break-even and final months.
func monthTable(sum report.Summary, m cli.Money, every int) cli.Table {
	if every < 1 {
		every = 1
	}
	s := sum.Series

	maxAbs := 0.0
	for _, v := range s.CumulativeSavings {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	var rows [][]string
	for _, month := range s.Months() {
		if month%every != 0 && month != 1 && month != s.Len() && !(s.HasBreakeven && month == s.BreakevenMonth) {
			continue
		}
		v, _ := s.Month(month)
		label := cli.FormatMonth(month)
		if s.HasBreakeven && month == s.BreakevenMonth {
			label += " *"
		}
		rows = append(rows, []string{
			label,
			m.Format(v.CumulativeSavings),
			cli.FormatPercent(v.ROIPercent),
			cli.RenderSignedBar(v.CumulativeSavings, maxAbs, 12),
		})
	}

	return cli.Table{
		Title:   "Monthly Projection",
		Headers: []string{"Month", "Cumulative Savings", "ROI", ""},
		Rows:    rows,
	}
}

func breakdownTable(sum report.Summary, m cli.Money) cli.Table {
	rows := make([][]string, 0, len(sum.Breakdown)+1)
	for i, r := range sum.Breakdown {
		if i == len(sum.Breakdown)-1 {
			rows = append(rows, []string{"---"})
		}
		rows = append(rows, []string{r.Category, m.Format(r.Amount)})
	}
	return cli.Table{
		Title:   "Cost Breakdown",
		Headers: []string{"Category", "Amount"},
		Rows:    rows,
	}
}
