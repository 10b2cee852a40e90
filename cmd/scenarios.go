package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDescription string
	flagRunsLimit   int
)

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"scenario", "sc"},
	Short:   "Manage saved scenarios",
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScenariosList,
}

var scenariosShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved scenario and its projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosShow,
}

var scenariosSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the resolved parameters as a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosSave,
}

var scenariosDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosDelete,
}

var scenariosImportCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Import scenario files (.toml, .yaml, .json) into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosImport,
}

var scenariosWriteCmd = &cobra.Command{
	Use:   "write <name> <file>",
	Short: "Write a saved scenario to a file, format chosen by extension",
	Args:  cobra.ExactArgs(2),
	RunE:  runScenariosWrite,
}

var scenariosRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent projection runs",
	Args:  cobra.NoArgs,
	RunE:  runScenariosRuns,
}

func init() {
	addProjectFlags(scenariosSaveCmd)
	scenariosSaveCmd.Flags().StringVar(&flagDescription, "description", "", "Free-form description")
	scenariosRunsCmd.Flags().IntVarP(&flagRunsLimit, "limit", "n", 20, "Number of runs to show")

	scenariosCmd.AddCommand(
		scenariosListCmd,
		scenariosShowCmd,
		scenariosSaveCmd,
		scenariosDeleteCmd,
		scenariosImportCmd,
		scenariosWriteCmd,
		scenariosRunsCmd,
	)
	rootCmd.AddCommand(scenariosCmd)
}

func scenarioFromSummary(sum report.Summary) scenario.Scenario {
	return scenario.Scenario{
		Name:    sum.Name,
		Horizon: sum.Input.HorizonMonths,
		Params:  sum.Params,
	}
}

func runScenariosList(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	list, err := st.ListScenarios()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("\n  No saved scenarios.")
		fmt.Println("  Save one with: meshroi scenarios save <name> [flags]")
		return nil
	}

	m := money()
	rows := make([][]string, 0, len(list))
	for _, sc := range list {
		horizon := sc.HorizonOr(appCfg.General.HorizonMonths)
		label := "invalid horizon"
		if sum, err := report.Build(sc.Params, horizon); err == nil {
			label = sum.Metrics.BreakevenLabel
		}
		rows = append(rows, []string{
			sc.Name,
			strconv.Itoa(horizon),
			m.Format(sc.Params.InitialInvestment),
			m.Format(sc.Params.MonthlyNetBenefit()),
			label,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Saved Scenarios (%d)", len(list)),
		Headers: []string{"Name", "Months", "Investment", "Net/Month", "Break-even"},
		Rows:    rows,
	}))
	return nil
}

func runScenariosShow(_ *cobra.Command, args []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}

	sum, err := report.Build(sc.Params, sc.HorizonOr(appCfg.General.HorizonMonths))
	if err != nil {
		return err
	}
	sum.Name = sc.Name

	fmt.Print(renderParams(sc))
	fmt.Print(renderProjection(sum, money(), appCfg.General.TableEvery))
	return nil
}

func renderParams(sc scenario.Scenario) string {
	rows := make([][]string, 0, 6)
	for _, f := range costmodel.Fields() {
		rows = append(rows, []string{f.Label, cli.FormatParam(f.Get(sc.Params), f.Step) + " " + f.Unit})
	}
	title := "Parameters"
	if sc.Description != "" {
		title += "  " + sc.Description
	}
	return "\n" + cli.RenderTable(cli.Table{Title: title, Headers: []string{"Parameter", "Value"}, Rows: rows})
}

func runScenariosSave(c *cobra.Command, args []string) error {
	sc, err := resolveInput(c)
	if err != nil {
		return err
	}
	sc.Name = args[0]
	if flagDescription != "" {
		sc.Description = flagDescription
	}
	if _, err := report.Build(sc.Params, sc.Horizon); err != nil {
		return err
	}

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.SaveScenario(sc); err != nil {
		return err
	}
	fmt.Printf("  Saved scenario %q\n", sc.Name)
	return nil
}

func runScenariosDelete(_ *cobra.Command, args []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteScenario(args[0]); err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	fmt.Printf("  Deleted scenario %q\n", args[0])
	return nil
}

func runScenariosImport(_ *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var scenarios []scenario.Scenario
	var fileErrs []scenario.FileError
	if info.IsDir() {
		res, err := scenario.ScanDir(path)
		if err != nil {
			return err
		}
		scenarios, fileErrs = res.Scenarios, res.Errors
	} else {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			return err
		}
		scenarios = []scenario.Scenario{sc}
	}

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	imported := 0
	for _, sc := range scenarios {
		if err := st.SaveScenario(sc); err != nil {
			fileErrs = append(fileErrs, scenario.FileError{Path: sc.Name, Err: err})
			continue
		}
		imported++
		logger.Debug("scenario imported", zap.String("name", sc.Name))
	}

	fmt.Printf("  Imported %d scenario(s)\n", imported)
	for _, fe := range fileErrs {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("  %s: %v", fe.Path, fe.Err)))
	}
	if imported == 0 && len(fileErrs) > 0 {
		return errors.New("no scenarios imported")
	}
	return nil
}

func runScenariosWrite(_ *cobra.Command, args []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	if err := scenario.WriteFile(args[1], sc); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", args[1])
	return nil
}

func runScenariosRuns(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet.")
		return nil
	}

	m := money()
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		name := r.Scenario
		if name == "" {
			name = "-"
		}
		breakeven := fmt.Sprintf(">%d months", r.HorizonMonths)
		if r.BreakevenMonth > 0 {
			breakeven = cli.FormatMonth(r.BreakevenMonth)
		}
		rows = append(rows, []string{
			r.RunAt.Local().Format("2006-01-02 15:04"),
			name,
			m.Format(r.InitialInvestment),
			m.Format(r.MonthlyNetBenefit),
			breakeven,
			cli.FormatSignedPercent(r.FinalROIPercent),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent Runs",
		Headers: []string{"When", "Scenario", "Investment", "Net/Month", "Break-even", "ROI"},
		Rows:    rows,
	}))
	return nil
}
