// Package cmd implements the meshroi CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/config"
	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/logging"
	"github.com/theirongolddev/meshroi/internal/scenario"
	"github.com/theirongolddev/meshroi/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagVerbose bool
	flagQuiet   bool
	flagNoStore bool

	// set by the persistent pre-run
	appCfg config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "meshroi",
	Short: "Break-even and ROI projector for automated inspection",
	Long: "Project cumulative savings and ROI of an automated inspection system\n" +
		"over a month horizon and find the break-even month.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	RunE: runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/meshroi/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress and log output")
	rootCmd.PersistentFlags().BoolVar(&flagNoStore, "no-store", false, "Do not open the scenario database")

	addProjectFlags(rootCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	if flagConfig != "" {
		config.SetPath(flagConfig)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	l, err := logging.New(flagVerbose, flagQuiet)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("config loaded",
		zap.String("path", config.Path()),
		zap.Bool("exists", config.Exists()),
		zap.Int("horizon", cfg.General.HorizonMonths),
	)
	return nil
}

func money() cli.Money {
	return cli.Money{Currency: appCfg.General.Currency, Unit: appCfg.General.Unit}
}

func storePath() string {
	if appCfg.Store.Path != "" {
		return appCfg.Store.Path
	}
	return store.DefaultPath()
}

// openStore opens the scenario database, or returns nil when --no-store is set.
func openStore() (*store.Store, error) {
	if flagNoStore {
		return nil, nil
	}
	st, err := store.Open(storePath())
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("path", storePath()))
	return st, nil
}

// requireStore is openStore for commands that cannot work without one.
func requireStore() (*store.Store, error) {
	if flagNoStore {
		return nil, errors.New("this command needs the scenario database; drop --no-store")
	}
	return openStore()
}

// ─── Parameter flags ────────────────────────────────────────────

var (
	flagHorizon  int
	flagScenario string
	flagSaved    string
	flagStrict   bool
	paramFlags   = make(map[string]*float64)
)

func flagName(f costmodel.Field) string {
	return strings.ReplaceAll(f.Key, "_", "-")
}

// addProjectFlags registers the parameter flags shared by the projection
// commands. Every command binds the same variables.
func addProjectFlags(c *cobra.Command) {
	defaults := costmodel.Defaults()
	for _, f := range costmodel.Fields() {
		v, ok := paramFlags[f.Key]
		if !ok {
			v = new(float64)
			paramFlags[f.Key] = v
		}
		usage := fmt.Sprintf("%s (%s, %s..%s)", f.Label, f.Unit,
			cli.FormatParam(f.Min, f.Step), cli.FormatParam(f.Max, f.Step))
		c.Flags().Float64Var(v, flagName(f), f.Get(defaults), usage)
	}
	c.Flags().IntVarP(&flagHorizon, "horizon", "H", 0, "Projection horizon in months (default from config)")
	c.Flags().StringVar(&flagScenario, "scenario", "", "Load parameters from a scenario file (.toml, .yaml, .json)")
	c.Flags().StringVar(&flagSaved, "saved", "", "Load parameters from a saved scenario")
	c.Flags().BoolVar(&flagStrict, "strict", false, "Reject parameters outside their slider range")
}

// resolveInput builds the parameters for a projection: config defaults, then
// a scenario file or saved scenario, then explicit flags.
func resolveInput(c *cobra.Command) (scenario.Scenario, error) {
	sc := scenario.Scenario{
		Horizon: appCfg.General.HorizonMonths,
		Params:  appCfg.Defaults,
	}

	if flagScenario != "" && flagSaved != "" {
		return sc, errors.New("--scenario and --saved are mutually exclusive")
	}

	if flagScenario != "" {
		loaded, err := scenario.LoadFile(flagScenario)
		if err != nil {
			return sc, err
		}
		loaded.Horizon = loaded.HorizonOr(sc.Horizon)
		sc = loaded
		logger.Debug("scenario file loaded", zap.String("path", flagScenario), zap.String("name", sc.Name))
	}

	if flagSaved != "" {
		st, err := requireStore()
		if err != nil {
			return sc, err
		}
		defer func() { _ = st.Close() }()
		loaded, err := st.LoadScenario(flagSaved)
		if err != nil {
			return sc, fmt.Errorf("%w: %s", err, flagSaved)
		}
		loaded.Horizon = loaded.HorizonOr(sc.Horizon)
		sc = loaded
	}

	for _, f := range costmodel.Fields() {
		if c.Flags().Changed(flagName(f)) {
			f.Set(&sc.Params, *paramFlags[f.Key])
		}
	}
	if c.Flags().Changed("horizon") {
		sc.Horizon = flagHorizon
	}

	if err := sc.Params.CheckFinite(); err != nil {
		return sc, err
	}
	if flagStrict {
		if err := sc.Params.Validate(); err != nil {
			return sc, err
		}
	}
	return sc, nil
}
