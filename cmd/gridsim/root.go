package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/ingest"
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/planner"
)

type rootOptions struct {
	configPath string
	logLevel   string
	seed       uint64
	wrap       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "gridsim",
		Short:        "Household energy simulator and appliance schedule optimizer",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadDotEnv(".env")
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "configuration file (.yaml, .yml or .json)")
	pf.StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	pf.Uint64Var(&opts.seed, "seed", 0, "override generation.seed (0 draws a random seed)")
	pf.BoolVar(&opts.wrap, "wrap-midnight", false, "override simulation.wrap_midnight")

	cmd.AddCommand(
		newSimulateCmd(opts),
		newOptimizeCmd(opts),
		newCompareCmd(opts),
		newSweepCmd(opts),
		newScenarioCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// loadDotEnv exports variables from path when it exists. Variables already
// set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		cfg.Generation.Seed = opts.seed
	}
	if flags.Changed("wrap-midnight") {
		cfg.Simulation.WrapMidnight = opts.wrap
	}

	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPlanner(cfg *config.Config, opts planner.Options) *planner.Planner {
	opts.Seed = cfg.Generation.Seed
	opts.WrapMidnight = cfg.Simulation.WrapMidnight
	if opts.Logger == nil {
		opts.Logger = logger.New("planner")
	}
	return planner.New(opts)
}

// scenarioFlags override parts of the configured scenario.
type scenarioFlags struct {
	appliances string
	battery    float64

	// parser reads the --appliances file. Nil means CSV.
	parser ingest.Parser
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.appliances, "appliances", "", "CSV file replacing the configured appliances")
	cmd.Flags().Float64Var(&f.battery, "battery", 0, "override battery capacity in kWh")
}

func (f *scenarioFlags) apply(cmd *cobra.Command, sc *config.ScenarioConfig) error {
	if f.appliances != "" {
		file, err := os.Open(f.appliances)
		if err != nil {
			return fmt.Errorf("opening appliances: %w", err)
		}
		defer file.Close()

		parser := f.parser
		if parser == nil {
			parser = ingest.NewApplianceParser()
		}
		apps, err := parser.Parse(file)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", f.appliances, err)
		}
		sc.Appliances = apps
	}
	if cmd.Flags().Changed("battery") {
		sc.BatteryCapacityKWh = f.battery
	}
	return nil
}
