package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/metrics"
	"smartgrid_simulator/internal/planner"
	"smartgrid_simulator/internal/report"
)

// output renders v in format. table and csv are nil when the command does
// not support them.
func output(w io.Writer, format string, v any, table, csv func() error) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case report.FormatTable:
		return table()
	case report.FormatCSV:
		if csv == nil {
			return fmt.Errorf("csv output is not supported here")
		}
		return csv()
	}
	return report.Encode(w, f, v)
}

// prepare loads configuration and the effective scenario for one run.
func prepare(cmd *cobra.Command, opts *rootOptions, sf *scenarioFlags) (*planner.Planner, config.ScenarioConfig, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, config.ScenarioConfig{}, err
	}
	sc := cfg.Scenario
	if err := sf.apply(cmd, &sc); err != nil {
		return nil, config.ScenarioConfig{}, err
	}
	return newPlanner(cfg, planner.Options{Recorder: metrics.NopRecorder{}}), sc, nil
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		sf     scenarioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one day with the scenario's own schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, sc, err := prepare(cmd, opts, &sf)
			if err != nil {
				return err
			}
			res, err := p.Simulate(cmd.Context(), sc)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return output(w, format, res,
				func() error { return report.RenderResult(w, "Simulated Day", res) },
				func() error { return report.WriteHourlyCSV(w, res) })
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or csv")
	return cmd
}

func newOptimizeCmd(opts *rootOptions) *cobra.Command {
	var (
		sf     scenarioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for cheaper start hours for flexible appliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, sc, err := prepare(cmd, opts, &sf)
			if err != nil {
				return err
			}
			plan, err := p.Optimize(cmd.Context(), sc, nil)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return output(w, format, plan,
				func() error { return report.RenderSchedule(w, sc.Appliances, plan) },
				func() error { return report.WriteHourlyCSV(w, plan.Final) })
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or csv")
	return cmd
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var (
		sf     scenarioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the scenario's schedule with the optimized one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, sc, err := prepare(cmd, opts, &sf)
			if err != nil {
				return err
			}
			res, err := p.Compare(cmd.Context(), sc, nil)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return output(w, format, res,
				func() error { return report.RenderComparison(w, res) },
				func() error { return report.WriteHourlyCSV(w, res.Optimized) })
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or csv (optimized day)")
	return cmd
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var (
		sf         scenarioFlags
		format     string
		capsFlag   string
		capacities []float64
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare schedules across battery capacities",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			var err error
			capacities, err = parseCapacities(capsFlag)
			if err != nil {
				return fmt.Errorf("invalid capacities %q: %w", capsFlag, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, sc, err := prepare(cmd, opts, &sf)
			if err != nil {
				return err
			}
			sw, err := p.Sweep(cmd.Context(), sc, capacities)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return output(w, format, sw,
				func() error { return report.RenderSweep(w, sw) },
				func() error { return report.WriteSweepCSV(w, sw) })
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml or csv")
	cmd.Flags().StringVar(&capsFlag, "capacities", "0,5,7.5,10,12.5,15,20", "comma-separated battery capacities in kWh")
	return cmd
}

func newScenarioCmd(opts *rootOptions) *cobra.Command {
	var (
		sf     scenarioFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Print the effective scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			sc := cfg.Scenario
			if err := sf.apply(cmd, &sc); err != nil {
				return err
			}
			sc.Normalize()
			if err := sc.Validate(); err != nil {
				return err
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return report.Encode(cmd.OutOrStdout(), f, sc)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func parseCapacities(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	caps := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("capacity must not be negative, got %v", v)
		}
		caps = append(caps, v)
	}
	if len(caps) == 0 {
		return nil, fmt.Errorf("no capacities specified")
	}
	return caps, nil
}
