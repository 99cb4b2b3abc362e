package planner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/model"
)

// SweepRow is one battery capacity's comparison.
type SweepRow struct {
	CapacityKWh     float64  `json:"capacity_kwh"`
	NormalCost      float64  `json:"normal_cost"`
	OptimizedCost   float64  `json:"optimized_cost"`
	CostSavings     float64  `json:"cost_savings"`
	GridImportKWh   float64  `json:"grid_import_kwh"`
	SelfSufficiency float64  `json:"self_sufficiency"`
	Cycles          float64  `json:"cycles"`
	BatterySavings  float64  `json:"battery_savings"` // vs. the optimized day without a battery
	SavingsPerKWh   float64  `json:"savings_per_kwh"`
	MarginalSavings *float64 `json:"marginal_savings"` // per kWh added over the previous row
}

// Sweep is a battery capacity sweep, rows ordered by capacity.
type Sweep struct {
	Rows []SweepRow `json:"rows"`
	// Trend is the least-squares slope of battery savings over capacity, in
	// EUR per kWh of capacity.
	Trend float64 `json:"trend"`
}

// Sweep compares the scenario at each battery capacity. Capacities are
// de-duplicated and sorted; runs proceed in parallel.
func (p *Planner) Sweep(ctx context.Context, sc config.ScenarioConfig, capacities []float64) (Sweep, error) {
	if len(capacities) == 0 {
		return Sweep{}, errors.New("no capacities specified")
	}
	caps := uniqueSorted(capacities)
	for _, c := range caps {
		if c < 0 {
			return Sweep{}, fmt.Errorf("%w: capacity must be >= 0, got %v", config.ErrInvalidScenario, c)
		}
	}

	base, err := p.prepare(ctx, sc)
	if err != nil {
		return Sweep{}, err
	}

	// Index 0 is the no-battery reference.
	runs := append([]float64{0}, caps...)
	results := make([]model.ComparisonResult, len(runs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, capacity := range runs {
		g.Go(func() error {
			cfg := base
			cfg.BatteryCapacityKWh = capacity
			res, err := p.compare(gctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("capacity %v kWh: %w", capacity, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Sweep{}, err
	}

	ref := results[0].Optimized.Exact.Cost
	sw := Sweep{Rows: make([]SweepRow, len(caps))}
	xs := make([]float64, len(caps))
	ys := make([]float64, len(caps))

	for i, capacity := range caps {
		res := results[i+1]
		row := SweepRow{
			CapacityKWh:     capacity,
			NormalCost:      res.Normal.TotalCost,
			OptimizedCost:   res.Optimized.TotalCost,
			CostSavings:     res.CostSavings,
			GridImportKWh:   res.Optimized.GridImport,
			SelfSufficiency: res.Optimized.SelfSufficiency,
			Cycles:          res.Optimized.BatteryCycles,
			BatterySavings:  model.Round(ref-res.Optimized.Exact.Cost, 2),
		}
		if capacity > 0 {
			row.SavingsPerKWh = model.Round((ref-res.Optimized.Exact.Cost)/capacity, 3)
		}
		if i > 0 {
			prev := results[i].Optimized.Exact.Cost
			m := model.Round((prev-res.Optimized.Exact.Cost)/(capacity-caps[i-1]), 3)
			row.MarginalSavings = &m
		}
		sw.Rows[i] = row
		xs[i] = capacity
		ys[i] = ref - res.Optimized.Exact.Cost
	}

	if len(caps) > 1 {
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		sw.Trend = model.Round(slope, 3)
	}

	p.log.Infof("swept %d capacities, trend %.3f EUR/kWh", len(caps), sw.Trend)
	return sw, nil
}

func uniqueSorted(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	sort.Float64s(out)

	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
