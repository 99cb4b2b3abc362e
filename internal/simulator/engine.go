package simulator

import (
	"math"

	"smartgrid_simulator/internal/model"
)

// GenerationModel yields per-source output for one hour.
type GenerationModel interface {
	At(hour int, sources []model.EnergySourceConfig) model.Generation
}

// Options tune how the engine interprets a schedule.
type Options struct {
	// WrapMidnight lets a run that starts late in the day continue from
	// hour 0. When false the part past hour 23 is dropped.
	WrapMidnight bool `json:"wrap_midnight"`
}

// Engine runs 24-hour energy balance simulations. It holds no per-run
// state and is safe for concurrent use.
type Engine struct {
	gen  GenerationModel
	opts Options
}

func New(gen GenerationModel, opts Options) *Engine {
	return &Engine{gen: gen, opts: opts}
}

// Consumption returns the summed draw of every appliance active in hour.
func (e *Engine) Consumption(hour int, appliances []model.Appliance) float64 {
	var total float64
	for _, a := range appliances {
		if a.ActiveAt(hour, e.opts.WrapMidnight) {
			total += a.PowerKW
		}
	}
	return total
}

// Simulate runs one day for cfg's sources and battery with the given
// appliance list. cfg.Appliances is ignored so callers can trial schedules
// without rebuilding the config. It never fails and always returns 24
// hourly records.
func (e *Engine) Simulate(cfg model.SimulationConfig, appliances []model.Appliance) model.SimulationResult {
	bat := NewBattery(cfg.BatteryCapacityKWh)
	startLevel := bat.LevelKWh

	hourly := make([]model.HourlyData, 0, model.HoursPerDay)
	var totals model.Totals

	for hour := 0; hour < model.HoursPerDay; hour++ {
		gen := e.gen.At(hour, cfg.Sources)
		consumption := e.Consumption(hour, appliances)

		flow := bat.Process(gen.Total - consumption)
		cost := HourCost(hour, flow.ImportKWh, flow.ExportKWh)
		co2 := HourCO2(hour, flow.ImportKWh)

		hourly = append(hourly, model.HourlyData{
			Hour:               hour,
			SolarGeneration:    gen.Solar,
			WindGeneration:     gen.Wind,
			HeatPumpGeneration: gen.HeatPump,
			KineticGeneration:  gen.Kinetic,
			TotalGeneration:    gen.Total,
			Consumption:        consumption,
			BatteryLevel:       flow.LevelKWh,
			GridImport:         flow.ImportKWh,
			GridExport:         flow.ExportKWh,
			FreeEnergyUsed:     consumption - flow.ImportKWh,
			Cost:               cost,
			CO2:                co2,
		})

		totals.Cost += cost
		totals.CO2 += co2
		totals.Consumption += consumption
		totals.Generation += gen.Total
		totals.GridImport += flow.ImportKWh
		totals.GridExport += flow.ExportKWh
	}

	totals.BatteryStartKWh = startLevel
	totals.BatteryEndKWh = bat.LevelKWh
	totals.BatteryThroughputKWh = bat.TotalThroughputKWh

	return model.SimulationResult{
		Hourly:           hourly,
		TotalCost:        model.Round(totals.Cost, 2),
		TotalCO2:         model.Round(totals.CO2, 1),
		TotalConsumption: model.Round(totals.Consumption, 1),
		TotalGeneration:  model.Round(totals.Generation, 1),
		SelfSufficiency:  model.Round(SelfSufficiency(totals.Generation, totals.Consumption), 1),
		GridImport:       model.Round(totals.GridImport, 1),
		GridExport:       model.Round(totals.GridExport, 1),
		BatteryLevel:     model.Round(totals.BatteryEndKWh, 1),
		FreeEnergyUsed:   model.Round(totals.Generation-totals.GridImport, 1),
		BatteryCycles:    model.Round(bat.Cycles(), 2),
		Exact:            totals,
	}
}

// SelfSufficiency is generation over consumption as a percentage, capped at
// 100. Zero consumption yields 0.
func SelfSufficiency(generation, consumption float64) float64 {
	if consumption <= 0 {
		return 0
	}
	return math.Min(100, generation/consumption*100)
}
