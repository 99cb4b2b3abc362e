package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/planner"
)

var hourlyHeader = []string{
	"hour",
	"solar_kwh",
	"wind_kwh",
	"heat_pump_kwh",
	"kinetic_kwh",
	"generation_kwh",
	"consumption_kwh",
	"battery_level_kwh",
	"grid_import_kwh",
	"grid_export_kwh",
	"free_energy_kwh",
	"cost_eur",
	"co2_kg",
}

// WriteHourlyCSV writes one row per simulated hour.
func WriteHourlyCSV(w io.Writer, res model.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hourlyHeader); err != nil {
		return err
	}

	for _, h := range res.Hourly {
		row := []string{
			strconv.Itoa(h.Hour),
			fmtFloat(h.SolarGeneration),
			fmtFloat(h.WindGeneration),
			fmtFloat(h.HeatPumpGeneration),
			fmtFloat(h.KineticGeneration),
			fmtFloat(h.TotalGeneration),
			fmtFloat(h.Consumption),
			fmtFloat(h.BatteryLevel),
			fmtFloat(h.GridImport),
			fmtFloat(h.GridExport),
			fmtFloat(h.FreeEnergyUsed),
			fmtFloat(h.Cost),
			fmtFloat(h.CO2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

var sweepHeader = []string{
	"capacity_kwh",
	"normal_cost",
	"optimized_cost",
	"cost_savings",
	"grid_import_kwh",
	"self_sufficiency",
	"cycles",
	"battery_savings",
	"savings_per_kwh",
	"marginal_savings",
}

// WriteSweepCSV writes one row per capacity. Marginal savings is empty for
// the first row.
func WriteSweepCSV(w io.Writer, sw planner.Sweep) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return err
	}

	for _, r := range sw.Rows {
		marginal := ""
		if r.MarginalSavings != nil {
			marginal = fmtFloat(*r.MarginalSavings)
		}
		row := []string{
			fmtFloat(r.CapacityKWh),
			fmtFloat(r.NormalCost),
			fmtFloat(r.OptimizedCost),
			fmtFloat(r.CostSavings),
			fmtFloat(r.GridImportKWh),
			fmtFloat(r.SelfSufficiency),
			fmtFloat(r.Cycles),
			fmtFloat(r.BatterySavings),
			fmtFloat(r.SavingsPerKWh),
			marginal,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
