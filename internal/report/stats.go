package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"smartgrid_simulator/internal/model"
)

// DayStats summarizes the shape of a simulated day.
type DayStats struct {
	// PeakImportHour and PeakExportHour are -1 when nothing flowed.
	PeakImportHour  int     `json:"peak_import_hour"`
	PeakImportKWh   float64 `json:"peak_import_kwh"`
	PeakExportHour  int     `json:"peak_export_hour"`
	PeakExportKWh   float64 `json:"peak_export_kwh"`
	MeanGeneration  float64 `json:"mean_generation_kwh"`
	GenerationStdev float64 `json:"generation_stdev_kwh"`
	MeanConsumption float64 `json:"mean_consumption_kwh"`
	// CoveredHours counts hours with load and no grid import.
	CoveredHours int `json:"covered_hours"`
}

// Describe computes DayStats from the hourly records.
func Describe(res model.SimulationResult) DayStats {
	n := len(res.Hourly)
	if n == 0 {
		return DayStats{PeakImportHour: -1, PeakExportHour: -1}
	}

	imports := make([]float64, n)
	exports := make([]float64, n)
	gen := make([]float64, n)
	cons := make([]float64, n)
	covered := 0
	for i, h := range res.Hourly {
		imports[i] = h.GridImport
		exports[i] = h.GridExport
		gen[i] = h.TotalGeneration
		cons[i] = h.Consumption
		if h.Consumption > 0 && h.GridImport == 0 {
			covered++
		}
	}

	ds := DayStats{
		PeakImportHour:  -1,
		PeakExportHour:  -1,
		MeanGeneration:  model.Round(stat.Mean(gen, nil), 2),
		MeanConsumption: model.Round(stat.Mean(cons, nil), 2),
		CoveredHours:    covered,
	}
	if n > 1 {
		ds.GenerationStdev = model.Round(stat.StdDev(gen, nil), 2)
	}
	if i := floats.MaxIdx(imports); imports[i] > 0 {
		ds.PeakImportHour = res.Hourly[i].Hour
		ds.PeakImportKWh = imports[i]
	}
	if i := floats.MaxIdx(exports); exports[i] > 0 {
		ds.PeakExportHour = res.Hourly[i].Hour
		ds.PeakExportKWh = exports[i]
	}
	return ds
}
