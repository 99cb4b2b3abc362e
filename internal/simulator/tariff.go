package simulator

import "smartgrid_simulator/internal/model"

// ExportCompensation is the share of the hourly price credited for exported
// energy.
const ExportCompensation = 0.7

// Price is the grid tariff per hour in EUR/kWh.
var Price = [model.HoursPerDay]float64{
	0.19, 0.18, 0.17, 0.16, 0.15, 0.17,
	0.22, 0.27, 0.30, 0.28, 0.25, 0.23,
	0.21, 0.20, 0.19, 0.22, 0.24, 0.28,
	0.33, 0.31, 0.29, 0.27, 0.25, 0.24,
}

// CO2Intensity is the grid carbon intensity per hour in kg/kWh.
var CO2Intensity = [model.HoursPerDay]float64{
	0.36, 0.35, 0.34, 0.33, 0.32, 0.34,
	0.38, 0.42, 0.39, 0.36, 0.30, 0.26,
	0.22, 0.20, 0.21, 0.24, 0.28, 0.31,
	0.35, 0.34, 0.33, 0.32, 0.31, 0.30,
}

// HourCost is the net cost of one hour's grid exchange. Negative when export
// credit exceeds import cost.
func HourCost(hour int, importKWh, exportKWh float64) float64 {
	return importKWh*Price[hour] - exportKWh*Price[hour]*ExportCompensation
}

// HourCO2 is the emissions attributed to one hour's import. Export earns no
// credit.
func HourCO2(hour int, importKWh float64) float64 {
	return importKWh * CO2Intensity[hour]
}
