package model

import (
	"errors"
	"math"
)

// ErrUndefinedPercentage is returned when a savings percentage is requested
// against a zero baseline.
var ErrUndefinedPercentage = errors.New("percentage undefined for zero baseline")

// SimulationConfig is the household being simulated.
//
// PrioritizeFreeEnergy is carried for callers but does not change results.
type SimulationConfig struct {
	Sources              []EnergySourceConfig `json:"energy_sources"`
	BatteryCapacityKWh   float64              `json:"battery_capacity_kwh"`
	Appliances           []Appliance          `json:"appliances"`
	PrioritizeFreeEnergy bool                 `json:"prioritize_free_energy"`
}

// HourlyData is one hour of simulated energy flow. Energy values are kWh,
// Cost is EUR and CO2 is kg.
type HourlyData struct {
	Hour               int     `json:"hour"`
	SolarGeneration    float64 `json:"solar_generation"`
	WindGeneration     float64 `json:"wind_generation"`
	HeatPumpGeneration float64 `json:"heat_pump_generation"`
	KineticGeneration  float64 `json:"kinetic_generation"`
	TotalGeneration    float64 `json:"total_generation"`
	Consumption        float64 `json:"consumption"`
	BatteryLevel       float64 `json:"battery_level"`
	GridImport         float64 `json:"grid_import"`
	GridExport         float64 `json:"grid_export"`
	FreeEnergyUsed     float64 `json:"free_energy_used"`
	Cost               float64 `json:"cost"`
	CO2                float64 `json:"co2"`
}

// Totals are unrounded day totals, used for scoring and comparison.
type Totals struct {
	Cost                 float64 `json:"cost"`
	CO2                  float64 `json:"co2"`
	Consumption          float64 `json:"consumption"`
	Generation           float64 `json:"generation"`
	GridImport           float64 `json:"grid_import"`
	GridExport           float64 `json:"grid_export"`
	BatteryStartKWh      float64 `json:"battery_start_kwh"`
	BatteryEndKWh        float64 `json:"battery_end_kwh"`
	BatteryThroughputKWh float64 `json:"battery_throughput_kwh"`
}

// SimulationResult is a full simulated day with rounded aggregates.
type SimulationResult struct {
	Hourly           []HourlyData `json:"hourly_data"`
	TotalCost        float64      `json:"total_cost"`
	TotalCO2         float64      `json:"total_co2"`
	TotalConsumption float64      `json:"total_consumption"`
	TotalGeneration  float64      `json:"total_generation"`
	SelfSufficiency  float64      `json:"self_sufficiency"`
	GridImport       float64      `json:"grid_import"`
	GridExport       float64      `json:"grid_export"`
	BatteryLevel     float64      `json:"battery_level"`
	FreeEnergyUsed   float64      `json:"free_energy_used"`
	BatteryCycles    float64      `json:"battery_cycles"`
	Exact            Totals       `json:"exact"`
}

// ComparisonResult pairs the input schedule's day with the optimized one.
//
// The percentages are nil when the normal value they divide by is zero.
type ComparisonResult struct {
	Normal                SimulationResult `json:"normal"`
	Optimized             SimulationResult `json:"optimized"`
	NormalSchedule        []Appliance      `json:"normal_schedule,omitempty"`
	OptimizedSchedule     []Appliance      `json:"optimized_schedule,omitempty"`
	CostSavings           float64          `json:"cost_savings"`
	CO2Savings            float64          `json:"co2_savings"`
	CostSavingsPercentage *float64         `json:"cost_savings_percentage"`
	CO2SavingsPercentage  *float64         `json:"co2_savings_percentage"`
}

// NewComparison derives savings from the exact totals of both runs.
func NewComparison(normal, optimized SimulationResult) ComparisonResult {
	costSavings := normal.Exact.Cost - optimized.Exact.Cost
	co2Savings := normal.Exact.CO2 - optimized.Exact.CO2

	c := ComparisonResult{
		Normal:      normal,
		Optimized:   optimized,
		CostSavings: Round(costSavings, 2),
		CO2Savings:  Round(co2Savings, 1),
	}
	if pct, err := SavingsPercentage(costSavings, normal.Exact.Cost); err == nil {
		c.CostSavingsPercentage = &pct
	}
	if pct, err := SavingsPercentage(co2Savings, normal.Exact.CO2); err == nil {
		c.CO2SavingsPercentage = &pct
	}
	return c
}

// Clone returns a copy that shares no slices or pointers with c.
func (c ComparisonResult) Clone() ComparisonResult {
	c.Normal = c.Normal.Clone()
	c.Optimized = c.Optimized.Clone()
	c.NormalSchedule = CloneAppliances(c.NormalSchedule)
	c.OptimizedSchedule = CloneAppliances(c.OptimizedSchedule)
	c.CostSavingsPercentage = clonePtr(c.CostSavingsPercentage)
	c.CO2SavingsPercentage = clonePtr(c.CO2SavingsPercentage)
	return c
}

// Clone returns a copy with its own hourly slice.
func (r SimulationResult) Clone() SimulationResult {
	if r.Hourly != nil {
		hourly := make([]HourlyData, len(r.Hourly))
		copy(hourly, r.Hourly)
		r.Hourly = hourly
	}
	return r
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SavingsPercentage returns savings as a percentage of base, rounded to one
// decimal.
func SavingsPercentage(savings, base float64) (float64, error) {
	if base == 0 {
		return 0, ErrUndefinedPercentage
	}
	return Round(savings/base*100, 1), nil
}

// Round rounds x half away from zero to the given number of decimals.
// Negative zero is normalized to zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(x*p) / p
	if r == 0 {
		return 0
	}
	return r
}
