package simulator

import "math"

// InitialChargeFraction is the share of capacity a battery holds at 00:00.
const InitialChargeFraction = 0.5

// ProcessResult is returned by Battery.Process for each hour.
type ProcessResult struct {
	ChargedKWh    float64 // absorbed from surplus
	DischargedKWh float64 // released to cover deficit
	ImportKWh     float64
	ExportKWh     float64
	LevelKWh      float64
}

// Battery is a lossless home battery with no power limit.
type Battery struct {
	capacityKWh float64

	// State
	LevelKWh float64

	// Stats
	TotalThroughputKWh float64
}

// NewBattery creates a battery at InitialChargeFraction of capacity.
// A non-positive capacity yields a battery that never stores anything.
func NewBattery(capacityKWh float64) *Battery {
	if capacityKWh < 0 {
		capacityKWh = 0
	}
	return &Battery{
		capacityKWh: capacityKWh,
		LevelKWh:    capacityKWh * InitialChargeFraction,
	}
}

// CapacityKWh returns the configured capacity.
func (b *Battery) CapacityKWh() float64 {
	return b.capacityKWh
}

// Process settles one hour's balance (generation minus consumption).
//
// A surplus charges the battery up to capacity and the remainder is exported.
// A deficit drains the battery down to zero and the remainder is imported.
// At most one of ImportKWh and ExportKWh is nonzero.
func (b *Battery) Process(balanceKWh float64) ProcessResult {
	var res ProcessResult

	if balanceKWh > 0 {
		charge := math.Max(0, math.Min(b.capacityKWh-b.LevelKWh, balanceKWh))
		b.LevelKWh += charge
		b.TotalThroughputKWh += charge
		res.ChargedKWh = charge
		res.ExportKWh = balanceKWh - charge
	} else if balanceKWh < 0 {
		deficit := -balanceKWh
		discharge := math.Min(b.LevelKWh, deficit)
		b.LevelKWh -= discharge
		b.TotalThroughputKWh += discharge
		res.DischargedKWh = discharge
		res.ImportKWh = deficit - discharge
	}

	res.LevelKWh = b.LevelKWh
	return res
}

// SoCPercent returns the charge level as a percentage of capacity.
func (b *Battery) SoCPercent() float64 {
	if b.capacityKWh <= 0 {
		return 0
	}
	return b.LevelKWh / b.capacityKWh * 100
}

// Cycles returns the equivalent full cycle count.
func (b *Battery) Cycles() float64 {
	if b.capacityKWh <= 0 {
		return 0
	}
	return b.TotalThroughputKWh / 2 / b.capacityKWh
}
