package generation

import "smartgrid_simulator/internal/model"

// Profile holds a normalized capacity factor for each hour [0-23].
type Profile struct {
	HourlyFactor [model.HoursPerDay]float64
	// PeakHour is the first hour with the highest factor.
	PeakHour int
}

// NewProfile builds a profile from hourly factors and locates its peak.
func NewProfile(factors [model.HoursPerDay]float64) Profile {
	p := Profile{HourlyFactor: factors}
	var maxFactor float64
	for h, f := range factors {
		if f > maxFactor {
			maxFactor = f
			p.PeakHour = h
		}
	}
	return p
}

// FactorAt returns the factor for hour. Hours outside the day are wrapped.
func (p Profile) FactorAt(hour int) float64 {
	return p.HourlyFactor[((hour%model.HoursPerDay)+model.HoursPerDay)%model.HoursPerDay]
}

// DaylightHours counts the hours with nonzero output.
func (p Profile) DaylightHours() int {
	n := 0
	for _, f := range p.HourlyFactor {
		if f > 0 {
			n++
		}
	}
	return n
}

// SolarProfile returns the clear-day PV shape: dark from 19:00 through 05:00,
// peaking at 1.0 at noon.
func SolarProfile() Profile {
	return NewProfile([model.HoursPerDay]float64{
		0, 0, 0, 0, 0, 0,
		0.05, 0.20, 0.45, 0.70, 0.85, 0.95,
		1.0, 0.95, 0.85, 0.70, 0.45, 0.20,
		0.05, 0, 0, 0, 0, 0,
	})
}

// ConstantProfile returns a flat profile at factor f.
func ConstantProfile(f float64) Profile {
	var factors [model.HoursPerDay]float64
	for h := range factors {
		factors[h] = f
	}
	return NewProfile(factors)
}
