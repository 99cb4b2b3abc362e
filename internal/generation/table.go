package generation

import (
	"math/rand/v2"

	"smartgrid_simulator/internal/model"
)

// Wind and kinetic factor ranges. Each draw is uniform in [min, max).
const (
	windMin = 0.3
	windMax = 1.0

	kineticActiveMin = 0.7
	kineticActiveMax = 1.0
	kineticIdleMin   = 0.2
	kineticIdleMax   = 0.7
)

// Table is a fixed set of per-kind daily profiles. Random profiles are drawn
// once at construction, so every lookup against the same Table agrees.
type Table struct {
	profiles map[model.SourceKind]Profile
}

// NewTable draws wind and kinetic profiles from rng.
func NewTable(rng *rand.Rand) *Table {
	var wind, kinetic [model.HoursPerDay]float64
	for h := 0; h < model.HoursPerDay; h++ {
		wind[h] = uniform(rng, windMin, windMax)
	}
	for h := 0; h < model.HoursPerDay; h++ {
		if KineticActiveHour(h) {
			kinetic[h] = uniform(rng, kineticActiveMin, kineticActiveMax)
		} else {
			kinetic[h] = uniform(rng, kineticIdleMin, kineticIdleMax)
		}
	}
	return FixedTable(NewProfile(wind), NewProfile(kinetic))
}

// NewSeededTable is NewTable with a PCG source seeded by seed.
func NewSeededTable(seed uint64) *Table {
	return NewTable(rand.New(rand.NewPCG(seed, 0)))
}

// FixedTable builds a table from caller-supplied wind and kinetic profiles.
// Solar and heat pump use their standard shapes.
func FixedTable(wind, kinetic Profile) *Table {
	return &Table{
		profiles: map[model.SourceKind]Profile{
			model.SourceSolar:    SolarProfile(),
			model.SourceWind:     wind,
			model.SourceHeatPump: ConstantProfile(1),
			model.SourceKinetic:  kinetic,
		},
	}
}

// KineticActiveHour reports whether hour falls in a high-activity window
// (07:00-09:59 or 17:00-21:59).
func KineticActiveHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 21)
}

// Profile returns the profile for kind.
func (t *Table) Profile(kind model.SourceKind) (Profile, bool) {
	p, ok := t.profiles[kind]
	return p, ok
}

// At returns each source's output for hour. Inactive sources, sources with
// no capacity and unknown kinds contribute nothing.
func (t *Table) At(hour int, sources []model.EnergySourceConfig) model.Generation {
	var g model.Generation
	for _, s := range sources {
		if !s.Producing() {
			continue
		}
		p, ok := t.profiles[s.Kind]
		if !ok {
			continue
		}
		g.Add(s.Kind, p.FactorAt(hour)*s.CapacityKW*s.EffectiveEfficiency())
	}
	return g
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
