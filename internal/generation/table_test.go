package generation

import (
	"testing"

	"smartgrid_simulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolarProfile(t *testing.T) {
	p := SolarProfile()

	assert.Equal(t, 12, p.PeakHour)
	assert.Equal(t, 1.0, p.HourlyFactor[12])
	assert.Equal(t, 13, p.DaylightHours())
	for h := 0; h < 6; h++ {
		assert.Zero(t, p.HourlyFactor[h], "hour %d", h)
	}
	for h := 19; h < 24; h++ {
		assert.Zero(t, p.HourlyFactor[h], "hour %d", h)
	}
	// Symmetric around noon.
	for d := 1; d <= 6; d++ {
		assert.Equal(t, p.HourlyFactor[12-d], p.HourlyFactor[12+d], "offset %d", d)
	}
}

func TestProfile_FactorAtWraps(t *testing.T) {
	p := SolarProfile()
	assert.Equal(t, p.FactorAt(12), p.FactorAt(36))
	assert.Equal(t, p.FactorAt(23), p.FactorAt(-1))
}

func TestNewSeededTable_Ranges(t *testing.T) {
	table := NewSeededTable(42)

	wind, ok := table.Profile(model.SourceWind)
	require.True(t, ok)
	kinetic, ok := table.Profile(model.SourceKinetic)
	require.True(t, ok)

	for h := 0; h < model.HoursPerDay; h++ {
		assert.GreaterOrEqual(t, wind.HourlyFactor[h], 0.3, "wind hour %d", h)
		assert.Less(t, wind.HourlyFactor[h], 1.0, "wind hour %d", h)

		if KineticActiveHour(h) {
			assert.GreaterOrEqual(t, kinetic.HourlyFactor[h], 0.7, "kinetic hour %d", h)
			assert.Less(t, kinetic.HourlyFactor[h], 1.0, "kinetic hour %d", h)
		} else {
			assert.GreaterOrEqual(t, kinetic.HourlyFactor[h], 0.2, "kinetic hour %d", h)
			assert.Less(t, kinetic.HourlyFactor[h], 0.7, "kinetic hour %d", h)
		}
	}
}

func TestNewSeededTable_Deterministic(t *testing.T) {
	a := NewSeededTable(7)
	b := NewSeededTable(7)
	c := NewSeededTable(8)

	wa, _ := a.Profile(model.SourceWind)
	wb, _ := b.Profile(model.SourceWind)
	wc, _ := c.Profile(model.SourceWind)
	assert.Equal(t, wa, wb)
	assert.NotEqual(t, wa, wc)
}

func TestKineticActiveHour(t *testing.T) {
	active := map[int]bool{7: true, 8: true, 9: true, 17: true, 18: true, 19: true, 20: true, 21: true}
	for h := 0; h < model.HoursPerDay; h++ {
		assert.Equal(t, active[h], KineticActiveHour(h), "hour %d", h)
	}
}

func TestTableAt(t *testing.T) {
	table := FixedTable(ConstantProfile(0.5), ConstantProfile(0.25))
	sources := []model.EnergySourceConfig{
		{Kind: model.SourceSolar, CapacityKW: 5, Active: true},
		{Kind: model.SourceWind, CapacityKW: 2, Active: true},
		{Kind: model.SourceHeatPump, CapacityKW: 1, Active: true, Efficiency: 3},
		{Kind: model.SourceKinetic, CapacityKW: 0.4, Active: true},
	}

	g := table.At(12, sources)
	assert.InDelta(t, 5.0, g.Solar, 1e-9)
	assert.InDelta(t, 1.0, g.Wind, 1e-9)
	assert.InDelta(t, 3.0, g.HeatPump, 1e-9)
	assert.InDelta(t, 0.1, g.Kinetic, 1e-9)
	assert.InDelta(t, 9.1, g.Total, 1e-9)

	night := table.At(0, sources)
	assert.Zero(t, night.Solar)
	assert.InDelta(t, 4.1, night.Total, 1e-9)
}

func TestTableAt_SkipsIdleSources(t *testing.T) {
	table := FixedTable(ConstantProfile(1), ConstantProfile(1))
	sources := []model.EnergySourceConfig{
		{Kind: model.SourceSolar, CapacityKW: 5, Active: false},
		{Kind: model.SourceWind, CapacityKW: 0, Active: true},
		{Kind: model.SourceKinetic, CapacityKW: -2, Active: true},
		{Kind: model.SourceKind("tidal"), CapacityKW: 10, Active: true},
	}

	for h := 0; h < model.HoursPerDay; h++ {
		assert.Equal(t, model.Generation{}, table.At(h, sources), "hour %d", h)
	}
}

func TestTableAt_HeatPumpDefaultEfficiency(t *testing.T) {
	table := NewSeededTable(1)
	g := table.At(3, []model.EnergySourceConfig{{Kind: model.SourceHeatPump, CapacityKW: 2, Active: true}})
	assert.Equal(t, 2.0, g.HeatPump)
	assert.Equal(t, 2.0, g.Total)
}
