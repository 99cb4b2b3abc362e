package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const defaultCapacityKWh = 10.0

func TestBattery_NewStartsHalfFull(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)
	assert.InDelta(t, 5, b.LevelKWh, 0.001)
	assert.InDelta(t, 50, b.SoCPercent(), 0.001)
}

func TestBattery_NegativeCapacity(t *testing.T) {
	b := NewBattery(-3)
	assert.Zero(t, b.CapacityKWh())
	assert.Zero(t, b.LevelKWh)

	r := b.Process(2)
	assert.InDelta(t, 2, r.ExportKWh, 0.001)
	r = b.Process(-1)
	assert.InDelta(t, 1, r.ImportKWh, 0.001)
	assert.Zero(t, b.Cycles())
	assert.Zero(t, b.SoCPercent())
}

func TestBattery_ChargeOnSurplus(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)

	r := b.Process(2)
	assert.InDelta(t, 2, r.ChargedKWh, 0.001)
	assert.Zero(t, r.ExportKWh)
	assert.Zero(t, r.ImportKWh)
	assert.InDelta(t, 7, r.LevelKWh, 0.001)
}

func TestBattery_SurplusCappedAtCapacity(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)

	// 5 kWh stored, 8 kWh surplus: 5 charged, 3 exported.
	r := b.Process(8)
	assert.InDelta(t, 5, r.ChargedKWh, 0.001)
	assert.InDelta(t, 3, r.ExportKWh, 0.001)
	assert.InDelta(t, 10, r.LevelKWh, 0.001)
	assert.InDelta(t, 100, b.SoCPercent(), 0.001)
}

func TestBattery_DischargeOnDeficit(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)

	r := b.Process(-3)
	assert.InDelta(t, 3, r.DischargedKWh, 0.001)
	assert.Zero(t, r.ImportKWh)
	assert.InDelta(t, 2, r.LevelKWh, 0.001)
}

func TestBattery_DeficitBeyondLevelImports(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)

	r := b.Process(-7.5)
	assert.InDelta(t, 5, r.DischargedKWh, 0.001)
	assert.InDelta(t, 2.5, r.ImportKWh, 0.001)
	assert.Zero(t, r.LevelKWh)

	// Empty battery passes the whole deficit to the grid.
	r = b.Process(-1)
	assert.Zero(t, r.DischargedKWh)
	assert.InDelta(t, 1, r.ImportKWh, 0.001)
}

func TestBattery_ZeroBalance(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)
	r := b.Process(0)
	assert.Equal(t, ProcessResult{LevelKWh: 5}, r)
}

func TestBattery_Cycles(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)

	b.Process(5)   // charge 5
	b.Process(-10) // discharge 10
	b.Process(5)   // charge 5

	// 20 kWh throughput / 2 / 10 kWh = 1 cycle.
	assert.InDelta(t, 20, b.TotalThroughputKWh, 0.001)
	assert.InDelta(t, 1, b.Cycles(), 0.001)
}

func TestBattery_LevelStaysInBounds(t *testing.T) {
	b := NewBattery(defaultCapacityKWh)
	for _, balance := range []float64{9, -2, 14, -30, 0.5, -0.1, 100, -100} {
		r := b.Process(balance)
		assert.GreaterOrEqual(t, r.LevelKWh, 0.0)
		assert.LessOrEqual(t, r.LevelKWh, defaultCapacityKWh)
		assert.False(t, r.ImportKWh > 0 && r.ExportKWh > 0)
	}
}
