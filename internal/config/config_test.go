package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartgrid_simulator/internal/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 128, cfg.Server.CacheSize)
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Zero(t, cfg.Generation.Seed)
	assert.False(t, cfg.Simulation.WrapMidnight)
	assert.Equal(t, DefaultScenario(), cfg.Scenario)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "gridsim.yaml", `server:
  addr: ":9090"
  cache_size: 4
logging:
  level: debug
generation:
  seed: 42
simulation:
  wrap_midnight: true
scenario:
  battery_capacity_kwh: 13.5
  sources:
    - type: solar
      capacity_kw: 8
      active: true
    - type: heat_pump
      capacity_kw: 1
      active: true
      efficiency: 3.5
  appliances:
    - name: Boiler
      power_kw: 3
      duration_h: 2
      start_hour: 22
      flexible: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"addr", cfg.Server.Addr, ":9090"},
		{"cache_size", cfg.Server.CacheSize, 4},
		{"metrics default kept", cfg.Server.MetricsEnabled, true},
		{"level", cfg.Logging.Level, "debug"},
		{"seed", cfg.Generation.Seed, uint64(42)},
		{"wrap", cfg.Simulation.WrapMidnight, true},
		{"battery", cfg.Scenario.BatteryCapacityKWh, 13.5},
		{"sources", len(cfg.Scenario.Sources), 2},
		{"hp kind", cfg.Scenario.Sources[1].Kind, model.SourceHeatPump},
		{"hp cop", cfg.Scenario.Sources[1].Efficiency, 3.5},
		{"appliances", len(cfg.Scenario.Appliances), 1},
		{"end hour", cfg.Scenario.Appliances[0].EndHour, 0},
		{"prioritize default kept", cfg.Scenario.PrioritizeFreeEnergy, true},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}

	_, err = uuid.Parse(cfg.Scenario.Appliances[0].ID)
	assert.NoError(t, err, "missing id is generated")
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "gridsim.json", `{"server":{"addr":"127.0.0.1:8000"},"scenario":{"battery_capacity_kwh":0}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Zero(t, cfg.Scenario.BatteryCapacityKWh)
	assert.Len(t, cfg.Scenario.Appliances, 4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRIDSIM_SERVER__ADDR", ":7000")
	t.Setenv("GRIDSIM_GENERATION__SEED", "7")
	t.Setenv("GRIDSIM_SIMULATION__WRAP_MIDNIGHT", "true")
	t.Setenv("GRIDSIM_SCENARIO__BATTERY_CAPACITY_KWH", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, uint64(7), cfg.Generation.Seed)
	assert.True(t, cfg.Simulation.WrapMidnight)
	assert.Equal(t, 5.0, cfg.Scenario.BatteryCapacityKWh)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "gridsim.yaml", `server:
  addr: ":9000"
  cache_size: 4
`)
	t.Setenv("GRIDSIM_SERVER__ADDR", ":9001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9001", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Server.CacheSize)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "gridsim.toml", "addr = 1")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidScenario(t *testing.T) {
	path := writeFile(t, "gridsim.yaml", `scenario:
  battery_capacity_kwh: -1
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.Contains(t, err.Error(), "battery_capacity_kwh")
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("GRIDSIM_LOGGING__LEVEL", "chatty")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}
