package config

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"smartgrid_simulator/internal/model"
)

// ErrInvalidScenario wraps every scenario validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// ScenarioConfig describes the household to simulate.
type ScenarioConfig struct {
	Sources              []model.EnergySourceConfig `json:"sources"`
	BatteryCapacityKWh   float64                    `json:"battery_capacity_kwh"`
	Appliances           []model.Appliance          `json:"appliances"`
	PrioritizeFreeEnergy bool                       `json:"prioritize_free_energy"`
}

// DefaultScenario returns the stock household: rooftop solar, a 10 kWh
// battery and four common loads.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		Sources: []model.EnergySourceConfig{
			{Kind: model.SourceSolar, CapacityKW: 5, Active: true},
			{Kind: model.SourceWind, CapacityKW: 2, Active: false},
			{Kind: model.SourceHeatPump, CapacityKW: 0, Active: false, Efficiency: 3},
			{Kind: model.SourceKinetic, CapacityKW: 0.1, Active: false},
		},
		BatteryCapacityKWh: 10,
		Appliances: []model.Appliance{
			model.NewAppliance("appliance-0", "Wasmachine", 2.0, 2, 10, true),
			model.NewAppliance("appliance-1", "Vaatwasser", 1.5, 2, 20, true),
			model.NewAppliance("appliance-2", "Elektrische Auto", 7.0, 4, 23, true),
			model.NewAppliance("appliance-3", "Basis verbruik", 0.3, 24, 0, false),
		},
		PrioritizeFreeEnergy: true,
	}
}

// Normalize assigns ids to appliances without one and recomputes every end
// hour from start and duration.
func (s *ScenarioConfig) Normalize() {
	for i := range s.Appliances {
		a := &s.Appliances[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.SetStart(a.StartHour)
	}
}

// Validate reports every problem found, joined, wrapped in ErrInvalidScenario.
func (s ScenarioConfig) Validate() error {
	var errs []error

	for i, src := range s.Sources {
		if !src.Kind.Valid() {
			errs = append(errs, fmt.Errorf("sources[%d]: unknown type %q", i, src.Kind))
		}
		if src.CapacityKW < 0 {
			errs = append(errs, fmt.Errorf("sources[%d]: capacity_kw must be >= 0, got %v", i, src.CapacityKW))
		}
		if src.Efficiency < 0 {
			errs = append(errs, fmt.Errorf("sources[%d]: efficiency must be >= 0, got %v", i, src.Efficiency))
		}
	}

	if s.BatteryCapacityKWh < 0 {
		errs = append(errs, fmt.Errorf("battery_capacity_kwh must be >= 0, got %v", s.BatteryCapacityKWh))
	}

	errs = append(errs, ValidateAppliances(s.Appliances)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
}

// ValidateAppliances checks each appliance's ranges and id uniqueness.
func ValidateAppliances(apps []model.Appliance) []error {
	var errs []error
	seen := make(map[string]int, len(apps))

	for i, a := range apps {
		label := fmt.Sprintf("appliances[%d]", i)
		if a.Name != "" {
			label = fmt.Sprintf("appliances[%d] (%s)", i, a.Name)
		}

		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		}
		if a.PowerKW <= 0 {
			errs = append(errs, fmt.Errorf("%s: power_kw must be > 0, got %v", label, a.PowerKW))
		}
		if a.DurationH < 1 || a.DurationH > model.HoursPerDay {
			errs = append(errs, fmt.Errorf("%s: duration_h must be 1-24, got %d", label, a.DurationH))
		}
		if a.StartHour < 0 || a.StartHour >= model.HoursPerDay {
			errs = append(errs, fmt.Errorf("%s: start_hour must be 0-23, got %d", label, a.StartHour))
		}
		if a.ID != "" {
			if j, dup := seen[a.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: id %q already used by appliances[%d]", label, a.ID, j))
			} else {
				seen[a.ID] = i
			}
		}
	}

	return errs
}

// SimulationConfig converts the scenario into the engine's input. The
// returned config shares no slices with s.
func (s ScenarioConfig) SimulationConfig() model.SimulationConfig {
	sources := make([]model.EnergySourceConfig, len(s.Sources))
	copy(sources, s.Sources)
	return model.SimulationConfig{
		Sources:              sources,
		BatteryCapacityKWh:   s.BatteryCapacityKWh,
		Appliances:           model.CloneAppliances(s.Appliances),
		PrioritizeFreeEnergy: s.PrioritizeFreeEnergy,
	}
}
