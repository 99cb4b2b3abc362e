package model

// SourceKind identifies an on-site generation technology.
type SourceKind string

const (
	SourceSolar    SourceKind = "solar"
	SourceWind     SourceKind = "wind"
	SourceHeatPump SourceKind = "heat_pump"
	SourceKinetic  SourceKind = "kinetic"
)

// SourceKinds lists every known kind in reporting order.
var SourceKinds = []SourceKind{SourceSolar, SourceWind, SourceHeatPump, SourceKinetic}

// SourceInfo holds display name and unit for a source kind.
type SourceInfo struct {
	Name string
	Unit string
}

// SourceCatalog maps every known SourceKind to its display name and unit.
var SourceCatalog = map[SourceKind]SourceInfo{
	SourceSolar:    {Name: "Solar PV", Unit: "kW"},
	SourceWind:     {Name: "Wind Turbine", Unit: "kW"},
	SourceHeatPump: {Name: "Heat Pump", Unit: "kW"},
	SourceKinetic:  {Name: "Kinetic Floor", Unit: "kW"},
}

// Valid reports whether k is one of the four known kinds.
func (k SourceKind) Valid() bool {
	_, ok := SourceCatalog[k]
	return ok
}

// EnergySourceConfig configures one generation source.
//
// Efficiency is the heat pump coefficient of performance. Zero means unset
// and is treated as 1; the field is ignored for every other kind.
type EnergySourceConfig struct {
	Kind       SourceKind `json:"type"`
	CapacityKW float64    `json:"capacity_kw"`
	Active     bool       `json:"active"`
	Efficiency float64    `json:"efficiency,omitempty"`
}

// Producing reports whether the source contributes any generation.
func (s EnergySourceConfig) Producing() bool {
	return s.Active && s.CapacityKW > 0
}

// EffectiveEfficiency returns the multiplier applied to this source's output.
func (s EnergySourceConfig) EffectiveEfficiency() float64 {
	if s.Kind != SourceHeatPump || s.Efficiency == 0 {
		return 1
	}
	return s.Efficiency
}

// Generation is the per-source output for one hour, in kWh.
type Generation struct {
	Solar    float64 `json:"solar"`
	Wind     float64 `json:"wind"`
	HeatPump float64 `json:"heat_pump"`
	Kinetic  float64 `json:"kinetic"`
	Total    float64 `json:"total"`
}

// Add credits kwh to the component for kind and to the total.
func (g *Generation) Add(kind SourceKind, kwh float64) {
	switch kind {
	case SourceSolar:
		g.Solar += kwh
	case SourceWind:
		g.Wind += kwh
	case SourceHeatPump:
		g.HeatPump += kwh
	case SourceKinetic:
		g.Kinetic += kwh
	default:
		return
	}
	g.Total += kwh
}

// Of returns the component for kind.
func (g Generation) Of(kind SourceKind) float64 {
	switch kind {
	case SourceSolar:
		return g.Solar
	case SourceWind:
		return g.Wind
	case SourceHeatPump:
		return g.HeatPump
	case SourceKinetic:
		return g.Kinetic
	}
	return 0
}
