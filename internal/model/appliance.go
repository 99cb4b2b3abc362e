package model

// HoursPerDay is the length of one simulated day.
const HoursPerDay = 24

// Appliance is a load with a fixed power draw over a whole number of hours.
//
// EndHour is derived from StartHour and DurationH; change either through
// SetStart or SetDuration so it stays consistent.
type Appliance struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PowerKW   float64 `json:"power_kw"`
	DurationH int     `json:"duration_h"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Flexible  bool    `json:"flexible"`
}

// NewAppliance builds an appliance with its end hour already derived.
func NewAppliance(id, name string, powerKW float64, durationH, startHour int, flexible bool) Appliance {
	return Appliance{
		ID:        id,
		Name:      name,
		PowerKW:   powerKW,
		DurationH: durationH,
		StartHour: startHour,
		EndHour:   EndHourFor(startHour, durationH),
		Flexible:  flexible,
	}
}

// EndHourFor returns the clock hour at which a run starting at start ends.
func EndHourFor(start, duration int) int {
	return (start + duration) % HoursPerDay
}

// SetStart moves the appliance and recomputes its end hour.
func (a *Appliance) SetStart(hour int) {
	a.StartHour = hour
	a.EndHour = EndHourFor(hour, a.DurationH)
}

// SetDuration changes the run length and recomputes the end hour.
func (a *Appliance) SetDuration(hours int) {
	a.DurationH = hours
	a.EndHour = EndHourFor(a.StartHour, hours)
}

// Wraps reports whether the run crosses midnight.
func (a Appliance) Wraps() bool {
	return a.StartHour+a.DurationH > HoursPerDay
}

// ActiveAt reports whether the appliance draws power during hour.
//
// Without wrap the run is the literal interval [start, start+duration), so
// the part of a run that would continue past hour 23 is dropped. With wrap
// the run continues from hour 0.
func (a Appliance) ActiveAt(hour int, wrap bool) bool {
	if wrap {
		return ((hour-a.StartHour)%HoursPerDay+HoursPerDay)%HoursPerDay < a.DurationH
	}
	return hour >= a.StartHour && hour < a.StartHour+a.DurationH
}

// CloneAppliances returns a copy that shares no state with in.
func CloneAppliances(in []Appliance) []Appliance {
	if in == nil {
		return nil
	}
	out := make([]Appliance, len(in))
	copy(out, in)
	return out
}
