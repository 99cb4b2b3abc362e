package optimizer

import "smartgrid_simulator/internal/model"

// Move records one appliance being rescheduled.
type Move struct {
	Index       int     `json:"index"`
	ApplianceID string  `json:"appliance_id"`
	Name        string  `json:"name"`
	FromHour    int     `json:"from_hour"`
	ToHour      int     `json:"to_hour"`
	Score       float64 `json:"score"`
	Improvement float64 `json:"improvement"` // baseline score minus Score
}

// Observer receives search progress. Calls happen synchronously on the
// searching goroutine, in order.
type Observer interface {
	OnBaseline(result model.SimulationResult, score float64)
	OnMove(move Move)
	OnFallback(final, baseline model.SimulationResult)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnBaseline(model.SimulationResult, float64)                {}
func (NopObserver) OnMove(Move)                                               {}
func (NopObserver) OnFallback(model.SimulationResult, model.SimulationResult) {}

// MultiObserver fans events out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnBaseline(result model.SimulationResult, score float64) {
	for _, o := range m {
		o.OnBaseline(result, score)
	}
}

func (m MultiObserver) OnMove(move Move) {
	for _, o := range m {
		o.OnMove(move)
	}
}

func (m MultiObserver) OnFallback(final, baseline model.SimulationResult) {
	for _, o := range m {
		o.OnFallback(final, baseline)
	}
}
