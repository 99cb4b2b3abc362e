package metrics

import "time"

// Recorder receives planner events.
type Recorder interface {
	RecordSimulation()
	RecordOptimization(outcome string, moves int, took time.Duration, costSavings float64)
	RecordCacheLookup(hit bool)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordSimulation()                                      {}
func (NopRecorder) RecordOptimization(string, int, time.Duration, float64) {}
func (NopRecorder) RecordCacheLookup(bool)                                 {}
