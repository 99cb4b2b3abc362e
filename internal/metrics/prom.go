package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records planner events in Prometheus metrics.
type PromRecorder struct {
	simulations   prometheus.Counter
	optimizations *prometheus.CounterVec
	moves         prometheus.Counter
	duration      prometheus.Histogram
	savings       prometheus.Histogram
	cache         *prometheus.CounterVec
}

// NewPromRecorder registers the gridsim metrics on reg. If reg is nil, the
// default registerer is used. Collectors that are already registered are
// reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PromRecorder{}
	var err error

	if r.simulations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_simulations_total",
		Help: "Total number of simulated days requested",
	})); err != nil {
		return nil, err
	}
	if r.optimizations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridsim_optimizations_total",
		Help: "Total number of schedule optimizations by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if r.moves, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gridsim_appliance_moves_total",
		Help: "Total number of appliances rescheduled by the optimizer",
	})); err != nil {
		return nil, err
	}
	if r.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_optimization_duration_seconds",
		Help:    "Wall time of one schedule optimization",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})); err != nil {
		return nil, err
	}
	if r.savings, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_cost_savings_eur",
		Help:    "Daily cost saved by the optimized schedule",
		Buckets: []float64{0, 0.1, 0.25, 0.5, 1, 2, 5},
	})); err != nil {
		return nil, err
	}
	if r.cache, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gridsim_cache_lookups_total",
		Help: "Comparison memo lookups by result",
	}, []string{"hit"})); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *PromRecorder) RecordSimulation() {
	r.simulations.Inc()
}

func (r *PromRecorder) RecordOptimization(outcome string, moves int, took time.Duration, costSavings float64) {
	r.optimizations.WithLabelValues(outcome).Inc()
	r.moves.Add(float64(moves))
	r.duration.Observe(took.Seconds())
	r.savings.Observe(costSavings)
}

func (r *PromRecorder) RecordCacheLookup(hit bool) {
	r.cache.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

// register adds c to reg, returning the existing collector when an
// identical one is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
