package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/singleflight"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/generation"
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/metrics"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
	"smartgrid_simulator/internal/simulator"
	"smartgrid_simulator/internal/store"
)

// Options configure a Planner.
type Options struct {
	// Seed for the wind and kinetic profiles. Zero draws one at random.
	Seed         uint64
	WrapMidnight bool
	// CacheSize bounds the comparison memo. Zero disables it.
	CacheSize int
	Recorder  metrics.Recorder
	Logger    logger.Logger
}

// Planner validates scenarios and runs simulations, optimizations and
// comparisons against one generation table. It is safe for concurrent use.
type Planner struct {
	seed   uint64
	wrap   bool
	engine *simulator.Engine
	opt    *optimizer.Optimizer
	cache  *store.Store
	rec    metrics.Recorder
	log    logger.Logger
	group  singleflight.Group
}

func New(opts Options) *Planner {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
		opts.Logger.Infof("no generation seed configured, using %d", seed)
	}

	engine := simulator.New(generation.NewSeededTable(seed), simulator.Options{WrapMidnight: opts.WrapMidnight})
	return &Planner{
		seed:   seed,
		wrap:   opts.WrapMidnight,
		engine: engine,
		opt:    optimizer.New(engine, optimizer.Options{WrapMidnight: opts.WrapMidnight}),
		cache:  store.New(opts.CacheSize),
		rec:    opts.Recorder,
		log:    opts.Logger,
	}
}

// Seed returns the seed behind the generation table.
func (p *Planner) Seed() uint64 {
	return p.seed
}

// Simulate runs the scenario's own schedule.
func (p *Planner) Simulate(ctx context.Context, sc config.ScenarioConfig) (model.SimulationResult, error) {
	cfg, err := p.prepare(ctx, sc)
	if err != nil {
		return model.SimulationResult{}, err
	}
	p.rec.RecordSimulation()
	return p.engine.Simulate(cfg, cfg.Appliances), nil
}

// Optimize searches for a better schedule. obs may be nil.
func (p *Planner) Optimize(ctx context.Context, sc config.ScenarioConfig, obs optimizer.Observer) (optimizer.Plan, error) {
	cfg, err := p.prepare(ctx, sc)
	if err != nil {
		return optimizer.Plan{}, err
	}
	return p.plan(cfg, obs), nil
}

// Compare simulates the scenario's schedule and its optimized version.
//
// Results are memoized by scenario fingerprint and identical concurrent
// requests share one search. Observers only see progress for searches that
// actually run.
func (p *Planner) Compare(ctx context.Context, sc config.ScenarioConfig, obs optimizer.Observer) (model.ComparisonResult, error) {
	cfg, err := p.prepare(ctx, sc)
	if err != nil {
		return model.ComparisonResult{}, err
	}
	return p.compare(ctx, cfg, obs)
}

func (p *Planner) compare(ctx context.Context, cfg model.SimulationConfig, obs optimizer.Observer) (model.ComparisonResult, error) {
	key, err := p.Fingerprint(cfg)
	if err != nil {
		return model.ComparisonResult{}, err
	}

	if res, ok := p.cache.Get(key); ok {
		p.rec.RecordCacheLookup(true)
		p.log.Debugw("comparison served from memo", map[string]any{"key": key[:12]})
		return res, nil
	}
	p.rec.RecordCacheLookup(false)

	ch := p.group.DoChan(key, func() (any, error) {
		res := p.plan(cfg, obs).Comparison(cfg.Appliances)
		p.cache.Put(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return model.ComparisonResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return model.ComparisonResult{}, r.Err
		}
		res := r.Val.(model.ComparisonResult)
		return res.Clone(), nil
	}
}

func (p *Planner) plan(cfg model.SimulationConfig, obs optimizer.Observer) optimizer.Plan {
	start := time.Now()
	plan := p.opt.Plan(cfg, cfg.Appliances, obs)
	took := time.Since(start)

	savings := plan.Baseline.Exact.Cost - plan.Final.Exact.Cost
	p.rec.RecordOptimization(string(plan.Outcome()), len(plan.Moves), took, savings)
	p.log.Debugw("optimization finished", map[string]any{
		"outcome":     plan.Outcome(),
		"moves":       len(plan.Moves),
		"evaluations": plan.Evaluations,
		"took_ms":     took.Milliseconds(),
	})
	return plan
}

// prepare validates sc and converts it to engine input.
func (p *Planner) prepare(ctx context.Context, sc config.ScenarioConfig) (model.SimulationConfig, error) {
	if err := ctx.Err(); err != nil {
		return model.SimulationConfig{}, err
	}
	sc.Appliances = model.CloneAppliances(sc.Appliances)
	sc.Normalize()
	if err := sc.Validate(); err != nil {
		return model.SimulationConfig{}, err
	}
	return sc.SimulationConfig(), nil
}

// Fingerprint identifies cfg together with the planner's engine options.
func (p *Planner) Fingerprint(cfg model.SimulationConfig) (string, error) {
	payload := struct {
		Config model.SimulationConfig `json:"config"`
		Wrap   bool                   `json:"wrap"`
	}{cfg, p.wrap}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprinting scenario: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
