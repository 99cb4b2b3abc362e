package optimizer

import "smartgrid_simulator/internal/model"

// Score weights. Lower scores are better.
const (
	CostWeight = 1.5
	CO2Weight  = 1.0
)

// Outcome summarizes what a search did to the schedule.
type Outcome string

const (
	OutcomeImproved  Outcome = "improved"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFallback  Outcome = "fallback"
)

// Simulator runs one simulated day for a schedule.
type Simulator interface {
	Simulate(cfg model.SimulationConfig, appliances []model.Appliance) model.SimulationResult
}

// Options tune the candidate range.
type Options struct {
	// WrapMidnight allows every start hour 0-23. Otherwise a run must start
	// early enough to end strictly before midnight. Set it to match the
	// simulator's option.
	WrapMidnight bool
}

// Optimizer reschedules flexible appliances one at a time, keeping the
// start hour with the lowest weighted cost and CO2 score.
type Optimizer struct {
	sim  Simulator
	opts Options
}

func New(sim Simulator, opts Options) *Optimizer {
	return &Optimizer{sim: sim, opts: opts}
}

// Plan is the full record of one search.
type Plan struct {
	Appliances    []model.Appliance      `json:"appliances"`
	Baseline      model.SimulationResult `json:"baseline"`
	Final         model.SimulationResult `json:"final"`
	BaselineScore float64                `json:"baseline_score"`
	FinalScore    float64                `json:"final_score"`
	Moves         []Move                 `json:"moves"`
	Evaluations   int                    `json:"evaluations"`
	FellBack      bool                   `json:"fell_back"`
}

// Outcome classifies the plan.
func (p Plan) Outcome() Outcome {
	switch {
	case p.FellBack:
		return OutcomeFallback
	case len(p.Moves) == 0:
		return OutcomeUnchanged
	default:
		return OutcomeImproved
	}
}

// Score weighs exact day totals.
func Score(t model.Totals) float64 {
	return t.Cost*CostWeight + t.CO2*CO2Weight
}

// Candidates returns the number of start hours tried for a run of
// durationH hours. Start hours are 0 through Candidates-1.
func (o *Optimizer) Candidates(durationH int) int {
	if o.opts.WrapMidnight {
		return model.HoursPerDay
	}
	if n := model.HoursPerDay - durationH; n > 0 {
		return n
	}
	return 0
}

// Plan searches for a better schedule. The input slice is never modified.
//
// Flexible appliances are visited in order. Each one is tried at every
// candidate start with all other appliances at their current (possibly
// already moved) hours. A candidate must beat the score of the original
// schedule and every earlier candidate for that appliance. If the final
// schedule costs more than the original, the original is returned.
func (o *Optimizer) Plan(cfg model.SimulationConfig, appliances []model.Appliance, obs Observer) Plan {
	if obs == nil {
		obs = NopObserver{}
	}

	working := model.CloneAppliances(appliances)
	baseline := o.sim.Simulate(cfg, working)
	baselineScore := Score(baseline.Exact)
	obs.OnBaseline(baseline, baselineScore)

	p := Plan{
		Baseline:      baseline,
		BaselineScore: baselineScore,
		Evaluations:   1,
	}

	for i := range working {
		if !working[i].Flexible {
			continue
		}

		original := working[i]
		bestHour := original.StartHour
		bestScore := baselineScore

		for start := 0; start < o.Candidates(original.DurationH); start++ {
			working[i].SetStart(start)
			score := Score(o.sim.Simulate(cfg, working).Exact)
			p.Evaluations++
			if score < bestScore {
				bestScore = score
				bestHour = start
			}
		}
		working[i] = original

		if bestHour != original.StartHour {
			working[i].SetStart(bestHour)
			m := Move{
				Index:       i,
				ApplianceID: original.ID,
				Name:        original.Name,
				FromHour:    original.StartHour,
				ToHour:      bestHour,
				Score:       bestScore,
				Improvement: baselineScore - bestScore,
			}
			p.Moves = append(p.Moves, m)
			obs.OnMove(m)
		}
	}

	final := o.sim.Simulate(cfg, working)
	p.Evaluations++

	if final.Exact.Cost > baseline.Exact.Cost {
		obs.OnFallback(final, baseline)
		p.Appliances = model.CloneAppliances(appliances)
		p.Final = baseline
		p.FinalScore = baselineScore
		p.FellBack = true
		return p
	}

	p.Appliances = working
	p.Final = final
	p.FinalScore = Score(final.Exact)
	return p
}

// Optimize returns an improved copy of appliances.
func (o *Optimizer) Optimize(cfg model.SimulationConfig, appliances []model.Appliance) []model.Appliance {
	return o.Plan(cfg, appliances, nil).Appliances
}

// Compare simulates the given schedule and its optimized version and
// reports the savings.
func (o *Optimizer) Compare(cfg model.SimulationConfig, appliances []model.Appliance, obs Observer) model.ComparisonResult {
	p := o.Plan(cfg, appliances, obs)
	return p.Comparison(appliances)
}

// Comparison builds the comparison between the original schedule and this
// plan's result.
func (p Plan) Comparison(original []model.Appliance) model.ComparisonResult {
	c := model.NewComparison(p.Baseline, p.Final)
	c.NormalSchedule = model.CloneAppliances(original)
	c.OptimizedSchedule = model.CloneAppliances(p.Appliances)
	return c
}
