package vehicle

import (
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Summary describes a finished run.
type Summary struct {
	Steps         int     `json:"steps"`
	FinalDistance float64 `json:"final_distance_m"`
	MinDistance   float64 `json:"min_distance_m"`
	MeanDistance  float64 `json:"mean_distance_m"`
	MeanPeriod    float64 `json:"mean_period_s"`
	MaxPeriod     float64 `json:"max_period_s"`
	ReachedGoal   bool    `json:"reached_goal"`
}

// Recorder collects steps. Its Record method is a StepObserver.
type Recorder struct {
	mu    sync.Mutex
	steps []Step
}

// Record appends a step.
func (r *Recorder) Record(step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.steps...)
}

// Summarize computes run statistics. The goal counts as reached when the final distance is
// within epsilon.
func Summarize(steps []Step, epsilon float64) (Summary, error) {
	if len(steps) == 0 {
		return Summary{}, errors.New("no steps recorded")
	}

	distances := stats.Float64Data(lo.Map(steps, func(s Step, _ int) float64 {
		return s.Errors.Distance
	}))
	minDist, err := distances.Min()
	if err != nil {
		return Summary{}, err
	}
	meanDist, err := distances.Mean()
	if err != nil {
		return Summary{}, err
	}

	final := steps[len(steps)-1].Errors.Distance
	summary := Summary{
		Steps:         len(steps),
		FinalDistance: final,
		MinDistance:   minDist,
		MeanDistance:  meanDist,
		ReachedGoal:   final <= epsilon,
	}

	if len(steps) < 2 {
		return summary, nil
	}
	periods := make(stats.Float64Data, 0, len(steps)-1)
	for i := 1; i < len(steps); i++ {
		periods = append(periods, steps[i].Time.Sub(steps[i-1].Time).Seconds())
	}
	if summary.MeanPeriod, err = periods.Mean(); err != nil {
		return Summary{}, err
	}
	if summary.MaxPeriod, err = periods.Max(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
