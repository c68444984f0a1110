package predict

import "github.com/algo74/predictsim/internal/job"

// Exact is the exact-tag moment predictor: it maintains one decayed
// moment per fully-qualified tag and predicts avg + sigma_factor*stddev
// (spec.md §4.9).
type Exact struct {
	Alpha       float64
	SigmaFactor float64
	UseWeights  bool

	moments map[string]*moment
}

var _ Predictor = (*Exact)(nil)

// NewExact constructs an exact-tag moment predictor.
func NewExact(alpha, sigmaFactor float64, useWeights bool) *Exact {
	return &Exact{
		Alpha:       alpha,
		SigmaFactor: sigmaFactor,
		UseWeights:  useWeights,
		moments:     make(map[string]*moment),
	}
}

func (e *Exact) Predict(j *job.Job, now int64, running []*job.Job) {
	tag := exactTag(j)
	m, ok := e.moments[tag]
	if !ok {
		j.SetPredictedRunTime(j.UserEstimatedRunTime)
		return
	}
	avg, stddev, ok := m.estimate()
	if !ok {
		j.SetPredictedRunTime(j.UserEstimatedRunTime)
		return
	}
	j.SetPredictedRunTime(int64(avg + e.SigmaFactor*stddev))
}

func (e *Exact) Fit(j *job.Job, now int64) (FitResult, bool) {
	tag := exactTag(j)
	m, ok := e.moments[tag]
	if !ok {
		m = &moment{}
		e.moments[tag] = m
	}
	value := float64(j.ActualRunTime)
	m.update(value, e.Alpha, pointWeight(value, e.UseWeights))
	avg, stddev, ok := m.estimate()
	if !ok {
		return FitResult{}, false
	}
	return FitResult{Prediction: int64(avg), Error: stddev}, true
}
