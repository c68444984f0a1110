package predict

import "github.com/algo74/predictsim/internal/job"

// Conditional is the conditional top-percent predictor: for a job that
// has already run for some time, it restricts the quantile search to
// observations that exceed the elapsed time, reflecting that a job
// which has survived this long is no longer represented by the whole
// distribution (spec.md §4.9). Grounded on
// _examples/original_source/pyss/predictors/predictor_conditional_percent.py's
// PredictorConditionalPercent, whose Record differs from
// predictor_top_percent.py's (see conditional_record.go) despite the
// superficial similarity between the two predictors.
type Conditional struct {
	Alpha       float64
	Confidence  float64
	StartWeight float64
	UseWeights  bool

	records map[string]*conditionalRecord
}

var _ Predictor = (*Conditional)(nil)

// NewConditional constructs a conditional top-percent predictor.
func NewConditional(alpha, confidence, startWeight float64, useWeights bool) *Conditional {
	return &Conditional{
		Alpha:       alpha,
		Confidence:  confidence,
		StartWeight: startWeight,
		UseWeights:  useWeights,
		records:     make(map[string]*conditionalRecord),
	}
}

func (p *Conditional) aDec() float64 {
	return 1 - p.Alpha
}

func (p *Conditional) recordFor(j *job.Job) *conditionalRecord {
	tag := quantileTag(j)
	r, ok := p.records[tag]
	if !ok {
		r = newConditionalRecord(j.UserEstimatedRunTime, p.StartWeight, p.UseWeights)
		p.records[tag] = r
	}
	return r
}

func (p *Conditional) Predict(j *job.Job, now int64, running []*job.Job) {
	r := p.recordFor(j)
	var elapsed int64
	if j.Started() {
		elapsed = now - j.StartTime
		if elapsed < 0 {
			elapsed = 0
		}
	}
	if v, ok := r.predict(elapsed, p.Confidence); ok {
		j.SetPredictedRunTime(v)
	} else {
		j.SetPredictedRunTime(j.UserEstimatedRunTime)
	}
}

// Fit always falls back to the user estimate on the next Predict call,
// matching PredictorConditionalPercent.fit, which always returns None.
func (p *Conditional) Fit(j *job.Job, now int64) (FitResult, bool) {
	r := p.recordFor(j)
	r.add(j.ActualRunTime, p.aDec(), p.Confidence, p.UseWeights)
	return FitResult{}, false
}
