package predict

import "github.com/algo74/predictsim/internal/job"

// TopPercent predicts the confidence-quantile of actual run times seen
// for a job's exact tag, maintained as a decaying weighted multiset
// (spec.md §4.9). Grounded on
// _examples/original_source/pyss/predictors/predictor_top_percent.py's
// PredictorTopPercent.
type TopPercent struct {
	Alpha       float64
	Confidence  float64
	StartWeight float64
	UseWeights  bool

	records map[string]*quantileRecord
}

var _ Predictor = (*TopPercent)(nil)

// NewTopPercent constructs a top-percent quantile predictor. alpha is
// the decay rate, confidence the target quantile (e.g. 0.9), and
// startWeight the weight given to the single artificial seed point each
// tag's record is initialized with.
func NewTopPercent(alpha, confidence, startWeight float64, useWeights bool) *TopPercent {
	return &TopPercent{
		Alpha:       alpha,
		Confidence:  confidence,
		StartWeight: startWeight,
		UseWeights:  useWeights,
		records:     make(map[string]*quantileRecord),
	}
}

func (p *TopPercent) aDec() float64 {
	return 1 - p.Alpha
}

func (p *TopPercent) recordFor(j *job.Job) *quantileRecord {
	tag := quantileTag(j)
	r, ok := p.records[tag]
	if !ok {
		r = newQuantileRecord(j.UserEstimatedRunTime, p.StartWeight, p.UseWeights)
		p.records[tag] = r
	}
	return r
}

func (p *TopPercent) Predict(j *job.Job, now int64, running []*job.Job) {
	r := p.recordFor(j)
	j.SetPredictedRunTime(r.value())
}

func (p *TopPercent) Fit(j *job.Job, now int64) (FitResult, bool) {
	r := p.recordFor(j)
	r.add(j.ActualRunTime, p.aDec(), p.Confidence, p.UseWeights)
	return FitResult{Prediction: r.value()}, true
}
