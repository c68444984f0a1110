package predict

import "github.com/algo74/predictsim/internal/job"

// Complete is the complete-tag predictor: it updates 15 tag variants on
// every fit and, on predict, returns the estimate from the most specific
// tag that has data (spec.md §4.9). Grounded on
// _examples/original_source/pyss/predictors/job_req_pred_2020/predictor_complete.py.
type Complete struct {
	Alpha       float64
	SigmaFactor float64
	UseWeights  bool

	moments map[string]*moment
}

var _ Predictor = (*Complete)(nil)

// NewComplete constructs a complete-tag predictor.
func NewComplete(alpha, sigmaFactor float64, useWeights bool) *Complete {
	return &Complete{
		Alpha:       alpha,
		SigmaFactor: sigmaFactor,
		UseWeights:  useWeights,
		moments:     make(map[string]*moment),
	}
}

func (c *Complete) Predict(j *job.Job, now int64, running []*job.Job) {
	for _, tag := range completeTags(j) {
		m, ok := c.moments[tag]
		if !ok {
			continue
		}
		avg, stddev, ok := m.estimate()
		if !ok {
			continue
		}
		j.SetPredictedRunTime(int64(avg + c.SigmaFactor*stddev))
		return
	}
	j.SetPredictedRunTime(j.UserEstimatedRunTime)
}

func (c *Complete) Fit(j *job.Job, now int64) (FitResult, bool) {
	value := float64(j.ActualRunTime)
	pw := pointWeight(value, c.UseWeights)
	var result FitResult
	var haveResult bool
	for _, tag := range completeTags(j) {
		m, ok := c.moments[tag]
		if !ok {
			m = &moment{}
			c.moments[tag] = m
		}
		m.update(value, c.Alpha, pw)
		if !haveResult {
			if avg, stddev, ok := m.estimate(); ok {
				result = FitResult{Prediction: int64(avg), Error: stddev}
				haveResult = true
			}
		}
	}
	return result, haveResult
}
