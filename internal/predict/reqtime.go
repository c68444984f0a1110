package predict

import "github.com/algo74/predictsim/internal/job"

// Reqtime is the trivial predictor: predicted = user_estimated_run_time
// (spec.md §4.9).
type Reqtime struct{}

var _ Predictor = Reqtime{}

func (Reqtime) Predict(j *job.Job, now int64, running []*job.Job) {
	j.SetPredictedRunTime(j.UserEstimatedRunTime)
}

func (Reqtime) Fit(j *job.Job, now int64) (FitResult, bool) {
	return FitResult{}, false
}
