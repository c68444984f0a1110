package predict

import "github.com/algo74/predictsim/internal/job"

// Tsafrir predicts the average of the two most-recent actual run times
// for the same user, clipped to the job's user estimate; falls back to
// reqtime until two observations exist (spec.md §4.9).
type Tsafrir struct {
	history map[string][2]int64 // user -> [secondMostRecent, mostRecent]
	seen    map[string]int
}

var _ Predictor = (*Tsafrir)(nil)

// NewTsafrir constructs an empty Tsafrir two-prior predictor.
func NewTsafrir() *Tsafrir {
	return &Tsafrir{
		history: make(map[string][2]int64),
		seen:    make(map[string]int),
	}
}

// TwoPriorAverage returns the two-prior average for user and true, or
// (0, false) if fewer than two observations have been recorded for that
// user. Exported so the "tsafrir" corrector (internal/correct) can reuse
// the same history without duplicating state.
func (t *Tsafrir) TwoPriorAverage(user string) (int64, bool) {
	if t.seen[user] < 2 {
		return 0, false
	}
	pair := t.history[user]
	return (pair[0] + pair[1]) / 2, true
}

func (t *Tsafrir) Predict(j *job.Job, now int64, running []*job.Job) {
	if avg, ok := t.TwoPriorAverage(j.User); ok {
		j.SetPredictedRunTime(avg)
		return
	}
	j.SetPredictedRunTime(j.UserEstimatedRunTime)
}

func (t *Tsafrir) Fit(j *job.Job, now int64) (FitResult, bool) {
	pair := t.history[j.User]
	t.history[j.User] = [2]int64{pair[1], j.ActualRunTime}
	t.seen[j.User]++
	avg, ok := t.TwoPriorAverage(j.User)
	if !ok {
		return FitResult{}, false
	}
	return FitResult{Prediction: avg}, true
}
