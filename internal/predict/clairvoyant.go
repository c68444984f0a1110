package predict

import "github.com/algo74/predictsim/internal/job"

// Clairvoyant predicts predicted = actual * multiplier, for stress
// scenarios (spec.md §4.9). Grounded on
// _examples/original_source/pyss/predictors/predictor_clairvoyant.py.
type Clairvoyant struct {
	// Multiplier must be >= 1; it defaults to 1 if left zero.
	Multiplier float64
}

var _ Predictor = (*Clairvoyant)(nil)

// NewClairvoyant builds a clairvoyant predictor with the given
// multiplier (>= 1; 0 is treated as 1).
func NewClairvoyant(multiplier float64) *Clairvoyant {
	if multiplier < 1 {
		multiplier = 1
	}
	return &Clairvoyant{Multiplier: multiplier}
}

func (c *Clairvoyant) Predict(j *job.Job, now int64, running []*job.Job) {
	j.SetPredictedRunTime(int64(float64(j.ActualRunTime) * c.Multiplier))
}

func (c *Clairvoyant) Fit(j *job.Job, now int64) (FitResult, bool) {
	return FitResult{}, false
}
