// Package predict implements the pluggable runtime predictors: the
// predict/fit lifecycle from spec.md §4.9, with exact, complete-tag,
// top-percent, conditional top-percent, Tsafrir two-prior, reqtime, and
// clairvoyant variants.
package predict

import (
	"github.com/algo74/predictsim/internal/job"
)

// FitResult is returned by Fit when the predictor has an updated
// estimate to report (for observability only; the scheduler never
// requires it). The "Predictor returns None -> use user estimate"
// pattern from spec.md §9 is modeled with the ok bool, not with a
// pointer or a sentinel value.
type FitResult struct {
	Prediction int64
	Error      float64
}

// Predictor is the capability interface every predictor variant
// implements (spec.md §4.9, §9).
type Predictor interface {
	// Predict mutates job.PredictedRunTime. Implementations must call
	// job.SetPredictedRunTime rather than assigning the field directly,
	// so the predicted <= user-estimated invariant holds unconditionally.
	Predict(j *job.Job, now int64, running []*job.Job)

	// Fit incorporates the job's revealed actual run time into the
	// predictor's state.
	Fit(j *job.Job, now int64) (FitResult, bool)
}
