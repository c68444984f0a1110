// Package correct implements the correctors invoked when a running job
// exceeds its predicted_run_time (spec.md §4.10): reqtime, tsafrir, and
// ninetynine.
package correct

import "github.com/algo74/predictsim/internal/job"

// Corrector revises an exceeded prediction. Correct must return a value
// ≤ j.UserEstimatedRunTime; callers rely on Job.SetPredictedRunTime to
// enforce that clip rather than trusting the corrector.
type Corrector interface {
	// Correct computes the job's revised predicted_run_time at the
	// moment an under-prediction fires.
	Correct(j *job.Job, now int64) int64
	// Observe records a job's actual run time once it terminates, so
	// correctors with history (tsafrir, ninetynine) can learn from it.
	Observe(j *job.Job)
}
