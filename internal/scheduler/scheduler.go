// Package scheduler implements the scheduling policies that decide when
// pending jobs start (spec.md §4.4-§4.8): the EASY aggressive-backfill
// family, the pure list-backfill scheduler, the list-prediction
// baseline, and the CP-based schedulers.
package scheduler

import (
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
)

// Hooks is the minimal capability interface every scheduler
// implementation satisfies (spec.md §4.1, "Dynamic dispatch over
// schedulers/predictors/correctors"). Each hook pushes whatever new
// events result (job starts, a deferred run-scheduler pass) onto q and
// returns an error only for a genuine invariant violation or
// SchedulingException; the driver aborts the run on a non-nil error.
type Hooks interface {
	OnSubmit(q *event.Queue, j *job.Job, now int64) error
	OnTermination(q *event.Queue, j *job.Job, now int64) error
	OnUnderPrediction(q *event.Queue, j *job.Job, now int64) error
	OnRunScheduler(q *event.Queue, now int64) error
}
