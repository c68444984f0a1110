package scheduler

import (
	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/predict"
)

// scaffold holds the bits every scheduler variant wires the same way:
// predictor/corrector dispatch and the "a run-scheduler pass is already
// pending" coalescing flag (spec.md §4.1). Embed it in each concrete
// scheduler rather than duplicating this bookkeeping.
type scaffold struct {
	Predictor predict.Predictor
	Corrector correct.Corrector

	alreadyScheduled bool
}

// scheduleRunIfNeeded enqueues a single RunScheduler event per busy
// period, coalescing repeated submit/termination notifications into one
// scheduling pass, exactly as the teacher's schedule_run_if_needed does.
func (s *scaffold) scheduleRunIfNeeded(q *event.Queue, now int64) {
	if s.alreadyScheduled {
		return
	}
	s.alreadyScheduled = true
	q.Push(&event.Event{Time: now, Kind: event.KindRunScheduler})
}

// clearScheduled marks the pending RunScheduler event as consumed.
func (s *scaffold) clearScheduled() {
	s.alreadyScheduled = false
}

// recordUnderPrediction bumps the job's under-prediction counter and
// asks the corrector for a revised prediction, clipped to the user
// estimate by SetPredictedRunTime (spec.md §4.1 step 3, §4.10).
func (s *scaffold) recordUnderPrediction(j *job.Job, now int64) int64 {
	j.NumUnderPredict++
	return s.Corrector.Correct(j, now)
}

func startEvent(q *event.Queue, now int64, j *job.Job) {
	q.Push(&event.Event{Time: now, Kind: event.KindStart, Job: j})
}
