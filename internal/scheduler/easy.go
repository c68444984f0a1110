package scheduler

import (
	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/cpuslice"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/predict"
)

// Easy is the customizable EASY backfill algorithm: a presorted head of
// the queue gets reserved, and a (separately sorted) tail backfills
// around the reservation without ever delaying the reserved head job
// (spec.md §4.5). Grounded on
// _examples/original_source/pyss/schedulers/easy_cust_scheduler.py.
type Easy struct {
	scaffold

	snapshot   *cpuslice.Snapshot
	pending    []*job.Job
	presorter  Sorter
	postsorter Sorter
}

var _ Hooks = (*Easy)(nil)

// NewEasy constructs an EASY scheduler over capacity processors, using
// presorter to pick the reserved head job each pass and postsorter to
// order backfill candidates. Either may be nil to mean FCFS (sorterNone).
func NewEasy(capacity int, p predict.Predictor, c correct.Corrector, presorter, postsorter Sorter) *Easy {
	if presorter == nil {
		presorter = sorterNone
	}
	if postsorter == nil {
		postsorter = sorterNone
	}
	return &Easy{
		scaffold:   scaffold{Predictor: p, Corrector: c},
		snapshot:   cpuslice.New(capacity),
		presorter:  presorter,
		postsorter: postsorter,
	}
}

func (e *Easy) OnSubmit(q *event.Queue, j *job.Job, now int64) error {
	e.snapshot.ArchiveOldSlices(now)
	e.Predictor.Predict(j, now, nil)
	j.SetInitialPrediction()
	e.pending = append(e.pending, j)
	e.scheduleRunIfNeeded(q, now)
	return nil
}

func (e *Easy) OnTermination(q *event.Queue, j *job.Job, now int64) error {
	e.Predictor.Fit(j, now)
	e.Corrector.Observe(j)
	e.snapshot.ArchiveOldSlices(now)
	if err := e.snapshot.DelTailOfJob(j, now); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	e.scheduleRunIfNeeded(q, now)
	return nil
}

func (e *Easy) OnUnderPrediction(q *event.Queue, j *job.Job, now int64) error {
	newPrediction := e.recordUnderPrediction(j, now)
	j.SetPredictedRunTime(newPrediction)
	if err := e.snapshot.AssignTailOfJob(j, j.PredictedRunTime); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	startEvent(q, now, j)
	return nil
}

func (e *Easy) OnRunScheduler(q *event.Queue, now int64) error {
	e.clearScheduled()
	started, err := e.scheduleJobs(now)
	if err != nil {
		return err
	}
	for _, j := range started {
		startEvent(q, now, j)
	}
	return nil
}

func (e *Easy) scheduleJobs(now int64) ([]*job.Job, error) {
	head, err := e.scheduleHeadOfList(now)
	if err != nil {
		return nil, err
	}
	tail, err := e.backfill(now)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

func (e *Easy) removePending(j *job.Job) {
	for i, p := range e.pending {
		if p == j {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return
		}
	}
}

func (e *Easy) scheduleHeadOfList(now int64) ([]*job.Job, error) {
	var result []*job.Job
	e.pending = e.presorter(e.pending, now)
	for len(e.pending) > 0 {
		head := e.pending[0]
		if e.snapshot.FreeProcessorsAvailableAt(now) < head.NumRequiredProcessors {
			break
		}
		e.pending = e.pending[1:]
		if err := e.snapshot.AssignJob(head, now); err != nil {
			return nil, schedulingErr(int64(head.ID), "%v", err)
		}
		head.MarkStarted(now)
		result = append(result, head)
	}
	return result, nil
}

func (e *Easy) backfill(now int64) ([]*job.Job, error) {
	if len(e.pending) <= 1 {
		return nil, nil
	}
	var result []*job.Job
	firstJob := e.pending[0]
	tailSorted := e.postsorter(e.pending[1:], now)

	if _, err := e.snapshot.AssignJobEarliest(firstJob, now); err != nil {
		return nil, schedulingErr(int64(firstJob.ID), "%v", err)
	}

	for _, j := range tailSorted {
		if e.snapshot.CanJobStartNow(j, now) {
			j.Backfilled = true
			e.removePending(j)
			if err := e.snapshot.AssignJob(j, now); err != nil {
				return nil, schedulingErr(int64(j.ID), "%v", err)
			}
			j.MarkStarted(now)
			result = append(result, j)
		}
	}

	if err := e.snapshot.DelJob(firstJob); err != nil {
		return nil, schedulingErr(int64(firstJob.ID), "%v", err)
	}
	return result, nil
}
