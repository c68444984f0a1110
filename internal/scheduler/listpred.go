package scheduler

import (
	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/machine"
	"github.com/algo74/predictsim/internal/predict"
)

// ListPrediction is the "aggressive" list scheduler: every pass tries
// to start each pending job, in the order its Sorter produces (FCFS by
// default), against whatever processors happen to be free right now —
// no reservation, no backfill (spec.md §4.4). The CP schedulers do not
// use it: their fallback and best-of-N candidates come from purebfPlan.
// Grounded on
// _examples/original_source/pyss/schedulers/list_prediction_scheduler.py.
type ListPrediction struct {
	scaffold

	machine *machine.State
	pool    *job.Pool
	sorter  Sorter
}

var _ Hooks = (*ListPrediction)(nil)

// NewListPrediction constructs the list-prediction scheduler. A nil
// sorter means FCFS (submission order), matching the teacher's default
// make_sorted_queue.
func NewListPrediction(capacity int, p predict.Predictor, c correct.Corrector, sorter Sorter) *ListPrediction {
	if sorter == nil {
		sorter = sorterNone
	}
	return &ListPrediction{
		scaffold: scaffold{Predictor: p, Corrector: c},
		machine:  machine.New(capacity),
		pool:     job.NewPool(),
		sorter:   sorter,
	}
}

func (s *ListPrediction) OnSubmit(q *event.Queue, j *job.Job, now int64) error {
	s.pool.AddPending(j)
	s.Predictor.Predict(j, now, s.pool.RunningJobs())
	j.SetInitialPrediction()
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *ListPrediction) OnTermination(q *event.Queue, j *job.Job, now int64) error {
	s.machine.Release(j.NumRequiredProcessors)
	if err := s.pool.RemoveFromRunning(j); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	s.Predictor.Fit(j, now)
	s.Corrector.Observe(j)
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *ListPrediction) OnUnderPrediction(q *event.Queue, j *job.Job, now int64) error {
	newPrediction := s.recordUnderPrediction(j, now)
	j.SetPredictedRunTime(newPrediction)
	startEvent(q, now, j)
	return nil
}

func (s *ListPrediction) OnRunScheduler(q *event.Queue, now int64) error {
	s.clearScheduled()
	started, err := s.scheduleJobs(now)
	if err != nil {
		return err
	}
	for _, j := range started {
		startEvent(q, now, j)
	}
	return nil
}

func (s *ListPrediction) scheduleJobs(now int64) ([]*job.Job, error) {
	queue := s.pool.PendingJobs()
	if len(queue) == 0 {
		return nil, nil
	}
	running := s.pool.RunningJobs()
	for _, pj := range queue {
		s.Predictor.Predict(pj, now, running)
	}
	sortedQueue := s.sorter(queue, now)

	var result []*job.Job
	for _, j := range sortedQueue {
		if !s.machine.CanClaim(j.NumRequiredProcessors) {
			continue
		}
		if err := s.machine.Claim(j.NumRequiredProcessors); err != nil {
			return nil, schedulingErr(int64(j.ID), "%v", err)
		}
		j.MarkStarted(now)
		if err := s.pool.MoveToRunning(j); err != nil {
			return nil, schedulingErr(int64(j.ID), "%v", err)
		}
		result = append(result, j)
	}
	return result, nil
}
