package scheduler

import (
	"time"

	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/machine"
	"github.com/algo74/predictsim/internal/predict"
)

// CPTuned solves one global plan per scheduling pass with the CP solver
// and falls back to the pure list-backfill plan if the solver doesn't
// converge within its time budget (spec.md §4.7). Grounded on
// _examples/original_source/pyss/schedulers/cp_schedulers/cp_basic.py
// and cplex_tuned_scheduler.py's two-pass retry structure.
type CPTuned struct {
	scaffold

	machine   *machine.State
	pool      *job.Pool
	presorter Sorter

	Objective       ObjectiveFunction
	BSLDBound       int64
	SchedulingTimeLimit time.Duration
	LimitNScheduled int
}

var _ Hooks = (*CPTuned)(nil)

// NewCPTuned constructs a CP-tuned scheduler for the given cluster
// capacity, with a fallback presorter used when the solver fails to
// converge.
func NewCPTuned(capacity int, p predict.Predictor, c correct.Corrector, objective ObjectiveFunction, fallbackPresorter Sorter) *CPTuned {
	if fallbackPresorter == nil {
		fallbackPresorter = sorterNone
	}
	return &CPTuned{
		scaffold:            scaffold{Predictor: p, Corrector: c},
		machine:             machine.New(capacity),
		pool:                job.NewPool(),
		presorter:           fallbackPresorter,
		Objective:           objective,
		BSLDBound:           10,
		SchedulingTimeLimit: time.Second,
		LimitNScheduled:     100,
	}
}

func (s *CPTuned) OnSubmit(q *event.Queue, j *job.Job, now int64) error {
	s.pool.AddPending(j)
	s.Predictor.Predict(j, now, s.pool.RunningJobs())
	j.SetInitialPrediction()
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *CPTuned) OnTermination(q *event.Queue, j *job.Job, now int64) error {
	s.machine.Release(j.NumRequiredProcessors)
	if err := s.pool.RemoveFromRunning(j); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	s.Predictor.Fit(j, now)
	s.Corrector.Observe(j)
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *CPTuned) OnUnderPrediction(q *event.Queue, j *job.Job, now int64) error {
	newPrediction := s.recordUnderPrediction(j, now)
	j.SetPredictedRunTime(newPrediction)
	startEvent(q, now, j)
	return nil
}

func (s *CPTuned) OnRunScheduler(q *event.Queue, now int64) error {
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

func (s *CPTuned) scheduleJobs(now int64) ([]*job.Job, error) {
	queue := s.pool.PendingJobs()
	if len(queue) == 0 {
		return nil, nil
	}
	minProcs, ok := s.pool.MinPendingProcessors()
	if !ok || !s.machine.CanClaim(minProcs) {
		return nil, nil
	}
	running := s.pool.RunningJobs()
	for _, pj := range queue {
		s.Predictor.Predict(pj, now, running)
	}

	if len(queue) > s.LimitNScheduled {
		queue = queue[:s.LimitNScheduled]
	}
	if len(queue) == 1 {
		return startPlanEntries(s.machine, s.pool, now, []planEntry{{Start: now, Job: queue[0]}})
	}

	quality := qualityFor(s.Objective, s.BSLDBound)
	entries, ok := solveCP(s.machine.Capacity(), now, running, queue, quality, s.SchedulingTimeLimit, nil)
	if !ok {
		entries = purebfPlan(s.machine.Capacity(), s.machine.Available(), now, running, queue, s.presorter)
		if entries == nil {
			return nil, schedulingErr(int64(queue[0].ID), "no feasible plan under any fallback")
		}
	}
	return startPlanEntries(s.machine, s.pool, now, entries)
}
