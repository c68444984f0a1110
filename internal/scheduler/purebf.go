package scheduler

import (
	"math"
	"sort"

	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/machine"
	"github.com/algo74/predictsim/internal/predict"
	"github.com/algo74/predictsim/internal/restrack"
)

// PureBF is the conservative pure list-backfill scheduler: every pass
// rebuilds a resource-usage tracker from the running set and walks the
// presorted pending queue, scheduling each job at the earliest time the
// tracker says it fits, never reordering around it (spec.md §4.6).
// Grounded on
// _examples/original_source/pyss/schedulers/pure_b_f_scheduler.py.
type PureBF struct {
	scaffold

	machine   *machine.State
	pool      *job.Pool
	presorter Sorter

	// RunningJobsPredictionEnabled re-predicts running jobs' remaining
	// time on every pass before planning (spec.md §9 Open Question:
	// preserved as a config flag, documented experimental since the
	// corrector does not compose cleanly with it).
	RunningJobsPredictionEnabled bool
	// LimitNScheduled caps how many pending jobs a single pass considers,
	// matching the teacher's "treat this as effectively unbounded"
	// default (SPEC_FULL.md §C.1).
	LimitNScheduled int
}

var _ Hooks = (*PureBF)(nil)

// NewPureBF constructs a pure list-backfill scheduler for the given
// cluster capacity.
func NewPureBF(capacity int, p predict.Predictor, c correct.Corrector, presorter Sorter) *PureBF {
	if presorter == nil {
		presorter = sorterNone
	}
	return &PureBF{
		scaffold:        scaffold{Predictor: p, Corrector: c},
		machine:         machine.New(capacity),
		pool:            job.NewPool(),
		presorter:       presorter,
		LimitNScheduled: math.MaxInt32,
	}
}

func (s *PureBF) OnSubmit(q *event.Queue, j *job.Job, now int64) error {
	s.pool.AddPending(j)
	s.Predictor.Predict(j, now, s.pool.RunningJobs())
	j.SetInitialPrediction()
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *PureBF) OnTermination(q *event.Queue, j *job.Job, now int64) error {
	s.machine.Release(j.NumRequiredProcessors)
	if err := s.pool.RemoveFromRunning(j); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	s.Predictor.Fit(j, now)
	s.Corrector.Observe(j)
	s.scheduleRunIfNeeded(q, now)
	return nil
}

func (s *PureBF) OnUnderPrediction(q *event.Queue, j *job.Job, now int64) error {
	newPrediction := s.recordUnderPrediction(j, now)
	j.SetPredictedRunTime(newPrediction)
	startEvent(q, now, j)
	return nil
}

func (s *PureBF) OnRunScheduler(q *event.Queue, now int64) error {
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

func (s *PureBF) startJob(j *job.Job, now int64) error {
	if !s.machine.CanClaim(j.NumRequiredProcessors) {
		return schedulingErr(int64(j.ID), "couldn't start at time %d: insufficient processors", now)
	}
	if err := s.machine.Claim(j.NumRequiredProcessors); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	j.MarkStarted(now)
	if err := s.pool.MoveToRunning(j); err != nil {
		return schedulingErr(int64(j.ID), "%v", err)
	}
	return nil
}

func (s *PureBF) scheduleJobs(now int64) ([]*job.Job, error) {
	queue := s.pool.PendingJobs()
	if len(queue) == 0 {
		return nil, nil
	}
	if len(queue) > s.LimitNScheduled {
		queue = queue[:s.LimitNScheduled]
	}
	minProcs, ok := s.pool.MinPendingProcessors()
	if !ok || !s.machine.CanClaim(minProcs) {
		return nil, nil
	}

	running := s.pool.RunningJobs()
	if s.RunningJobsPredictionEnabled {
		for _, rj := range running {
			s.Predictor.Predict(rj, now, running)
			if rj.StartTime+rj.PredictedRunTime <= now {
				rj.SetPredictedRunTime(1 + now - rj.StartTime)
			}
		}
	}
	for _, pj := range queue {
		s.Predictor.Predict(pj, now, running)
	}

	sortedQueue := s.presorter(queue, now)

	startValue := int64(-s.machine.Available())
	sort.Slice(running, func(i, k int) bool {
		return running[i].StartTime+running[i].PredictedRunTime < running[k].StartTime+running[k].PredictedRunTime
	})
	initial := make(map[int64]int64)
	if len(running) > 0 {
		curValue := startValue - int64(running[0].NumRequiredProcessors)
		curTime := running[0].StartTime + running[0].PredictedRunTime
		for _, rj := range running[1:] {
			finish := rj.StartTime + rj.PredictedRunTime
			if finish > curTime {
				initial[curTime] = curValue
				curTime = finish
			}
			curValue -= int64(rj.NumRequiredProcessors)
		}
		initial[curTime] = curValue
	}
	ut := restrack.New(startValue, initial)

	var started []*job.Job
	idx := 0
	for idx < len(sortedQueue) {
		minProcs, ok = s.pool.MinPendingProcessors()
		if !ok || !s.machine.CanClaim(minProcs) {
			break
		}
		curJob := sortedQueue[idx]
		idx++

		schedTime, ok := ut.WhenNotAbove(now, curJob.PredictedRunTime, -int64(curJob.NumRequiredProcessors))
		if !ok {
			return nil, schedulingErr(int64(curJob.ID), "job can never run")
		}
		ut.AddUsage(schedTime, schedTime+curJob.PredictedRunTime, int64(curJob.NumRequiredProcessors))

		if schedTime <= now {
			if err := s.startJob(curJob, now); err != nil {
				return nil, err
			}
			started = append(started, curJob)
		}
	}
	return started, nil
}
