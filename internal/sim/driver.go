// Package sim implements the simulation kernel (spec.md §4.1): the
// event-heap time machine that dispatches Submit/Termination/
// UnderPrediction/RunScheduler events to a scheduler.Hooks
// implementation and enforces the simulator's own invariants around
// that dispatch. Grounded on the teacher's application driver loop
// style (dispatch-by-type over a single ordered work queue) adapted
// from module lifecycle dispatch to discrete-event time.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/observer"
	"github.com/algo74/predictsim/internal/scheduler"
)

// Result is what Run reports for a completed simulation: every
// submitted job, now carrying its recorded StartTime, PredictedRunTime
// history, InitialPrediction, and under-prediction count, ready for the
// SWF writer (spec.md §6, "SWF output").
type Result struct {
	Jobs []*job.Job
}

// Driver is the kernel: a min-heap of events and the scheduler hooks it
// dispatches to (spec.md §4.1). One Driver runs exactly one simulation.
type Driver struct {
	queue        *event.Queue
	hooks        scheduler.Hooks
	jobs         []*job.Job
	subject      observer.SimSubject
	log          *zap.SugaredLogger
	runID        string
	progressFreq int64
	lastProgress int64
}

// New constructs a driver over the given scheduler hooks. subject and
// log may be nil; a nil subject disables observability notifications
// entirely (SPEC_FULL.md §A). runID tags every emitted SimEvent so that
// a stats collector (or any other observer) consuming events from
// several concurrent runs can tell them apart; it may be empty.
func New(hooks scheduler.Hooks, subject observer.SimSubject, log *zap.SugaredLogger, runID string) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{
		queue:   event.NewQueue(),
		hooks:   hooks,
		subject: subject,
		log:     log,
		runID:   runID,
	}
}

// SetProgressFrequency forces a log line naming simulated time and
// remaining queue depth every freqSeconds of simulated time, for
// monitoring runs over long traces (spec.md §6, "optional force-progress
// frequency"; the command line's --withprogress=<seconds> in
// _examples/original_source/pyss/run_simulator.py). freqSeconds <= 0
// disables it, which is also the default.
func (d *Driver) SetProgressFrequency(freqSeconds int64) {
	d.progressFreq = freqSeconds
}

// Submit inserts a Submit event for j at its SubmitTime (spec.md §4.1).
func (d *Driver) Submit(j *job.Job) {
	d.jobs = append(d.jobs, j)
	d.queue.Push(&event.Event{Time: j.SubmitTime, Kind: event.KindSubmit, Job: j})
}

// Run drains the event heap, dispatching each event to the scheduler's
// matching hook, until no events remain. Any hook error stops the run
// and is returned wrapped as "simulation aborted at time T: ..." (a
// scheduler.SchedulingException additionally names the offending job;
// spec.md §4.1, §7).
func (d *Driver) Run(ctx context.Context) (Result, error) {
	for d.queue.Len() > 0 {
		e := d.queue.Pop()
		if err := d.dispatch(ctx, e); err != nil {
			return Result{Jobs: d.jobs}, fmt.Errorf("simulation aborted at time %d: %w", e.Time, err)
		}
		d.logProgress(e.Time)
	}
	return Result{Jobs: d.jobs}, nil
}

// logProgress emits a force-progress log line once at least
// progressFreq simulated seconds have passed since the last one.
func (d *Driver) logProgress(now int64) {
	if d.progressFreq <= 0 {
		return
	}
	if now-d.lastProgress < d.progressFreq {
		return
	}
	d.lastProgress = now
	d.log.Infow("progress", "sim_time", now, "events_remaining", d.queue.Len())
}

func (d *Driver) dispatch(ctx context.Context, e *event.Event) error {
	switch e.Kind {
	case event.KindSubmit:
		if err := d.hooks.OnSubmit(d.queue, e.Job, e.Time); err != nil {
			return err
		}
		d.notify(ctx, observer.EventJobSubmitted, e.Job, e.Time)

	case event.KindStart:
		// The job was already moved to running and claimed its
		// processors inside the scheduling pass that decided to start
		// it (every scheduler.Hooks implementation does this itself, so
		// that it can reject an infeasible plan before the driver ever
		// sees a KindStart for it). The driver's job here is purely to
		// schedule the matching completion-family event.
		d.scheduleCompletion(e.Job, e.Time)
		d.notify(ctx, observer.EventJobStarted, e.Job, e.Time)

	case event.KindTermination:
		if err := d.hooks.OnTermination(d.queue, e.Job, e.Time); err != nil {
			return err
		}
		d.notify(ctx, observer.EventJobTerminated, e.Job, e.Time)

	case event.KindUnderPrediction:
		if err := d.hooks.OnUnderPrediction(d.queue, e.Job, e.Time); err != nil {
			return err
		}
		d.notify(ctx, observer.EventJobUnderPredicted, e.Job, e.Time)

	case event.KindRunScheduler:
		if err := d.hooks.OnRunScheduler(d.queue, e.Time); err != nil {
			return err
		}
		d.notify(ctx, observer.EventSchedulerRan, nil, e.Time)
	}
	return nil
}

// scheduleCompletion pushes the single completion-family event every
// started job must eventually trigger (spec.md §4.1, §8): a
// termination at StartTime+ActualRunTime if the job's prediction
// already covers its actual run time, otherwise an under-prediction at
// StartTime+PredictedRunTime (which the scheduler's OnUnderPrediction
// hook is responsible for superseding with a fresh termination once the
// prediction is revised).
func (d *Driver) scheduleCompletion(j *job.Job, now int64) {
	if j.PredictedRunTime >= j.ActualRunTime {
		d.queue.Push(&event.Event{Time: j.StartTime + j.ActualRunTime, Kind: event.KindTermination, Job: j})
		return
	}
	d.queue.Push(&event.Event{Time: j.StartTime + j.PredictedRunTime, Kind: event.KindUnderPrediction, Job: j})
}

func (d *Driver) notify(ctx context.Context, eventType string, j *job.Job, now int64) {
	if d.subject == nil {
		return
	}
	_ = d.subject.NotifySimObservers(ctx, observer.SimEvent{
		Type:   eventType,
		Source: "sim.driver",
		Data:   j,
		Metadata: map[string]interface{}{
			"time":   now,
			"run_id": d.runID,
		},
	})
}
