package scheduler

import (
	"testing"
	"time"

	"github.com/algo74/predictsim/internal/correct"
	"github.com/algo74/predictsim/internal/event"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/predict"
)

func TestCPTunedStartsASingleJobWithoutInvokingTheSolver(t *testing.T) {
	s := NewCPTuned(4, predict.Reqtime{}, correct.Reqtime{}, ObjectiveAF, nil)
	q := event.NewQueue()

	j := &job.Job{ID: 1, SubmitTime: 0, NumRequiredProcessors: 4, UserEstimatedRunTime: 10}
	s.OnSubmit(q, j, 0)
	if err := s.OnRunScheduler(q, 0); err != nil {
		t.Fatalf("OnRunScheduler: %v", err)
	}
	started := drainStarts(q)
	if !containsID(started, 1) {
		t.Fatalf("started = %v, want the lone job to start immediately", started)
	}
}

func TestCPTunedStartsBothJobsWhenCapacityFitsThemSimultaneously(t *testing.T) {
	s := NewCPTuned(8, predict.Reqtime{}, correct.Reqtime{}, ObjectiveAF, nil)
	s.SchedulingTimeLimit = 10 * time.Millisecond
	q := event.NewQueue()

	j1 := &job.Job{ID: 1, SubmitTime: 0, NumRequiredProcessors: 4, UserEstimatedRunTime: 10}
	j2 := &job.Job{ID: 2, SubmitTime: 0, NumRequiredProcessors: 4, UserEstimatedRunTime: 10}
	s.OnSubmit(q, j1, 0)
	s.OnSubmit(q, j2, 0)
	if err := s.OnRunScheduler(q, 0); err != nil {
		t.Fatalf("OnRunScheduler: %v", err)
	}
	started := drainStarts(q)
	if !containsID(started, 1) || !containsID(started, 2) {
		t.Fatalf("started = %v, want both jobs (8 total processors, 4 each)", started)
	}
}

func TestCPTunedDefersTheLongerJobWhenOnlyOneFitsAtOnce(t *testing.T) {
	s := NewCPTuned(4, predict.Reqtime{}, correct.Reqtime{}, ObjectiveAF, nil)
	s.SchedulingTimeLimit = 10 * time.Millisecond
	q := event.NewQueue()

	long := &job.Job{ID: 1, SubmitTime: 0, NumRequiredProcessors: 4, UserEstimatedRunTime: 100}
	short := &job.Job{ID: 2, SubmitTime: 0, NumRequiredProcessors: 4, UserEstimatedRunTime: 10}
	s.OnSubmit(q, long, 0)
	s.OnSubmit(q, short, 0)
	if err := s.OnRunScheduler(q, 0); err != nil {
		t.Fatalf("OnRunScheduler: %v", err)
	}
	started := drainStarts(q)
	if !containsID(started, 2) {
		t.Fatalf("started = %v, want the shorter job to start at t=0 (minimizes total wait)", started)
	}
	if containsID(started, 1) {
		t.Fatalf("started = %v, want the longer job deferred until the shorter one frees its processors", started)
	}
	if long.Started() {
		t.Fatalf("long job marked started, want it still pending")
	}
}
