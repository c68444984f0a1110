package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/observer"
)

// statsCollector is the "stats" auxiliary metrics output (spec.md §6):
// an observer.SimObserver that accumulates wait-time and under-predict
// totals across the run and logs a summary every 1000 terminated jobs.
// Entirely optional and decoupled from the kernel, per
// SPEC_FULL.md §A's "Observability hook" (spec.md §6, "stats boolean").
type statsCollector struct {
	log *zap.SugaredLogger

	terminated      int
	totalWaitTime   int64
	totalUnderPredict int
}

func newStatsCollector(log *zap.SugaredLogger) *statsCollector {
	return &statsCollector{log: log}
}

func (s *statsCollector) ObserverID() string { return "stats" }

func (s *statsCollector) OnSimEvent(ctx context.Context, event observer.SimEvent) error {
	if event.Type != observer.EventJobTerminated {
		return nil
	}
	j, ok := event.Data.(*job.Job)
	if !ok || j == nil {
		return nil
	}
	s.terminated++
	s.totalWaitTime += j.StartTime - j.SubmitTime
	s.totalUnderPredict += j.NumUnderPredict
	if s.terminated%1000 == 0 {
		s.log.Infow("simulation progress",
			"jobs_terminated", s.terminated,
			"avg_wait_time", float64(s.totalWaitTime)/float64(s.terminated),
			"total_under_predictions", s.totalUnderPredict,
		)
	}
	return nil
}
