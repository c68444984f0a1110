package scheduler

import (
	"sort"
	"time"

	"github.com/algo74/predictsim/internal/cpsolve"
	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/machine"
	"github.com/algo74/predictsim/internal/restrack"
)

// startPlanEntries starts every planEntry due at or before now (the
// teacher's "if start_time <= time: start_job(...)"), claiming
// processors and moving each job from pending to running. It errors as
// a SchedulingException if the plan turns out to be infeasible against
// the live machine/pool state — which should never happen for a plan
// this package itself produced, but the driver needs a clean abort path
// if it does (spec.md §7).
func startPlanEntries(m *machine.State, pool *job.Pool, now int64, entries []planEntry) ([]*job.Job, error) {
	var started []*job.Job
	for _, e := range entries {
		if e.Start > now {
			continue
		}
		if !m.CanClaim(e.Job.NumRequiredProcessors) {
			return nil, schedulingErr(int64(e.Job.ID), "couldn't start at time %d: planned start exceeded capacity", now)
		}
		if err := m.Claim(e.Job.NumRequiredProcessors); err != nil {
			return nil, schedulingErr(int64(e.Job.ID), "%v", err)
		}
		e.Job.MarkStarted(now)
		if err := pool.MoveToRunning(e.Job); err != nil {
			return nil, schedulingErr(int64(e.Job.ID), "%v", err)
		}
		started = append(started, e.Job)
	}
	return started, nil
}

// purebfPlan computes a full list-backfill plan (every queued job gets
// a projected start time, not just the ones that can start now) for use
// as a best-of-N alternative candidate (SPEC_FULL.md §C.3). It mutates
// nothing: available and running describe the state to plan against,
// not machine/pool. Grounded on
// _examples/original_source/pyss/schedulers/pure_b_f_scheduler.py's
// _schedule_jobs(return_plan=True).
func purebfPlan(capacity, available int, now int64, running, queue []*job.Job, presorter Sorter) []planEntry {
	if len(queue) == 0 {
		return nil
	}
	sortedQueue := presorter(queue, now)

	startValue := int64(-available)
	sortedRunning := make([]*job.Job, len(running))
	copy(sortedRunning, running)
	sort.Slice(sortedRunning, func(i, k int) bool {
		return sortedRunning[i].StartTime+sortedRunning[i].PredictedRunTime < sortedRunning[k].StartTime+sortedRunning[k].PredictedRunTime
	})
	initial := make(map[int64]int64)
	if len(sortedRunning) > 0 {
		curValue := startValue - int64(sortedRunning[0].NumRequiredProcessors)
		curTime := sortedRunning[0].StartTime + sortedRunning[0].PredictedRunTime
		for _, rj := range sortedRunning[1:] {
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

	plan := make([]planEntry, 0, len(sortedQueue))
	for _, j := range sortedQueue {
		schedTime, ok := ut.WhenNotAbove(now, j.PredictedRunTime, -int64(j.NumRequiredProcessors))
		if !ok {
			return nil
		}
		ut.AddUsage(schedTime, schedTime+j.PredictedRunTime, int64(j.NumRequiredProcessors))
		plan = append(plan, planEntry{Start: schedTime, Job: j})
	}
	return plan
}

// cpObjective adapts a qualityFunc (which scores a plan of
// (start, job) pairs at their absolute start times) to a
// cpsolve.Objective (which scores a cpsolve.Plan of relative task
// starts against "now"). jobsByID is the task-ID-to-job index built
// alongside the tasks by buildTasks, closed over rather than read back
// from shared state.
func cpObjective(now int64, quality qualityFunc, jobsByID map[int64]*job.Job) cpsolve.Objective {
	return func(tasks []cpsolve.Task, plan cpsolve.Plan) float64 {
		entries := make([]planEntry, 0, len(tasks))
		for _, t := range tasks {
			j := jobsByID[t.ID]
			if j == nil {
				continue
			}
			entries = append(entries, planEntry{Start: now + plan.Start[t.ID], Job: j})
		}
		return quality(entries)
	}
}

// buildTasks converts a pending queue and the running set into the
// cpsolve interval-variable model (spec.md §4.7): fixed intervals for
// running jobs (remaining predicted time, floored at 1, since a
// zero-duration interval is degenerate), and one task per queued job.
// The returned index maps each task's ID back to its job, for
// cpObjective to close over.
func buildTasks(now int64, running, queue []*job.Job) ([]cpsolve.Fixed, []cpsolve.Task, map[int64]*job.Job) {
	fixed := make([]cpsolve.Fixed, 0, len(running))
	for _, r := range running {
		fixed = append(fixed, cpsolve.Fixed{
			Demand:   r.NumRequiredProcessors,
			Duration: r.RemainingPredicted(now),
		})
	}
	jobsByID := make(map[int64]*job.Job, len(queue))
	tasks := make([]cpsolve.Task, 0, len(queue))
	for _, j := range queue {
		jobsByID[int64(j.ID)] = j
		tasks = append(tasks, cpsolve.Task{
			ID:         int64(j.ID),
			Demand:     j.NumRequiredProcessors,
			Duration:   j.PredictedRunTime,
			SubmitTime: j.SubmitTime,
		})
	}
	return fixed, tasks, jobsByID
}

// cpPlanToEntries converts a solved cpsolve.Plan back to the
// (start, job) pairs the quality measures and the driver-facing start
// logic both operate on.
func cpPlanToEntries(now int64, queue []*job.Job, plan cpsolve.Plan) []planEntry {
	out := make([]planEntry, 0, len(queue))
	for _, j := range queue {
		out = append(out, planEntry{Start: now + plan.Start[int64(j.ID)], Job: j})
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Start != out[k].Start {
			return out[i].Start < out[k].Start
		}
		return out[i].Job.ID < out[k].Job.ID
	})
	return out
}

// solveCP runs the CP solver's two-pass escalating-timelimit attempt
// sequence (spec.md §4.7): a quiet pass at the configured time limit,
// then a second pass at twice the limit if the first didn't converge.
// seedOrder, from an alternative plan, lets the second caller warm-start
// the search (SPEC_FULL.md §C.3). Returns (entries, false) if neither
// pass converges — solver non-convergence, not an error (spec.md §7).
func solveCP(capacity int, now int64, running, queue []*job.Job, quality qualityFunc, baseTimeLimit time.Duration, seedOrder []int64) ([]planEntry, bool) {
	fixed, tasks, jobsByID := buildTasks(now, running, queue)
	objective := cpObjective(now, quality, jobsByID)
	for _, tl := range []time.Duration{baseTimeLimit, baseTimeLimit * 2} {
		plan, ok := cpsolve.Solve(capacity, fixed, tasks, objective, tl, seedOrder)
		if ok {
			return cpPlanToEntries(now, queue, plan), true
		}
	}
	return nil, false
}

// seedOrderFrom extracts a task visit order (by job ID, in plan start
// order) from a (start, job) plan, for use as solveCP's warm-start hint.
func seedOrderFrom(plan []planEntry) []int64 {
	sorted := make([]planEntry, len(plan))
	copy(sorted, plan)
	sort.Slice(sorted, func(i, k int) bool {
		if sorted[i].Start != sorted[k].Start {
			return sorted[i].Start < sorted[k].Start
		}
		return sorted[i].Job.ID < sorted[k].Job.ID
	})
	out := make([]int64, len(sorted))
	for i, e := range sorted {
		out[i] = int64(e.Job.ID)
	}
	return out
}
