package scheduler

import (
	"sort"

	"github.com/algo74/predictsim/internal/job"
)

// Sorter returns a reordered copy of a pending queue snapshot,
// used both as a presorter (head-of-queue selection order) and a
// postsorter (backfill candidate order) by the EASY and pure
// list-backfill families (spec.md §4.5-4.6). Grounded on
// _examples/original_source/pyss/schedulers/sorters.py.
type Sorter func(queue []*job.Job, curTime int64) []*job.Job

func area(j *job.Job) int64 { return int64(j.NumRequiredProcessors) * j.PredictedRunTime }

func sortStable(queue []*job.Job, less func(a, b *job.Job) bool) []*job.Job {
	out := make([]*job.Job, len(queue))
	copy(out, queue)
	sort.SliceStable(out, func(i, k int) bool { return less(out[i], out[k]) })
	return out
}

func sorterLAF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool { return area(a) > area(b) })
}

func sorterSAF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool { return area(a) < area(b) })
}

func sorterLRF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool {
		if a.NumRequiredProcessors != b.NumRequiredProcessors {
			return a.NumRequiredProcessors > b.NumRequiredProcessors
		}
		return a.PredictedRunTime > b.PredictedRunTime
	})
}

func sorterSRF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool {
		if a.NumRequiredProcessors != b.NumRequiredProcessors {
			return a.NumRequiredProcessors < b.NumRequiredProcessors
		}
		return a.PredictedRunTime < b.PredictedRunTime
	})
}

func sorterLJF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool {
		if a.PredictedRunTime != b.PredictedRunTime {
			return a.PredictedRunTime > b.PredictedRunTime
		}
		return a.NumRequiredProcessors > b.NumRequiredProcessors
	})
}

func sorterSJF(queue []*job.Job, curTime int64) []*job.Job {
	return sortStable(queue, func(a, b *job.Job) bool {
		if a.PredictedRunTime != b.PredictedRunTime {
			return a.PredictedRunTime < b.PredictedRunTime
		}
		return a.NumRequiredProcessors < b.NumRequiredProcessors
	})
}

func sorterSRD2F(queue []*job.Job, curTime int64) []*job.Job {
	key := func(j *job.Job) (int64, int64) {
		return int64(j.NumRequiredProcessors) * j.PredictedRunTime * j.PredictedRunTime,
			int64(j.NumRequiredProcessors) * j.PredictedRunTime
	}
	return sortStable(queue, func(a, b *job.Job) bool {
		ka1, ka2 := key(a)
		kb1, kb2 := key(b)
		if ka1 != kb1 {
			return ka1 < kb1
		}
		if ka2 != kb2 {
			return ka2 < kb2
		}
		return a.SubmitTime < b.SubmitTime
	})
}

func sorterNone(queue []*job.Job, curTime int64) []*job.Job {
	out := make([]*job.Job, len(queue))
	copy(out, queue)
	return out
}

// sorterWFP implements the Blue Gene/P "utility" sort: W. Tang, Z. Lan,
// N. Desai, and D. Buettner, "Fault-aware, utility-based job scheduling
// on Blue Gene/P systems," CLUSTR 2009.
func sorterWFP(queue []*job.Job, curTime int64) []*job.Job {
	utility := func(j *job.Job) float64 {
		wait := float64(j.SubmitTime-curTime) / float64(j.PredictedRunTime)
		return float64(j.NumRequiredProcessors) * wait * wait * wait
	}
	return sortStable(queue, func(a, b *job.Job) bool {
		ua, ub := utility(a), utility(b)
		if ua != ub {
			return ua < ub
		}
		if a.SubmitTime != b.SubmitTime {
			return a.SubmitTime < b.SubmitTime
		}
		return a.ID < b.ID
	})
}

// Sorters maps the configuration names from spec.md §6
// (scheduler.presorter / scheduler.postsorter / scheduler.alternative_presorter)
// to their implementations.
var Sorters = map[string]Sorter{
	"LAF":   sorterLAF,
	"LRF":   sorterLRF,
	"LJF":   sorterLJF,
	"SAF":   sorterSAF,
	"SRF":   sorterSRF,
	"SJF":   sorterSJF,
	"SRD2F": sorterSRD2F,
	"WFP":   sorterWFP,
	"None":  sorterNone,
}
