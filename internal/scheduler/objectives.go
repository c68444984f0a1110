package scheduler

import "github.com/algo74/predictsim/internal/job"

// planEntry pairs a job with its planned (possibly future) start time,
// the unit the CP schedulers' quality measures operate on (spec.md
// §4.8). Grounded on cplex_bestofn_scheduler.py's _measure_quality.
type planEntry struct {
	Start int64
	Job   *job.Job
}

// qualityFunc scores a candidate plan; lower is better, uniformly
// across all four objective functions (spec.md §4.8).
type qualityFunc func(plan []planEntry) float64

func qualityAF(plan []planEntry) float64 {
	var sum float64
	for _, e := range plan {
		flow := e.Start + e.Job.PredictedRunTime - e.Job.SubmitTime
		sum += float64(flow)
	}
	return sum
}

func qualityAWF(plan []planEntry) float64 {
	var sum float64
	for _, e := range plan {
		flow := e.Start + e.Job.PredictedRunTime - e.Job.SubmitTime
		sum += float64(int64(e.Job.NumRequiredProcessors)*e.Job.PredictedRunTime) * float64(flow)
	}
	return sum
}

func qualityBSLD(bound int64) qualityFunc {
	return func(plan []planEntry) float64 {
		var sum float64
		for _, e := range plan {
			denom := e.Job.PredictedRunTime
			if bound > denom {
				denom = bound
			}
			sld := float64(e.Start+e.Job.PredictedRunTime-e.Job.SubmitTime) / float64(denom)
			if sld < 1 {
				sld = 1
			}
			sum += sld
		}
		return sum
	}
}

func qualityASpWAS(plan []planEntry) float64 {
	var m2, m3 float64
	for _, e := range plan {
		tw := float64(e.Start - e.Job.SubmitTime)
		f := tw + float64(e.Job.PredictedRunTime)
		nodes := float64(e.Job.NumRequiredProcessors)
		m2 += nodes * (f*f*f - tw*tw*tw)
		m3 += nodes * (f*f*f*f - tw*tw*tw*tw)
	}
	if m2 == 0 {
		return 0
	}
	return m3 / m2
}

// ObjectiveFunction names the four quality measures configurable via
// scheduler.objective_function (spec.md §6).
type ObjectiveFunction string

const (
	ObjectiveAF     ObjectiveFunction = "AF"
	ObjectiveAWF    ObjectiveFunction = "AWF"
	ObjectiveBSLD   ObjectiveFunction = "BSLD"
	ObjectiveASpWAS ObjectiveFunction = "ASpWAS"
)

func qualityFor(name ObjectiveFunction, bsldBound int64) qualityFunc {
	switch name {
	case ObjectiveAWF:
		return qualityAWF
	case ObjectiveBSLD:
		return qualityBSLD(bsldBound)
	case ObjectiveASpWAS:
		return qualityASpWAS
	default:
		return qualityAF
	}
}
