// Package job defines the job record shared by the simulation kernel,
// the scheduling policies, and the prediction layer.
package job

// ID is the stable integer identifier carried over from the SWF trace.
type ID int64

// Job is the mutable record the kernel, the schedulers, and the
// predictors all operate on. Every auxiliary field the original Python
// prototype hung off the job object with getattr/hasattr is an explicit,
// default-initialized member here (see spec.md §9, "Shared mutable state
// via attribute hanging").
type Job struct {
	ID ID

	// SubmitTime is when the job entered the queue.
	SubmitTime int64

	// NumRequiredProcessors is the requested (and allocated) processor count.
	NumRequiredProcessors int

	// UserEstimatedRunTime is the user-supplied upper bound on run time.
	UserEstimatedRunTime int64

	// ActualRunTime is the ground truth, revealed to the termination
	// handler and to clairvoyant predictors only.
	ActualRunTime int64

	// User, Group, and Executable are opaque identifiers used as
	// predictor tag components.
	User       string
	Group      string
	Executable string

	// PredictedRunTime is mutated by predictors and correctors. The
	// invariant PredictedRunTime <= UserEstimatedRunTime must hold after
	// every mutation; use SetPredictedRunTime to enforce it.
	PredictedRunTime int64

	// InitialPrediction is set exactly once, at submission.
	InitialPrediction int64
	initialSet        bool

	// NumUnderPredict counts how many times this job's prediction was
	// exceeded while running.
	NumUnderPredict int

	// StartTime is set when the job is actually started by a scheduler.
	StartTime    int64
	started      bool
	Backfilled   bool
}

// SetPredictedRunTime enforces the predicted <= user-estimated invariant
// (spec.md §3, §8) on every mutation. Zero-duration jobs are bumped to a
// duration of one, per the CPU snapshot edge-case policy (spec.md §4.2).
func (j *Job) SetPredictedRunTime(v int64) {
	if v < 1 {
		v = 1
	}
	if v > j.UserEstimatedRunTime {
		v = j.UserEstimatedRunTime
	}
	j.PredictedRunTime = v
}

// SetInitialPrediction records the job's first prediction. Calling it
// more than once is a programming error in the scheduler scaffolding and
// is a silent no-op, matching the "set exactly once" invariant.
func (j *Job) SetInitialPrediction() {
	if j.initialSet {
		return
	}
	j.InitialPrediction = j.PredictedRunTime
	j.initialSet = true
}

// MarkStarted records the job's actual start time. It is idempotent by
// design: the kernel calls it exactly once per job, but a second call
// (e.g. from a defensive re-dispatch) should not corrupt StartTime.
func (j *Job) MarkStarted(now int64) {
	if j.started {
		return
	}
	j.StartTime = now
	j.started = true
}

// Started reports whether MarkStarted has been called.
func (j *Job) Started() bool { return j.started }

// RemainingPredicted returns the predicted time left for a running job
// at the given instant, clamped to at least 1 (ORTools-style interval
// variables reject zero-duration intervals; see SPEC_FULL.md §B).
func (j *Job) RemainingPredicted(now int64) int64 {
	remaining := j.StartTime + j.PredictedRunTime - now
	if remaining < 1 {
		remaining = 1
	}
	return remaining
}

// Area is processors * predicted_run_time, the common scheduling
// priority quantity (spec.md GLOSSARY).
func (j *Job) Area() int64 {
	return int64(j.NumRequiredProcessors) * j.PredictedRunTime
}
