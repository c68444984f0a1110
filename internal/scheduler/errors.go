package scheduler

import "fmt"

// SchedulingException signals a scheduler's internal invariant has been
// broken badly enough that the run cannot continue (spec.md §7): a job
// that can never be scheduled under its own resource requirements, or a
// start that should have succeeded but didn't. The driver treats this
// as an abort-with-diagnostic condition, never a silent fallback.
type SchedulingException struct {
	JobID   int64
	Message string
}

func (e *SchedulingException) Error() string {
	return fmt.Sprintf("scheduling exception for job %d: %s", e.JobID, e.Message)
}

func schedulingErr(jobID int64, format string, args ...any) error {
	return &SchedulingException{JobID: jobID, Message: fmt.Sprintf(format, args...)}
}
