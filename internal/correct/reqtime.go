package correct

import "github.com/algo74/predictsim/internal/job"

// Reqtime jumps straight to the user's own estimate (spec.md §4.10).
type Reqtime struct{}

var _ Corrector = Reqtime{}

func (Reqtime) Correct(j *job.Job, now int64) int64 { return j.UserEstimatedRunTime }

func (Reqtime) Observe(j *job.Job) {}
