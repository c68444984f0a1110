package correct

import "github.com/algo74/predictsim/internal/job"

// Tsafrir corrects to the per-user two-prior average of actual run
// times when available, else falls back to reqtime (spec.md §4.10).
// Maintains its own history independent of any predict.Tsafrir in use,
// since a run may pair a different predictor with this corrector.
type Tsafrir struct {
	history map[string][2]int64
	seen    map[string]int
}

var _ Corrector = (*Tsafrir)(nil)

// NewTsafrir constructs an empty two-prior corrector.
func NewTsafrir() *Tsafrir {
	return &Tsafrir{
		history: make(map[string][2]int64),
		seen:    make(map[string]int),
	}
}

func (t *Tsafrir) twoPriorAverage(user string) (int64, bool) {
	if t.seen[user] < 2 {
		return 0, false
	}
	pair := t.history[user]
	return (pair[0] + pair[1]) / 2, true
}

func (t *Tsafrir) Correct(j *job.Job, now int64) int64 {
	if avg, ok := t.twoPriorAverage(j.User); ok {
		return avg
	}
	return j.UserEstimatedRunTime
}

func (t *Tsafrir) Observe(j *job.Job) {
	pair := t.history[j.User]
	t.history[j.User] = [2]int64{pair[1], j.ActualRunTime}
	t.seen[j.User]++
}
