// Package cpuslice implements the CPU snapshot: a piecewise-constant
// step function of free-processor counts on [now, +inf) (spec.md §3,
// §4.2). The Python original this was distilled from keeps its CpuSnapshot
// implementation outside the retrieved pack, so this is grounded
// directly on spec.md's public contract and on the same
// materialize-slice-commit-to-btree technique used in
// internal/restrack (itself grounded on
// _examples/original_source/pyss/schedulers/comod20/usage_tracker.py),
// which this package reuses for the same reason: splitting and merging
// contiguous slices is inherently a positional operation, so mutations
// are computed over an ordered snapshot and then committed back to the
// persistent github.com/google/btree-backed store.
package cpuslice

import (
	"fmt"
	"math"

	"github.com/google/btree"

	"github.com/algo74/predictsim/internal/job"
)

// Horizon is the sentinel "+infinity" end time for the tail slice.
const Horizon = math.MaxInt64 / 2

// slice is one piece of the step function: free processors are constant
// over [Start, End).
type slice struct {
	Start int64
	Free  int
}

func (s slice) Less(than btree.Item) bool {
	return s.Start < than.(slice).Start
}

// reservation records what a job claimed, so it can be cancelled or
// extended later without the caller having to re-derive it.
type reservation struct {
	start int64
	end   int64
	procs int
}

// Snapshot is the CPU snapshot for one simulation run.
type Snapshot struct {
	capacity     int
	tree         *btree.BTree
	reservations map[job.ID]reservation
}

// New creates a snapshot for a cluster of the given capacity, entirely
// free from time 0 onward.
func New(capacity int) *Snapshot {
	s := &Snapshot{
		capacity:     capacity,
		tree:         btree.New(32),
		reservations: make(map[job.ID]reservation),
	}
	s.tree.ReplaceOrInsert(slice{Start: 0, Free: capacity})
	return s
}

func (s *Snapshot) snapshot() []slice {
	out := make([]slice, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		out = append(out, i.(slice))
		return true
	})
	return out
}

func (s *Snapshot) commit(sl []slice) {
	s.tree.Clear(false)
	for _, x := range sl {
		s.tree.ReplaceOrInsert(x)
	}
}

// durationOf returns the reservation length to use for a job: predicted
// run time, bumped to 1 for zero-duration jobs (spec.md §4.2 edge-case
// policy).
func durationOf(j *job.Job) int64 {
	d := j.PredictedRunTime
	if d < 1 {
		d = 1
	}
	return d
}

// splitAt ensures a slice boundary exists exactly at t (splitting the
// slice that currently spans it, if any), returning the updated list.
func splitAt(sl []slice, t int64) []slice {
	if t == 0 {
		return sl
	}
	// find the slice containing t: the last one with Start <= t.
	idx := -1
	for i, x := range sl {
		if x.Start <= t {
			idx = i
		} else {
			break
		}
	}
	if idx == -1 {
		return sl
	}
	if sl[idx].Start == t {
		return sl
	}
	free := sl[idx].Free
	out := make([]slice, 0, len(sl)+1)
	out = append(out, sl[:idx+1]...)
	out = append(out, slice{Start: t, Free: free})
	out = append(out, sl[idx+1:]...)
	return out
}

// collapseAdjacent merges neighboring slices that ended up with equal
// free counts after a mutation.
func collapseAdjacent(sl []slice) []slice {
	out := sl[:0:0]
	for _, x := range sl {
		if n := len(out); n > 0 && out[n-1].Free == x.Free {
			continue
		}
		out = append(out, x)
	}
	return out
}

// endOf returns the end time of sl[idx] (the start of the next slice, or
// Horizon for the tail).
func endOf(sl []slice, idx int) int64 {
	if idx+1 < len(sl) {
		return sl[idx+1].Start
	}
	return Horizon
}

// applyDelta adds delta free processors to every slice overlapping
// [start, end), splitting slice boundaries at start and end first.
func (s *Snapshot) applyDelta(start, end int64, delta int) {
	sl := s.snapshot()
	sl = splitAt(sl, start)
	sl = splitAt(sl, end)
	for i := range sl {
		if sl[i].Start >= start && sl[i].Start < end {
			sl[i].Free += delta
		}
	}
	sl = collapseAdjacent(sl)
	s.commit(sl)
}

// fits reports whether procs processors are available throughout
// [start, end).
func (s *Snapshot) fits(start, end int64, procs int) bool {
	sl := s.snapshot()
	for i, x := range sl {
		e := endOf(sl, i)
		if e <= start || x.Start >= end {
			continue
		}
		if x.Free < procs {
			return false
		}
	}
	return true
}

// FreeProcessorsAvailableAt returns the free-processor count at instant
// t.
func (s *Snapshot) FreeProcessorsAvailableAt(t int64) int {
	sl := s.snapshot()
	best := sl[0]
	for _, x := range sl {
		if x.Start <= t {
			best = x
		} else {
			break
		}
	}
	return best.Free
}

// CanJobStartNow is a feasibility test for immediate start, without
// mutating the snapshot.
func (s *Snapshot) CanJobStartNow(j *job.Job, now int64) bool {
	return s.fits(now, now+durationOf(j), j.NumRequiredProcessors)
}

// AssignJob reserves the job's processors over
// [start, start+predicted_run_time). It returns an error if the
// reservation would exceed capacity anywhere in that interval (spec.md
// §4.2), or if predicted_run_time exceeds the user estimate (forbidden
// by the same section).
func (s *Snapshot) AssignJob(j *job.Job, start int64) error {
	if j.PredictedRunTime > j.UserEstimatedRunTime {
		return fmt.Errorf("cpuslice: job %d predicted run time %d exceeds user estimate %d", j.ID, j.PredictedRunTime, j.UserEstimatedRunTime)
	}
	end := start + durationOf(j)
	if !s.fits(start, end, j.NumRequiredProcessors) {
		return fmt.Errorf("cpuslice: job %d cannot be reserved for %d processors over [%d,%d): insufficient capacity", j.ID, j.NumRequiredProcessors, start, end)
	}
	s.applyDelta(start, end, -j.NumRequiredProcessors)
	s.reservations[j.ID] = reservation{start: start, end: end, procs: j.NumRequiredProcessors}
	return nil
}

// AssignJobEarliest finds the smallest t >= now at which the job's
// reservation fits and assigns it there, returning t.
func (s *Snapshot) AssignJobEarliest(j *job.Job, now int64) (int64, error) {
	dur := durationOf(j)
	procs := j.NumRequiredProcessors
	sl := s.snapshot()
	sl = splitAt(sl, now)
	candidates := make([]int64, 0, len(sl)+1)
	candidates = append(candidates, now)
	for _, x := range sl {
		if x.Start > now {
			candidates = append(candidates, x.Start)
		}
	}
	for _, start := range candidates {
		if s.fits(start, start+dur, procs) {
			if err := s.AssignJob(j, start); err != nil {
				return 0, err
			}
			return start, nil
		}
	}
	return 0, fmt.Errorf("cpuslice: job %d can never be scheduled", j.ID)
}

// DelJob cancels a whole reservation.
func (s *Snapshot) DelJob(j *job.Job) error {
	r, ok := s.reservations[j.ID]
	if !ok {
		return fmt.Errorf("cpuslice: job %d has no reservation", j.ID)
	}
	s.applyDelta(r.start, r.end, r.procs)
	delete(s.reservations, j.ID)
	return nil
}

// DelTailOfJob cancels the portion of a reservation from now onward
// (used by under-prediction handling when a running job's remaining
// tail is cancelled before being re-reserved at a revised length).
func (s *Snapshot) DelTailOfJob(j *job.Job, now int64) error {
	r, ok := s.reservations[j.ID]
	if !ok {
		return fmt.Errorf("cpuslice: job %d has no reservation", j.ID)
	}
	from := r.start
	if now > from {
		from = now
	}
	if from >= r.end {
		delete(s.reservations, j.ID)
		return nil
	}
	s.applyDelta(from, r.end, r.procs)
	if from <= r.start {
		delete(s.reservations, j.ID)
	} else {
		r.end = from
		s.reservations[j.ID] = r
	}
	return nil
}

// AssignTailOfJob lengthens an already-running job's reservation to the
// new predicted run time, failing if the extension would exceed capacity
// elsewhere.
func (s *Snapshot) AssignTailOfJob(j *job.Job, newPredictedRunTime int64) error {
	r, ok := s.reservations[j.ID]
	if !ok {
		return fmt.Errorf("cpuslice: job %d has no reservation", j.ID)
	}
	newEnd := r.start + newPredictedRunTime
	if newEnd <= r.end {
		// shrinking (or no-op): release the now-unneeded tail.
		s.applyDelta(newEnd, r.end, r.procs)
		r.end = newEnd
		s.reservations[j.ID] = r
		return nil
	}
	if !s.fits(r.end, newEnd, r.procs) {
		return fmt.Errorf("cpuslice: job %d cannot extend reservation to %d: insufficient capacity", j.ID, newEnd)
	}
	s.applyDelta(r.end, newEnd, -r.procs)
	r.end = newEnd
	s.reservations[j.ID] = r
	return nil
}

// ArchiveOldSlices collapses slices wholly in the past, clamping the
// leading slice boundary to now.
func (s *Snapshot) ArchiveOldSlices(now int64) {
	sl := s.snapshot()
	sl = splitAt(sl, now)
	idx := -1
	for i, x := range sl {
		if x.Start <= now {
			idx = i
		}
	}
	if idx > 0 {
		sl = sl[idx:]
	}
	if len(sl) > 0 && sl[0].Start < now {
		sl[0].Start = now
	}
	s.commit(collapseAdjacent(sl))
}
