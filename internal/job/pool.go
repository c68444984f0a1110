package job

import (
	"fmt"

	"github.com/google/btree"
)

// sizeKey orders pending jobs by processor count, then by id, giving a
// deterministic size-ordered index (spec.md §3, "Job pool").
type sizeKey struct {
	procs int
	id    ID
}

func (a sizeKey) Less(than btree.Item) bool {
	b := than.(sizeKey)
	if a.procs != b.procs {
		return a.procs < b.procs
	}
	return a.id < b.id
}

// Pool partitions jobs into a pending queue and a running set, mirroring
// comod20/job_pool.py from the original implementation, and additionally
// exposes a size-ordered index used by schedulers to cheaply test
// whether the cluster can ever admit the smallest pending job.
type Pool struct {
	pending   []*Job
	pendingAt map[ID]int // id -> index in pending, for O(1) removal lookups
	running   map[ID]*Job
	byNodes   *btree.BTree
	keyOf     map[ID]sizeKey
}

// NewPool creates an empty job pool.
func NewPool() *Pool {
	return &Pool{
		pendingAt: make(map[ID]int),
		running:   make(map[ID]*Job),
		byNodes:   btree.New(32),
		keyOf:     make(map[ID]sizeKey),
	}
}

// AddPending enqueues a newly submitted job.
func (p *Pool) AddPending(j *Job) {
	p.pendingAt[j.ID] = len(p.pending)
	p.pending = append(p.pending, j)
	k := sizeKey{procs: j.NumRequiredProcessors, id: j.ID}
	p.keyOf[j.ID] = k
	p.byNodes.ReplaceOrInsert(k)
}

// MoveToRunning transfers a job from pending to running. It returns an
// error if the job is not currently pending, which would indicate a
// scheduler invariant violation rather than a recoverable condition.
func (p *Pool) MoveToRunning(j *Job) error {
	idx, ok := p.pendingAt[j.ID]
	if !ok {
		return fmt.Errorf("job %d is not pending", j.ID)
	}
	p.removePendingAt(idx)
	p.byNodes.Delete(p.keyOf[j.ID])
	delete(p.keyOf, j.ID)
	p.running[j.ID] = j
	return nil
}

// RemoveFromRunning removes a job from the running set.
func (p *Pool) RemoveFromRunning(j *Job) error {
	if _, ok := p.running[j.ID]; !ok {
		return fmt.Errorf("job %d is not running", j.ID)
	}
	delete(p.running, j.ID)
	return nil
}

func (p *Pool) removePendingAt(idx int) {
	removed := p.pending[idx]
	p.pending = append(p.pending[:idx], p.pending[idx+1:]...)
	for i := idx; i < len(p.pending); i++ {
		p.pendingAt[p.pending[i].ID] = i
	}
	delete(p.pendingAt, removed.ID)
}

// RemovePending drops a pending job without running it.
func (p *Pool) RemovePending(j *Job) error {
	idx, ok := p.pendingAt[j.ID]
	if !ok {
		return fmt.Errorf("job %d is not pending", j.ID)
	}
	p.removePendingAt(idx)
	p.byNodes.Delete(p.keyOf[j.ID])
	delete(p.keyOf, j.ID)
	return nil
}

// PendingJobs returns a fresh copy of the pending queue, in submission
// (FCFS) order, safe for the caller to sort or mutate.
func (p *Pool) PendingJobs() []*Job {
	out := make([]*Job, len(p.pending))
	copy(out, p.pending)
	return out
}

// RunningJobs returns all currently running jobs.
func (p *Pool) RunningJobs() []*Job {
	out := make([]*Job, 0, len(p.running))
	for _, j := range p.running {
		out = append(out, j)
	}
	return out
}

// Len returns the number of pending jobs.
func (p *Pool) Len() int { return len(p.pending) }

// MinPendingProcessors returns the smallest processor request among
// pending jobs and true, or (0, false) if the pool is empty. Schedulers
// use this as a cheap early-exit: if the cluster cannot admit even the
// smallest pending job, a whole scheduling pass can be skipped (see
// SPEC_FULL.md §C.4).
func (p *Pool) MinPendingProcessors() (int, bool) {
	item := p.byNodes.Min()
	if item == nil {
		return 0, false
	}
	return item.(sizeKey).procs, true
}
