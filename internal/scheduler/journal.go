package scheduler

import (
	"encoding/csv"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/algo74/predictsim/internal/job"
)

// JournalEntry is one recorded start decision: job jobID started at
// time Time. The journal is a flat, time-ordered CSV of these, the
// "checkpointing" file format used by
// _examples/original_source/pyss/schedulers/cplex_bestofn_scheduler.py.
// No library in the example pack handles CSV; encoding/csv is the
// standard library's own answer to exactly this, and is what the
// original itself reaches for (Python's builtin csv module), so no
// ecosystem replacement is sought here (DESIGN.md).
type JournalEntry struct {
	Time  int64
	JobID int64
}

// replayState is the journal's one-way state machine (spec.md §4.7,
// "three replay states"): Active while fast-forwarding through a prior
// run's recorded decisions, then permanently StoppedClean (ran out of
// history) or StoppedAborted (found a discrepancy or recovery error).
// Once stopped, a journal never resumes replaying.
type replayState int

const (
	replayActive replayState = iota
	replayStoppedClean
	replayStoppedAborted
)

// Journal implements checkpoint/fast-forward: on construction it loads
// any prior run's recorded start decisions and replays them verbatim as
// the simulation reaches each recorded time, then switches to live
// scheduling once the history is exhausted or found inconsistent.
type Journal struct {
	path      string
	savedPath string
	entries   []JournalEntry
	pos       int
	state     replayState
	file      *os.File
	writer    *csv.Writer
	log       *zap.SugaredLogger
}

// OpenJournal opens (or starts) the checkpoint journal backing
// outputSWF's run. It never fails the caller: any recovery problem is
// logged and leaves the journal in a live (non-replaying) state,
// matching spec.md §7's "Journal recovery failure" policy.
func OpenJournal(outputSWF string, log *zap.SugaredLogger) *Journal {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	j := &Journal{
		path:      outputSWF + ".checkpointing",
		savedPath: outputSWF + ".checkpointing.saved",
		log:       log,
	}
	j.loadOrStart()
	return j
}

func (j *Journal) loadOrStart() {
	if _, err := os.Stat(j.savedPath); os.IsNotExist(err) {
		if _, err2 := os.Stat(j.path); err2 == nil {
			if err3 := os.Rename(j.path, j.savedPath); err3 != nil {
				j.log.Warnw("journal: could not promote checkpoint file for replay", "error", err3)
				j.state = replayStoppedAborted
				j.startFresh()
				return
			}
		} else {
			j.state = replayStoppedAborted
			j.startFresh()
			return
		}
	}
	entries, err := readJournalCSV(j.savedPath)
	if err != nil {
		j.log.Warnw("journal: could not read checkpoint history, disabling fast-forward", "error", err)
		j.state = replayStoppedAborted
		j.startFresh()
		return
	}
	j.entries = entries
	j.state = replayActive
	j.startFresh()
}

func (j *Journal) startFresh() {
	_ = os.Remove(j.path)
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		j.log.Warnw("journal: could not open checkpoint file for writing", "error", err)
		return
	}
	j.file = f
	j.writer = csv.NewWriter(f)
}

func readJournalCSV(path string) ([]JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	entries := make([]JournalEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			continue
		}
		t, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, err
		}
		entries = append(entries, JournalEntry{Time: t, JobID: id})
	}
	return entries, nil
}

// Replaying reports whether the journal is still fast-forwarding.
func (j *Journal) Replaying() bool {
	return j != nil && j.state == replayActive
}

// NextReplayTime reports the timestamp of the next recorded entry still
// awaiting replay. A scheduler whose current pass found nothing to do
// because that entry lies in the future must wake itself at exactly
// that instant; otherwise, once the last live event before it drains,
// the event heap empties with the recorded job never started.
func (j *Journal) NextReplayTime() (int64, bool) {
	if j == nil || j.state != replayActive || j.pos >= len(j.entries) {
		return 0, false
	}
	return j.entries[j.pos].Time, true
}

// RecordStart appends a start decision to the live journal, so a future
// run resuming from this one can fast-forward through it.
func (j *Journal) RecordStart(now, jobID int64) {
	if j == nil || j.writer == nil {
		return
	}
	j.writer.Write([]string{strconv.FormatInt(now, 10), strconv.FormatInt(jobID, 10)})
	j.writer.Flush()
}

func (j *Journal) stop(clean bool, reason string, args ...any) {
	if clean {
		j.state = replayStoppedClean
		j.log.Infow("journal: fast-forward complete, resuming live scheduling")
	} else {
		j.state = replayStoppedAborted
		j.log.Warnw("journal: fast-forward aborted, resuming live scheduling", "reason", args)
	}
	_ = reason
	if j.savedPath != "" {
		_ = os.Remove(j.savedPath)
	}
}

// ReplayAt fast-forwards through every recorded start decision at
// exactly now, starting each named job via start. It never returns an
// error to the caller: any inconsistency (a discrepancy in recorded
// times, a missing job, a start that fails) stops replay and is
// reported through the journal's own logger, per spec.md §7's recovery
// policy. done reports whether the journal has stopped replaying (clean
// or aborted) as of this call, meaning the caller should fall through
// to a live scheduling pass at now.
func (j *Journal) ReplayAt(now int64, pool *job.Pool, start func(*job.Job, int64) error) ([]*job.Job, bool) {
	if j.pos >= len(j.entries) {
		j.stop(true, "history exhausted")
		return nil, true
	}
	next := j.entries[j.pos]
	if next.Time < now {
		j.stop(false, "recorded start at %d but simulation is already at %d", next.Time, now)
		return nil, true
	}
	if next.Time > now {
		return nil, false
	}

	var started []*job.Job
	for j.pos < len(j.entries) && j.entries[j.pos].Time == now {
		e := j.entries[j.pos]
		target := findPending(pool, e.JobID)
		if target == nil {
			j.stop(false, "job %d not found among pending jobs during replay", e.JobID)
			return started, true
		}
		if err := start(target, now); err != nil {
			j.stop(false, "job %d failed to start during replay: %v", e.JobID, err)
			return started, true
		}
		started = append(started, target)
		j.pos++
	}
	return started, false
}

func findPending(pool *job.Pool, id int64) *job.Job {
	for _, p := range pool.PendingJobs() {
		if int64(p.ID) == id {
			return p
		}
	}
	return nil
}

// Close releases the journal's open file handle.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	if j.writer != nil {
		j.writer.Flush()
	}
	return j.file.Close()
}
