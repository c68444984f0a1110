// Package restrack implements the resource-usage tracker: a compact
// alternative to the CPU snapshot used by pure-backfill planners (spec.md
// §3, §4.3). It is a port of
// _examples/original_source/pyss/schedulers/comod20/usage_tracker.py,
// which itself sits on Python's sortedcontainers.SortedDict; here the
// persistent storage is a github.com/google/btree ordered map, with
// mutating operations computed over a materialized, index-addressable
// snapshot of the tree (mirroring the original's bisect/peekitem
// index arithmetic) and then committed back.
package restrack

import "github.com/google/btree"

// sentinelTime represents "negative infinity": the tracker always holds
// an entry here so that floor queries never miss (matches UsageTracker's
// min_time = -1, valid because all real timestamps are >= 0).
const sentinelTime = int64(-1)

// point is a single plateau boundary: at Time, the tracked value becomes
// Value and holds until the next point.
type point struct {
	Time  int64
	Value int64
}

func (p point) Less(than btree.Item) bool {
	return p.Time < than.(point).Time
}

// Tracker is the resource-usage tracker. The zero value is not usable;
// construct with New.
type Tracker struct {
	tree *btree.BTree
}

// New creates a tracker whose value is startValue everywhere, optionally
// seeded with a set of initial (time, value) assignments (used by the
// pure-backfill scheduler to seed the tracker with already-running
// jobs' footprints).
func New(startValue int64, initial map[int64]int64) *Tracker {
	t := &Tracker{tree: btree.New(32)}
	for tm, v := range initial {
		t.tree.ReplaceOrInsert(point{Time: tm, Value: v})
	}
	t.tree.ReplaceOrInsert(point{Time: sentinelTime, Value: startValue})
	return t
}

func (t *Tracker) snapshot() []point {
	pts := make([]point, 0, t.tree.Len())
	t.tree.Ascend(func(i btree.Item) bool {
		pts = append(pts, i.(point))
		return true
	})
	return pts
}

func (t *Tracker) commit(pts []point) {
	t.tree.Clear(false)
	for _, p := range pts {
		t.tree.ReplaceOrInsert(p)
	}
}

// bisect returns the smallest index i such that pts[i].Time >= target
// (i.e. Python's SortedDict.bisect_left semantics used by the original's
// self.list.bisect(start)).
func bisect(pts []point, target int64) int {
	lo, hi := 0, len(pts)
	for lo < hi {
		mid := (lo + hi) / 2
		if pts[mid].Time < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// AddUsage adds value to the tracked quantity over [start, end). A
// direct port of UsageTracker.add_usage.
func (t *Tracker) AddUsage(start, end, value int64) {
	if start < 0 || end < start {
		panic("restrack: invalid interval")
	}
	if value == 0 || start == end {
		return
	}
	pts := t.snapshot()

	var index int
	var savedValue int64
	if idx := findExact(pts, start); idx >= 0 {
		index = idx
		savedValue = pts[index].Value
		if index > 0 && pts[index].Value+value == pts[index-1].Value {
			pts = removeAt(pts, index)
		} else {
			pts[index].Value += value
			index++
		}
	} else {
		index = bisect(pts, start)
		savedValue = pts[index-1].Value
		pts = insertAt(pts, index, point{Time: start, Value: savedValue + value})
		index++
	}

	maxIndex := len(pts) - 1
	var curTime, curValue int64
	for index <= maxIndex {
		curTime, curValue = pts[index].Time, pts[index].Value
		if curTime >= end {
			break
		}
		savedValue = curValue
		pts[index].Value += value
		index++
	}

	if index > maxIndex || curTime > end {
		pts = insertAt(pts, index, point{Time: end, Value: savedValue})
	} else if curValue == savedValue {
		pts = removeAt(pts, index)
	}

	t.commit(pts)
}

// RemoveTillEnd subtracts value from the tracked quantity over
// [start, +inf). A direct port of UsageTracker.remove_till_end.
func (t *Tracker) RemoveTillEnd(start, value int64) {
	if start < 0 {
		panic("restrack: invalid start")
	}
	if value == 0 {
		return
	}
	pts := t.snapshot()

	var index int
	if idx := findExact(pts, start); idx >= 0 {
		index = idx
		if index > 0 && pts[index].Value-value == pts[index-1].Value {
			pts = removeAt(pts, index)
		} else {
			pts[index].Value -= value
			index++
		}
	} else {
		index = bisect(pts, start)
		pts = insertAt(pts, index, point{Time: start, Value: pts[index-1].Value - value})
		index++
	}

	for index < len(pts) {
		pts[index].Value -= value
		index++
	}

	t.commit(pts)
}

// WhenNotAbove returns the earliest t >= after such that the skyline
// stays <= maxValue throughout [t, t+duration), and true; or (0, false)
// if this is impossible (the "impossible" sentinel in spec.md §4.3). A
// direct port of UsageTracker.when_not_above.
func (t *Tracker) WhenNotAbove(after, duration, maxValue int64) (int64, bool) {
	if after < 0 || duration <= 0 {
		panic("restrack: invalid arguments")
	}
	pts := t.snapshot()
	index := bisect(pts, after) - 1
	maxIndex := len(pts) - 1

	curTime, curValue := pts[index].Time, pts[index].Value
	for {
		for curValue > maxValue {
			index++
			if index > maxIndex {
				return 0, false
			}
			curTime, curValue = pts[index].Time, pts[index].Value
		}
		start := curTime
		if after > start {
			start = after
		}
		end := start + duration
		for curValue <= maxValue {
			index++
			if index > maxIndex {
				return start, true
			}
			curTime, curValue = pts[index].Time, pts[index].Value
			if curTime >= end {
				return start, true
			}
		}
	}
}

// ValueAt returns the tracked value at instant when.
func (t *Tracker) ValueAt(when int64) int64 {
	if when < 0 {
		panic("restrack: invalid instant")
	}
	pts := t.snapshot()
	index := bisect(pts, when) - 1
	return pts[index].Value
}

func findExact(pts []point, target int64) int {
	idx := bisect(pts, target)
	if idx < len(pts) && pts[idx].Time == target {
		return idx
	}
	return -1
}

func removeAt(pts []point, idx int) []point {
	return append(pts[:idx], pts[idx+1:]...)
}

func insertAt(pts []point, idx int, p point) []point {
	pts = append(pts, point{})
	copy(pts[idx+1:], pts[idx:])
	pts[idx] = p
	return pts
}
