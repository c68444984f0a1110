package predict

import (
	"math"

	"github.com/google/btree"
)

// qentry is one observed value in a quantileRecord's weighted
// multiset: Weight is the weight as of LastCount (lazily decayed on
// read, exactly like
// _examples/original_source/pyss/predictors/predictor_top_percent.py's
// Record.dict entries).
type qentry struct {
	Value     int64
	Weight    float64
	LastCount int64
}

func (e qentry) Less(than btree.Item) bool {
	return e.Value < than.(qentry).Value
}

// quantileRecord is a weighted ordered multiset with a tracked threshold
// position, the data structure behind the top-percent and conditional
// top-percent predictors (spec.md §4.9). It is a port of Record from
// predictor_top_percent.py, with Python's sortedcontainers.SortedDict
// replaced by a github.com/google/btree ordered map for storage; the
// position-indexed threshold walk is computed over a materialized,
// ascending snapshot of the tree on each call, mirroring the technique
// used by internal/restrack and internal/cpuslice.
type quantileRecord struct {
	tree        *btree.BTree
	count       int64
	tPos        int
	tVal        int64
	overWeight  float64
	underWeight float64
}

// newQuantileRecord seeds the record with one artificial point at
// startValue. Its weight is startWeight*startValue when useWeights is
// set, else startWeight plain, matching predictor_top_percent.py's
// Record.__init__ (and predictor_conditional_percent.py's, which seeds
// identically).
func newQuantileRecord(startValue int64, startWeight float64, useWeights bool) *quantileRecord {
	pointWeight := startWeight
	if useWeights {
		pointWeight = startWeight * float64(startValue)
	}
	r := &quantileRecord{
		tree:        btree.New(32),
		tVal:        startValue,
		underWeight: 1,
	}
	r.tree.ReplaceOrInsert(qentry{Value: startValue, Weight: pointWeight, LastCount: 0})
	return r
}

func (r *quantileRecord) get(value int64) (qentry, bool) {
	item := r.tree.Get(qentry{Value: value})
	if item == nil {
		return qentry{}, false
	}
	return item.(qentry), true
}

func (r *quantileRecord) set(e qentry) {
	r.tree.ReplaceOrInsert(e)
}

func (r *quantileRecord) orderedValues() []int64 {
	out := make([]int64, 0, r.tree.Len())
	r.tree.Ascend(func(i btree.Item) bool {
		out = append(out, i.(qentry).Value)
		return true
	})
	return out
}

// decayedWeight returns e's weight decayed forward from LastCount to the
// record's current count.
func decayedWeight(e qentry, currentCount int64, aDec float64) float64 {
	return e.Weight * math.Pow(aDec, float64(currentCount-e.LastCount))
}

// updateTWeight decays the entry at tVal forward to the current count
// and persists the decayed value, returning it.
func (r *quantileRecord) updateTWeight(aDec float64) float64 {
	e, ok := r.get(r.tVal)
	if !ok {
		return 0
	}
	nw := decayedWeight(e, r.count, aDec)
	r.set(qentry{Value: r.tVal, Weight: nw, LastCount: r.count})
	return nw
}

// add folds in a new observation, decaying all prior weight by aDec and
// advancing the threshold position so that the weight below it is at
// least threshold*total (spec.md §4.9). useWeights controls whether the
// point's weight is its value or a flat 1.
func (r *quantileRecord) add(value int64, aDec, threshold float64, useWeights bool) {
	pw := pointWeight(float64(value), useWeights)

	existing, exists := r.get(value)
	var newWeight float64
	if exists {
		newWeight = pw + decayedWeight(existing, r.count, aDec)
	} else {
		if value < r.tVal {
			r.tPos++
		}
		newWeight = pw
	}
	r.set(qentry{Value: value, Weight: newWeight, LastCount: r.count})

	r.overWeight *= aDec
	r.underWeight *= aDec

	ordered := r.orderedValues()

	if value > r.tVal {
		r.overWeight += pw
		for r.underWeight/(r.underWeight+r.overWeight) <= threshold {
			r.tPos++
			r.tVal = ordered[r.tPos]
			tWeight := r.updateTWeight(aDec)
			r.underWeight += tWeight
			r.overWeight -= tWeight
			if r.tPos == int(r.count)+1 {
				r.overWeight = 0
			}
		}
	} else {
		r.underWeight += pw
		if value < r.tVal {
			tWeight := r.updateTWeight(aDec)
			for (r.underWeight-tWeight)/(r.underWeight+r.overWeight) > threshold {
				r.underWeight -= tWeight
				r.overWeight += tWeight
				r.tPos--
				r.tVal = ordered[r.tPos]
				tWeight = r.updateTWeight(aDec)
				if r.tPos == 0 {
					r.underWeight = tWeight
				}
			}
		}
	}
	r.count++
}

// value returns the current threshold value: the smallest observed run
// time such that at least `confidence` of the (decayed) weight lies at
// or below it.
func (r *quantileRecord) value() int64 {
	return r.tVal
}
