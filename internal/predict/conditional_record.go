package predict

import "github.com/google/btree"

// condEntry is one observed value in a conditionalRecord's weighted
// multiset.
type condEntry struct {
	Value  int64
	Weight float64
}

func (e condEntry) Less(than btree.Item) bool {
	return e.Value < than.(condEntry).Value
}

// conditionalRecord is the conditional top-percent predictor's own
// weighted multiset, distinct from quantileRecord: it carries no
// threshold-position state machine, instead answering each predict call
// fresh against the elapsed running time supplied by the caller. Ported
// from
// _examples/original_source/pyss/predictors/predictor_conditional_percent.py's
// Record, whose own docstring calls it "a non-efficient straightforward
// implementation" — every add decays the whole multiset eagerly rather
// than lazily, exactly as here.
type conditionalRecord struct {
	tree        *btree.BTree
	totalWeight float64
}

// newConditionalRecord seeds the record with one artificial point at
// startValue, weighted startWeight*startValue when useWeights is set
// (else startWeight plain), matching Record.__init__.
func newConditionalRecord(startValue int64, startWeight float64, useWeights bool) *conditionalRecord {
	pointWeight := startWeight
	if useWeights {
		pointWeight = startWeight * float64(startValue)
	}
	r := &conditionalRecord{tree: btree.New(32), totalWeight: pointWeight}
	r.tree.ReplaceOrInsert(condEntry{Value: startValue, Weight: pointWeight})
	return r
}

func (r *conditionalRecord) ordered() ([]int64, []float64) {
	values := make([]int64, 0, r.tree.Len())
	weights := make([]float64, 0, r.tree.Len())
	r.tree.Ascend(func(i btree.Item) bool {
		e := i.(condEntry)
		values = append(values, e.Value)
		weights = append(weights, e.Weight)
		return true
	})
	return values, weights
}

// add folds in a new observation, decaying every existing point's
// weight by aDec first and then merging the new point in, exactly as
// Record.add. threshold is accepted but unused, matching the original's
// own "legacy parameter" comment.
func (r *conditionalRecord) add(value int64, aDec, threshold float64, useWeights bool) {
	decayed := btree.New(32)
	r.tree.Ascend(func(i btree.Item) bool {
		e := i.(condEntry)
		e.Weight *= aDec
		decayed.ReplaceOrInsert(e)
		return true
	})
	r.tree = decayed

	pointWeight := pointWeight(float64(value), useWeights)
	if existing := r.tree.Get(condEntry{Value: value}); existing != nil {
		e := existing.(condEntry)
		e.Weight += pointWeight
		r.tree.ReplaceOrInsert(e)
	} else {
		r.tree.ReplaceOrInsert(condEntry{Value: value, Weight: pointWeight})
	}
	r.totalWeight = aDec*r.totalWeight + pointWeight
}

// predict walks upward from the first observed value strictly greater
// than timeAlreadyRunning, accumulating weights, and returns the value
// one position past the point at which the cumulative weight first
// exceeds threshold*totalWeight; it returns false if that crossing
// happens at the last observed value or not at all. Ported
// from Record.predict's bisect_right-then-accumulate walk.
func (r *conditionalRecord) predict(timeAlreadyRunning int64, threshold float64) (int64, bool) {
	values, weights := r.ordered()
	lastIndex := len(values) - 1
	curIndex := bisectRight(values, timeAlreadyRunning)
	thresholdWeight := threshold * r.totalWeight
	weightSum := 0.0
	for curIndex < lastIndex {
		weightSum += weights[curIndex]
		if weightSum > thresholdWeight {
			return values[curIndex+1], true
		}
		curIndex++
	}
	return 0, false
}

// bisectRight returns the index of the first element of the ascending,
// duplicate-free values strictly greater than x (Python's
// bisect.bisect_right over unique keys).
func bisectRight(values []int64, x int64) int {
	lo, hi := 0, len(values)
	for lo < hi {
		mid := (lo + hi) / 2
		if x < values[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
