package predict

// QuantileEstimator exposes the decaying weighted-quantile tracker behind
// TopPercent/Conditional for reuse outside this package, keyed by a
// caller-chosen tag rather than a *job.Job. The "ninetynine" corrector
// (internal/correct) uses this to estimate an over-threshold runtime at
// a configured quantile per spec.md §4.10; its exact semantics are not
// fully visible in the retrieved source, so this package's weighted
// quantile machinery is carried over literally as the closest documented
// equivalent.
type QuantileEstimator struct {
	alpha       float64
	confidence  float64
	startWeight float64
	useWeights  bool
	records     map[string]*quantileRecord
}

// NewQuantileEstimator constructs a quantile estimator. alpha is the
// decay rate, confidence the target quantile (e.g. 0.99), and
// startWeight the seed weight for a tag's first observation.
func NewQuantileEstimator(alpha, confidence, startWeight float64, useWeights bool) *QuantileEstimator {
	return &QuantileEstimator{
		alpha:       alpha,
		confidence:  confidence,
		startWeight: startWeight,
		useWeights:  useWeights,
		records:     make(map[string]*quantileRecord),
	}
}

func (q *QuantileEstimator) recordFor(tag string, seed int64) *quantileRecord {
	r, ok := q.records[tag]
	if !ok {
		r = newQuantileRecord(seed, q.startWeight, q.useWeights)
		q.records[tag] = r
	}
	return r
}

// Observe folds a new observation for tag into its quantile record,
// seeding the record with seed if this is the tag's first observation.
func (q *QuantileEstimator) Observe(tag string, value, seed int64) {
	r := q.recordFor(tag, seed)
	r.add(value, 1-q.alpha, q.confidence, q.useWeights)
}

// Value returns tag's current quantile estimate, or seed if tag has
// never been observed.
func (q *QuantileEstimator) Value(tag string, seed int64) int64 {
	r, ok := q.records[tag]
	if !ok {
		return seed
	}
	return r.value()
}
