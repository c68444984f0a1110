package correct

import (
	"fmt"

	"github.com/algo74/predictsim/internal/job"
	"github.com/algo74/predictsim/internal/predict"
)

// Ninetynine corrects to an over-threshold quantile estimate of actual
// run times observed for the job's exact tag (spec.md §4.10). The
// source this spec was distilled from does not fully expose this
// corrector's estimator, so its semantics are carried over literally as
// the decaying weighted-quantile tracker shared with the top-percent
// predictor family. The quantile is taken from the predictor's
// confidence setting (scheduler.predictor.confidence); it has no
// default of its own and is 0 when that setting is absent.
type Ninetynine struct {
	Quantile    float64
	Alpha       float64
	StartWeight float64
	UseWeights  bool

	estimator *predict.QuantileEstimator
}

var _ Corrector = (*Ninetynine)(nil)

// NewNinetynine constructs the over-threshold quantile corrector.
func NewNinetynine(quantile, alpha, startWeight float64, useWeights bool) *Ninetynine {
	return &Ninetynine{
		Quantile:    quantile,
		Alpha:       alpha,
		StartWeight: startWeight,
		UseWeights:  useWeights,
		estimator:   predict.NewQuantileEstimator(alpha, quantile, startWeight, useWeights),
	}
}

func tagOf(j *job.Job) string {
	return fmt.Sprintf("%s|%s|%d|%d", j.Executable, j.User, j.UserEstimatedRunTime, j.NumRequiredProcessors)
}

func (n *Ninetynine) Correct(j *job.Job, now int64) int64 {
	v := n.estimator.Value(tagOf(j), j.UserEstimatedRunTime)
	if v < j.PredictedRunTime {
		v = j.UserEstimatedRunTime
	}
	return v
}

func (n *Ninetynine) Observe(j *job.Job) {
	n.estimator.Observe(tagOf(j), j.ActualRunTime, j.UserEstimatedRunTime)
}
