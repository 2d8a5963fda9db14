package importance

import (
	"math"
)

// WeightStrategy reconstructs a predictor's score-card weight from its
// reported binning. Implementations must be pure: the same inputs always
// produce the same weight.
type WeightStrategy interface {
	Name() string
	// Weight derives the per-model contribution of a predictor from its
	// AUC-like performance and the responses observed across its bins.
	Weight(performance float64, responses int64) float64
}

// LogOddsStrategy approximates the cumulative log-odds weight a predictor
// carries in a model's score card. AUC is mapped to the Gini coefficient
// (2*AUC - 1) so a coin-flip predictor weighs zero, then scaled by the
// log of observed response volume so thin evidence counts less.
type LogOddsStrategy struct{}

func (LogOddsStrategy) Name() string { return "log_odds" }

func (LogOddsStrategy) Weight(performance float64, responses int64) float64 {
	if responses <= 0 {
		return 0
	}
	gini := 2*performance - 1
	if gini < 0 {
		gini = 0
	}
	return gini * math.Log1p(float64(responses))
}

// PerformanceStrategy ranks purely on reported predictor AUC, ignoring
// response volume. Useful for cross-checking the default against exports
// where bin counts are unreliable.
type PerformanceStrategy struct{}

func (PerformanceStrategy) Name() string { return "performance" }

func (PerformanceStrategy) Weight(performance float64, responses int64) float64 {
	if responses <= 0 {
		return 0
	}
	return performance
}
