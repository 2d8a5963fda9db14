package binning

import (
	"math"

	"admreport/domain/datamart"
)

// zRatio measures how far a bin's positive rate deviates from the overall
// predictor positive rate, in standard-error units. The standard error
// comes from the binomial variance of the overall rate at the bin's
// response count. Sign is preserved; empty bins and zero-variance
// predictors report 0.
func zRatio(b datamart.PredictorBin, overall float64) float64 {
	n := float64(b.BinResponses())
	if n <= 0 {
		return 0
	}
	variance := overall * (1 - overall)
	if variance <= 0 {
		return 0
	}
	p := float64(b.BinPositives) / n
	return (p - overall) / math.Sqrt(variance/n)
}

// ZRatios computes the z-ratio of every bin against the overall positive
// rate of the set. Exposed for callers that want the statistic without
// the full Engine pass.
func ZRatios(bins []datamart.PredictorBin) []float64 {
	var positives, total int64
	for _, b := range bins {
		positives += b.BinPositives
		total += b.BinResponses()
	}
	overall := 0.0
	if total > 0 {
		overall = float64(positives) / float64(total)
	}
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = zRatio(b, overall)
	}
	return out
}
