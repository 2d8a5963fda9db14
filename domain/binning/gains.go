package binning

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"admreport/domain/datamart"
)

// byScoreDescending orders bins highest-propensity first. Bins represent
// score ranges and a higher BinIndex means a higher score, so this is the
// classifier's ranking order for targeting.
func byScoreDescending(bins []datamart.PredictorBin) []datamart.PredictorBin {
	ordered := make([]datamart.PredictorBin, len(bins))
	copy(ordered, bins)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].BinIndex > ordered[j].BinIndex })
	return ordered
}

// CumulativeGains computes the gains curve of a binning: how much of the
// positive response is captured when targeting the top score bins first.
// The curve starts at (0,0) and ends at (1,1). A binning with no
// responses or no positives has no defined curve and yields nil.
func CumulativeGains(bins []datamart.PredictorBin) []CurvePoint {
	population, captured, ok := cumulativeFractions(bins)
	if !ok {
		return nil
	}
	curve := make([]CurvePoint, 0, len(population)+1)
	curve = append(curve, CurvePoint{Population: 0, Value: 0})
	for i := range population {
		curve = append(curve, CurvePoint{Population: population[i], Value: captured[i]})
	}
	return curve
}

// CumulativeLift computes lift at each cut point of the gains ordering:
// captured positive fraction over targeted population fraction. Lift is
// undefined at the 0% population point and reported as 0 there.
func CumulativeLift(bins []datamart.PredictorBin) []CurvePoint {
	population, captured, ok := cumulativeFractions(bins)
	if !ok {
		return nil
	}
	curve := make([]CurvePoint, 0, len(population)+1)
	curve = append(curve, CurvePoint{Population: 0, Value: 0})
	for i := range population {
		lift := 0.0
		if population[i] > 0 {
			lift = captured[i] / population[i]
		}
		curve = append(curve, CurvePoint{Population: population[i], Value: lift})
	}
	return curve
}

// cumulativeFractions walks bins in score order and returns the running
// population and positive-capture fractions. ok is false when either
// total is zero, in which case the fractions are undefined.
func cumulativeFractions(bins []datamart.PredictorBin) (population, captured []float64, ok bool) {
	ordered := byScoreDescending(bins)

	var totalResponses, totalPositives float64
	responses := make([]float64, len(ordered))
	positives := make([]float64, len(ordered))
	for i, b := range ordered {
		responses[i] = float64(b.BinResponses())
		positives[i] = float64(b.BinPositives)
		totalResponses += responses[i]
		totalPositives += positives[i]
	}
	if len(ordered) == 0 || totalResponses == 0 || totalPositives == 0 {
		return nil, nil, false
	}

	floats.CumSum(responses, responses)
	floats.CumSum(positives, positives)
	floats.Scale(1/totalResponses, responses)
	floats.Scale(1/totalPositives, positives)
	return responses, positives, true
}
