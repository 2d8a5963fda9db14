package binning

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"admreport/domain/datamart"
)

// KolmogorovSmirnov computes the maximum separation between the cumulative
// negative and cumulative positive distributions of a predictor's bins.
//
// Bins are sorted ascending by propensity; zero-response bins have no
// defined propensity and are excluded. Walking that order, KS is
// max(cumNegFraction - cumPosFraction). A predictor with no positives or
// no negatives has no separation to measure and reports 0.
func KolmogorovSmirnov(bins []datamart.PredictorBin) float64 {
	type ranked struct {
		propensity float64
		positives  float64
		negatives  float64
	}

	var ordered []ranked
	var totalPos, totalNeg float64
	for _, b := range bins {
		p, defined := b.Propensity()
		if !defined {
			continue
		}
		ordered = append(ordered, ranked{p, float64(b.BinPositives), float64(b.BinNegatives)})
		totalPos += float64(b.BinPositives)
		totalNeg += float64(b.BinNegatives)
	}
	if len(ordered) == 0 || totalPos == 0 || totalNeg == 0 {
		return 0
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].propensity < ordered[j].propensity
	})

	goods := make([]float64, len(ordered))
	bads := make([]float64, len(ordered))
	for i, r := range ordered {
		goods[i] = r.negatives
		bads[i] = r.positives
	}
	floats.CumSum(goods, goods)
	floats.CumSum(bads, bads)

	ks := 0.0
	for i := range ordered {
		if d := goods[i]/totalNeg - bads[i]/totalPos; d > ks {
			ks = d
		}
	}
	return ks
}
