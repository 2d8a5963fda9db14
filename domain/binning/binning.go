// Package binning computes per-bin and per-predictor statistics over one
// predictor's ordered bin rows: propensity, z-ratio, lift, cumulative
// gains and the Kolmogorov-Smirnov separation. Every function is pure and
// degrades to defined sentinel values on sparse data; report generation
// must never abort because a bin is empty.
package binning

import (
	"sort"

	"admreport/domain/datamart"
)

// CurvePoint is one point of a cumulative curve: the fraction of the
// population targeted so far and the metric value at that cut.
type CurvePoint struct {
	Population float64 `json:"population"`
	Value      float64 `json:"value"`
}

// BinMetric carries the derived per-bin statistics, in BinIndex order.
type BinMetric struct {
	BinIndex   int     `json:"bin_index"`
	BinSymbol  string  `json:"bin_symbol"`
	Positives  int64   `json:"positives"`
	Negatives  int64   `json:"negatives"`
	Responses  int64   `json:"responses"`
	Propensity float64 `json:"propensity"` // 0.5 sentinel for empty bins
	Lift       float64 `json:"lift"`       // bin propensity over overall propensity, 0 when undefined
	ZRatio     float64 `json:"z_ratio"`
}

// PredictorMetrics is the full derived view of one predictor's binning.
type PredictorMetrics struct {
	ModelID       string       `json:"model_id"`
	PredictorName string       `json:"predictor_name"`
	EntryType     string       `json:"entry_type"`
	Performance   float64      `json:"performance"`
	Positives     int64        `json:"positives"`
	Negatives     int64        `json:"negatives"`
	Responses     int64        `json:"responses"`
	KS            float64      `json:"ks"`
	Bins          []BinMetric  `json:"bins"`
	Gains         []CurvePoint `json:"gains"`
	Lift          []CurvePoint `json:"lift"`
}

// Engine computes predictor metrics. It carries no state; the type exists
// so callers can treat the metric set as a single collaborator.
type Engine struct{}

// NewEngine creates a binning metrics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives all metrics for one predictor's rows. The input must
// belong to a single (model, predictor) group; rows may arrive in any
// order and are re-sorted by BinIndex internally.
func (e *Engine) Compute(rows []datamart.PredictorBin) PredictorMetrics {
	if len(rows) == 0 {
		return PredictorMetrics{}
	}

	bins := make([]datamart.PredictorBin, len(rows))
	copy(bins, rows)
	sort.Slice(bins, func(i, j int) bool { return bins[i].BinIndex < bins[j].BinIndex })

	var positives, negatives int64
	for _, b := range bins {
		positives += b.BinPositives
		negatives += b.BinNegatives
	}
	total := positives + negatives

	overall := 0.0
	if total > 0 {
		overall = float64(positives) / float64(total)
	}

	metrics := make([]BinMetric, len(bins))
	for i, b := range bins {
		p, defined := b.Propensity()
		lift := 0.0
		if defined && overall > 0 {
			lift = p / overall
		}
		metrics[i] = BinMetric{
			BinIndex:   b.BinIndex,
			BinSymbol:  b.BinSymbol,
			Positives:  b.BinPositives,
			Negatives:  b.BinNegatives,
			Responses:  b.BinResponses(),
			Propensity: p,
			Lift:       lift,
			ZRatio:     zRatio(b, overall),
		}
	}

	return PredictorMetrics{
		ModelID:       bins[0].ModelID.String(),
		PredictorName: bins[0].PredictorName,
		EntryType:     string(bins[0].EntryType),
		Performance:   bins[0].Performance,
		Positives:     positives,
		Negatives:     negatives,
		Responses:     total,
		KS:            KolmogorovSmirnov(bins),
		Bins:          metrics,
		Gains:         CumulativeGains(bins),
		Lift:          CumulativeLift(bins),
	}
}
