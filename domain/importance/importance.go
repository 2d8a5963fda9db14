// Package importance ranks predictor contribution across models, optionally
// faceted by context columns. The exact score-card weight reconstruction is
// a pluggable strategy; the aggregation, weighting by model response
// volume, and deterministic ranking live here.
package importance

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"admreport/domain/datamart"
)

// Row is one ranked predictor within a facet group.
type Row struct {
	Facet         datamart.FacetKey `json:"facet"`
	PredictorName string            `json:"predictor_name"`
	Importance    float64           `json:"importance"`
	Rank          int               `json:"rank"` // dense, 1-based, ties broken by name
}

// Aggregator combines model response volumes with per-predictor weights
// into a ranked importance table.
type Aggregator struct {
	strategy WeightStrategy
}

// NewAggregator creates an aggregator; a nil strategy selects the default
// log-odds approximation.
func NewAggregator(strategy WeightStrategy) *Aggregator {
	if strategy == nil {
		strategy = LogOddsStrategy{}
	}
	return &Aggregator{strategy: strategy}
}

// Strategy returns the weighting strategy in use.
func (a *Aggregator) Strategy() WeightStrategy {
	return a.strategy
}

// VariableImportance computes the ranked importance table for the given
// facet columns. Models are conventionally already reduced to their latest
// snapshot; the predictor table is taken as provided. Facet groups whose
// models carry zero total responses yield no rows.
func (a *Aggregator) VariableImportance(models datamart.ModelTable, bins datamart.PredictorTable, facets []string) ([]Row, error) {
	groups, err := datamart.GroupByFacets(models, facets)
	if err != nil {
		return nil, err
	}

	var out []Row
	for _, group := range groups {
		var totalResponses int64
		for _, m := range group.Models {
			totalResponses += m.ResponseCount
		}
		if totalResponses == 0 {
			// Nothing observed in this facet group; emitting rows would
			// just divide by zero.
			continue
		}
		out = append(out, a.rankGroup(group, bins)...)
	}
	return out, nil
}

// predictorSample is one model's view of one predictor.
type predictorSample struct {
	weights []float64 // model response counts
	scores  []float64 // strategy weights
}

func (a *Aggregator) rankGroup(group datamart.FacetGroup, bins datamart.PredictorTable) []Row {
	samples := make(map[string]*predictorSample)
	for _, model := range group.Models {
		for name, view := range activePredictors(bins.ForModel(model.ModelID)) {
			s, ok := samples[name]
			if !ok {
				s = &predictorSample{}
				samples[name] = s
			}
			s.weights = append(s.weights, float64(model.ResponseCount))
			s.scores = append(s.scores, a.strategy.Weight(view.performance, view.responses))
		}
	}

	rows := make([]Row, 0, len(samples))
	for name, s := range samples {
		score := 0.0
		if sum := floatsSum(s.weights); sum > 0 {
			score = stat.Mean(s.scores, s.weights)
		}
		rows = append(rows, Row{Facet: group.Key, PredictorName: name, Importance: score})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Importance != rows[j].Importance {
			return rows[i].Importance > rows[j].Importance
		}
		return rows[i].PredictorName < rows[j].PredictorName
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// predictorView aggregates one predictor's binning rows within one model.
type predictorView struct {
	performance float64
	responses   int64
}

// activePredictors collapses a model's binning rows into one view per
// predictor marked Active, summing bin responses across bins.
func activePredictors(rows datamart.PredictorTable) map[string]predictorView {
	views := make(map[string]predictorView)
	for _, row := range rows {
		if row.EntryType != datamart.EntryActive {
			continue
		}
		v := views[row.PredictorName]
		v.performance = row.Performance
		v.responses += row.BinResponses()
		views[row.PredictorName] = v
	}
	return views
}

func floatsSum(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum
}
