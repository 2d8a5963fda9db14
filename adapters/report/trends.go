package report

import (
	"sort"
	"time"

	"admreport/domain/datamart"
)

// TrendPoint is one snapshot of a model's history: response volume,
// success rate and AUC at that moment.
type TrendPoint struct {
	Time        time.Time `json:"time"`
	Responses   int64     `json:"responses"`
	SuccessRate float64   `json:"success_rate"` // percent
	Performance float64   `json:"performance"`  // AUC
}

// ModelTrend is the snapshot-ordered history of one model.
type ModelTrend struct {
	ModelName string       `json:"model_name"`
	Points    []TrendPoint `json:"points"`
}

// ModelTrends shapes the full model history into per-model time series,
// the data behind the response-volume and success-rate-over-time views.
// The input is the unreduced history; rows without a snapshot time carry
// no position on the axis and are skipped. Models come back sorted by
// name, points ascending by time.
func ModelTrends(history datamart.ModelTable) []ModelTrend {
	byName := make(map[string][]TrendPoint)
	for _, m := range history {
		if m.SnapshotTime.IsZero() {
			continue
		}
		byName[m.Name] = append(byName[m.Name], TrendPoint{
			Time:        m.SnapshotTime.Time(),
			Responses:   m.ResponseCount,
			SuccessRate: m.SuccessRate(),
			Performance: m.Performance,
		})
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ModelTrend, 0, len(names))
	for _, name := range names {
		points := byName[name]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
		out = append(out, ModelTrend{ModelName: name, Points: points})
	}
	return out
}
