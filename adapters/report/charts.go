// Package report shapes derived tables into the payloads the rendering
// side consumes: bubble charts, score distributions, calendar heatmaps,
// box plots and the model/predictor performance matrix. Only data is
// produced here; geometry and styling belong to whatever draws it.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"admreport/domain/datamart"
)

// BubblePoint is one latest model on the performance / success-rate plane.
type BubblePoint struct {
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	SuccessRate float64 `json:"success_rate"`
	Responses   int64   `json:"responses"`
}

// BubbleChart maps latest model rows onto bubble points, sorted by
// responses descending so the biggest bubbles list first.
func BubbleChart(models datamart.ModelTable) []BubblePoint {
	points := make([]BubblePoint, 0, len(models))
	for _, m := range models {
		points = append(points, BubblePoint{
			Name:        m.Name,
			Performance: m.Performance,
			SuccessRate: m.SuccessRate(),
			Responses:   m.ResponseCount,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Responses != points[j].Responses {
			return points[i].Responses > points[j].Responses
		}
		return points[i].Name < points[j].Name
	})
	return points
}

// DistributionBar is one bin of a score or predictor distribution.
type DistributionBar struct {
	BinIndex   int     `json:"bin_index"`
	BinSymbol  string  `json:"bin_symbol"`
	Responses  int64   `json:"responses"`
	Propensity float64 `json:"propensity"` // percent
}

// Distribution is the binning of one predictor (or the classifier) of one
// model, in bin order.
type Distribution struct {
	PredictorName string            `json:"predictor_name"`
	Bars          []DistributionBar `json:"bars"`
}

// ScoreDistribution shapes a model's classifier bins ordered by BinIndex.
func ScoreDistribution(modelBins datamart.PredictorTable) Distribution {
	var classifier datamart.PredictorTable
	for _, b := range modelBins {
		if b.IsClassifier() {
			classifier = append(classifier, b)
		}
	}
	return distribution("Classifier", classifier)
}

// PredictorDistributions shapes every non-classifier predictor of a model,
// predictors sorted by name.
func PredictorDistributions(modelBins datamart.PredictorTable) []Distribution {
	byName := make(map[string]datamart.PredictorTable)
	for _, b := range modelBins {
		if b.IsClassifier() {
			continue
		}
		byName[b.PredictorName] = append(byName[b.PredictorName], b)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Distribution, 0, len(names))
	for _, name := range names {
		out = append(out, distribution(name, byName[name]))
	}
	return out
}

func distribution(name string, bins datamart.PredictorTable) Distribution {
	ordered := make(datamart.PredictorTable, len(bins))
	copy(ordered, bins)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].BinIndex < ordered[j].BinIndex })
	bars := make([]DistributionBar, len(ordered))
	for i, b := range ordered {
		propensity := 0.0
		if p, defined := b.Propensity(); defined {
			propensity = p * 100.0
		}
		bars[i] = DistributionBar{
			BinIndex:   b.BinIndex,
			BinSymbol:  b.BinSymbol,
			Responses:  b.BinResponses(),
			Propensity: propensity,
		}
	}
	return Distribution{PredictorName: name, Bars: bars}
}

// BoxPlotSummary is the five-number summary (plus mean) of one predictor's
// AUC across models.
type BoxPlotSummary struct {
	PredictorName string  `json:"predictor_name"`
	Source        string  `json:"source"` // prefix before the first dot, "Primary" otherwise
	PredictorType string  `json:"predictor_type"`
	Models        int     `json:"models"`
	Min           float64 `json:"min"`
	Q1            float64 `json:"q1"`
	Median        float64 `json:"median"`
	Q3            float64 `json:"q3"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
}

// PredictorPerformanceBoxPlots summarizes predictor AUC spread across all
// models, ordered by mean descending. Classifier rows are excluded; one
// performance sample is taken per (model, predictor) pair.
func PredictorPerformanceBoxPlots(bins datamart.PredictorTable) []BoxPlotSummary {
	type sampleKey struct {
		model     string
		predictor string
	}
	seen := make(map[sampleKey]bool)
	values := make(map[string][]float64)
	types := make(map[string]string)
	for _, b := range bins {
		if b.IsClassifier() {
			continue
		}
		key := sampleKey{b.ModelID.String(), b.PredictorName}
		if seen[key] {
			continue
		}
		seen[key] = true
		values[b.PredictorName] = append(values[b.PredictorName], b.Performance)
		types[b.PredictorName] = b.PredictorType
	}

	out := make([]BoxPlotSummary, 0, len(values))
	for name, vs := range values {
		out = append(out, boxPlotSummary(name, types[name], vs))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].PredictorName < out[j].PredictorName
	})
	return out
}

func boxPlotSummary(name, predictorType string, values []float64) BoxPlotSummary {
	summary := BoxPlotSummary{
		PredictorName: name,
		Source:        predictorSource(name),
		PredictorType: predictorType,
		Models:        len(values),
	}
	// montanaflynn returns an error only for empty input, which cannot
	// happen here; fall back to zeros if it ever does.
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)
	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	if q, err := stats.Quartile(values); err == nil {
		summary.Q1, summary.Q3 = q.Q1, q.Q3
	} else {
		summary.Q1, summary.Q3 = summary.Median, summary.Median
	}
	return summary
}

// predictorSource splits dotted predictor names the way the platform
// groups them: "Customer.Age" came from the Customer page, plain names
// are primary properties.
func predictorSource(name string) string {
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return "Primary"
}

// PerformanceMatrix is the latest predictor AUC per (model, predictor),
// both axes ordered by mean performance descending. Missing combinations
// are NaN.
type PerformanceMatrix struct {
	ModelNames     []string    `json:"model_names"`
	PredictorNames []string    `json:"predictor_names"`
	Values         [][]float64 `json:"values"` // [model][predictor], percent
}

type matrixCell struct{ model, predictor string }

// ModelPredictorMatrix builds the predictor-performance matrix from latest
// model rows and latest binning rows.
func ModelPredictorMatrix(models datamart.ModelTable, bins datamart.PredictorTable) PerformanceMatrix {
	modelName := make(map[string]string, len(models))
	for _, m := range models {
		modelName[m.ModelID.String()] = m.Name
	}

	cells := make(map[matrixCell]float64)
	for _, b := range bins {
		if b.IsClassifier() {
			continue
		}
		name, ok := modelName[b.ModelID.String()]
		if !ok {
			continue
		}
		cells[matrixCell{name, b.PredictorName}] = b.Performance * 100.0
	}

	modelOrder := meanOrder(cells, func(c matrixCell) string { return c.model })
	predictorOrder := meanOrder(cells, func(c matrixCell) string { return c.predictor })

	values := make([][]float64, len(modelOrder))
	for i, m := range modelOrder {
		row := make([]float64, len(predictorOrder))
		for j, p := range predictorOrder {
			if v, ok := cells[matrixCell{m, p}]; ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		values[i] = row
	}
	return PerformanceMatrix{ModelNames: modelOrder, PredictorNames: predictorOrder, Values: values}
}

// meanOrder sorts one matrix axis by its mean cell value, best first,
// names breaking ties.
func meanOrder(cells map[matrixCell]float64, axis func(matrixCell) string) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for c, v := range cells {
		key := axis(c)
		sums[key] += v
		counts[key]++
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		mi := sums[names[i]] / float64(counts[names[i]])
		mj := sums[names[j]] / float64(counts[names[j]])
		if mi != mj {
			return mi > mj
		}
		return names[i] < names[j]
	})
	return names
}
