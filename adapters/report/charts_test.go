package report

import (
	"math"
	"testing"
	"time"

	"admreport/domain/core"
	"admreport/domain/datamart"
)

func TestBubbleChart_SortedByResponses(t *testing.T) {
	models := datamart.ModelTable{
		{Name: "Small", ResponseCount: 10, Positives: 1, Performance: 0.6},
		{Name: "Big", ResponseCount: 1000, Positives: 100, Performance: 0.7},
	}
	points := BubbleChart(models)
	if points[0].Name != "Big" {
		t.Fatalf("expected Big first, got %s", points[0].Name)
	}
	if points[0].SuccessRate != 10.0 {
		t.Errorf("success rate = %v, want 10.0", points[0].SuccessRate)
	}
}

func TestScoreDistribution_ClassifierOnlyInBinOrder(t *testing.T) {
	bins := datamart.PredictorTable{
		{ModelID: "m1", PredictorName: "Age", EntryType: datamart.EntryActive, BinIndex: 1, BinPositives: 1, BinNegatives: 1},
		{ModelID: "m1", PredictorName: "Classifier", EntryType: datamart.EntryClassifier, BinIndex: 2, BinSymbol: "high", BinPositives: 8, BinNegatives: 2},
		{ModelID: "m1", PredictorName: "Classifier", EntryType: datamart.EntryClassifier, BinIndex: 1, BinSymbol: "low", BinPositives: 1, BinNegatives: 9},
	}
	d := ScoreDistribution(bins)
	if len(d.Bars) != 2 {
		t.Fatalf("expected 2 classifier bars, got %d", len(d.Bars))
	}
	if d.Bars[0].BinSymbol != "low" || d.Bars[1].BinSymbol != "high" {
		t.Fatal("bars not in bin-index order")
	}
	if d.Bars[1].Propensity != 80.0 {
		t.Errorf("propensity = %v%%, want 80%%", d.Bars[1].Propensity)
	}
}

func TestPredictorDistributions_SortedSkipsClassifier(t *testing.T) {
	bins := datamart.PredictorTable{
		{ModelID: "m1", PredictorName: "Income", EntryType: datamart.EntryActive, BinIndex: 1},
		{ModelID: "m1", PredictorName: "Age", EntryType: datamart.EntryActive, BinIndex: 1},
		{ModelID: "m1", PredictorName: "Classifier", EntryType: datamart.EntryClassifier, BinIndex: 1},
	}
	ds := PredictorDistributions(bins)
	if len(ds) != 2 {
		t.Fatalf("expected 2 predictors, got %d", len(ds))
	}
	if ds[0].PredictorName != "Age" || ds[1].PredictorName != "Income" {
		t.Fatal("predictors not sorted by name")
	}
}

func TestPredictorPerformanceBoxPlots(t *testing.T) {
	bins := datamart.PredictorTable{
		// Strong predictor across two models.
		{ModelID: "m1", PredictorName: "Customer.Age", PredictorType: "numeric", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.80},
		{ModelID: "m1", PredictorName: "Customer.Age", PredictorType: "numeric", EntryType: datamart.EntryActive, BinIndex: 2, Performance: 0.80},
		{ModelID: "m2", PredictorName: "Customer.Age", PredictorType: "numeric", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.90},
		// Weak primary predictor.
		{ModelID: "m1", PredictorName: "Segment", PredictorType: "symbolic", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.55},
		{ModelID: "m1", PredictorName: "Classifier", EntryType: datamart.EntryClassifier, BinIndex: 1, Performance: 0.99},
	}
	plots := PredictorPerformanceBoxPlots(bins)
	if len(plots) != 2 {
		t.Fatalf("expected 2 predictors, got %d", len(plots))
	}
	if plots[0].PredictorName != "Customer.Age" {
		t.Fatal("not ordered by mean performance descending")
	}
	age := plots[0]
	if age.Models != 2 {
		t.Errorf("samples = %d, want one per model", age.Models)
	}
	if age.Min != 0.80 || age.Max != 0.90 {
		t.Errorf("extremes wrong: %+v", age)
	}
	// Mean and median accumulate float error; compare with tolerance.
	if math.Abs(age.Mean-0.85) > 1e-12 || math.Abs(age.Median-0.85) > 1e-12 {
		t.Errorf("mean/median wrong: %+v", age)
	}
	if age.Source != "Customer" {
		t.Errorf("source = %q, want Customer", age.Source)
	}
	if plots[1].Source != "Primary" {
		t.Errorf("plain name source = %q, want Primary", plots[1].Source)
	}
}

func TestModelPredictorMatrix(t *testing.T) {
	models := datamart.ModelTable{
		{ModelID: "m1", Name: "OfferA"},
		{ModelID: "m2", Name: "OfferB"},
	}
	bins := datamart.PredictorTable{
		{ModelID: "m1", PredictorName: "Age", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.9},
		{ModelID: "m1", PredictorName: "Income", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.6},
		{ModelID: "m2", PredictorName: "Age", EntryType: datamart.EntryActive, BinIndex: 1, Performance: 0.7},
	}
	m := ModelPredictorMatrix(models, bins)
	if len(m.ModelNames) != 2 || len(m.PredictorNames) != 2 {
		t.Fatalf("matrix shape %dx%d, want 2x2", len(m.ModelNames), len(m.PredictorNames))
	}
	// Age has mean 80, Income 60: Age first.
	if m.PredictorNames[0] != "Age" {
		t.Fatal("predictor axis not ordered by mean performance")
	}
	// OfferA (mean 75) ahead of OfferB (70).
	if m.ModelNames[0] != "OfferA" {
		t.Fatal("model axis not ordered by mean performance")
	}
	// OfferB never reported Income.
	offerB, income := 1, 1
	if !math.IsNaN(m.Values[offerB][income]) {
		t.Errorf("missing combination = %v, want NaN", m.Values[offerB][income])
	}
	if m.Values[0][0] != 90.0 {
		t.Errorf("best cell = %v, want 90.0", m.Values[0][0])
	}
}

func TestBuildCalendarHeatmap(t *testing.T) {
	day := func(d int, hour int) core.SnapshotTime {
		return core.NewSnapshotTime(time.Date(2026, 7, d, hour, 0, 0, 0, time.UTC))
	}
	models := datamart.ModelTable{
		{Name: "OfferA", ResponseCount: 100, SnapshotTime: day(1, 9)},
		// Later snapshot the same day wins.
		{Name: "OfferA", ResponseCount: 120, SnapshotTime: day(1, 18)},
		{Name: "OfferA", ResponseCount: 110, SnapshotTime: day(2, 9)},
		{Name: "OfferA", ResponseCount: 110, SnapshotTime: day(3, 9)},
		{Name: "OfferB", ResponseCount: 50, SnapshotTime: day(3, 9)},
	}
	h := BuildCalendarHeatmap(models, 15, true)
	if h.Empty() {
		t.Fatal("expected data in window")
	}
	if len(h.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(h.Days))
	}
	if h.Responses[0][0] != 120 {
		t.Errorf("same-day latest not selected: %v", h.Responses[0][0])
	}
	// OfferA: day1 +1 (first), day2 decreased, day3 unchanged.
	if h.Sign[0][0] != SignIncreased || h.Sign[0][1] != SignDecreased || h.Sign[0][2] != SignNoChange {
		t.Errorf("sign row = %v", h.Sign[0])
	}
	// OfferB has no snapshots before day 3.
	if !math.IsNaN(h.Responses[1][0]) {
		t.Errorf("missing day should be NaN, got %v", h.Responses[1][0])
	}
	if h.Sign[1][0] != SignIncreased {
		t.Errorf("missing day sign = %d, want increased-or-missing", h.Sign[1][0])
	}
}

func TestBuildCalendarHeatmap_LookbackWindow(t *testing.T) {
	day := func(d int) core.SnapshotTime {
		return core.NewSnapshotTime(time.Date(2026, 7, d, 12, 0, 0, 0, time.UTC))
	}
	models := datamart.ModelTable{
		{Name: "OfferA", ResponseCount: 10, SnapshotTime: day(1)},
		{Name: "OfferA", ResponseCount: 20, SnapshotTime: day(20)},
	}
	h := BuildCalendarHeatmap(models, 5, false)
	if len(h.Days) != 1 {
		t.Fatalf("expected only the recent day, got %d days", len(h.Days))
	}

	empty := BuildCalendarHeatmap(nil, 5, true)
	if !empty.Empty() {
		t.Fatal("no models must produce an empty heatmap")
	}
}
