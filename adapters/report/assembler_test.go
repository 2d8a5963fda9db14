package report

import (
	"strings"
	"testing"
	"time"

	"admreport/domain/binning"
	"admreport/domain/core"
	"admreport/domain/datamart"
)

func sampleReport() *Report {
	return &Report{
		RunID:       core.RunID(core.NewID()),
		GeneratedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Models: datamart.ModelTable{
			{ModelID: "m1", Name: "OfferA", ResponseCount: 100, Positives: 10, Performance: 0.7},
		},
		Bubble: []BubblePoint{{Name: "OfferA", Performance: 0.7, SuccessRate: 10, Responses: 100}},
		Classifiers: []binning.PredictorMetrics{{
			ModelID: "m1", PredictorName: "Classifier", Responses: 100, KS: 0.42,
			Bins: []binning.BinMetric{{BinIndex: 1, BinSymbol: "low", Responses: 100, Propensity: 0.1}},
			Lift: []binning.CurvePoint{{Population: 0, Value: 0}, {Population: 1, Value: 1}},
		}},
		Trends: []ModelTrend{{
			ModelName: "OfferA",
			Points: []TrendPoint{
				{Time: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), Responses: 90, SuccessRate: 9, Performance: 0.69},
				{Time: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Responses: 100, SuccessRate: 10, Performance: 0.7},
			},
		}},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := string(NewAssembler().Markdown(sampleReport()))
	for _, heading := range []string{
		"# ADM Datamart Report",
		"## Models",
		"## Classifier Performance",
		"## Variable Importance",
		"## Predictor Performance",
		"## Model / Predictor Performance Matrix",
		"## Response Calendar",
		"## Model History",
	} {
		if !strings.Contains(md, heading) {
			t.Errorf("markdown missing %q", heading)
		}
	}
	if !strings.Contains(md, "OfferA") {
		t.Error("model row missing from markdown")
	}
	if !strings.Contains(md, "0.420") {
		t.Error("KS value missing from markdown")
	}
}

func TestMarkdown_EmptyReportDegradesGracefully(t *testing.T) {
	rep := &Report{RunID: core.RunID(core.NewID()), GeneratedAt: time.Now()}
	md := string(NewAssembler().Markdown(rep))
	if !strings.Contains(md, "No model rows") {
		t.Error("empty report should say so instead of rendering empty tables")
	}
}

func TestHTMLRendering(t *testing.T) {
	page := string(NewAssembler().HTML(sampleReport()))
	if !strings.Contains(page, "<table>") {
		t.Error("markdown tables should render as HTML tables")
	}
	if !strings.Contains(page, "<h2") {
		t.Error("section headings missing from HTML")
	}
}

func TestWorkbook(t *testing.T) {
	wb, err := NewAssembler().Workbook(sampleReport())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	for _, sheet := range []string{"Models", "Classifier", "Importance", "Predictors", "Matrix", "History"} {
		if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("sheet %s missing (idx %d, err %v)", sheet, idx, err)
		}
	}
	if idx, err := wb.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		t.Error("default sheet should be deleted")
	}
	value, err := wb.GetCellValue("Models", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if value != "OfferA" {
		t.Errorf("Models!A2 = %q, want OfferA", value)
	}
}
