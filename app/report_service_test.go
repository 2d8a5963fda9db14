package app

import (
	"context"
	"errors"
	"sort"
	"testing"

	"admreport/domain/core"
	"admreport/internal/testkit"
)

func demoService(t *testing.T) *ReportService {
	t.Helper()
	gen := testkit.NewGenerator(testkit.DefaultConfig())
	return NewReportService(gen.Reader(), nil)
}

func TestGenerateReport_EndToEnd(t *testing.T) {
	svc := demoService(t)
	opts := DefaultOptions()
	opts.Facets = []string{"ConfigurationName"}

	rep, err := svc.GenerateReport(context.Background(), opts)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	cfg := testkit.DefaultConfig()
	if len(rep.Models) != cfg.ModelCount {
		t.Errorf("latest reduction kept %d models, want %d", len(rep.Models), cfg.ModelCount)
	}
	if len(rep.Bubble) != cfg.ModelCount {
		t.Errorf("bubble chart has %d points, want %d", len(rep.Bubble), cfg.ModelCount)
	}
	if len(rep.Classifiers) != cfg.ModelCount {
		t.Errorf("classifier metrics for %d models, want %d", len(rep.Classifiers), cfg.ModelCount)
	}
	if !sort.SliceIsSorted(rep.Classifiers, func(i, j int) bool {
		return rep.Classifiers[i].ModelID < rep.Classifiers[j].ModelID
	}) {
		t.Error("classifier metrics not sorted by model ID")
	}
	for _, c := range rep.Classifiers {
		if c.KS < 0 || c.KS > 1 {
			t.Errorf("model %s: KS = %v out of [0,1]", c.ModelID, c.KS)
		}
		if len(c.Gains) == 0 {
			t.Errorf("model %s: gains curve missing", c.ModelID)
		}
	}
	if len(rep.Importance) == 0 {
		t.Error("variable importance empty")
	}
	for _, row := range rep.Importance {
		if row.Rank < 1 {
			t.Errorf("importance rank %d for %s", row.Rank, row.PredictorName)
		}
	}
	if len(rep.BoxPlots) == 0 {
		t.Error("predictor box plots empty")
	}
	if rep.Heatmap.Empty() {
		t.Error("response calendar empty despite fresh snapshots")
	}
	if len(rep.Trends) != cfg.ModelCount {
		t.Errorf("model history for %d models, want %d", len(rep.Trends), cfg.ModelCount)
	}
	for _, trend := range rep.Trends {
		if len(trend.Points) != cfg.Snapshots {
			t.Errorf("model %s history has %d points, want the full %d", trend.ModelName, len(trend.Points), cfg.Snapshots)
		}
	}
	if rep.RunID == "" {
		t.Error("run ID not assigned")
	}
}

func TestGenerateReport_FilterNarrowsModels(t *testing.T) {
	svc := demoService(t)
	opts := DefaultOptions()
	opts.Filter = map[string][]string{"Channel": {"Web"}}

	rep, err := svc.GenerateReport(context.Background(), opts)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if len(rep.Models) == 0 {
		t.Fatal("filter removed every model")
	}
	for _, m := range rep.Models {
		if m.Channel != "Web" {
			t.Errorf("model %s leaked through Channel filter: %s", m.Name, m.Channel)
		}
	}
}

func TestGenerateReport_UnknownFilterColumn(t *testing.T) {
	svc := demoService(t)
	opts := DefaultOptions()
	opts.Filter = map[string][]string{"NoSuchColumn": {"x"}}

	_, err := svc.GenerateReport(context.Background(), opts)
	if !core.IsConfigurationError(err) {
		t.Errorf("want configuration error for unknown filter column, got %v", err)
	}
}

func TestGenerateReport_SerialAndParallelAgree(t *testing.T) {
	serial := DefaultOptions()
	serial.Parallelism = 1
	parallel := DefaultOptions()
	parallel.Parallelism = 8

	a, err := demoService(t).GenerateReport(context.Background(), serial)
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	b, err := demoService(t).GenerateReport(context.Background(), parallel)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}
	if len(a.Classifiers) != len(b.Classifiers) {
		t.Fatalf("runs disagree on classifier count: %d vs %d", len(a.Classifiers), len(b.Classifiers))
	}
	for i := range a.Classifiers {
		if a.Classifiers[i].ModelID != b.Classifiers[i].ModelID || a.Classifiers[i].KS != b.Classifiers[i].KS {
			t.Errorf("classifier %d differs between serial and parallel runs", i)
		}
	}
}

func TestGenerateReport_CancelledContext(t *testing.T) {
	svc := demoService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateReport(ctx, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestDescribeModel(t *testing.T) {
	svc := demoService(t)

	detail, err := svc.DescribeModel(context.Background(), "OfferA")
	if err != nil {
		t.Fatalf("DescribeModel: %v", err)
	}
	if detail.Model.Name != "OfferA" {
		t.Errorf("resolved wrong model: %s", detail.Model.Name)
	}
	if len(detail.Classifier.Bins) == 0 {
		t.Error("classifier binning missing from detail")
	}
	if len(detail.Score.Bars) == 0 {
		t.Error("score distribution missing from detail")
	}
	if len(detail.Predictors) == 0 || len(detail.Metrics) == 0 {
		t.Error("predictor drill-down missing from detail")
	}
	for i := 1; i < len(detail.Metrics); i++ {
		if detail.Metrics[i-1].PredictorName > detail.Metrics[i].PredictorName {
			t.Error("predictor metrics not sorted by name")
			break
		}
	}
}

func TestDescribeModel_NotFound(t *testing.T) {
	_, err := demoService(t).DescribeModel(context.Background(), "NoSuchOffer")
	if !errors.Is(err, core.ErrModelNotFound) {
		t.Errorf("want ErrModelNotFound, got %v", err)
	}
}
