package report

import (
	"testing"
	"time"

	"admreport/domain/core"
	"admreport/domain/datamart"
)

func TestModelTrends(t *testing.T) {
	at := func(d int) core.SnapshotTime {
		return core.NewSnapshotTime(time.Date(2026, 7, d, 12, 0, 0, 0, time.UTC))
	}
	history := datamart.ModelTable{
		// OfferB history arrives out of order.
		{Name: "OfferB", ResponseCount: 200, Positives: 20, Performance: 0.70, SnapshotTime: at(2)},
		{Name: "OfferB", ResponseCount: 100, Positives: 5, Performance: 0.65, SnapshotTime: at(1)},
		{Name: "OfferA", ResponseCount: 50, Positives: 10, Performance: 0.60, SnapshotTime: at(1)},
		// No snapshot time: no position on the axis.
		{Name: "OfferC", ResponseCount: 10, Positives: 1, Performance: 0.55},
	}

	trends := ModelTrends(history)
	if len(trends) != 2 {
		t.Fatalf("got %d trends, want 2 (unversioned rows skipped)", len(trends))
	}
	if trends[0].ModelName != "OfferA" || trends[1].ModelName != "OfferB" {
		t.Fatal("trends not sorted by model name")
	}

	b := trends[1]
	if len(b.Points) != 2 {
		t.Fatalf("OfferB has %d points, want 2", len(b.Points))
	}
	if !b.Points[0].Time.Before(b.Points[1].Time) {
		t.Error("points not in snapshot order")
	}
	if b.Points[0].Responses != 100 || b.Points[1].Responses != 200 {
		t.Errorf("response series = %d, %d", b.Points[0].Responses, b.Points[1].Responses)
	}
	if b.Points[0].SuccessRate != 5.0 || b.Points[1].SuccessRate != 10.0 {
		t.Errorf("success rate series = %v, %v", b.Points[0].SuccessRate, b.Points[1].SuccessRate)
	}
	if b.Points[1].Performance != 0.70 {
		t.Errorf("performance series end = %v, want 0.70", b.Points[1].Performance)
	}
}

func TestModelTrends_Empty(t *testing.T) {
	if trends := ModelTrends(nil); len(trends) != 0 {
		t.Fatalf("empty history must yield no trends, got %d", len(trends))
	}
}
