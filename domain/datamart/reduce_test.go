package datamart

import (
	"testing"
	"time"

	"admreport/domain/core"
)

func at(day int) core.SnapshotTime {
	return core.NewSnapshotTime(time.Date(2026, 7, day, 12, 0, 0, 0, time.UTC))
}

func TestLatestModels_SingleSnapshotIsIdentity(t *testing.T) {
	table := ModelTable{
		{ModelID: "m1", Name: "OfferA", SnapshotTime: at(1)},
		{ModelID: "m2", Name: "OfferB", SnapshotTime: at(1)},
	}
	got := LatestModels(table)
	if len(got) != len(table) {
		t.Fatalf("expected identity, got %d rows from %d", len(got), len(table))
	}
	for i := range table {
		if got[i].ModelID != table[i].ModelID {
			t.Errorf("row %d: got %s want %s", i, got[i].ModelID, table[i].ModelID)
		}
	}
}

func TestLatestModels_KeepsOnlyMaxPerModel(t *testing.T) {
	table := ModelTable{
		{ModelID: "m1", ResponseCount: 100, SnapshotTime: at(1)},
		{ModelID: "m1", ResponseCount: 110, SnapshotTime: at(2)},
		{ModelID: "m2", ResponseCount: 200, SnapshotTime: at(1)},
		{ModelID: "m2", ResponseCount: 230, SnapshotTime: at(2)},
	}
	got := LatestModels(table)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, row := range got {
		if !row.SnapshotTime.Equal(at(2)) {
			t.Errorf("model %s: non-maximal snapshot survived", row.ModelID)
		}
	}
}

func TestLatestModels_TiesAllSurvive(t *testing.T) {
	table := ModelTable{
		{ModelID: "m1", Positives: 1, SnapshotTime: at(2)},
		{ModelID: "m1", Positives: 2, SnapshotTime: at(2)},
		{ModelID: "m1", Positives: 3, SnapshotTime: at(1)},
	}
	got := LatestModels(table)
	if len(got) != 2 {
		t.Fatalf("expected both tied rows to survive, got %d", len(got))
	}
}

func TestLatestModels_NoSnapshotColumnPassesThrough(t *testing.T) {
	table := ModelTable{
		{ModelID: "m1"},
		{ModelID: "m1"},
	}
	if got := LatestModels(table); len(got) != 2 {
		t.Fatalf("unversioned table must pass through, got %d rows", len(got))
	}
}

func TestLatestModels_EmptyTable(t *testing.T) {
	if got := LatestModels(nil); len(got) != 0 {
		t.Fatalf("empty in, empty out; got %d rows", len(got))
	}
}

func TestLatestPredictorBins_GroupsByModelPredictorBin(t *testing.T) {
	table := PredictorTable{
		{ModelID: "m1", PredictorName: "Age", BinIndex: 1, BinPositives: 1, SnapshotTime: at(1)},
		{ModelID: "m1", PredictorName: "Age", BinIndex: 1, BinPositives: 2, SnapshotTime: at(3)},
		{ModelID: "m1", PredictorName: "Age", BinIndex: 2, BinPositives: 3, SnapshotTime: at(3)},
		// A predictor that stopped reporting keeps its own latest.
		{ModelID: "m1", PredictorName: "Income", BinIndex: 1, BinPositives: 4, SnapshotTime: at(2)},
	}
	got := LatestPredictorBins(table)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for _, row := range got {
		if row.PredictorName == "Age" && !row.SnapshotTime.Equal(at(3)) {
			t.Errorf("Age bin %d: stale snapshot survived", row.BinIndex)
		}
		if row.PredictorName == "Income" && !row.SnapshotTime.Equal(at(2)) {
			t.Errorf("Income lost its own latest snapshot")
		}
	}
}
