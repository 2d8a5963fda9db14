package datamart

import (
	"admreport/domain/core"
)

// LatestModels keeps only the rows carrying the maximum snapshot time per
// model. Tables without snapshot times, and tables with a single distinct
// snapshot, pass through unchanged. Rows tied at the maximum all survive;
// no further de-duplication is imposed here.
func LatestModels(t ModelTable) ModelTable {
	if !hasMultipleSnapshots(len(t), func(i int) core.SnapshotTime { return t[i].SnapshotTime }) {
		return t
	}
	latest := make(map[core.ModelID]core.SnapshotTime, len(t))
	for _, row := range t {
		if max, ok := latest[row.ModelID]; !ok || row.SnapshotTime.After(max) {
			latest[row.ModelID] = row.SnapshotTime
		}
	}
	out := make(ModelTable, 0, len(t))
	for _, row := range t {
		if row.SnapshotTime.Equal(latest[row.ModelID]) {
			out = append(out, row)
		}
	}
	return out
}

// predictorKey is the natural key of a binning row, snapshot time excluded.
type predictorKey struct {
	modelID   core.ModelID
	predictor string
	binIndex  int
}

// LatestPredictorBins is the predictor-table counterpart of LatestModels,
// grouping by (model, predictor, bin index).
func LatestPredictorBins(t PredictorTable) PredictorTable {
	if !hasMultipleSnapshots(len(t), func(i int) core.SnapshotTime { return t[i].SnapshotTime }) {
		return t
	}
	latest := make(map[predictorKey]core.SnapshotTime, len(t))
	for _, row := range t {
		key := predictorKey{row.ModelID, row.PredictorName, row.BinIndex}
		if max, ok := latest[key]; !ok || row.SnapshotTime.After(max) {
			latest[key] = row.SnapshotTime
		}
	}
	out := make(PredictorTable, 0, len(t))
	for _, row := range t {
		key := predictorKey{row.ModelID, row.PredictorName, row.BinIndex}
		if row.SnapshotTime.Equal(latest[key]) {
			out = append(out, row)
		}
	}
	return out
}

// hasMultipleSnapshots implements the pass-through policy: reduction only
// happens when the table both carries snapshot times and has more than one
// distinct value.
func hasMultipleSnapshots(n int, at func(int) core.SnapshotTime) bool {
	var first core.SnapshotTime
	seen := false
	for i := 0; i < n; i++ {
		ts := at(i)
		if ts.IsZero() {
			// No snapshot column on this row; treat the table as unversioned.
			return false
		}
		if !seen {
			first, seen = ts, true
			continue
		}
		if !ts.Equal(first) {
			return true
		}
	}
	return false
}
