package datamart

import (
	"admreport/domain/core"
)

// Required columns for each table variant. The import collaborator
// normalizes export headers to these names before handing rows over;
// validation here is the contract boundary for imported tables.
var (
	RequiredModelColumns = []string{
		"ModelID", "Name", "Positives", "ResponseCount", "Performance", "SnapshotTime",
	}
	RequiredPredictorColumns = []string{
		"ModelID", "PredictorName", "EntryType", "BinIndex", "BinSymbol",
		"BinPositives", "BinResponseCount", "Performance", "SnapshotTime",
	}
)

// ValidateColumns fails fast when any required column is absent from an
// imported table, listing every missing field in one error.
func ValidateColumns(table string, present map[string]bool, required []string) error {
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return core.NewMissingColumnsError(table, missing)
	}
	return nil
}
