package export

import (
	"strings"
)

// Datamart exports name columns with platform prefixes and inconsistent
// casing (pyModelID, PYMODELID, pxSnapshotTime). Headers are normalized
// to the canonical names the domain tables validate against.

// canonicalColumns maps a normalized header (lowercase, prefix stripped)
// to its canonical column name.
var canonicalColumns = map[string]string{
	"modelid":           "ModelID",
	"configurationname": "ConfigurationName",
	"issue":             "Issue",
	"group":             "Group",
	"name":              "Name",
	"channel":           "Channel",
	"direction":         "Direction",
	"treatment":         "Treatment",
	"snapshottime":      "SnapshotTime",
	"factoryupdatetime": "SnapshotTime",
	"positives":         "Positives",
	"negatives":         "Negatives",
	"responsecount":     "ResponseCount",
	"performance":       "Performance",

	"predictorname":    "PredictorName",
	"predictortype":    "PredictorType",
	"type":             "PredictorType",
	"entrytype":        "EntryType",
	"groupindex":       "GroupIndex",
	"binindex":         "BinIndex",
	"binsymbol":        "BinSymbol",
	"binlowerbound":    "BinLowerBound",
	"binupperbound":    "BinUpperBound",
	"binpositives":     "BinPositives",
	"binnegatives":     "BinNegatives",
	"binresponsecount": "BinResponseCount",
	"zratio":           "ZRatio",
	"lift":             "Lift",
}

var columnPrefixes = []string{"py", "px", "pz"}

// NormalizeHeader maps one raw export header to its canonical column
// name. Unknown headers come back lowercased so extra export columns are
// carried along recognizably rather than dropped silently.
func NormalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.TrimPrefix(h, "\uFEFF") // BOM on some CSV exports
	for _, p := range columnPrefixes {
		if strings.HasPrefix(h, p) && len(h) > len(p) {
			if canonical, ok := canonicalColumns[h[len(p):]]; ok {
				return canonical
			}
		}
	}
	if canonical, ok := canonicalColumns[h]; ok {
		return canonical
	}
	return h
}

// NormalizeHeaders maps a full header row, preserving positions.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = NormalizeHeader(h)
	}
	return out
}
