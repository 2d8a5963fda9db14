// Package datamart holds the canonical in-memory representation of ADM
// datamart exports: model snapshot rows and predictor binning rows.
// Tables are read-only after construction; every derived statistic is
// computed into new values rather than mutated in place.
package datamart

import (
	"admreport/domain/core"
)

// EntryType classifies a predictor row in the binning table.
type EntryType string

const (
	EntryActive     EntryType = "Active"
	EntryInactive   EntryType = "Inactive"
	EntryClassifier EntryType = "Classifier"
)

// Context key names usable as facet or filter columns on model rows.
const (
	ColConfigurationName = "ConfigurationName"
	ColIssue             = "Issue"
	ColGroup             = "Group"
	ColName              = "Name"
	ColChannel           = "Channel"
	ColDirection         = "Direction"
	ColTreatment         = "Treatment"
)

// ModelSnapshot is one row of the model table: the state of a single ADM
// model instance at one snapshot time.
type ModelSnapshot struct {
	ModelID           core.ModelID      `json:"model_id"`
	ConfigurationName string            `json:"configuration_name"`
	Issue             string            `json:"issue,omitempty"`
	Group             string            `json:"group,omitempty"`
	Name              string            `json:"name"`
	Channel           string            `json:"channel,omitempty"`
	Direction         string            `json:"direction,omitempty"`
	Treatment         string            `json:"treatment,omitempty"`
	SnapshotTime      core.SnapshotTime `json:"snapshot_time"`
	Positives         int64             `json:"positives"`
	Negatives         int64             `json:"negatives"`
	ResponseCount     int64             `json:"response_count"`
	Performance       float64           `json:"performance"` // AUC, [0.5, 1.0]
}

// SuccessRate returns positives as a percentage of all responses.
// A model with no responses has a success rate of 0 by convention.
func (m ModelSnapshot) SuccessRate() float64 {
	if m.ResponseCount <= 0 {
		return 0
	}
	return float64(m.Positives) * 100.0 / float64(m.ResponseCount)
}

// ContextValue resolves a context column by name so that faceting and
// filtering stay generic over caller-supplied column lists.
func (m ModelSnapshot) ContextValue(column string) (string, error) {
	switch column {
	case ColConfigurationName:
		return m.ConfigurationName, nil
	case ColIssue:
		return m.Issue, nil
	case ColGroup:
		return m.Group, nil
	case ColName:
		return m.Name, nil
	case ColChannel:
		return m.Channel, nil
	case ColDirection:
		return m.Direction, nil
	case ColTreatment:
		return m.Treatment, nil
	}
	return "", core.NewUnknownColumnError(column)
}

// PredictorBin is one row of the predictor binning table: one bin of one
// predictor of one model at one snapshot time.
type PredictorBin struct {
	ModelID       core.ModelID      `json:"model_id"`
	PredictorName string            `json:"predictor_name"`
	PredictorType string            `json:"predictor_type,omitempty"` // "numeric" or "symbolic"
	EntryType     EntryType         `json:"entry_type"`
	GroupIndex    int               `json:"group_index,omitempty"` // 0 when the export has no predictor grouping
	BinIndex      int               `json:"bin_index"`             // 1-based, ordered
	BinSymbol     string            `json:"bin_symbol"`
	BinLowerBound *float64          `json:"bin_lower_bound,omitempty"`
	BinUpperBound *float64          `json:"bin_upper_bound,omitempty"`
	BinPositives  int64             `json:"bin_positives"`
	BinNegatives  int64             `json:"bin_negatives"`
	Performance   float64           `json:"performance"` // predictor AUC
	ZRatio        float64           `json:"z_ratio,omitempty"`
	Lift          float64           `json:"lift,omitempty"`
	SnapshotTime  core.SnapshotTime `json:"snapshot_time"`
}

// BinResponses returns the total responses observed in this bin.
func (b PredictorBin) BinResponses() int64 {
	return b.BinPositives + b.BinNegatives
}

// Propensity returns the observed positive rate of the bin. The second
// return value is false for zero-response bins, whose propensity is
// undefined and must be excluded from ordering-dependent metrics.
func (b PredictorBin) Propensity() (float64, bool) {
	total := b.BinResponses()
	if total <= 0 {
		return 0.5, false
	}
	return float64(b.BinPositives) / float64(total), true
}

// IsClassifier reports whether the row belongs to the classifier entry,
// the special predictor mapping model scores to propensity.
func (b PredictorBin) IsClassifier() bool {
	return b.EntryType == EntryClassifier
}

// ModelTable is an ordered sequence of model snapshot rows.
type ModelTable []ModelSnapshot

// PredictorTable is an ordered sequence of predictor binning rows.
type PredictorTable []PredictorBin

// Filter returns the rows whose context columns match the query: for each
// entry, the row's value for that column must be one of the listed values.
// An unknown column name is a configuration error.
func (t ModelTable) Filter(query map[string][]string) (ModelTable, error) {
	if len(query) == 0 {
		return t, nil
	}
	out := make(ModelTable, 0, len(t))
rows:
	for _, row := range t {
		for column, allowed := range query {
			value, err := row.ContextValue(column)
			if err != nil {
				return nil, err
			}
			if !contains(allowed, value) {
				continue rows
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ForModel returns the binning rows belonging to one model, preserving order.
func (t PredictorTable) ForModel(id core.ModelID) PredictorTable {
	out := make(PredictorTable, 0)
	for _, row := range t {
		if row.ModelID == id {
			out = append(out, row)
		}
	}
	return out
}

// FindModel resolves a model name to exactly one latest row. Zero matches
// and multiple matches are both configuration errors: report sections that
// address a single model need an unambiguous selector.
func (t ModelTable) FindModel(name string) (ModelSnapshot, error) {
	var found []ModelSnapshot
	for _, row := range t {
		if row.Name == name {
			found = append(found, row)
		}
	}
	switch len(found) {
	case 0:
		return ModelSnapshot{}, core.NewModelNotFoundError(name)
	case 1:
		return found[0], nil
	default:
		return ModelSnapshot{}, core.NewAmbiguousModelError(name, len(found))
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
