// Package testkit generates synthetic datamart snapshot tables with the
// statistical texture of real exports: skewed response volumes, monotonic
// classifier bins, and a snapshot history per model. Used by tests and by
// the viewer's demo mode.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"admreport/domain/core"
	"admreport/domain/datamart"
)

// GeneratorConfig configures the snapshot generator
type GeneratorConfig struct {
	ModelCount         int
	PredictorsPerModel int
	BinsPerPredictor   int
	Snapshots          int
	StartDate          time.Time
	Seed               int64
}

// DefaultConfig returns a small but realistic datamart
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		ModelCount:         6,
		PredictorsPerModel: 8,
		BinsPerPredictor:   5,
		Snapshots:          10,
		StartDate:          time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Seed:               42,
	}
}

// Generator produces deterministic synthetic snapshot tables
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator; the same seed always produces the
// same tables.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config, rng: rand.New(rand.NewSource(config.Seed))}
}

var channels = []string{"Web", "Email", "CallCenter"}
var issues = []string{"Sales", "Retention"}

var predictorNames = []string{
	"Customer.Age", "Customer.Income", "Customer.Tenure", "Customer.Region",
	"Account.Balance", "Account.Products", "Behavior.WebVisits", "Behavior.LastContact",
	"RiskScore", "ChurnScore", "Segment", "PreferredChannel",
}

// Tables generates a model history table and the matching predictor
// binning table.
func (g *Generator) Tables() (datamart.ModelTable, datamart.PredictorTable) {
	var models datamart.ModelTable
	var bins datamart.PredictorTable

	for i := 0; i < g.config.ModelCount; i++ {
		id := core.ModelID(fmt.Sprintf("model-%03d", i+1))
		name := fmt.Sprintf("Offer%c", 'A'+i%26)
		channel := channels[i%len(channels)]
		issue := issues[i%len(issues)]
		auc := 0.55 + 0.35*g.rng.Float64()
		baseRate := 0.02 + 0.2*g.rng.Float64()
		responses := int64(100 + g.rng.Intn(20000))

		for s := 0; s < g.config.Snapshots; s++ {
			at := core.NewSnapshotTime(g.config.StartDate.AddDate(0, 0, s))
			// Volume accumulates over the history with a little jitter.
			total := responses * int64(s+1) / int64(g.config.Snapshots)
			total += int64(g.rng.Intn(50))
			positives := int64(float64(total) * baseRate)
			models = append(models, datamart.ModelSnapshot{
				ModelID:           id,
				ConfigurationName: "OmniAdaptiveModel",
				Issue:             issue,
				Group:             "Offers",
				Name:              name,
				Channel:           channel,
				Direction:         "Outbound",
				SnapshotTime:      at,
				Positives:         positives,
				Negatives:         total - positives,
				ResponseCount:     total,
				Performance:       auc,
			})
		}

		latest := core.NewSnapshotTime(g.config.StartDate.AddDate(0, 0, g.config.Snapshots-1))
		bins = append(bins, g.classifierBins(id, latest, responses, baseRate)...)
		for p := 0; p < g.config.PredictorsPerModel; p++ {
			predictor := predictorNames[p%len(predictorNames)]
			bins = append(bins, g.predictorBins(id, predictor, latest, responses, baseRate)...)
		}
	}
	return models, bins
}

// classifierBins builds a monotonically increasing propensity binning,
// the shape a converged classifier reports.
func (g *Generator) classifierBins(id core.ModelID, at core.SnapshotTime, responses int64, baseRate float64) []datamart.PredictorBin {
	n := g.config.BinsPerPredictor
	out := make([]datamart.PredictorBin, 0, n)
	for b := 1; b <= n; b++ {
		share := float64(responses) / float64(n)
		// Propensity climbs with the score bin.
		slope := 0.0
		if n > 1 {
			slope = float64(b-1) / float64(n-1)
		}
		propensity := baseRate * (0.3 + 1.6*slope)
		positives := int64(share * propensity)
		total := int64(share)
		out = append(out, datamart.PredictorBin{
			ModelID:       id,
			PredictorName: "Classifier",
			PredictorType: "numeric",
			EntryType:     datamart.EntryClassifier,
			BinIndex:      b,
			BinSymbol:     fmt.Sprintf("[%.2f-%.2f]", float64(b-1)/float64(n), float64(b)/float64(n)),
			BinPositives:  positives,
			BinNegatives:  total - positives,
			Performance:   0.5 + 0.4*g.rng.Float64(),
			SnapshotTime:  at,
		})
	}
	return out
}

func (g *Generator) predictorBins(id core.ModelID, name string, at core.SnapshotTime, responses int64, baseRate float64) []datamart.PredictorBin {
	n := g.config.BinsPerPredictor
	entry := datamart.EntryActive
	if g.rng.Float64() < 0.2 {
		entry = datamart.EntryInactive
	}
	predictorType := "numeric"
	if g.rng.Float64() < 0.3 {
		predictorType = "symbolic"
	}
	auc := 0.5 + 0.25*g.rng.Float64()
	out := make([]datamart.PredictorBin, 0, n)
	for b := 1; b <= n; b++ {
		share := float64(responses) / float64(n) * (0.5 + g.rng.Float64())
		propensity := baseRate * math.Abs(1+g.rng.NormFloat64())
		if propensity > 1 {
			propensity = 1
		}
		positives := int64(share * propensity)
		total := int64(share)
		out = append(out, datamart.PredictorBin{
			ModelID:       id,
			PredictorName: name,
			PredictorType: predictorType,
			EntryType:     entry,
			BinIndex:      b,
			BinSymbol:     fmt.Sprintf("bin-%d", b),
			BinPositives:  positives,
			BinNegatives:  total - positives,
			Performance:   auc,
			SnapshotTime:  at,
		})
	}
	return out
}
