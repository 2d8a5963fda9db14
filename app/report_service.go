// Package app wires the datamart pipeline together: read and validate the
// export tables, reduce to latest snapshots, run the metric engines, and
// hand a fully derived Report to the assembler. One invocation owns all
// of its working state; nothing survives a run.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"admreport/adapters/report"
	"admreport/domain/binning"
	"admreport/domain/core"
	"admreport/domain/datamart"
	"admreport/domain/importance"
	"admreport/internal"
	"admreport/ports"
)

// Options selects what a report run computes.
type Options struct {
	// Facets are context columns for variable importance grouping; empty
	// means one global group.
	Facets []string
	// Filter keeps only model rows matching column -> allowed values.
	Filter map[string][]string
	// HeatmapLookbackDays bounds the response calendar window.
	HeatmapLookbackDays int
	// FillNullDays makes the calendar day axis continuous.
	FillNullDays bool
	// Parallelism caps concurrent per-predictor metric computation;
	// 0 means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions mirror the defaults of the original datamart reports.
func DefaultOptions() Options {
	return Options{HeatmapLookbackDays: 15, FillNullDays: true}
}

// ReportService runs the full reporting pipeline.
type ReportService struct {
	reader     ports.TableReader
	engine     *binning.Engine
	aggregator *importance.Aggregator
	assembler  *report.Assembler
	logger     *internal.Logger
}

// NewReportService creates a report service. A nil strategy selects the
// default importance weighting.
func NewReportService(reader ports.TableReader, strategy importance.WeightStrategy) *ReportService {
	return &ReportService{
		reader:     reader,
		engine:     binning.NewEngine(),
		aggregator: importance.NewAggregator(strategy),
		assembler:  report.NewAssembler(),
		logger:     internal.DefaultLogger,
	}
}

// Assembler exposes the rendering collaborator for surfaces.
func (s *ReportService) Assembler() *report.Assembler {
	return s.assembler
}

// GenerateReport runs the pipeline once. Configuration errors abort;
// degenerate data (empty tables, zero-response groups) produces a report
// with the affected sections empty.
func (s *ReportService) GenerateReport(ctx context.Context, opts Options) (*report.Report, error) {
	started := time.Now()

	history, err := s.reader.ReadModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("read model table: %w", err)
	}
	bins, err := s.reader.ReadPredictors(ctx)
	if err != nil {
		return nil, fmt.Errorf("read predictor table: %w", err)
	}
	s.logger.Info("loaded export: %d model rows, %d predictor rows", len(history), len(bins))

	history, err = history.Filter(opts.Filter)
	if err != nil {
		return nil, err
	}

	models := datamart.LatestModels(history)
	latestBins := datamart.LatestPredictorBins(bins)

	classifiers, err := s.classifierMetrics(ctx, models, latestBins, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	ranked, err := s.aggregator.VariableImportance(models, latestBins, opts.Facets)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		RunID:       core.RunID(core.NewID()),
		GeneratedAt: started.UTC(),
		Facets:      opts.Facets,
		Models:      models,
		Bubble:      report.BubbleChart(models),
		Classifiers: classifiers,
		Importance:  ranked,
		BoxPlots:    report.PredictorPerformanceBoxPlots(latestBins),
		Matrix:      report.ModelPredictorMatrix(models, latestBins),
		Heatmap:     report.BuildCalendarHeatmap(history, opts.HeatmapLookbackDays, opts.FillNullDays),
		Trends:      report.ModelTrends(history),
	}
	s.logger.Info("report %s generated in %s", rep.RunID.String(), time.Since(started))
	return rep, nil
}

// classifierMetrics computes the binning metrics of every model's
// classifier entry. Models are independent, so the work fans out across
// an errgroup and is re-sorted afterwards for deterministic output.
func (s *ReportService) classifierMetrics(ctx context.Context, models datamart.ModelTable, bins datamart.PredictorTable, parallelism int) ([]binning.PredictorMetrics, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	ids := make([]core.ModelID, 0, len(models))
	seen := make(map[core.ModelID]bool)
	for _, m := range models {
		if !seen[m.ModelID] {
			seen[m.ModelID] = true
			ids = append(ids, m.ModelID)
		}
	}

	results := make([]binning.PredictorMetrics, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var classifier []datamart.PredictorBin
			for _, b := range bins.ForModel(id) {
				if b.IsClassifier() {
					classifier = append(classifier, b)
				}
			}
			results[i] = s.engine.Compute(classifier)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if len(r.Bins) > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out, nil
}

// ModelDetail is the per-model drill-down: the classifier score
// distribution plus every predictor's binning.
type ModelDetail struct {
	Model      datamart.ModelSnapshot     `json:"model"`
	Classifier binning.PredictorMetrics   `json:"classifier"`
	Score      report.Distribution        `json:"score_distribution"`
	Predictors []report.Distribution      `json:"predictors"`
	Metrics    []binning.PredictorMetrics `json:"predictor_metrics"`
}

// DescribeModel resolves one model by name and derives its drill-down
// views. The name must match exactly one latest model row.
func (s *ReportService) DescribeModel(ctx context.Context, name string) (*ModelDetail, error) {
	history, err := s.reader.ReadModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("read model table: %w", err)
	}
	bins, err := s.reader.ReadPredictors(ctx)
	if err != nil {
		return nil, fmt.Errorf("read predictor table: %w", err)
	}

	models := datamart.LatestModels(history)
	model, err := models.FindModel(name)
	if err != nil {
		return nil, err
	}

	modelBins := datamart.LatestPredictorBins(bins).ForModel(model.ModelID)
	var classifier []datamart.PredictorBin
	byPredictor := make(map[string][]datamart.PredictorBin)
	for _, b := range modelBins {
		if b.IsClassifier() {
			classifier = append(classifier, b)
			continue
		}
		byPredictor[b.PredictorName] = append(byPredictor[b.PredictorName], b)
	}

	names := make([]string, 0, len(byPredictor))
	for n := range byPredictor {
		names = append(names, n)
	}
	sort.Strings(names)

	// Predictors are independent; fan out like classifierMetrics does.
	metrics := make([]binning.PredictorMetrics, len(names))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range names {
		i, n := i, n
		g.Go(func() error {
			metrics[i] = s.engine.Compute(byPredictor[n])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ModelDetail{
		Model:      model,
		Classifier: s.engine.Compute(classifier),
		Score:      report.ScoreDistribution(modelBins),
		Predictors: report.PredictorDistributions(modelBins),
		Metrics:    metrics,
	}, nil
}
