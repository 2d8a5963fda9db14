// Command report runs the pipeline once and writes report.md and
// report.xlsx to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"admreport/adapters/export"
	"admreport/adapters/report"
	"admreport/app"
	"admreport/domain/importance"
	"admreport/ports"
)

func main() {
	var (
		modelFile     = flag.String("models", "", "model table export (.csv, .zip or .xlsx)")
		predictorFile = flag.String("predictors", "", "predictor binning export (.csv, .zip or .xlsx)")
		outDir        = flag.String("out", ".", "output directory")
		facets        = flag.String("facets", "ConfigurationName", "comma-separated facet columns for variable importance")
		lookback      = flag.Int("lookback", 15, "response calendar lookback in days")
		strategy      = flag.String("strategy", "log_odds", "importance weighting: log_odds or performance")
	)
	flag.Parse()

	if *modelFile == "" || *predictorFile == "" {
		fmt.Fprintln(os.Stderr, "both -models and -predictors are required")
		flag.Usage()
		os.Exit(2)
	}

	var weight importance.WeightStrategy
	switch *strategy {
	case "log_odds":
		weight = importance.LogOddsStrategy{}
	case "performance":
		weight = importance.PerformanceStrategy{}
	default:
		fmt.Fprintf(os.Stderr, "unknown strategy %q\n", *strategy)
		os.Exit(2)
	}

	service := app.NewReportService(export.NewReader(*modelFile, *predictorFile), weight)
	opts := app.DefaultOptions()
	opts.Facets = splitFacets(*facets)
	opts.HeatmapLookbackDays = *lookback

	ctx := context.Background()
	rep, err := service.GenerateReport(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var sink ports.ReportSink = report.NewDirSink(*outDir)
	if err := sink.Write(ctx, "report.md", service.Assembler().Markdown(rep)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wb, err := service.Assembler().Workbook(rep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := sink.Write(ctx, "report.xlsx", buf.Bytes()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("run %s: wrote report.md and report.xlsx to %s\n", rep.RunID.String(), *outDir)
}

func splitFacets(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
