package main

import (
	"log"

	"admreport/adapters/export"
	"admreport/app"
	"admreport/internal/config"
	"admreport/internal/testkit"
	"admreport/ports"
	"admreport/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	var reader ports.TableReader
	if cfg.Demo {
		reader = testkit.NewGenerator(testkit.DefaultConfig()).Reader()
	} else {
		reader = export.NewReader(cfg.Data.ModelFile, cfg.Data.PredictorFile)
	}

	service := app.NewReportService(reader, nil)
	opts := app.Options{
		Facets:              cfg.Report.Facets,
		HeatmapLookbackDays: cfg.Report.LookbackDays,
		FillNullDays:        cfg.Report.FillNullDays,
		Parallelism:         cfg.Report.Parallelism,
	}

	server := ui.NewServer(service, opts)
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
