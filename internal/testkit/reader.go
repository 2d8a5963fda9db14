package testkit

import (
	"context"

	"admreport/domain/datamart"
)

// Reader serves generated tables through the import port, so the pipeline
// and the viewer can run without export files.
type Reader struct {
	models datamart.ModelTable
	bins   datamart.PredictorTable
}

// Reader builds a table reader over one generated datamart.
func (g *Generator) Reader() *Reader {
	models, bins := g.Tables()
	return &Reader{models: models, bins: bins}
}

func (r *Reader) ReadModels(ctx context.Context) (datamart.ModelTable, error) {
	return r.models, nil
}

func (r *Reader) ReadPredictors(ctx context.Context) (datamart.PredictorTable, error) {
	return r.bins, nil
}
