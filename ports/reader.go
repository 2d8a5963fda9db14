// Package ports defines the small interfaces wiring the datamart core to
// its collaborators: the import side producing snapshot tables and the
// output side consuming rendered reports.
package ports

import (
	"context"

	"admreport/domain/datamart"
)

// TableReader is the import collaborator: it locates export files,
// normalizes column names and timestamp encodings, and returns validated
// snapshot tables. Implementations must fail with a configuration error
// when a required column is absent.
type TableReader interface {
	ReadModels(ctx context.Context) (datamart.ModelTable, error)
	ReadPredictors(ctx context.Context) (datamart.PredictorTable, error)
}

// ReportSink receives rendered report artifacts. The core never touches
// the filesystem directly; surfaces decide where artifacts land.
type ReportSink interface {
	Write(ctx context.Context, name string, data []byte) error
}
