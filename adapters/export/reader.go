// Package export reads ADM datamart export files (CSV, zipped CSV, XLSX)
// into validated snapshot tables. This is the import collaborator of the
// reporting core: column names and timestamp encodings are normalized
// here, and missing required columns abort the run with a configuration
// error before any statistics are computed.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"admreport/domain/core"
	"admreport/domain/datamart"
)

// Reader reads one model table export and one predictor table export.
type Reader struct {
	modelPath     string
	predictorPath string
}

// NewReader creates a reader over the two export files. Format is decided
// per file by extension.
func NewReader(modelPath, predictorPath string) *Reader {
	return &Reader{modelPath: modelPath, predictorPath: predictorPath}
}

// ReadModels reads and validates the model snapshot table.
func (r *Reader) ReadModels(ctx context.Context) (datamart.ModelTable, error) {
	headers, rows, err := readTable(r.modelPath)
	if err != nil {
		return nil, err
	}
	cols := columnIndex(headers)
	if err := datamart.ValidateColumns("model", present(cols), datamart.RequiredModelColumns); err != nil {
		return nil, err
	}
	table := make(datamart.ModelTable, 0, len(rows))
	for i, row := range rows {
		m, err := parseModelRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("model table row %d: %w", i+2, err)
		}
		table = append(table, m)
	}
	return table, nil
}

// ReadPredictors reads and validates the predictor binning table.
func (r *Reader) ReadPredictors(ctx context.Context) (datamart.PredictorTable, error) {
	headers, rows, err := readTable(r.predictorPath)
	if err != nil {
		return nil, err
	}
	cols := columnIndex(headers)
	if err := datamart.ValidateColumns("predictor", present(cols), datamart.RequiredPredictorColumns); err != nil {
		return nil, err
	}
	table := make(datamart.PredictorTable, 0, len(rows))
	for i, row := range rows {
		b, err := parsePredictorRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("predictor table row %d: %w", i+2, err)
		}
		table = append(table, b)
	}
	return table, nil
}

// readTable dispatches on file extension and returns normalized headers
// plus raw data rows.
func readTable(path string) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open export: %w", err)
		}
		defer f.Close()
		return readCSV(f)
	case ".zip":
		return readZippedCSV(path)
	case ".xlsx":
		return readXLSX(path)
	}
	return nil, nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, path)
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return NormalizeHeaders(records[0]), records[1:], nil
}

// readZippedCSV reads the first .csv entry of a zip archive, the usual
// shape of a datamart download.
func readZippedCSV(path string) ([]string, [][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip export: %w", err)
	}
	defer zr.Close()
	for _, entry := range zr.File {
		if strings.ToLower(filepath.Ext(entry.Name)) != ".csv" {
			continue
		}
		f, err := entry.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		defer f.Close()
		return readCSV(f)
	}
	return nil, nil, fmt.Errorf("%w: no csv entry in %s", core.ErrUnsupportedInput, path)
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx export: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return NormalizeHeaders(rows[0]), rows[1:], nil
}

// columnIndex maps canonical column names to their position.
func columnIndex(headers []string) map[string]int {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := cols[h]; !seen {
			cols[h] = i
		}
	}
	return cols
}

func present(cols map[string]int) map[string]bool {
	m := make(map[string]bool, len(cols))
	for c := range cols {
		m[c] = true
	}
	return m
}

// cell returns the trimmed value of a column, or "" when the row is short
// or the column absent. Exports routinely truncate trailing empty cells.
func cell(cols map[string]int, row []string, column string) string {
	i, ok := cols[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseModelRow(cols map[string]int, row []string) (datamart.ModelSnapshot, error) {
	positives, err := parseInt(cell(cols, row, "Positives"))
	if err != nil {
		return datamart.ModelSnapshot{}, fmt.Errorf("Positives: %w", err)
	}
	responses, err := parseInt(cell(cols, row, "ResponseCount"))
	if err != nil {
		return datamart.ModelSnapshot{}, fmt.Errorf("ResponseCount: %w", err)
	}
	negatives, err := parseInt(cell(cols, row, "Negatives"))
	if err != nil {
		return datamart.ModelSnapshot{}, fmt.Errorf("Negatives: %w", err)
	}
	if _, ok := cols["Negatives"]; !ok {
		negatives = responses - positives
	}
	performance, err := parseFloat(cell(cols, row, "Performance"))
	if err != nil {
		return datamart.ModelSnapshot{}, fmt.Errorf("Performance: %w", err)
	}
	snapshot, err := parseSnapshot(cell(cols, row, "SnapshotTime"))
	if err != nil {
		return datamart.ModelSnapshot{}, err
	}
	return datamart.ModelSnapshot{
		ModelID:           core.ModelID(cell(cols, row, "ModelID")),
		ConfigurationName: cell(cols, row, "ConfigurationName"),
		Issue:             cell(cols, row, "Issue"),
		Group:             cell(cols, row, "Group"),
		Name:              cell(cols, row, "Name"),
		Channel:           cell(cols, row, "Channel"),
		Direction:         cell(cols, row, "Direction"),
		Treatment:         cell(cols, row, "Treatment"),
		SnapshotTime:      snapshot,
		Positives:         positives,
		Negatives:         negatives,
		ResponseCount:     responses,
		Performance:       normalizePerformance(performance),
	}, nil
}

func parsePredictorRow(cols map[string]int, row []string) (datamart.PredictorBin, error) {
	binIndex, err := parseInt(cell(cols, row, "BinIndex"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("BinIndex: %w", err)
	}
	groupIndex, err := parseInt(cell(cols, row, "GroupIndex"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("GroupIndex: %w", err)
	}
	binPositives, err := parseInt(cell(cols, row, "BinPositives"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("BinPositives: %w", err)
	}
	binResponses, err := parseInt(cell(cols, row, "BinResponseCount"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("BinResponseCount: %w", err)
	}
	binNegatives, err := parseInt(cell(cols, row, "BinNegatives"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("BinNegatives: %w", err)
	}
	if _, ok := cols["BinNegatives"]; !ok {
		binNegatives = binResponses - binPositives
	}
	performance, err := parseFloat(cell(cols, row, "Performance"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("Performance: %w", err)
	}
	zRatio, err := parseFloat(cell(cols, row, "ZRatio"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("ZRatio: %w", err)
	}
	lift, err := parseFloat(cell(cols, row, "Lift"))
	if err != nil {
		return datamart.PredictorBin{}, fmt.Errorf("Lift: %w", err)
	}
	snapshot, err := parseSnapshot(cell(cols, row, "SnapshotTime"))
	if err != nil {
		return datamart.PredictorBin{}, err
	}
	return datamart.PredictorBin{
		ModelID:       core.ModelID(cell(cols, row, "ModelID")),
		PredictorName: cell(cols, row, "PredictorName"),
		PredictorType: strings.ToLower(cell(cols, row, "PredictorType")),
		EntryType:     datamart.EntryType(cell(cols, row, "EntryType")),
		GroupIndex:    int(groupIndex),
		BinIndex:      int(binIndex),
		BinSymbol:     cell(cols, row, "BinSymbol"),
		BinLowerBound: parseBound(cell(cols, row, "BinLowerBound")),
		BinUpperBound: parseBound(cell(cols, row, "BinUpperBound")),
		BinPositives:  binPositives,
		BinNegatives:  binNegatives,
		Performance:   normalizePerformance(performance),
		ZRatio:        zRatio,
		Lift:          lift,
		SnapshotTime:  snapshot,
	}, nil
}

// parseInt tolerates empty cells and the decimal-point integers some
// exports emit ("12.0").
func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int64(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func parseBound(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseSnapshot(s string) (core.SnapshotTime, error) {
	if s == "" {
		return core.SnapshotTime{}, nil
	}
	t, err := core.ParseSnapshotTime(s)
	if err != nil {
		return core.SnapshotTime{}, fmt.Errorf("SnapshotTime: %w", err)
	}
	return t, nil
}

// normalizePerformance maps percent-scaled AUC exports (52.5) onto the
// [0.5, 1.0] scale the metrics expect.
func normalizePerformance(p float64) float64 {
	if p > 1.0 {
		return p / 100.0
	}
	return p
}
