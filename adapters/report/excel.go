package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Workbook exports the report as an XLSX workbook, one sheet per section,
// so the numbers behind every chart stay inspectable.
func (a *Assembler) Workbook(rep *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "Models", bubbleSheet(rep)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Classifier", classifierSheet(rep)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Importance", importanceSheet(rep)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Predictors", boxPlotSheet(rep)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Matrix", matrixSheet(rep)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "History", trendSheet(rep)); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by the first section.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// writeSheet writes a header row plus data rows to a fresh sheet.
func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("sheet %s cell (%d,%d): %w", name, r+1, c+1, err)
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", name, cell, err)
			}
		}
	}
	return nil
}

func bubbleSheet(rep *Report) [][]interface{} {
	rows := [][]interface{}{{"Model", "Performance", "Success Rate (%)", "Responses"}}
	for _, p := range rep.Bubble {
		rows = append(rows, []interface{}{p.Name, p.Performance, p.SuccessRate, p.Responses})
	}
	return rows
}

func classifierSheet(rep *Report) [][]interface{} {
	rows := [][]interface{}{{"Model", "Bin", "Symbol", "Responses", "Propensity", "Lift", "Z-Ratio", "KS"}}
	for _, c := range rep.Classifiers {
		for _, bin := range c.Bins {
			rows = append(rows, []interface{}{
				c.ModelID, bin.BinIndex, bin.BinSymbol, bin.Responses,
				bin.Propensity, bin.Lift, bin.ZRatio, c.KS,
			})
		}
	}
	return rows
}

func importanceSheet(rep *Report) [][]interface{} {
	rows := [][]interface{}{{"Facet", "Rank", "Predictor", "Importance"}}
	for _, row := range rep.Importance {
		rows = append(rows, []interface{}{row.Facet.String(), row.Rank, row.PredictorName, row.Importance})
	}
	return rows
}

func boxPlotSheet(rep *Report) [][]interface{} {
	rows := [][]interface{}{{"Predictor", "Source", "Type", "Models", "Min", "Q1", "Median", "Q3", "Max", "Mean"}}
	for _, s := range rep.BoxPlots {
		rows = append(rows, []interface{}{
			s.PredictorName, s.Source, s.PredictorType, s.Models,
			s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean,
		})
	}
	return rows
}

func trendSheet(rep *Report) [][]interface{} {
	rows := [][]interface{}{{"Model", "Snapshot", "Responses", "Success Rate (%)", "Performance"}}
	for _, trend := range rep.Trends {
		for _, p := range trend.Points {
			rows = append(rows, []interface{}{
				trend.ModelName, p.Time, p.Responses, p.SuccessRate, p.Performance,
			})
		}
	}
	return rows
}

func matrixSheet(rep *Report) [][]interface{} {
	header := []interface{}{"Model"}
	for _, p := range rep.Matrix.PredictorNames {
		header = append(header, p)
	}
	rows := [][]interface{}{header}
	for i, name := range rep.Matrix.ModelNames {
		row := []interface{}{name}
		for _, v := range rep.Matrix.Values[i] {
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
