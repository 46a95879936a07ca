package reports

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// BuildStatsWorkbook assembles the downloadable stats.xlsx: a
// Statistics sheet with one row per metric and dataset, plus Missing
// and Outliers sheets. NaN statistics become empty cells since Excel
// has no NaN representation.
func BuildStatsWorkbook(
	metrics []string,
	groupOrder []string,
	statistics map[string]map[string]models.MetricStatistics,
	missing []models.MissingReport,
	outliers []models.OutlierReport) ([]byte, error) {

	f := excelize.NewFile()
	defer f.Close()

	statsSheet := "Statistics"
	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return nil, fmt.Errorf("failed to name statistics sheet: %w", err)
	}

	statsHeaders := []string{"Metric", "Dataset", "Mean", "Median", "Std", "Count", "Min", "Max"}
	if err := writeHeaderRow(f, statsSheet, statsHeaders); err != nil {
		return nil, err
	}

	row := 2
	for _, metric := range metrics {
		groups, ok := statistics[metric]
		if !ok {
			continue
		}
		for _, group := range groupOrder {
			s, ok := groups[group]
			if !ok {
				continue
			}
			if err := writeCells(f, statsSheet, row,
				metric, group, cellNumber(s.Mean), cellNumber(s.Median),
				cellNumber(s.Std), s.Count, cellNumber(s.Min), cellNumber(s.Max)); err != nil {
				return nil, err
			}
			row++
		}
	}

	missingSheet := "Missing"
	if _, err := f.NewSheet(missingSheet); err != nil {
		return nil, fmt.Errorf("failed to add missing sheet: %w", err)
	}
	if err := writeHeaderRow(f, missingSheet, []string{"Column", "Missing Count", "Missing Percent"}); err != nil {
		return nil, err
	}
	for i, report := range missing {
		if err := writeCells(f, missingSheet, i+2,
			report.Column, report.MissingCount, cellNumber(report.MissingPercent)); err != nil {
			return nil, err
		}
	}

	outlierSheet := "Outliers"
	if _, err := f.NewSheet(outlierSheet); err != nil {
		return nil, fmt.Errorf("failed to add outliers sheet: %w", err)
	}
	if err := writeHeaderRow(f, outlierSheet, []string{"Column", "Outlier Count", "Values Checked", "Z-Score Threshold"}); err != nil {
		return nil, err
	}
	for i, report := range outliers {
		if err := writeCells(f, outlierSheet, i+2,
			report.Column, report.Count, report.Total, cellNumber(report.Threshold)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeCells(f, sheet, 1, values...)
}

func writeCells(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("bad cell coordinates %d,%d: %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// cellNumber maps NaN and infinities to nil so the cell stays empty.
func cellNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
