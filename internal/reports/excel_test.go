package reports

import (
	"bytes"
	"math"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

func TestBuildStatsWorkbook(t *testing.T) {
	statistics := map[string]map[string]models.MetricStatistics{
		"GHI": {
			"Benin": {Mean: 500.5, Median: 500, Std: 20, Count: 3, Min: 480, Max: 520},
			"Togo":  {Mean: 610, Median: 610, Std: math.NaN(), Count: 1, Min: 610, Max: 610},
		},
	}
	missing := []models.MissingReport{{Column: "GHI", MissingCount: 2, MissingPercent: 5}}
	outliers := []models.OutlierReport{{Column: "GHI", Count: 1, Total: 40, Threshold: 3}}

	data, err := BuildStatsWorkbook([]string{"GHI"}, []string{"Benin", "Togo"}, statistics, missing, outliers)
	if err != nil {
		t.Fatalf("BuildStatsWorkbook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Workbook does not open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Statistics": false, "Missing": false, "Outliers": false}
	for _, sheet := range sheets {
		if _, ok := want[sheet]; ok {
			want[sheet] = true
		}
	}
	for sheet, found := range want {
		if !found {
			t.Errorf("Workbook missing sheet %s (have %v)", sheet, sheets)
		}
	}

	checks := []struct {
		sheet, cell, want string
	}{
		{"Statistics", "A1", "Metric"},
		{"Statistics", "B1", "Dataset"},
		{"Statistics", "A2", "GHI"},
		{"Statistics", "B2", "Benin"},
		{"Statistics", "C2", "500.5"},
		{"Statistics", "B3", "Togo"},
		{"Statistics", "E3", ""}, // NaN std stays an empty cell
		{"Missing", "A2", "GHI"},
		{"Missing", "B2", "2"},
		{"Outliers", "A2", "GHI"},
		{"Outliers", "C2", "40"},
	}
	for _, check := range checks {
		got, err := f.GetCellValue(check.sheet, check.cell)
		if err != nil {
			t.Errorf("GetCellValue(%s!%s) failed: %v", check.sheet, check.cell, err)
			continue
		}
		if got != check.want {
			t.Errorf("%s!%s = %q, want %q", check.sheet, check.cell, got, check.want)
		}
	}
}

func TestBuildStatsWorkbookEmpty(t *testing.T) {
	data, err := BuildStatsWorkbook(nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildStatsWorkbook on empty inputs failed: %v", err)
	}
	if _, err := excelize.OpenReader(bytes.NewReader(data)); err != nil {
		t.Fatalf("Empty workbook does not open: %v", err)
	}
}
