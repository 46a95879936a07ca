package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

func sampleTable() *models.CombinedTable {
	benin := models.Dataset{
		Name:       "Benin",
		Provenance: models.ProvenanceProcessed,
		Columns:    []string{"GHI", "Tamb"},
		Records: []models.Record{
			{Values: map[string]float64{"GHI": 480, "Tamb": 25}},
			{Values: map[string]float64{"GHI": 520, "Tamb": 27}},
			{Values: map[string]float64{"Tamb": 26}},
		},
	}
	togo := models.Dataset{
		Name:       "Togo",
		Provenance: models.ProvenanceProcessed,
		Columns:    []string{"GHI", "Tamb"},
		Records: []models.Record{
			{Values: map[string]float64{"GHI": 610, "Tamb": 28}},
			{Values: map[string]float64{"GHI": 590, "Tamb": 29}},
		},
	}
	return models.Combine([]models.Dataset{benin, togo})
}

func TestSummarize(t *testing.T) {
	table := sampleTable()

	statsMap, order, err := Summarize(table, "GHI")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(order) != 2 || order[0] != "Benin" || order[1] != "Togo" {
		t.Errorf("group order = %v, want [Benin Togo]", order)
	}

	benin := statsMap["Benin"]
	if benin.Count != 2 {
		t.Errorf("Benin count = %d, want 2 (missing value excluded)", benin.Count)
	}
	if benin.Mean != 500 {
		t.Errorf("Benin mean = %v, want 500", benin.Mean)
	}
	if benin.Min != 480 || benin.Max != 520 {
		t.Errorf("Benin min/max = %v/%v, want 480/520", benin.Min, benin.Max)
	}

	// Counts across groups account for every non-missing value
	total := 0
	for _, s := range statsMap {
		total += s.Count
	}
	if total != 4 {
		t.Errorf("summed counts = %d, want 4", total)
	}
}

func TestSummarizeSingleValueStdIsNaN(t *testing.T) {
	ds := models.Dataset{
		Name:    "Benin",
		Columns: []string{"GHI"},
		Records: []models.Record{{Values: map[string]float64{"GHI": 500}}},
	}
	table := models.Combine([]models.Dataset{ds})

	statsMap, _, err := Summarize(table, "GHI")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	s := statsMap["Benin"]
	if !math.IsNaN(s.Std) {
		t.Errorf("std of single value = %v, want NaN", s.Std)
	}
	if s.Mean != 500 || s.Median != 500 {
		t.Errorf("mean/median = %v/%v, want 500/500", s.Mean, s.Median)
	}
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		table   *models.CombinedTable
		metric  string
		wantErr error
	}{
		{
			name:    "nil table",
			table:   nil,
			metric:  "GHI",
			wantErr: ErrInsufficientData,
		},
		{
			name:    "empty table",
			table:   &models.CombinedTable{},
			metric:  "GHI",
			wantErr: ErrInsufficientData,
		},
		{
			name:    "unknown metric",
			table:   sampleTable(),
			metric:  "Altitude",
			wantErr: ErrMetricNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Summarize(tt.table, tt.metric)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Summarize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRankIsStablePermutation(t *testing.T) {
	statsMap := map[string]models.MetricStatistics{
		"A": {Mean: 500.0, Count: 10},
		"B": {Mean: 500.0, Count: 10},
		"C": {Mean: 480.0, Count: 10},
	}
	order := []string{"A", "B", "C"}

	ranked, err := Rank(statsMap, order, "mean", false)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(ranked) != len(statsMap) {
		t.Fatalf("Rank() returned %d entries, want %d", len(ranked), len(statsMap))
	}

	// Equal means keep first-appearance order
	got := []string{ranked[0].Group, ranked[1].Group, ranked[2].Group}
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank() order = %v, want %v", got, want)
		}
	}

	// Ranking again changes nothing
	again, err := Rank(statsMap, order, "mean", false)
	if err != nil {
		t.Fatalf("Rank() second pass error = %v", err)
	}
	for i := range ranked {
		if again[i] != ranked[i] {
			t.Errorf("second Rank() entry %d = %+v, want %+v", i, again[i], ranked[i])
		}
	}
}

func TestRankDirections(t *testing.T) {
	statsMap := map[string]models.MetricStatistics{
		"Benin":        {Mean: 550.2},
		"Sierra Leone": {Mean: 480.1},
		"Togo":         {Mean: 610.9},
	}
	order := []string{"Benin", "Sierra Leone", "Togo"}

	tests := []struct {
		name      string
		ascending bool
		wantFirst string
		wantLast  string
	}{
		{name: "ascending", ascending: true, wantFirst: "Sierra Leone", wantLast: "Togo"},
		{name: "descending", ascending: false, wantFirst: "Togo", wantLast: "Sierra Leone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := Rank(statsMap, order, "mean", tt.ascending)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if ranked[0].Group != tt.wantFirst {
				t.Errorf("first = %s, want %s", ranked[0].Group, tt.wantFirst)
			}
			if ranked[len(ranked)-1].Group != tt.wantLast {
				t.Errorf("last = %s, want %s", ranked[len(ranked)-1].Group, tt.wantLast)
			}
		})
	}
}

func TestRankNaNSortsLast(t *testing.T) {
	statsMap := map[string]models.MetricStatistics{
		"A": {Std: math.NaN()},
		"B": {Std: 40.0},
		"C": {Std: 60.0},
	}
	ranked, err := Rank(statsMap, []string{"A", "B", "C"}, "std", true)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if ranked[len(ranked)-1].Group != "A" {
		t.Errorf("NaN entry ranked %v, want last", ranked)
	}
}

func TestRankUnknownField(t *testing.T) {
	_, err := Rank(map[string]models.MetricStatistics{}, nil, "variance", true)
	if err == nil {
		t.Fatal("Rank() with unknown field expected error, got nil")
	}
}

func TestDetectOutliers(t *testing.T) {
	records := make([]models.Record, 0, 101)
	for i := 0; i < 100; i++ {
		records = append(records, models.Record{Values: map[string]float64{
			"GHI":  500,
			"Tamb": 42,
		}})
	}
	// Single extreme spike against an otherwise tight distribution
	records = append(records, models.Record{Values: map[string]float64{
		"GHI":  5000,
		"Tamb": 42,
	}})
	ds := models.Dataset{Name: "Benin", Columns: []string{"GHI", "Tamb"}, Records: records}
	table := models.Combine([]models.Dataset{ds})

	reports, skipped, err := DetectOutliers(table, []string{"GHI", "Tamb", "WS"}, 3.0)
	if err != nil {
		t.Fatalf("DetectOutliers() error = %v", err)
	}

	if len(skipped) != 1 || skipped[0] != "WS" {
		t.Errorf("skipped = %v, want [WS]", skipped)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}

	byColumn := make(map[string]models.OutlierReport, len(reports))
	for _, r := range reports {
		byColumn[r.Column] = r
	}
	if got := byColumn["GHI"].Count; got != 1 {
		t.Errorf("GHI outliers = %d, want 1", got)
	}
	// Constant column has zero variance, so no value can be an outlier
	if got := byColumn["Tamb"].Count; got != 0 {
		t.Errorf("constant column outliers = %d, want 0", got)
	}
	if byColumn["Tamb"].Total != 101 {
		t.Errorf("Tamb total = %d, want 101", byColumn["Tamb"].Total)
	}
}

func TestDetectOutliersEmptyTable(t *testing.T) {
	_, _, err := DetectOutliers(&models.CombinedTable{}, []string{"GHI"}, 3.0)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("DetectOutliers() error = %v, want %v", err, ErrInsufficientData)
	}
}

func TestMissingReportExactPercent(t *testing.T) {
	records := make([]models.Record, 0, 100)
	for i := 0; i < 100; i++ {
		values := map[string]float64{"Tamb": 25}
		if i >= 10 {
			values["GHI"] = 500
		}
		records = append(records, models.Record{Values: values})
	}
	ds := models.Dataset{Name: "Benin", Columns: []string{"GHI", "Tamb"}, Records: records}
	table := models.Combine([]models.Dataset{ds})

	reports, err := MissingReportFor(table)
	if err != nil {
		t.Fatalf("MissingReportFor() error = %v", err)
	}

	byColumn := make(map[string]models.MissingReport, len(reports))
	for _, r := range reports {
		byColumn[r.Column] = r
	}
	ghi := byColumn["GHI"]
	if ghi.MissingCount != 10 {
		t.Errorf("GHI missing count = %d, want 10", ghi.MissingCount)
	}
	if ghi.MissingPercent != 10.0 {
		t.Errorf("GHI missing percent = %v, want exactly 10.0", ghi.MissingPercent)
	}
	if byColumn["Tamb"].MissingCount != 0 {
		t.Errorf("Tamb missing count = %d, want 0", byColumn["Tamb"].MissingCount)
	}
}

func TestMissingReportEmptyTable(t *testing.T) {
	_, err := MissingReportFor(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("MissingReportFor() error = %v, want %v", err, ErrInsufficientData)
	}
}
