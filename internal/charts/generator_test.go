package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

func chartTestTable() *models.CombinedTable {
	benin := models.Dataset{
		Name:    "Benin",
		Columns: []string{"GHI", "Tamb"},
		Records: []models.Record{
			{Values: map[string]float64{"GHI": 480, "Tamb": 25}},
			{Values: map[string]float64{"GHI": 500, "Tamb": 26}},
			{Values: map[string]float64{"GHI": 520, "Tamb": 27}},
		},
	}
	togo := models.Dataset{
		Name:    "Togo",
		Columns: []string{"GHI", "Tamb"},
		Records: []models.Record{
			{Values: map[string]float64{"GHI": 590, "Tamb": 28}},
			{Values: map[string]float64{"GHI": 610, "Tamb": 29}},
			{Values: map[string]float64{"GHI": 630, "Tamb": 30}},
		},
	}
	return models.Combine([]models.Dataset{benin, togo})
}

func chartTestRanking(t *testing.T, table *models.CombinedTable) []analysis.RankEntry {
	t.Helper()
	statsMap, order, err := analysis.Summarize(table, "GHI")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	ranked, err := analysis.Rank(statsMap, order, "mean", true)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	return ranked
}

func TestNewChartGenerator(t *testing.T) {
	outputDir := "/test/output"
	generator := NewChartGenerator(outputDir)

	if generator == nil {
		t.Fatal("NewChartGenerator returned nil")
	}

	if generator.outputDir != outputDir {
		t.Errorf("Expected outputDir %s, got %s", outputDir, generator.outputDir)
	}
}

func TestGenerateCharts(t *testing.T) {
	outputDir := t.TempDir()
	generator := NewChartGenerator(outputDir)
	table := chartTestTable()
	ranked := chartTestRanking(t, table)

	chartFiles, err := generator.GenerateCharts(table, ranked, "GHI")
	if err != nil {
		t.Fatalf("GenerateCharts failed: %v", err)
	}

	if len(chartFiles) != 2 {
		t.Fatalf("Expected 2 chart files, got %d: %v", len(chartFiles), chartFiles)
	}

	wantFiles := map[string]bool{
		filepath.Join(outputDir, "ranked_bar.png"): false,
		filepath.Join(outputDir, "histogram.png"):  false,
	}
	for _, f := range chartFiles {
		if _, ok := wantFiles[f]; !ok {
			t.Errorf("Unexpected chart file: %s", f)
			continue
		}
		wantFiles[f] = true

		info, err := os.Stat(f)
		if err != nil {
			t.Errorf("Chart file %s not written: %v", f, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Chart file %s is empty", f)
		}
	}
	for f, seen := range wantFiles {
		if !seen {
			t.Errorf("Missing chart file: %s", f)
		}
	}
}

func TestGenerateChartsWithEmptyData(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	// Both charts should be skipped, not fail the call
	chartFiles, err := generator.GenerateCharts(&models.CombinedTable{}, nil, "GHI")
	if err != nil {
		t.Fatalf("GenerateCharts failed with empty data: %v", err)
	}
	if len(chartFiles) != 0 {
		t.Errorf("Expected no chart files with empty data, got %v", chartFiles)
	}
}

func TestDashboardCharts(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())
	table := chartTestTable()
	ranked := chartTestRanking(t, table)

	snippets, err := generator.DashboardCharts(table, ranked, "GHI")
	if err != nil {
		t.Fatalf("DashboardCharts failed: %v", err)
	}

	if len(snippets) != 3 {
		t.Fatalf("Expected 3 snippets, got %d", len(snippets))
	}

	seen := make(map[string]bool)
	for i, snippet := range snippets {
		if snippet.ID == "" {
			t.Errorf("Snippet %d has empty ID", i)
		}
		if seen[snippet.ID] {
			t.Errorf("Duplicate snippet ID %s", snippet.ID)
		}
		seen[snippet.ID] = true
		if snippet.Title == "" {
			t.Errorf("Snippet %d has empty Title", i)
		}
		if snippet.Div == "" {
			t.Errorf("Snippet %d has empty Div", i)
		}
		if snippet.Script == "" {
			t.Errorf("Snippet %d has empty Script", i)
		}
		if snippet.HTML == "" {
			t.Errorf("Snippet %d has empty HTML", i)
		}

		t.Logf("Generated snippet %d: ID=%s, Title=%s", i, snippet.ID, snippet.Title)
	}
}

func TestDashboardChartsConsistency(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())
	table := chartTestTable()
	ranked := chartTestRanking(t, table)

	snippets1, err1 := generator.DashboardCharts(table, ranked, "GHI")
	snippets2, err2 := generator.DashboardCharts(table, ranked, "GHI")

	if err1 != nil {
		t.Fatalf("First generation failed: %v", err1)
	}
	if err2 != nil {
		t.Fatalf("Second generation failed: %v", err2)
	}

	if len(snippets1) != len(snippets2) {
		t.Fatalf("Inconsistent snippet count: first=%d, second=%d", len(snippets1), len(snippets2))
	}

	for i := range snippets1 {
		if snippets1[i].ID != snippets2[i].ID {
			t.Errorf("Snippet %d ID mismatch: %s != %s", i, snippets1[i].ID, snippets2[i].ID)
		}
		if snippets1[i].HTML != snippets2[i].HTML {
			t.Errorf("Snippet %d HTML differs between runs", i)
		}
	}
}
