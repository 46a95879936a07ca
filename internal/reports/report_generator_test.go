package reports

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

func reportTestTable() *models.CombinedTable {
	mk := func(name string, ghi, tamb []float64) models.Dataset {
		ds := models.Dataset{Name: name, Columns: []string{"GHI", "Tamb"}}
		for i := range ghi {
			ds.Records = append(ds.Records, models.Record{Values: map[string]float64{
				"GHI":  ghi[i],
				"Tamb": tamb[i],
			}})
		}
		return ds
	}
	return models.Combine([]models.Dataset{
		mk("Benin", []float64{480, 500, 520}, []float64{24, 25, 26}),
		mk("Togo", []float64{590, 610, 630}, []float64{29, 30, 31}),
	})
}

func TestComputeReportData(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	rd, err := ComputeReportData(reportTestTable(), nil, nil, now)
	if err != nil {
		t.Fatalf("ComputeReportData failed: %v", err)
	}

	if rd.RunID == "" {
		t.Error("Expected a run ID")
	}
	if !rd.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", rd.GeneratedAt, now)
	}

	wantMetrics := []string{"GHI", "Tamb"}
	if len(rd.Metrics) != len(wantMetrics) {
		t.Fatalf("Metrics = %v, want %v", rd.Metrics, wantMetrics)
	}
	for i, m := range wantMetrics {
		if rd.Metrics[i] != m {
			t.Errorf("Metrics[%d] = %q, want %q", i, rd.Metrics[i], m)
		}
	}
	if rd.PrimaryMetric != "GHI" {
		t.Errorf("PrimaryMetric = %q, want GHI", rd.PrimaryMetric)
	}

	if len(rd.GroupOrder) != 2 || rd.GroupOrder[0] != "Benin" || rd.GroupOrder[1] != "Togo" {
		t.Errorf("GroupOrder = %v, want [Benin Togo]", rd.GroupOrder)
	}

	if mean := rd.Statistics["GHI"]["Benin"].Mean; mean != 500 {
		t.Errorf("Benin GHI mean = %v, want 500", mean)
	}

	// Ranking is by mean of the primary metric, best first.
	if len(rd.Ranked) != 2 || rd.Ranked[0].Group != "Togo" {
		t.Errorf("Ranked = %v, want Togo first", rd.Ranked)
	}

	if len(rd.Insights) != 2 {
		t.Fatalf("Expected 2 insights, got %d", len(rd.Insights))
	}
	if rd.Insights[0].Metric != "GHI" || rd.Insights[0].Best != "Togo" {
		t.Errorf("GHI insight = %+v, want Best=Togo", rd.Insights[0])
	}

	// Only GHI from the screening list is present in this table.
	if len(rd.Outliers) != 1 || rd.Outliers[0].Column != "GHI" {
		t.Errorf("Outliers = %v, want a single GHI report", rd.Outliers)
	}
	if len(rd.OutliersSkipped) != 6 {
		t.Errorf("OutliersSkipped = %v, want the 6 absent screening columns", rd.OutliersSkipped)
	}

	if len(rd.Missing) != 2 {
		t.Errorf("Missing = %v, want reports for GHI and Tamb", rd.Missing)
	}
}

func TestComputeReportDataNoMetrics(t *testing.T) {
	table := models.Combine([]models.Dataset{{
		Name:    "Benin",
		Columns: []string{"Comments"},
		Records: []models.Record{{Values: map[string]float64{"Comments": 1}}},
	}})

	_, err := ComputeReportData(table, nil, nil, time.Now())
	if !errors.Is(err, analysis.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}

	if _, err := ComputeReportData(nil, nil, nil, time.Now()); err == nil {
		t.Error("Expected error for nil table")
	}
}

func writeFixtureCSV(t *testing.T, dataDir, name string, lines []string) {
	t.Helper()
	path := filepath.Join(dataDir, "processed", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
}

func TestGenerateCompleteReport(t *testing.T) {
	dataDir := t.TempDir()
	writeFixtureCSV(t, dataDir, "benin_clean.csv", []string{
		"Timestamp,GHI,Tamb",
		"2025-03-01 08:00,480,24",
		"2025-03-01 09:00,500,25",
		"2025-03-01 10:00,520,26",
	})
	writeFixtureCSV(t, dataDir, "togo_clean.csv", []string{
		"Timestamp,GHI,Tamb",
		"2025-03-01 08:00,590,29",
		"2025-03-01 09:00,610,30",
		"2025-03-01 10:00,630,31",
	})

	dataStore, err := storage.NewLocalStorageClient(dataDir)
	if err != nil {
		t.Fatalf("Failed to create data storage: %v", err)
	}
	loader := dataset.NewLoader(dataStore, nil)

	reportsDir := t.TempDir()
	reportsStore, err := storage.NewLocalStorageClient(reportsDir)
	if err != nil {
		t.Fatalf("Failed to create reports storage: %v", err)
	}

	cfg := &config.Config{SyntheticSeed: 42}
	result, err := NewReportGenerator().GenerateCompleteReport(
		context.Background(), cfg, loader, nil, NewStorageOrchestrator(reportsStore))
	if err != nil {
		t.Fatalf("GenerateCompleteReport failed: %v", err)
	}

	if result["status"] != "success" {
		t.Errorf("status = %v, want success", result["status"])
	}
	if result["rows"] != 6 {
		t.Errorf("rows = %v, want 6", result["rows"])
	}
	folderPath, _ := result["folderPath"].(string)
	if folderPath == "" {
		t.Fatal("Expected a folderPath in the result")
	}
	if url, _ := result["reportURL"].(string); url != "/files/"+folderPath+"/index.html" {
		t.Errorf("reportURL = %q", url)
	}

	// Every bundle artifact lands under the report folder.
	for _, name := range []string{"index.html", "summary.md", "stats.json", "rankings.json",
		"insights.json", "outliers.json", "missing.json", "status.json", "manifest.json",
		"stats.xlsx", "ranked_bar.png", "histogram.png"} {
		if _, err := os.Stat(filepath.Join(reportsDir, folderPath, name)); err != nil {
			t.Errorf("Missing stored artifact %s: %v", name, err)
		}
	}

	html, err := os.ReadFile(filepath.Join(reportsDir, folderPath, "index.html"))
	if err != nil {
		t.Fatalf("Failed to read index.html: %v", err)
	}
	if !strings.Contains(string(html), "Togo") {
		t.Error("index.html should mention the Togo dataset")
	}

	rankingsData, err := os.ReadFile(filepath.Join(reportsDir, folderPath, "rankings.json"))
	if err != nil {
		t.Fatalf("Failed to read rankings.json: %v", err)
	}
	var ranked []analysis.RankEntry
	if err := json.Unmarshal(rankingsData, &ranked); err != nil {
		t.Fatalf("Failed to parse rankings.json: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Group != "Togo" {
		t.Errorf("rankings.json = %v, want Togo first", ranked)
	}
}

func TestGenerateCompleteReportSyntheticFallback(t *testing.T) {
	dataStore, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create data storage: %v", err)
	}
	loader := dataset.NewLoader(dataStore, nil)

	reportsDir := t.TempDir()
	reportsStore, err := storage.NewLocalStorageClient(reportsDir)
	if err != nil {
		t.Fatalf("Failed to create reports storage: %v", err)
	}

	cfg := &config.Config{SyntheticSeed: 42}
	result, err := NewReportGenerator().GenerateCompleteReport(
		context.Background(), cfg, loader, nil, NewStorageOrchestrator(reportsStore))
	if err != nil {
		t.Fatalf("GenerateCompleteReport with no data files failed: %v", err)
	}
	if result["status"] != "success" {
		t.Fatalf("status = %v, want success", result["status"])
	}

	folderPath, _ := result["folderPath"].(string)
	statusData, err := os.ReadFile(filepath.Join(reportsDir, folderPath, "status.json"))
	if err != nil {
		t.Fatalf("Failed to read status.json: %v", err)
	}
	var status struct {
		Datasets []models.DatasetStatus `json:"datasets"`
	}
	if err := json.Unmarshal(statusData, &status); err != nil {
		t.Fatalf("Failed to parse status.json: %v", err)
	}
	if len(status.Datasets) == 0 {
		t.Fatal("status.json lists no datasets")
	}
	for _, ds := range status.Datasets {
		if ds.Provenance != models.ProvenanceSynthetic {
			t.Errorf("Dataset %s provenance = %q, want synthetic", ds.Name, ds.Provenance)
		}
	}

	html, err := os.ReadFile(filepath.Join(reportsDir, folderPath, "index.html"))
	if err != nil {
		t.Fatalf("Failed to read index.html: %v", err)
	}
	if !strings.Contains(string(html), "Synthetic data in use") {
		t.Error("Report page should carry the synthetic-data notice")
	}
}
