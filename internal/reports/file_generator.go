package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/charts"
	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/logger"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// FileGenerator handles generation of all report files
type FileGenerator struct {
	htmlBuilder *HTMLBuilder
}

// GeneratedFiles contains all files generated for a report
type GeneratedFiles struct {
	HTMLContent  string
	ChartFiles   []string          // rendered PNG paths under TempChartDir
	JSONFiles    map[string][]byte
	AssetFiles   map[string][]byte // markdown summary, workbook
	FolderPath   string            // storage folder path shared by all modes
	TempChartDir string            // scratch dir holding ChartFiles until stored
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(htmlBuilder *HTMLBuilder) *FileGenerator {
	return &FileGenerator{
		htmlBuilder: htmlBuilder,
	}
}

// GenerateAllFiles creates all report files (HTML, charts, JSON, workbook).
// Only the HTML page is load-bearing; any other artifact that fails is
// logged and left out of the bundle.
func (fg *FileGenerator) GenerateAllFiles(rd *ReportData) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		JSONFiles:  make(map[string][]byte),
		AssetFiles: make(map[string][]byte),
	}
	files.FolderPath = storage.GenerateReportFolderPath(rd.GeneratedAt)

	// 1. Analysis artifacts as JSON
	fg.generateAnalysisJSONFiles(rd, files)

	// 2. Markdown summary (the page content, kept as its own artifact)
	summary := BuildMarkdownSummary(rd)
	files.AssetFiles["summary.md"] = []byte(summary)
	logger.Debug("Generated markdown summary", map[string]interface{}{"bytes": len(summary)})

	// 3. Statistics workbook
	if workbook, err := BuildStatsWorkbook(rd.Metrics, rd.GroupOrder, rd.Statistics, rd.Missing, rd.Outliers); err != nil {
		logger.Warn("Failed to build statistics workbook", map[string]interface{}{"error": err.Error()})
	} else {
		files.AssetFiles["stats.xlsx"] = workbook
		logger.Debug("Generated statistics workbook", map[string]interface{}{"bytes": len(workbook)})
	}

	// 4. Chart images into a scratch dir; the orchestrator moves them
	// into storage and removes the dir.
	if err := fg.generateChartFiles(rd, files); err != nil {
		logger.Warn("Failed to render chart images", map[string]interface{}{"error": err.Error()})
	}

	// 5. Report page
	html, err := fg.htmlBuilder.BuildCompleteHTML(rd, files.ChartFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}
	files.HTMLContent = html

	// 6. Manifest last, so it lists every file that made it in
	fg.generateManifest(rd, files)

	return files, nil
}

// generateAnalysisJSONFiles serializes each analysis artifact to its own
// JSON file.
func (fg *FileGenerator) generateAnalysisJSONFiles(rd *ReportData, files *GeneratedFiles) {
	fg.putJSON(files, "stats.json", rd.Statistics)
	fg.putJSON(files, "rankings.json", rd.Ranked)
	fg.putJSON(files, "insights.json", rd.Insights)
	fg.putJSON(files, "outliers.json", struct {
		Reports        []models.OutlierReport `json:"reports"`
		SkippedColumns []string               `json:"skipped_columns,omitempty"`
	}{rd.Outliers, rd.OutliersSkipped})
	fg.putJSON(files, "missing.json", rd.Missing)
	fg.putJSON(files, "status.json", struct {
		GeneratedAt time.Time              `json:"generated_at"`
		RunID       string                 `json:"run_id"`
		Datasets    []models.DatasetStatus `json:"datasets"`
		Failures    []models.LoadFailure   `json:"failures,omitempty"`
	}{rd.GeneratedAt, rd.RunID, rd.Statuses, rd.Failures})
}

// putJSON marshals one artifact into the bundle, skipping it on error.
func (fg *FileGenerator) putJSON(files *GeneratedFiles, filename string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Warn("Failed to marshal JSON artifact", map[string]interface{}{"file": filename, "error": err.Error()})
		return
	}
	files.JSONFiles[filename] = data
	logger.Debug("Generated JSON artifact", map[string]interface{}{"file": filename, "bytes": len(data)})
}

// generateChartFiles renders the static chart PNGs into a fresh temp dir.
func (fg *FileGenerator) generateChartFiles(rd *ReportData, files *GeneratedFiles) error {
	tempDir, err := os.MkdirTemp("", "solar-report-charts-")
	if err != nil {
		return fmt.Errorf("failed to create chart temp directory: %w", err)
	}

	chartGen := charts.NewChartGenerator(tempDir)
	chartFiles, err := chartGen.GenerateCharts(rd.Table, rd.Ranked, rd.PrimaryMetric)
	if err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to render charts: %w", err)
	}

	files.ChartFiles = chartFiles
	files.TempChartDir = tempDir
	logger.Debug("Rendered chart images", map[string]interface{}{"count": len(chartFiles)})
	return nil
}

// generateManifest writes the bundle manifest naming every stored file
// and the provenance of each dataset behind the numbers.
func (fg *FileGenerator) generateManifest(rd *ReportData, files *GeneratedFiles) {
	names := []string{"index.html"}
	for name := range files.JSONFiles {
		names = append(names, name)
	}
	for name := range files.AssetFiles {
		names = append(names, name)
	}
	for _, chartPath := range files.ChartFiles {
		names = append(names, filepath.Base(chartPath))
	}
	names = append(names, "manifest.json")
	sort.Strings(names)

	provenance := make(map[string]string, len(rd.Statuses))
	for _, status := range rd.Statuses {
		provenance[status.Name] = string(status.Provenance)
	}

	fg.putJSON(files, "manifest.json", struct {
		RunID       string            `json:"run_id"`
		GeneratedAt time.Time         `json:"generated_at"`
		Version     string            `json:"version"`
		Provenance  map[string]string `json:"provenance"`
		Files       []string          `json:"files"`
	}{rd.RunID, rd.GeneratedAt, config.GetVersion(), provenance, names})
}
