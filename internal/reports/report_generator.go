package reports

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/insights"
	"github.com/FEBEN-G/solar-challenge-week0/internal/llm"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/schema"
)

// StorageInterface defines the interface for storage operations
type StorageInterface interface {
	StoreAllFiles(ctx context.Context, files *GeneratedFiles) error
}

// ReportData is everything one report run derives from the combined
// table. It feeds the markdown summary, the JSON artifacts, the workbook
// and the rendered page.
type ReportData struct {
	GeneratedAt   time.Time
	RunID         string
	PrimaryMetric string

	Table    *models.CombinedTable
	Statuses []models.DatasetStatus
	Failures []models.LoadFailure

	Metrics    []string
	GroupOrder []string
	Statistics map[string]map[string]models.MetricStatistics
	Ranked     []analysis.RankEntry
	Insights   []models.Insight

	Outliers        []models.OutlierReport
	OutliersSkipped []string
	Missing         []models.MissingReport

	// Narrative is the optional LLM commentary, empty when no client is
	// configured or the call failed.
	Narrative string
}

// ComputeReportData runs the full analysis pass over a combined table:
// per-metric descriptive statistics, the primary-metric ranking,
// comparative insights, outlier counts and missing-value rates.
func ComputeReportData(table *models.CombinedTable, statuses []models.DatasetStatus, failures []models.LoadFailure, now time.Time) (*ReportData, error) {
	metrics := presentMetrics(table)
	if len(metrics) == 0 {
		return nil, fmt.Errorf("combined table carries no canonical metric columns: %w", analysis.ErrInsufficientData)
	}

	rd := &ReportData{
		GeneratedAt: now,
		RunID:       uuid.New().String(),
		Table:       table,
		Statuses:    statuses,
		Failures:    failures,
		Metrics:     metrics,
		Statistics:  make(map[string]map[string]models.MetricStatistics, len(metrics)),
	}

	for _, metric := range metrics {
		statsMap, order, err := analysis.Summarize(table, metric)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", metric, err)
		}
		rd.Statistics[metric] = statsMap
		if rd.GroupOrder == nil {
			rd.GroupOrder = order
		}
	}

	// GHI is the headline metric when present; otherwise fall back to the
	// first metric the table carries.
	rd.PrimaryMetric = metrics[0]
	for _, m := range metrics {
		if m == "GHI" {
			rd.PrimaryMetric = m
			break
		}
	}

	ranked, err := analysis.Rank(rd.Statistics[rd.PrimaryMetric], rd.GroupOrder, "mean", false)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", rd.PrimaryMetric, err)
	}
	rd.Ranked = ranked

	insightList, _, err := insights.BuildAll(table, metrics)
	if err != nil {
		return nil, fmt.Errorf("build insights: %w", err)
	}
	rd.Insights = insightList

	outliers, skipped, err := analysis.DetectOutliers(table, analysis.DefaultOutlierColumns, analysis.DefaultOutlierThreshold)
	if err != nil {
		return nil, fmt.Errorf("detect outliers: %w", err)
	}
	rd.Outliers = outliers
	rd.OutliersSkipped = skipped

	missing, err := analysis.MissingReportFor(table)
	if err != nil {
		return nil, fmt.Errorf("missing report: %w", err)
	}
	rd.Missing = missing

	return rd, nil
}

// presentMetrics returns the canonical metrics the table actually
// carries, in canonical order.
func presentMetrics(table *models.CombinedTable) []string {
	if table == nil {
		return nil
	}
	var present []string
	for _, m := range schema.CanonicalMetrics {
		if schema.HasMetric(table, m) {
			present = append(present, m)
		}
	}
	return present
}

// ReportGenerator handles report generation and HTML conversion
type ReportGenerator struct {
	htmlBuilder *HTMLBuilder
}

// NewReportGenerator creates a new report generator
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{
		htmlBuilder: NewHTMLBuilder(),
	}
}

// GenerateCompleteReport handles the complete report generation pipeline:
// load (or synthesize) the datasets, run the analysis pass, optionally
// add the LLM narrative, render every artifact and store the bundle.
func (rg *ReportGenerator) GenerateCompleteReport(ctx context.Context,
	cfg *config.Config,
	loader *dataset.Loader,
	llmClient *llm.OpenAIClient,
	orchestrator StorageInterface) (map[string]interface{}, error) {

	log.Println("Starting report generation...")

	// Step 1: Load datasets through the fallback chain
	table, statuses, failures, err := loader.LoadOrGenerate(ctx, loader.KnownDatasets(), dataset.DefaultSampleConfig(cfg.SyntheticSeed))
	if err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	for _, failure := range failures {
		log.Printf("Warning: dataset %s failed to load: %s", failure.Dataset, failure.Message)
	}

	// Step 2: Run the analysis pass
	rd, err := ComputeReportData(table, statuses, failures, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to compute report data: %w", err)
	}
	log.Printf("Analysis complete: %d datasets, %d rows, %d metrics", len(rd.GroupOrder), len(table.Rows), len(rd.Metrics))

	// Step 3: Analyst narrative. The report stands without it, so a
	// failed call degrades to a report with no commentary section.
	if llmClient != nil {
		narrative, err := llmClient.GenerateNarrative(ctx, &llm.NarrativeInput{
			GeneratedAt: rd.GeneratedAt,
			Datasets:    rd.Statuses,
			Insights:    rd.Insights,
			Statistics:  rd.Statistics,
			Outliers:    rd.Outliers,
			Missing:     rd.Missing,
		})
		if err != nil {
			log.Printf("Warning: analyst narrative unavailable: %v", err)
		} else {
			rd.Narrative = narrative
		}
	}

	// Step 4: Generate files using FileGenerator
	fileGenerator := NewFileGenerator(rg.htmlBuilder)
	files, err := fileGenerator.GenerateAllFiles(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate files: %w", err)
	}

	// Step 5: Store files using StorageOrchestrator
	if err := orchestrator.StoreAllFiles(ctx, files); err != nil {
		return nil, fmt.Errorf("failed to store files: %w", err)
	}

	return map[string]interface{}{
		"status":     "success",
		"message":    "Report generated successfully",
		"reportURL":  "/files/" + files.FolderPath + "/index.html",
		"timestamp":  rd.GeneratedAt.Format(time.RFC3339),
		"folderPath": files.FolderPath,
		"runID":      rd.RunID,
		"datasets":   len(rd.GroupOrder),
		"rows":       len(table.Rows),
	}, nil
}
