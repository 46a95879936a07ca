package charts

import (
	"log"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// ChartGenerator handles creation of static chart images
type ChartGenerator struct {
	outputDir string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator(outputDir string) *ChartGenerator {
	return &ChartGenerator{
		outputDir: outputDir,
	}
}

// GenerateCharts creates the static chart images for a report bundle:
// a ranked bar chart of per-dataset means and a distribution histogram
// of the primary metric. A chart that fails to render is logged and
// skipped rather than failing the report.
func (cg *ChartGenerator) GenerateCharts(table *models.CombinedTable, ranked []analysis.RankEntry, metric string) ([]string, error) {
	var chartFiles []string

	if barChart, err := cg.generateRankedBarChart(ranked, metric); err == nil {
		chartFiles = append(chartFiles, barChart)
	} else {
		log.Printf("Warning: Failed to generate ranked bar chart: %v", err)
	}

	if histChart, err := cg.generateHistogramChart(table, metric); err == nil {
		chartFiles = append(chartFiles, histChart)
	} else {
		log.Printf("Warning: Failed to generate histogram chart: %v", err)
	}

	return chartFiles, nil
}

// DashboardCharts builds the embeddable chart snippets for the
// comparison dashboard: a per-dataset boxplot, an overlaid histogram
// and the ranked bar chart of one metric.
func (cg *ChartGenerator) DashboardCharts(table *models.CombinedTable, ranked []analysis.RankEntry, metric string) ([]ChartSnippet, error) {
	var snippets []ChartSnippet

	if boxplot, err := cg.generateBoxplotSnippet(table, metric); err == nil {
		snippets = append(snippets, boxplot)
	} else {
		log.Printf("Warning: Failed to generate boxplot snippet: %v", err)
	}

	if histogram, err := cg.generateHistogramSnippet(table, metric, DefaultHistogramBins); err == nil {
		snippets = append(snippets, histogram)
	} else {
		log.Printf("Warning: Failed to generate histogram snippet: %v", err)
	}

	if rankedBar, err := cg.generateRankedBarSnippet(ranked, metric); err == nil {
		snippets = append(snippets, rankedBar)
	} else {
		log.Printf("Warning: Failed to generate ranked bar snippet: %v", err)
	}

	return snippets, nil
}
