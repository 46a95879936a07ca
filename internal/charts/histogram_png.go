package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// generateHistogramChart renders a PNG histogram of one metric over
// the combined rows of every dataset. Bin labels are thinned so the
// axis stays readable at thirty bins.
func (cg *ChartGenerator) generateHistogramChart(table *models.CombinedTable, metric string) (string, error) {
	if table == nil || len(table.Rows) == 0 {
		return "", fmt.Errorf("no data for %s histogram", metric)
	}
	values := table.MetricValues(metric)
	if len(values) == 0 {
		return "", fmt.Errorf("no %s values to bin", metric)
	}

	filename := filepath.Join(cg.outputDir, "histogram.png")

	edges := histogramEdges(values, DefaultHistogramBins)
	counts := binCounts(values, edges)
	labels := binLabels(edges)

	barColor := drawing.Color{R: 69, G: 183, B: 209, A: 255}
	bars := make([]chart.Value, 0, len(counts))
	for i, count := range counts {
		label := ""
		if i%5 == 0 {
			label = labels[i]
		}
		bars = append(bars, chart.Value{
			Value: count,
			Label: label,
			Style: chart.Style{
				FillColor:   barColor,
				StrokeColor: barColor,
			},
		})
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s Distribution (All Datasets)", metric),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
		},
		Height:   400,
		Width:    900,
		BarWidth: 22,
		Bars:     bars,
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create histogram chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render histogram chart: %w", err)
	}

	return filename, nil
}
