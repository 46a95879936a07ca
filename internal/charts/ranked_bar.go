package charts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
)

// generateRankedBarSnippet builds an ECharts bar chart of datasets in
// ranking order with the ranked value labeled above each bar.
func (cg *ChartGenerator) generateRankedBarSnippet(ranked []analysis.RankEntry, metric string) (ChartSnippet, error) {
	if len(ranked) == 0 {
		return ChartSnippet{}, fmt.Errorf("no ranking to chart for %s", metric)
	}

	id := fmt.Sprintf("chart-ranked-%s", metric)

	var categories []string
	var bars []interface{}
	for i, entry := range ranked {
		if math.IsNaN(entry.Value) {
			continue
		}
		categories = append(categories, entry.Group)
		bars = append(bars, map[string]interface{}{
			"value": round2(entry.Value),
			"itemStyle": map[string]interface{}{
				"color": seriesColor(i),
			},
		})
	}
	if len(bars) == 0 {
		return ChartSnippet{}, fmt.Errorf("ranking for %s holds no finite values", metric)
	}

	option := map[string]interface{}{
		"title": map[string]interface{}{
			"text": fmt.Sprintf("Datasets Ranked by Mean %s", metric),
			"left": "center",
		},
		"tooltip": map[string]interface{}{
			"trigger": "axis",
		},
		"xAxis": map[string]interface{}{
			"type": "category",
			"data": categories,
		},
		"yAxis": map[string]interface{}{
			"type": "value",
			"name": metric,
		},
		"series": []interface{}{
			map[string]interface{}{
				"name": fmt.Sprintf("Mean %s", metric),
				"type": "bar",
				"data": bars,
				"label": map[string]interface{}{
					"show":     true,
					"position": "top",
				},
			},
		},
	}

	return buildSnippet(id, fmt.Sprintf("%s Ranking", metric), 360, option)
}

// generateRankedBarChart renders the ranking as a PNG for the report
// bundle.
func (cg *ChartGenerator) generateRankedBarChart(ranked []analysis.RankEntry, metric string) (string, error) {
	filename := filepath.Join(cg.outputDir, "ranked_bar.png")

	var bars []chart.Value
	for i, entry := range ranked {
		if math.IsNaN(entry.Value) {
			continue
		}
		color := drawing.ColorFromHex(strings.TrimPrefix(seriesColor(i), "#"))
		bars = append(bars, chart.Value{
			Value: entry.Value,
			Label: fmt.Sprintf("%s (%.1f)", entry.Group, entry.Value),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("no finite %s values to chart", metric)
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("Mean %s by Dataset", metric),
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
		Width:    640,
		BarWidth: 90,
		Bars:     bars,
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create ranked bar chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render ranked bar chart: %w", err)
	}

	return filename, nil
}
