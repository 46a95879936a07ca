package charts

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// DefaultHistogramBins is the bin count used for distribution charts.
const DefaultHistogramBins = 30

// generateHistogramSnippet builds an ECharts overlaid histogram of one
// metric. All datasets share the same bin edges, computed over the
// combined values, so the translucent per-dataset bars line up.
func (cg *ChartGenerator) generateHistogramSnippet(table *models.CombinedTable, metric string, bins int) (ChartSnippet, error) {
	if table == nil || len(table.Rows) == 0 {
		return ChartSnippet{}, fmt.Errorf("no data for %s histogram", metric)
	}
	if bins < 1 {
		bins = DefaultHistogramBins
	}

	all := table.MetricValues(metric)
	if len(all) == 0 {
		return ChartSnippet{}, fmt.Errorf("no %s values to bin", metric)
	}

	id := fmt.Sprintf("chart-histogram-%s", metric)
	edges := histogramEdges(all, bins)
	categories := binLabels(edges)

	var series []interface{}
	var legend []string
	for i, name := range table.DatasetOrder() {
		values := table.FilterDatasets([]string{name}).MetricValues(metric)
		if len(values) == 0 {
			continue
		}
		legend = append(legend, name)
		series = append(series, map[string]interface{}{
			"name":   name,
			"type":   "bar",
			"barGap": "-100%",
			"data":   binCounts(values, edges),
			"itemStyle": map[string]interface{}{
				"color":   seriesColor(i),
				"opacity": 0.55,
			},
		})
	}

	option := map[string]interface{}{
		"title": map[string]interface{}{
			"text": fmt.Sprintf("%s Distribution", metric),
			"left": "center",
		},
		"tooltip": map[string]interface{}{
			"trigger": "axis",
		},
		"legend": map[string]interface{}{
			"data": legend,
			"top":  30,
		},
		"xAxis": map[string]interface{}{
			"type": "category",
			"data": categories,
			"name": metric,
			"axisLabel": map[string]interface{}{
				"interval": 4,
				"rotate":   45,
			},
		},
		"yAxis": map[string]interface{}{
			"type": "value",
			"name": "Count",
		},
		"series": series,
	}

	return buildSnippet(id, fmt.Sprintf("%s Histogram", metric), 380, option)
}

// histogramEdges spans bins+1 evenly spaced dividers over the value
// range. The top edge sits just above the maximum so the largest
// value still lands in the final bin.
func histogramEdges(values []float64, bins int) []float64 {
	min := floats.Min(values)
	max := floats.Max(values)
	top := max + (max-min)*1e-9
	if top <= max {
		top = math.Nextafter(max, math.Inf(1))
	}
	return floats.Span(make([]float64, bins+1), min, top)
}

// binCounts counts values per bin against shared edges. The input is
// copied because the histogram needs sorted data.
func binCounts(values []float64, edges []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Histogram(make([]float64, len(edges)-1), edges, sorted, nil)
}

// binLabels formats each bin's center for a category axis.
func binLabels(edges []float64) []string {
	labels := make([]string, 0, len(edges)-1)
	wide := edges[len(edges)-1]-edges[0] >= float64(10*(len(edges)-1))
	for i := 0; i < len(edges)-1; i++ {
		center := (edges[i] + edges[i+1]) / 2
		if wide {
			labels = append(labels, fmt.Sprintf("%.0f", center))
		} else {
			labels = append(labels, fmt.Sprintf("%.1f", center))
		}
	}
	return labels
}
