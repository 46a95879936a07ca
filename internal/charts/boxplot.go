package charts

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// generateBoxplotSnippet builds an ECharts boxplot comparing one
// metric's distribution across datasets. Each box is the five-number
// summary (min, Q1, median, Q3, max) of that dataset's non-missing
// values; datasets without values for the metric are left out.
func (cg *ChartGenerator) generateBoxplotSnippet(table *models.CombinedTable, metric string) (ChartSnippet, error) {
	if table == nil || len(table.Rows) == 0 {
		return ChartSnippet{}, fmt.Errorf("no data for %s boxplot", metric)
	}

	id := fmt.Sprintf("chart-boxplot-%s", metric)

	var categories []string
	var boxes []interface{}
	for i, name := range table.DatasetOrder() {
		values := table.FilterDatasets([]string{name}).MetricValues(metric)
		summary, err := fiveNumberSummary(values)
		if err != nil {
			continue
		}
		categories = append(categories, name)
		boxes = append(boxes, map[string]interface{}{
			"value": summary,
			"itemStyle": map[string]interface{}{
				"color":       seriesColor(i),
				"borderColor": "#555",
			},
		})
	}
	if len(boxes) == 0 {
		return ChartSnippet{}, fmt.Errorf("no %s values in any dataset", metric)
	}

	option := map[string]interface{}{
		"title": map[string]interface{}{
			"text": fmt.Sprintf("%s Distribution by Dataset", metric),
			"left": "center",
		},
		"tooltip": map[string]interface{}{
			"trigger": "item",
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
				"name": metric,
				"type": "boxplot",
				"data": boxes,
			},
		},
	}

	return buildSnippet(id, fmt.Sprintf("%s Boxplot", metric), 380, option)
}

// fiveNumberSummary computes [min, Q1, median, Q3, max] in the order
// an ECharts boxplot series expects.
func fiveNumberSummary(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty sample")
	}

	min, err := stats.Min(values)
	if err != nil {
		return nil, err
	}
	q1, err := stats.Percentile(values, 25)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return nil, err
	}
	q3, err := stats.Percentile(values, 75)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, err
	}

	return []float64{round2(min), round2(q1), round2(median), round2(q3), round2(max)}, nil
}
