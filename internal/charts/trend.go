package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
)

// RenderTrendPage renders a standalone HTML page with a line chart of
// one metric's daily mean per dataset. Rows without timestamps are
// ignored; days where a dataset has no readings show as gaps.
func RenderTrendPage(table *models.CombinedTable, metric string) (string, error) {
	if table == nil || len(table.Rows) == 0 {
		return "", fmt.Errorf("no data for %s trend", metric)
	}

	type accumulator struct {
		sum float64
		n   int
	}
	daily := make(map[string]map[string]*accumulator)
	daySet := make(map[string]bool)
	for _, row := range table.Rows {
		if row.Timestamp.IsZero() {
			continue
		}
		v, ok := row.Value(metric)
		if !ok {
			continue
		}
		day := row.Timestamp.Format("2006-01-02")
		daySet[day] = true
		if daily[row.Dataset] == nil {
			daily[row.Dataset] = make(map[string]*accumulator)
		}
		acc := daily[row.Dataset][day]
		if acc == nil {
			acc = &accumulator{}
			daily[row.Dataset][day] = acc
		}
		acc.sum += v
		acc.n++
	}
	if len(daySet) == 0 {
		return "", fmt.Errorf("no timestamped %s values to plot", metric)
	}

	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			Width:     "1100px",
			Height:    "480px",
			PageTitle: fmt.Sprintf("Daily Mean %s", metric),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Daily Mean %s", metric),
			Subtitle: "Averaged per dataset per day",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Day",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: metric,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	line.SetXAxis(days)
	for _, name := range table.DatasetOrder() {
		perDay := daily[name]
		if len(perDay) == 0 {
			continue
		}
		points := make([]opts.LineData, len(days))
		for i, day := range days {
			if acc, ok := perDay[day]; ok {
				points[i] = opts.LineData{Value: round2(acc.sum / float64(acc.n))}
			} else {
				points[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(name, points)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{
		Smooth: opts.Bool(true),
	}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render trend page: %w", err)
	}
	return buf.String(), nil
}
