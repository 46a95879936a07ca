package charts

import (
	"encoding/json"
	"fmt"

	"github.com/montanaflynn/stats"
)

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div contains a single root <div id="..." style="..."></div>.
// Script contains the <script>...</script> block that initializes the
// chart in that div. HTML combines both for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// EChartsCDN is the script tag loading the ECharts runtime. The
// dashboard template includes it once; standalone snippets carry it
// in their HTML field.
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// palette holds the series colors, one per dataset in table order.
var palette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#F7B801", "#6A4C93"}

// seriesColor returns the palette color for the i-th dataset,
// wrapping around when there are more datasets than colors.
func seriesColor(i int) string {
	if i < 0 {
		i = 0
	}
	return palette[i%len(palette)]
}

// buildSnippet marshals an ECharts option map and wraps it in the
// div + init-script pair every snippet shares.
func buildSnippet(id, title string, heightPx int, option map[string]interface{}) (ChartSnippet, error) {
	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode %s chart option: %w", id, err)
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%dpx;\"></div>", id, heightPx)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, string(optJSON))

	completeHTML := fmt.Sprintf(`%s
<div class="chart-item">
	<h4>%s</h4>
	%s
</div>
%s`, EChartsCDN, title, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

// round2 rounds a value for chart labels without touching the
// underlying statistics. NaN passes through untouched.
func round2(v float64) float64 {
	rounded, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return rounded
}
