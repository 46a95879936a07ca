package server

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/charts"
	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/insights"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/reports"
	"github.com/FEBEN-G/solar-challenge-week0/internal/schema"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardChart is one rendered chart ready for inclusion in the page.
type dashboardChart struct {
	Title  string
	Div    template.HTML
	Script template.HTML
}

type dashboardRankRow struct {
	Position int
	Group    string
	Mean     string
}

type dashboardStatRow struct {
	Group  string
	Mean   string
	Median string
	Std    string
	Count  int
	Min    string
	Max    string
}

type dashboardStatus struct {
	Name            string
	Provenance      string
	ProvenanceLabel string
	Rows            int
	Source          string
}

type dashboardDatasetOption struct {
	Name    string
	Checked bool
}

// dashboardData is the view model for the dashboard template. Numbers
// are preformatted here so the template stays free of logic.
type dashboardData struct {
	Metric         string
	Metrics        []string
	Datasets       []dashboardDatasetOption
	SelectionQuery string
	TotalRows      int
	Warning        string
	HasSynthetic   bool
	Charts         []dashboardChart
	StatRows       []dashboardStatRow
	RankRows       []dashboardRankRow
	InsightLines   []string
	Statuses       []dashboardStatus
	EChartsCDN     template.HTML
	Version        string
	GeneratedAt    string
}

// HandleDashboard serves the comparison dashboard for one metric.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// The mux routes everything unmatched here; only the root itself
	// is a dashboard.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		log.Printf("Failed to load datasets: %v", err)
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	metric := requestMetric(r)
	selected := requestDatasets(r)
	table := data.tableFor(r)
	view := &dashboardData{
		Metric:         metric,
		Metrics:        availableMetrics(table),
		Datasets:       datasetOptions(data.Statuses, selected),
		SelectionQuery: selectionQuery(selected),
		TotalRows:      len(table.Rows),
		Statuses:       statusRows(data.Statuses),
		EChartsCDN:     template.HTML(charts.EChartsCDN),
		Version:        config.GetVersion(),
		GeneratedAt:    time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
	}
	for _, st := range data.Statuses {
		if st.Provenance == models.ProvenanceSynthetic {
			view.HasSynthetic = true
			break
		}
	}

	summary, order, err := analysis.Summarize(table, metric)
	if err != nil {
		if !noDataErr(err) {
			http.Error(w, "Failed to summarize: "+err.Error(), http.StatusInternalServerError)
			return
		}
		view.Warning = err.Error()
		renderDashboard(w, view)
		return
	}
	for _, group := range order {
		st := summary[group]
		view.StatRows = append(view.StatRows, dashboardStatRow{
			Group:  group,
			Mean:   fmtStat(st.Mean),
			Median: fmtStat(st.Median),
			Std:    fmtStat(st.Std),
			Count:  st.Count,
			Min:    fmtStat(st.Min),
			Max:    fmtStat(st.Max),
		})
	}

	ranked, err := analysis.Rank(summary, order, "mean", false)
	if err != nil {
		http.Error(w, "Failed to rank: "+err.Error(), http.StatusInternalServerError)
		return
	}
	for i, entry := range ranked {
		view.RankRows = append(view.RankRows, dashboardRankRow{Position: i + 1, Group: entry.Group, Mean: fmtStat(entry.Value)})
	}

	insight, err := insights.Generate(summary, order, metric)
	if err != nil {
		http.Error(w, "Failed to build insight: "+err.Error(), http.StatusInternalServerError)
		return
	}
	view.InsightLines = insightLines(insight)

	snippets, err := charts.NewChartGenerator("").DashboardCharts(table, ranked, metric)
	if err != nil {
		// The page is still useful without charts
		log.Printf("Warning: dashboard charts unavailable: %v", err)
	}
	for _, sn := range snippets {
		view.Charts = append(view.Charts, dashboardChart{
			Title:  sn.Title,
			Div:    template.HTML(sn.Div),
			Script: template.HTML(sn.Script),
		})
	}

	renderDashboard(w, view)
}

func renderDashboard(w http.ResponseWriter, view *dashboardData) {
	w.Header().Set("Content-Type", "text/html")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		log.Printf("Failed to render dashboard: %v", err)
	}
}

// fmtStat renders one statistic for display, with NaN as "n/a".
func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// datasetOptions builds the dataset checkbox states. No selection means
// everything is selected.
func datasetOptions(statuses []models.DatasetStatus, selected []string) []dashboardDatasetOption {
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}
	opts := make([]dashboardDatasetOption, 0, len(statuses))
	for _, st := range statuses {
		opts = append(opts, dashboardDatasetOption{
			Name:    st.Name,
			Checked: len(selected) == 0 || chosen[st.Name],
		})
	}
	return opts
}

// selectionQuery renders the dataset selection as a query-string suffix
// so the trend and export links carry it along.
func selectionQuery(selected []string) string {
	if len(selected) == 0 {
		return ""
	}
	escaped := make([]string, len(selected))
	for i, name := range selected {
		escaped[i] = url.QueryEscape(name)
	}
	return "&datasets=" + strings.Join(escaped, ",")
}

// availableMetrics lists the canonical metrics present in the table,
// for the metric picker.
func availableMetrics(table *models.CombinedTable) []string {
	var metrics []string
	for _, m := range schema.CanonicalMetrics {
		if schema.HasMetric(table, m) {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) == 0 {
		metrics = append(metrics, "GHI")
	}
	return metrics
}

// insightLines phrases one insight as short dashboard bullet points.
func insightLines(in models.Insight) []string {
	if in.Best == "" {
		return nil
	}
	if in.Groups < 2 {
		return []string{fmt.Sprintf("%s averages %.2f %s with no other dataset to compare against.",
			in.Best, in.BestMean, in.Metric)}
	}
	lines := []string{
		fmt.Sprintf("%s leads with a mean %s of %.2f.", in.Best, in.Metric, in.BestMean),
		fmt.Sprintf("%s trails at %.2f.", in.Worst, in.WorstMean),
	}
	if in.MostConsistent != "" && in.MostVariable != "" {
		lines = append(lines, fmt.Sprintf("%s shows the steadiest readings while %s swings the most.",
			in.MostConsistent, in.MostVariable))
	}
	return lines
}

func statusRows(statuses []models.DatasetStatus) []dashboardStatus {
	rows := make([]dashboardStatus, 0, len(statuses))
	for _, st := range statuses {
		source := st.RawPath
		switch st.Provenance {
		case models.ProvenanceProcessed:
			source = st.ProcessedPath
		case models.ProvenanceSynthetic:
			source = "generated"
		}
		rows = append(rows, dashboardStatus{
			Name:            st.Name,
			Provenance:      string(st.Provenance),
			ProvenanceLabel: reports.ToTitleCase(string(st.Provenance)),
			Rows:            st.Rows,
			Source:          source,
		})
	}
	return rows
}
