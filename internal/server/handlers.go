package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/analysis"
	"github.com/FEBEN-G/solar-challenge-week0/internal/charts"
	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/insights"
	"github.com/FEBEN-G/solar-challenge-week0/internal/metrics"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/reports"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// loadedData bundles one request's resolved table with its provenance.
type loadedData struct {
	Table    *models.CombinedTable
	Statuses []models.DatasetStatus
	Failures []models.LoadFailure
}

// requestMetric reads the metric query parameter, defaulting to GHI.
func requestMetric(r *http.Request) string {
	if metric := strings.TrimSpace(r.URL.Query().Get("metric")); metric != "" {
		return metric
	}
	return "GHI"
}

// requestDatasets reads the dataset selection from the query string.
// Comma-separated and repeated parameters are both accepted; an empty
// selection means every known dataset.
func requestDatasets(r *http.Request) []string {
	var names []string
	for _, raw := range r.URL.Query()["datasets"] {
		for _, part := range strings.Split(raw, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// tableFor applies the request's dataset selection to the loaded table.
func (d *loadedData) tableFor(r *http.Request) *models.CombinedTable {
	names := requestDatasets(r)
	if len(names) == 0 {
		return d.Table
	}
	return d.Table.FilterDatasets(names)
}

// noDataErr reports whether an analysis error is a "nothing to compute"
// condition rather than a fault. These answer with a warning payload,
// not an error status.
func noDataErr(err error) bool {
	return errors.Is(err, analysis.ErrMetricNotFound) || errors.Is(err, analysis.ErrInsufficientData)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	found := 0
	for _, st := range s.Loader.Status(r.Context()) {
		if st.FileFound {
			found++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]interface{}{
			"storage":        s.Config.DeploymentMode,
			"datasets_found": found,
		},
	})
}

// HandleAPISummary serves grouped statistics, the ranking and the
// insight for one metric.
func (s *Server) HandleAPISummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		log.Printf("Failed to load datasets: %v", err)
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	metric := requestMetric(r)
	summary, order, err := analysis.Summarize(data.tableFor(r), metric)
	if err != nil {
		if noDataErr(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"metric":  metric,
				"warning": err.Error(),
			})
			return
		}
		http.Error(w, "Failed to summarize: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ranked, err := analysis.Rank(summary, order, "mean", false)
	if err != nil {
		http.Error(w, "Failed to rank: "+err.Error(), http.StatusInternalServerError)
		return
	}
	insight, err := insights.Generate(summary, order, metric)
	if err != nil {
		http.Error(w, "Failed to build insight: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":     metric,
		"groups":     order,
		"statistics": summary,
		"ranking":    ranked,
		"insight":    insight,
		"datasets":   data.Statuses,
		"failures":   data.Failures,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleAPIOutliers serves z-score outlier counts for the measurement
// columns. An unparseable threshold is a client error.
func (s *Server) HandleAPIOutliers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threshold := analysis.DefaultOutlierThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid threshold: must be a positive number", http.StatusBadRequest)
			return
		}
		threshold = parsed
	}

	columns := analysis.DefaultOutlierColumns
	if raw := r.URL.Query().Get("columns"); raw != "" {
		columns = nil
		for _, part := range strings.Split(raw, ",") {
			if c := strings.TrimSpace(part); c != "" {
				columns = append(columns, c)
			}
		}
		if len(columns) == 0 {
			http.Error(w, "Invalid columns: must name at least one column", http.StatusBadRequest)
			return
		}
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	outliers, skipped, err := analysis.DetectOutliers(data.tableFor(r), columns, threshold)
	if err != nil {
		if noDataErr(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"warning": err.Error()})
			return
		}
		http.Error(w, "Failed to detect outliers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"reports":   outliers,
		"skipped":   skipped,
	})
}

// HandleAPIMissing serves per-column missing-value rates.
func (s *Server) HandleAPIMissing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	missing, err := analysis.MissingReportFor(data.tableFor(r))
	if err != nil {
		if noDataErr(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"warning": err.Error()})
			return
		}
		http.Error(w, "Failed to build missing report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"missing": missing})
}

// HandleAPIStatus serves the dataset catalog state: which file backs
// each dataset, sizes, and cache occupancy.
func (s *Server) HandleAPIStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasets":  s.Loader.Status(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleGenerate generates a new report bundle (HTTP handler)
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.generateMutex.TryLock() {
		log.Printf("Report generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"status":  "conflict",
			"error":   "Report generation already in progress",
			"message": "Another report generation is currently running. Please wait for it to complete before starting a new one.",
		})
		return
	}
	defer s.generateMutex.Unlock()

	result, err := s.ReportGenerator.GenerateCompleteReport(
		r.Context(), s.Config, s.Loader, s.LLMClient, reports.NewStorageOrchestrator(s.Storage))
	if err != nil {
		metrics.ReportGenerationsTotal.WithLabelValues("failure").Inc()
		log.Printf("Report generation failed: %v", err)
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.ReportGenerationsTotal.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, result)
}

// HandleListReports lists recent report bundles
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit: must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
		if limit > 100 {
			limit = 100 // Cap at 100
		}
	}

	list, err := s.Storage.ListReports(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		http.Error(w, "Failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   list,
		"count":     len(list),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves stored report files through the storage client,
// so local and GCS bundles share one URL space.
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Security check: prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		log.Printf("Failed to get file from storage: %v", err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleTrend serves the standalone daily-mean trend page.
func (s *Server) HandleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	metric := requestMetric(r)
	page, err := charts.RenderTrendPage(data.tableFor(r), metric)
	if err != nil {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body><h1>No trend available</h1><p>%s</p><p><a href=\"/\">Back to dashboard</a></p></body></html>",
			html.EscapeString(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(page))
}

// HandleExportStats serves the statistics workbook for the current data.
func (s *Server) HandleExportStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.loadTable(r.Context())
	if err != nil {
		http.Error(w, "Failed to load datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rd, err := reports.ComputeReportData(data.tableFor(r), data.Statuses, data.Failures, time.Now().UTC())
	if err != nil {
		http.Error(w, "Failed to compute statistics: "+err.Error(), http.StatusInternalServerError)
		return
	}

	workbook, err := reports.BuildStatsWorkbook(rd.Metrics, rd.GroupOrder, rd.Statistics, rd.Missing, rd.Outliers)
	if err != nil {
		http.Error(w, "Failed to build workbook: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType("stats.xlsx"))
	w.Header().Set("Content-Disposition", `attachment; filename="stats.xlsx"`)
	w.Write(workbook)
}
