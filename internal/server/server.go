package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/llm"
	"github.com/FEBEN-G/solar-challenge-week0/internal/metrics"
	"github.com/FEBEN-G/solar-challenge-week0/internal/reports"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// Server wires the dashboard's HTTP surface over the dataset loader, the
// report pipeline and the storage client.
type Server struct {
	Config          *config.Config
	Loader          *dataset.Loader
	LLMClient       *llm.OpenAIClient
	ReportGenerator *reports.ReportGenerator
	Storage         storage.StorageClient

	// generateMutex serializes report generation; concurrent requests
	// are rejected instead of queued.
	generateMutex sync.Mutex
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Measurement files always come from local disk; the deployment mode
	// only decides where report bundles go.
	dataStore, err := storage.NewLocalStorageClient(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", cfg.DataDir, err)
	}

	catalog := dataset.DefaultCatalog()
	if cfg.DatasetConfig != "" {
		catalog, err = dataset.LoadCatalog(cfg.DatasetConfig)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded dataset catalog from %s (%d datasets)", cfg.DatasetConfig, len(catalog.Sources))
	}

	reportStore, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.DeploymentMode), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}
	log.Printf("Report storage initialized (%s mode)", cfg.DeploymentMode)

	server := &Server{
		Config:          cfg,
		Loader:          dataset.NewLoader(dataStore, catalog),
		ReportGenerator: reports.NewReportGenerator(),
		Storage:         reportStore,
	}

	if cfg.OpenAIAPIKey != "" {
		server.LLMClient = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		log.Printf("Analyst narrative enabled (model %s)", cfg.OpenAIModel)
	}

	return server, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/health", s.instrument("health", s.HandleHealth))
	mux.Handle("/api/summary", s.instrument("api_summary", s.HandleAPISummary))
	mux.Handle("/api/outliers", s.instrument("api_outliers", s.HandleAPIOutliers))
	mux.Handle("/api/missing", s.instrument("api_missing", s.HandleAPIMissing))
	mux.Handle("/api/status", s.instrument("api_status", s.HandleAPIStatus))
	mux.Handle("/generate", s.instrument("generate", s.HandleGenerate))
	mux.Handle("/reports", s.instrument("reports", s.HandleListReports))
	mux.Handle("/files/", s.instrument("files", s.HandleFileProxy))
	mux.Handle("/trend", s.instrument("trend", s.HandleTrend))
	mux.Handle("/export/stats.xlsx", s.instrument("export_stats", s.HandleExportStats))
	mux.Handle("/metrics", promhttp.Handler())

	// Root is the dashboard and the catch-all.
	mux.Handle("/", s.instrument("dashboard", s.HandleDashboard))

	return mux
}

// instrument records request latency per route.
func (s *Server) instrument(route string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		handler(w, r)
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// loadTable resolves the full fallback chain for the current request.
func (s *Server) loadTable(ctx context.Context) (*loadedData, error) {
	table, statuses, failures, err := s.Loader.LoadOrGenerate(ctx,
		s.Loader.KnownDatasets(), dataset.DefaultSampleConfig(s.Config.SyntheticSeed))
	if err != nil {
		return nil, err
	}
	return &loadedData{Table: table, Statuses: statuses, Failures: failures}, nil
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
