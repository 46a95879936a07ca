// Command local-runner generates one report bundle on local disk
// without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/llm"
	"github.com/FEBEN-G/solar-challenge-week0/internal/reports"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// LocalRunner drives one report generation without the HTTP server
type LocalRunner struct {
	cfg       *config.Config
	loader    *dataset.Loader
	llmClient *llm.OpenAIClient
	store     storage.StorageClient
}

func NewLocalRunner(cfg *config.Config) (*LocalRunner, error) {
	dataStore, err := storage.NewLocalStorageClient(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	catalog := dataset.DefaultCatalog()
	if cfg.DatasetConfig != "" {
		catalog, err = dataset.LoadCatalog(cfg.DatasetConfig)
		if err != nil {
			return nil, err
		}
	}

	reportStore, err := storage.NewLocalStorageClient(cfg.LocalReportsDir)
	if err != nil {
		return nil, err
	}

	runner := &LocalRunner{
		cfg:    cfg,
		loader: dataset.NewLoader(dataStore, catalog),
		store:  reportStore,
	}
	if cfg.OpenAIAPIKey != "" {
		runner.llmClient = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return runner, nil
}

func (lr *LocalRunner) Run(ctx context.Context) error {
	startTime := time.Now()
	log.Println("🚀 Starting local report generation...")

	generator := reports.NewReportGenerator()
	orchestrator := reports.NewStorageOrchestrator(lr.store)
	result, err := generator.GenerateCompleteReport(ctx, lr.cfg, lr.loader, lr.llmClient, orchestrator)
	if err != nil {
		return err
	}

	duration := time.Since(startTime)
	log.Printf("🎉 Report generation completed in %v", duration)

	if folder, ok := result["folderPath"].(string); ok {
		reportDir := filepath.Join(lr.cfg.LocalReportsDir, folder)
		log.Printf("📁 Report directory: %s", reportDir)
		log.Printf("🌐 Open in browser: file://%s", filepath.Join(mustGetWD(), reportDir, "index.html"))
	}

	summaryJSON, _ := json.MarshalIndent(result, "", "  ")
	log.Printf("📊 Generation summary:\n%s", summaryJSON)

	return nil
}

func mustGetWD() string {
	wd, err := os.Getwd()
	if err != nil {
		return "/tmp"
	}
	return wd
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	// This tool always writes to local disk
	cfg.DeploymentMode = "local"

	runner, err := NewLocalRunner(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to set up runner: %v", err)
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("❌ Report generation failed: %v", err)
	}
}
