// Command fetch-data downloads the raw station exports named in the
// dataset catalog into the local data directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/fetchers"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

func main() {
	baseURL := flag.String("base-url", "", "override the download base URL")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall download timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		cfg.DataBaseURL = *baseURL
	}

	catalog := dataset.DefaultCatalog()
	if cfg.DatasetConfig != "" {
		catalog, err = dataset.LoadCatalog(cfg.DatasetConfig)
		if err != nil {
			log.Fatalf("Failed to load dataset catalog: %v", err)
		}
	}

	store, err := storage.NewLocalStorageClient(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data directory %s: %v", cfg.DataDir, err)
	}
	defer store.Close()

	results, err := fetchers.NewDataFetcher().FetchAll(ctx, cfg.DataBaseURL, catalog.Sources, store)
	if err != nil {
		log.Fatalf("Fetch aborted: %v", err)
	}

	fetched := 0
	for _, res := range results {
		if res.Err == nil {
			fetched++
		}
	}
	log.Printf("Fetched %d of %d station exports into %s/raw", fetched, len(results), cfg.DataDir)
	if fetched == 0 {
		os.Exit(1)
	}
}
