package reports

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// StorageOrchestrator handles the business logic of storing generated files
type StorageOrchestrator struct {
	storage storage.StorageClient
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(store storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage: store,
	}
}

// StoreAllFiles writes every generated file under the report folder. The
// storage client abstracts local disk and GCS, so both modes share this
// code path. The chart scratch dir is removed once its files are stored.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) error {
	if files.TempChartDir != "" {
		defer os.RemoveAll(files.TempChartDir)
	}

	store := func(name string, data []byte) error {
		return so.storage.StoreFile(ctx, files.FolderPath+"/"+name, data)
	}

	if err := store("index.html", []byte(files.HTMLContent)); err != nil {
		return fmt.Errorf("failed to store HTML report: %w", err)
	}

	for filename, data := range files.JSONFiles {
		if err := store(filename, data); err != nil {
			return fmt.Errorf("failed to store JSON file %s: %w", filename, err)
		}
	}

	for filename, data := range files.AssetFiles {
		if err := store(filename, data); err != nil {
			return fmt.Errorf("failed to store asset file %s: %w", filename, err)
		}
	}

	for _, chartPath := range files.ChartFiles {
		data, err := os.ReadFile(chartPath)
		if err != nil {
			log.Printf("Warning: Failed to read chart file %s: %v", chartPath, err)
			continue
		}
		if err := store(filepath.Base(chartPath), data); err != nil {
			return fmt.Errorf("failed to store chart file %s: %w", chartPath, err)
		}
	}

	log.Printf("Report stored under %s", files.FolderPath)
	return nil
}
