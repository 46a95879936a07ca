package storage

import (
	"context"
	"time"
)

// FileStat describes a stored file's modification state. The dataset
// cache keys on it to detect changed source files.
type FileStat struct {
	Size    int64
	ModTime time.Time
}

// StorageClient defines the interface for basic storage operations
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// CreateDir creates a directory (and any necessary parent directories)
	CreateDir(ctx context.Context, dirPath string) error

	// StoreFile stores a file at the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists contents of a directory
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// Stat returns size and modification time for a stored file
	Stat(ctx context.Context, filePath string) (*FileStat, error)

	// ListReports lists stored report bundles, newest first
	ListReports(ctx context.Context, limit int) ([]string, error)
}
