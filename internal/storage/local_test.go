package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLocalStorageClient(t *testing.T) {
	tempDir := t.TempDir()
	baseDir := filepath.Join(tempDir, "reports")

	client, err := NewLocalStorageClient(baseDir)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	// Verify base directory was created
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Error("base directory was not created")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() returned unexpected error: %v", err)
	}
}

func TestLocalStorageClient_StoreAndGetFile(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	tests := []struct {
		name     string
		filePath string
		data     []byte
		wantErr  bool
	}{
		{
			name:     "simple file",
			filePath: "summary.md",
			data:     []byte("# Summary"),
			wantErr:  false,
		},
		{
			name:     "nested file creates directories",
			filePath: "2025/08/25/SolarReport-2025-08-25-10-00-00/index.html",
			data:     []byte("<html></html>"),
			wantErr:  false,
		},
		{
			name:     "path traversal rejected",
			filePath: "../outside.txt",
			data:     []byte("nope"),
			wantErr:  true,
		},
		{
			name:     "absolute path rejected",
			filePath: "/etc/solar.txt",
			data:     []byte("nope"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.StoreFile(ctx, tt.filePath, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("StoreFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			got, err := client.GetFile(ctx, tt.filePath)
			if err != nil {
				t.Fatalf("GetFile() error = %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("GetFile() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestLocalStorageClient_FileExists(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	if err := client.StoreFile(ctx, "processed/benin_clean.csv", []byte("GHI\n500\n")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}

	exists, err := client.FileExists(ctx, "processed/benin_clean.csv")
	if err != nil {
		t.Fatalf("FileExists() error = %v", err)
	}
	if !exists {
		t.Error("expected stored file to exist")
	}

	exists, err = client.FileExists(ctx, "processed/ghana_clean.csv")
	if err != nil {
		t.Fatalf("FileExists() error = %v", err)
	}
	if exists {
		t.Error("expected missing file to not exist")
	}

	// A directory is not a file
	if err := client.CreateDir(ctx, "raw"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}
	exists, err = client.FileExists(ctx, "raw")
	if err != nil {
		t.Fatalf("FileExists() error = %v", err)
	}
	if exists {
		t.Error("directory should not count as an existing file")
	}
}

func TestLocalStorageClient_Stat(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	data := []byte("Timestamp,GHI\n2025-08-25 10:00,512.3\n")

	if err := client.StoreFile(ctx, "raw/togo-dapaong_qc.csv", data); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}

	stat, err := client.Stat(ctx, "raw/togo-dapaong_qc.csv")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if stat.Size != int64(len(data)) {
		t.Errorf("Stat() size = %d, want %d", stat.Size, len(data))
	}
	if stat.ModTime.IsZero() {
		t.Error("Stat() returned zero modification time")
	}

	if _, err := client.Stat(ctx, "raw/missing.csv"); err == nil {
		t.Error("Stat() on missing file should return an error")
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	files := []string{
		"bundle/index.html",
		"bundle/stats.json",
		"bundle/assets/ranked_bar.png",
	}
	for _, f := range files {
		if err := client.StoreFile(ctx, f, []byte("x")); err != nil {
			t.Fatalf("StoreFile(%s) error = %v", f, err)
		}
	}

	flat, err := client.ListDir(ctx, "bundle", false)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	// Non-recursive listing includes the assets directory entry itself
	if len(flat) != 3 {
		t.Errorf("non-recursive ListDir() returned %d entries, want 3: %v", len(flat), flat)
	}

	all, err := client.ListDir(ctx, "bundle", true)
	if err != nil {
		t.Fatalf("recursive ListDir() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("recursive ListDir() returned %d files, want 3: %v", len(all), all)
	}
}

func TestLocalStorageClient_ListReports(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	bundles := []string{
		"2025/08/23/SolarReport-2025-08-23-09-00-00/index.html",
		"2025/08/24/SolarReport-2025-08-24-09-00-00/index.html",
		"2025/08/25/SolarReport-2025-08-25-09-00-00/index.html",
	}
	for _, b := range bundles {
		if err := client.StoreFile(ctx, b, []byte("<html></html>")); err != nil {
			t.Fatalf("StoreFile(%s) error = %v", b, err)
		}
		// Sibling artifacts must not show up in the report list
		if err := client.StoreFile(ctx, filepath.Dir(b)+"/stats.json", []byte("{}")); err != nil {
			t.Fatalf("StoreFile() error = %v", err)
		}
	}

	reports, err := client.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("ListReports() returned %d reports, want 3: %v", len(reports), reports)
	}
	if reports[0] != bundles[2] {
		t.Errorf("expected newest report first, got %s", reports[0])
	}

	limited, err := client.ListReports(ctx, 1)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListReports(limit=1) returned %d reports", len(limited))
	}
}
