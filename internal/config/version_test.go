package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetVersion(t *testing.T) {
	originalVersion := os.Getenv("APP_VERSION")
	defer func() {
		if originalVersion != "" {
			os.Setenv("APP_VERSION", originalVersion)
		} else {
			os.Unsetenv("APP_VERSION")
		}
	}()

	t.Run("version from environment variable", func(t *testing.T) {
		os.Setenv("APP_VERSION", "1.2.3")
		if v := GetVersion(); v != "1.2.3" {
			t.Errorf("Expected version '1.2.3', got '%s'", v)
		}
	})

	t.Run("version from VERSION file", func(t *testing.T) {
		os.Unsetenv("APP_VERSION")

		tempDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tempDir, "VERSION"), []byte("2.4.0\n"), 0644); err != nil {
			t.Fatalf("Failed to create test VERSION file: %v", err)
		}

		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(tempDir)

		if v := GetVersion(); v != "2.4.0" {
			t.Errorf("Expected version '2.4.0' from VERSION file, got '%s'", v)
		}
	})

	t.Run("fallback without env or file", func(t *testing.T) {
		os.Unsetenv("APP_VERSION")

		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		if v := GetVersion(); v != fallbackVersion {
			t.Errorf("Expected fallback version '%s', got '%s'", fallbackVersion, v)
		}
	})
}
