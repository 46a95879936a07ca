package storage

import (
	"testing"
	"time"
)

func TestGenerateReportFolderPath(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		expected  string
	}{
		{
			name:      "standard date and time",
			timestamp: time.Date(2025, 8, 25, 14, 30, 45, 0, time.UTC),
			expected:  "2025/08/25/SolarReport-2025-08-25-14-30-45",
		},
		{
			name:      "new year date",
			timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected:  "2025/01/01/SolarReport-2025-01-01-00-00-00",
		},
		{
			name:      "single digit month and day",
			timestamp: time.Date(2025, 3, 5, 8, 7, 6, 0, time.UTC),
			expected:  "2025/03/05/SolarReport-2025-03-05-08-07-06",
		},
		{
			name:      "leap year date",
			timestamp: time.Date(2024, 2, 29, 12, 15, 30, 0, time.UTC),
			expected:  "2024/02/29/SolarReport-2024-02-29-12-15-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateReportFolderPath(tt.timestamp)
			if result != tt.expected {
				t.Errorf("GenerateReportFolderPath() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGenerateReportFolderPathUniqueness(t *testing.T) {
	// Paths one second apart must differ
	timestamp1 := time.Date(2025, 8, 25, 14, 30, 45, 0, time.UTC)
	timestamp2 := timestamp1.Add(time.Second)

	if GenerateReportFolderPath(timestamp1) == GenerateReportFolderPath(timestamp2) {
		t.Error("Different timestamps should generate different paths")
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"JSON file", "stats.json", "application/json"},
		{"HTML file", "index.html", "text/html"},
		{"CSS file", "styles.css", "text/css"},
		{"JS file", "echarts.min.js", "application/javascript"},
		{"Text file", "readme.txt", "text/plain"},
		{"Markdown file", "summary.md", "text/markdown"},
		{"CSV file", "benin_clean.csv", "text/csv"},
		{"XLSX workbook", "stats.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"PNG image", "ranked_bar.png", "image/png"},
		{"JPEG image", "photo.jpg", "image/jpeg"},
		{"SVG image", "icon.svg", "image/svg+xml"},
		{"nested path", "2025/08/25/SolarReport-2025-08-25-14-30-45/index.html", "text/html"},
		{"multiple dots", "backup.data.json", "application/json"},
		{"uppercase extension not matched", "data.JSON", "application/octet-stream"},
		{"unknown file type", "data.xyz", "application/octet-stream"},
		{"no extension", "Dockerfile", "application/octet-stream"},
		{"empty filename", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetContentType(tt.filename)
			if result != tt.expected {
				t.Errorf("GetContentType(%s) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}
