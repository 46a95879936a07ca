package config

import (
	"os"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns the service version: APP_VERSION when set by CI/CD,
// else the VERSION file in the working directory, else a fixed fallback.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	if content, err := os.ReadFile("VERSION"); err == nil {
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return fallbackVersion
}
