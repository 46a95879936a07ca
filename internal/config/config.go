package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the solar comparison dashboard
type Config struct {
	// Server configuration
	Port        string `env:"PORT,default=8981"`
	Environment string `env:"ENVIRONMENT,default=development"`

	// Data layout: processed files under {DataDir}/processed, raw station
	// exports under {DataDir}/raw
	DataDir       string `env:"DATA_DIR,default=data"`
	DatasetConfig string `env:"DATASET_CONFIG"`
	SyntheticSeed int64  `env:"SYNTHETIC_SEED,default=42"`

	// Report storage (local disk or GCS)
	DeploymentMode  string `env:"DEPLOYMENT_MODE,default=local"`
	GCPProjectID    string `env:"GCP_PROJECT_ID"`
	GCSBucket       string `env:"GCS_BUCKET"`
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`

	// OpenAI narrative for report bundles (optional, disabled when the
	// key is empty)
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4.1"`

	// Source for cmd/fetch-data raw CSV downloads
	DataBaseURL string `env:"DATA_BASE_URL,default=https://energydata.info/dataset/solar-measurements"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case "local", "gcs":
	default:
		return fmt.Errorf("invalid DEPLOYMENT_MODE %q: must be local or gcs", c.DeploymentMode)
	}
	if c.DeploymentMode == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE=gcs")
	}
	return nil
}
