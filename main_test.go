package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FEBEN-G/solar-challenge-week0/internal/config"
	"github.com/FEBEN-G/solar-challenge-week0/internal/server"
)

func TestHealthEndpoint(t *testing.T) {
	cfg := &config.Config{
		Port:            "8981",
		DataDir:         t.TempDir(),
		SyntheticSeed:   42,
		DeploymentMode:  "local",
		LocalReportsDir: t.TempDir(),
	}

	srv, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("server creation failed: %v", err)
	}
	defer srv.Close()

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	srv.HandleHealth(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusOK)
	}

	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestConfigLoad(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Setenv("PORT", "9000")
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := config.Load(ctx)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port: got %q want 9000", cfg.Port)
	}
	if cfg.DeploymentMode != "local" {
		t.Errorf("deployment mode default: got %q want local", cfg.DeploymentMode)
	}
}
