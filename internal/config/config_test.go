package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("FACE_API_URL")
	os.Unsetenv("FACE_API_DIM")
	os.Unsetenv("MATCH_THRESHOLD")
	os.Unsetenv("CLASSIFY_WORKERS")

	cfg := Load()

	if cfg.FaceAPI.URL != "http://localhost:8000" {
		t.Errorf("expected default face API URL, got '%s'", cfg.FaceAPI.URL)
	}

	if cfg.FaceAPI.Dim != 512 {
		t.Errorf("expected default dim 512, got %d", cfg.FaceAPI.Dim)
	}

	if cfg.Classifier.Threshold != 1.0 {
		t.Errorf("expected default threshold 1.0, got %f", cfg.Classifier.Threshold)
	}

	if cfg.Classifier.Workers != 8 {
		t.Errorf("expected default workers 8, got %d", cfg.Classifier.Workers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FACE_API_URL", "http://faces:9000")
	t.Setenv("MATCH_THRESHOLD", "0.8")
	t.Setenv("CLASSIFY_WORKERS", "2")

	cfg := Load()

	if cfg.FaceAPI.URL != "http://faces:9000" {
		t.Errorf("expected overridden URL, got '%s'", cfg.FaceAPI.URL)
	}

	if cfg.Classifier.Threshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %f", cfg.Classifier.Threshold)
	}

	if cfg.Classifier.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Classifier.Workers)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "not-a-number")
	t.Setenv("CLASSIFY_WORKERS", "-3")

	cfg := Load()

	if cfg.Classifier.Threshold != 1.0 {
		t.Errorf("expected fallback threshold 1.0, got %f", cfg.Classifier.Threshold)
	}

	if cfg.Classifier.Workers != 8 {
		t.Errorf("expected fallback workers 8, got %d", cfg.Classifier.Workers)
	}
}
