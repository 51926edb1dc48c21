package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	FaceAPI    FaceAPIConfig
	Classifier ClassifierConfig
	Database   DatabaseConfig
}

type FaceAPIConfig struct {
	URL string // base URL of the face detection/embedding service
	Dim int    // embedding dimensionality reported by the service
}

type ClassifierConfig struct {
	Threshold float64 // maximum Euclidean distance for a face match (exclusive)
	Workers   int     // parallel workers for batch classification
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL for the embedding cache (empty disables caching)
	MaxOpenConns int
	MaxIdleConns int
}

// defaults mirrors the embedded defaults.yaml structure.
type defaults struct {
	Classifier struct {
		Threshold float64 `yaml:"threshold"`
		Workers   int     `yaml:"workers"`
	} `yaml:"classifier"`
	FaceAPI struct {
		URL string `yaml:"url"`
		Dim int    `yaml:"dim"`
	} `yaml:"face_api"`
	Database struct {
		MaxOpenConns int `yaml:"max_open_conns"`
		MaxIdleConns int `yaml:"max_idle_conns"`
	} `yaml:"database"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var def defaults
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		FaceAPI: FaceAPIConfig{
			URL: envString("FACE_API_URL", def.FaceAPI.URL),
			Dim: envInt("FACE_API_DIM", def.FaceAPI.Dim),
		},
		Classifier: ClassifierConfig{
			Threshold: envFloat("MATCH_THRESHOLD", def.Classifier.Threshold),
			Workers:   envInt("CLASSIFY_WORKERS", def.Classifier.Workers),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", def.Database.MaxOpenConns),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", def.Database.MaxIdleConns),
		},
	}
}
