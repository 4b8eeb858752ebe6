package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	Port         int
	DatasetPath  string
	DatabasePath string

	// LLM collaborator keys. Both optional: with neither set the engine
	// runs heuristic-only.
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string

	CatalogMinCalories float64
	PlannerTimeout     time.Duration
	SearchCacheSize    int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		return nil, fmt.Errorf("DATASET_PATH environment variable not set")
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/nutriguide.db"
	}

	port := 8080
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("PORT must be a positive integer, got %q", v)
		}
		port = p
	}

	minCalories := 0.0
	if v := os.Getenv("CATALOG_MIN_CALORIES"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("CATALOG_MIN_CALORIES must be a non-negative number, got %q", v)
		}
		minCalories = f
	}

	plannerTimeout := 25 * time.Second
	if v := os.Getenv("PLANNER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("PLANNER_TIMEOUT must be a positive duration, got %q", v)
		}
		plannerTimeout = d
	}

	cacheSize := 256
	if v := os.Getenv("SEARCH_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SEARCH_CACHE_SIZE must be a positive integer, got %q", v)
		}
		cacheSize = n
	}

	return &Config{
		Port:               port,
		DatasetPath:        datasetPath,
		DatabasePath:       databasePath,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		CatalogMinCalories: minCalories,
		PlannerTimeout:     plannerTimeout,
		SearchCacheSize:    cacheSize,
	}, nil
}
