// Package config assembles runtime configuration from the environment.
// A .env file is honored when present; real environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the complete application configuration.
type Config struct {
	Data   DataConfig
	Report ReportConfig
	Server ServerConfig
	// Demo serves generated tables instead of export files.
	Demo bool
}

// DataConfig locates the datamart export files.
type DataConfig struct {
	ModelFile     string
	PredictorFile string
}

// ReportConfig controls report content.
type ReportConfig struct {
	Facets       []string // importance facet columns
	LookbackDays int      // response calendar window
	FillNullDays bool
	OutputDir    string
	Parallelism  int
}

// ServerConfig holds the report viewer settings.
type ServerConfig struct {
	Port string
}

// Load reads configuration, loading .env first when one exists.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Data: DataConfig{
			ModelFile:     os.Getenv("ADM_MODEL_FILE"),
			PredictorFile: os.Getenv("ADM_PREDICTOR_FILE"),
		},
		Report: ReportConfig{
			Facets:       splitList(getEnv("ADM_FACETS", "ConfigurationName")),
			LookbackDays: getEnvInt("ADM_LOOKBACK_DAYS", 15),
			FillNullDays: getEnvBool("ADM_FILL_NULL_DAYS", true),
			OutputDir:    getEnv("ADM_OUTPUT_DIR", "."),
			Parallelism:  getEnvInt("ADM_PARALLELISM", 0),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Demo: getEnvBool("ADM_DEMO", false),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !c.Demo && c.Data.ModelFile == "" {
		return fmt.Errorf("ADM_MODEL_FILE is required")
	}
	if !c.Demo && c.Data.PredictorFile == "" {
		return fmt.Errorf("ADM_PREDICTOR_FILE is required")
	}
	if c.Report.LookbackDays <= 0 {
		return fmt.Errorf("ADM_LOOKBACK_DAYS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
