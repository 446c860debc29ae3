// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the docent service configuration. Provider API keys
// (GEMINI_API_KEY, OPENAI_API_KEY, OLLAMA_URL) are read by the identify
// providers directly.
type Config struct {
	Port          string `env:"DOCENT_PORT" envDefault:"8888"`
	DBPath        string `env:"DOCENT_DB" envDefault:"docent.db"`
	UploadsDir    string `env:"DOCENT_UPLOADS_DIR" envDefault:"uploads"`
	StaticDir     string `env:"DOCENT_STATIC_DIR" envDefault:"static"`
	ManagerSecret string `env:"DOCENT_MANAGER_SECRET" envDefault:"admin123"`
	Provider      string `env:"IDENTIFY_PROVIDER" envDefault:"gemini"`
	Model         string `env:"IDENTIFY_MODEL"`
	ToursSeedPath string `env:"DOCENT_TOURS_SEED"`
	AnalyticsLog  string `env:"DOCENT_ANALYTICS_LOG"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
