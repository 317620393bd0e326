package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"templegraph/backend/internal/constants"
	apperrors "templegraph/backend/pkg/errors"
)

// Report output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all application configuration
type Config struct {
	// App
	Env      string
	LogLevel string
	Port     string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string // empty selects the server default

	// Loader
	DataFile     string
	ReportFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", ""),
		Port:          getEnv("PORT", "8080"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", ""),
		DataFile:      getEnv("TEMPLE_DATA_FILE", constants.DefaultDataFile),
		ReportFormat:  getEnv("REPORT_FORMAT", FormatText),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.DataFile == "" {
		return apperrors.NewConfigMissingRequired("TEMPLE_DATA_FILE")
	}
	if !ValidFormat(c.ReportFormat) {
		return apperrors.NewConfigValidationFailed("REPORT_FORMAT", fmt.Sprintf("unknown format %q", c.ReportFormat))
	}
	return nil
}

// ValidFormat reports whether f is a supported report format
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
