// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	inboxPath := cfg.Sources.InboxExportPath
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Sources       SourcesConfig       `yaml:"sources"`
	Report        ReportConfig        `yaml:"report"`
	Refund        RefundConfig        `yaml:"refund"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// SourcesConfig holds discovery connector settings
type SourcesConfig struct {
	InboxExportPath  string `yaml:"inbox_export_path"`
	StatementCSVPath string `yaml:"statement_csv_path"`
}

// ReportConfig holds report writer settings
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	XLSX      bool   `yaml:"xlsx"`
}

// RefundConfig holds refund-request generator settings
type RefundConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AuditSchedule  string   `yaml:"audit_schedule"` // cron spec, empty = no scheduled audits
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${AUDITOR_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Sources: SourcesConfig{
			InboxExportPath:  getEnv("AUDITOR_INBOX_EXPORT", "data/input/inbox_export.json"),
			StatementCSVPath: getEnv("AUDITOR_STATEMENT_CSV", "data/input/statement.csv"),
		},
		Report: ReportConfig{
			OutputDir: getEnv("AUDITOR_OUTPUT_DIR", "data/output"),
			XLSX:      getEnv("AUDITOR_XLSX_REPORT", "") == "true",
		},
		Refund: RefundConfig{
			Enabled:   false,
			OutputDir: getEnv("AUDITOR_REFUND_DIR", "data/output/refunds"),
			FromName:  getEnv("AUDITOR_FROM_NAME", ""),
			FromEmail: getEnv("AUDITOR_FROM_EMAIL", ""),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("AUDITOR_DB_PATH", "subscription_audit.db"),
		},
		API: APIConfig{
			Port:          getEnvInt("AUDITOR_API_PORT", 8080),
			AuditSchedule: getEnv("AUDITOR_AUDIT_SCHEDULE", ""),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
