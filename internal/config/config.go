package config

import (
	"os"
	"strconv"
	"time"

	"careerpath/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Model    ModelConfig
	Server   ServerConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Session  SessionConfig
	Log      LogConfig
}

// DataConfig holds dataset and question bank locations
type DataConfig struct {
	File             string
	Sheet            string
	TargetColumn     string
	QuestionBankFile string
}

// ModelConfig holds the fixed training hyperparameters
type ModelConfig struct {
	FeatureCount int
	TestRatio    float64
	Seed         int64
	MaxDepth     int
	Criterion    string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AdminConfig holds the profiling/health listener settings
type AdminConfig struct {
	Port    string
	Enabled bool
}

// DatabaseConfig is optional; an empty URL disables prediction history
type DatabaseConfig struct {
	URL string
}

// SessionConfig bounds how long an idle questionnaire session is kept
type SessionConfig struct {
	TTL time.Duration
}

// LogConfig mirrors LOG_LEVEL / LOG_FORMAT
type LogConfig struct {
	Level string
	JSON  bool
}

const (
	DefaultSheet        = "in"
	DefaultTargetColumn = "Predicted_Career_Field"
	DefaultFeatureCount = 30
	DefaultTestRatio    = 0.2
	DefaultSeed         = 42
	DefaultCriterion    = "gini"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Model:    *loadModelConfig(),
		Server:   *loadServerConfig(),
		Admin:    *loadAdminConfig(),
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Session:  SessionConfig{TTL: getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour)},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
			JSON:  os.Getenv("LOG_FORMAT") == "json",
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:             getEnvOrDefault("DATASET_FILE", ""),
		Sheet:            getEnvOrDefault("DATASET_SHEET", DefaultSheet),
		TargetColumn:     getEnvOrDefault("TARGET_COLUMN", DefaultTargetColumn),
		QuestionBankFile: getEnvOrDefault("QUESTION_BANK_FILE", ""),
	}
}

func loadModelConfig() *ModelConfig {
	return &ModelConfig{
		FeatureCount: getEnvIntOrDefault("FEATURE_COUNT", DefaultFeatureCount),
		TestRatio:    getEnvFloatOrDefault("TEST_RATIO", DefaultTestRatio),
		Seed:         int64(getEnvIntOrDefault("RANDOM_SEED", DefaultSeed)),
		MaxDepth:     getEnvIntOrDefault("TREE_MAX_DEPTH", 0),
		Criterion:    getEnvOrDefault("TREE_CRITERION", DefaultCriterion),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAdminConfig() *AdminConfig {
	return &AdminConfig{
		Port:    getEnvOrDefault("ADMIN_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("ADMIN_ENABLED", true),
	}
}

// Validate checks required fields and hyperparameter ranges
func Validate(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATASET_FILE is required")
	}
	if config.Data.TargetColumn == "" {
		return errors.ConfigInvalid("TARGET_COLUMN must not be empty")
	}
	if config.Model.FeatureCount < 1 {
		return errors.ConfigInvalid("FEATURE_COUNT must be at least 1")
	}
	if config.Model.TestRatio <= 0 || config.Model.TestRatio >= 1 {
		return errors.ConfigInvalid("TEST_RATIO must be between 0 and 1")
	}
	if config.Model.MaxDepth < 0 {
		return errors.ConfigInvalid("TREE_MAX_DEPTH must not be negative")
	}
	if config.Model.Criterion != "" && config.Model.Criterion != "gini" && config.Model.Criterion != "entropy" {
		return errors.ConfigInvalid("TREE_CRITERION must be gini or entropy")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
