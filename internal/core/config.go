package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/repository"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// Config holds the application configuration.
type Config struct {
	LogLevel     string // debug, info, warn, error
	DataDir      string // root of persisted inspection data
	Store        string // yaml or sqlite
	StorageKey   string // key the inspection state is saved under
	TemplatePath string // optional checklist template; empty uses the built-in one
	AutoSave     bool   // save silently after every change
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	autoSave, err := strconv.ParseBool(getEnvOrDefault("BUSINSPECT_AUTOSAVE", "true"))
	if err != nil {
		return nil, &ValidationError{Field: "BUSINSPECT_AUTOSAVE", Message: "must be a boolean", Err: err}
	}

	cfg := &Config{
		LogLevel:     logLevel,
		DataDir:      getEnvOrDefault("BUSINSPECT_DATA_DIR", ".businspect"),
		Store:        getEnvOrDefault("BUSINSPECT_STORE", repository.BackendYAML),
		StorageKey:   getEnvOrDefault("BUSINSPECT_STORAGE_KEY", schema.DefaultStorageKey),
		TemplatePath: os.Getenv("BUSINSPECT_TEMPLATE"),
		AutoSave:     autoSave,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the session cannot run with.
func (c *Config) Validate() error {
	switch c.Store {
	case repository.BackendYAML, repository.BackendSQLite:
	default:
		return &ValidationError{Field: "BUSINSPECT_STORE", Message: fmt.Sprintf("unknown store %q (want yaml or sqlite)", c.Store)}
	}
	if c.DataDir == "" {
		return &ValidationError{Field: "BUSINSPECT_DATA_DIR", Message: "must not be empty"}
	}
	if c.StorageKey == "" {
		return &ValidationError{Field: "BUSINSPECT_STORAGE_KEY", Message: "must not be empty"}
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
