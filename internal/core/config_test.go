package core

import (
	"errors"
	"os"
	"testing"
)

var configEnv = []string{
	"LOG_LEVEL", "DEBUG", "BUSINSPECT_DATA_DIR", "BUSINSPECT_STORE",
	"BUSINSPECT_STORAGE_KEY", "BUSINSPECT_TEMPLATE", "BUSINSPECT_AUTOSAVE",
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		envVars       map[string]string
		expectedLevel string
		expectedStore string
		expectedDir   string
		expectedKey   string
		expectedAuto  bool
		expectError   bool
	}{
		{
			name:          "default values",
			envVars:       map[string]string{},
			expectedLevel: "info",
			expectedStore: "yaml",
			expectedDir:   ".businspect",
			expectedKey:   "bus_inspection_v1",
			expectedAuto:  true,
		},
		{
			name: "custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "warn",
			},
			expectedLevel: "warn",
			expectedStore: "yaml",
			expectedDir:   ".businspect",
			expectedKey:   "bus_inspection_v1",
			expectedAuto:  true,
		},
		{
			name: "debug flag overrides log level",
			envVars: map[string]string{
				"LOG_LEVEL": "warn",
				"DEBUG":     "1",
			},
			expectedLevel: "debug",
			expectedStore: "yaml",
			expectedDir:   ".businspect",
			expectedKey:   "bus_inspection_v1",
			expectedAuto:  true,
		},
		{
			name: "sqlite store in custom dir",
			envVars: map[string]string{
				"BUSINSPECT_STORE":       "sqlite",
				"BUSINSPECT_DATA_DIR":    "/var/lib/businspect",
				"BUSINSPECT_STORAGE_KEY": "bus_17",
				"BUSINSPECT_AUTOSAVE":    "false",
			},
			expectedLevel: "info",
			expectedStore: "sqlite",
			expectedDir:   "/var/lib/businspect",
			expectedKey:   "bus_17",
			expectedAuto:  false,
		},
		{
			name: "unknown store",
			envVars: map[string]string{
				"BUSINSPECT_STORE": "postgres",
			},
			expectError: true,
		},
		{
			name: "bad autosave flag",
			envVars: map[string]string{
				"BUSINSPECT_AUTOSAVE": "sometimes",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range configEnv {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected *ValidationError, got %T", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if cfg.LogLevel != tt.expectedLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.expectedLevel)
			}
			if cfg.Store != tt.expectedStore {
				t.Errorf("Store = %v, want %v", cfg.Store, tt.expectedStore)
			}
			if cfg.DataDir != tt.expectedDir {
				t.Errorf("DataDir = %v, want %v", cfg.DataDir, tt.expectedDir)
			}
			if cfg.StorageKey != tt.expectedKey {
				t.Errorf("StorageKey = %v, want %v", cfg.StorageKey, tt.expectedKey)
			}
			if cfg.AutoSave != tt.expectedAuto {
				t.Errorf("AutoSave = %v, want %v", cfg.AutoSave, tt.expectedAuto)
			}
			if cfg.TemplatePath != "" {
				t.Errorf("TemplatePath = %q, want empty", cfg.TemplatePath)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{DataDir: "d", Store: "yaml", StorageKey: "k"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	noKey := valid
	noKey.StorageKey = ""
	if err := noKey.Validate(); err == nil {
		t.Error("Expected error for empty storage key")
	}

	noDir := valid
	noDir.DataDir = ""
	if err := noDir.Validate(); err == nil {
		t.Error("Expected error for empty data dir")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env var set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env var not set",
			key:          "TEST_VAR_MISSING",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			result := getEnvOrDefault(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnvOrDefault() = %v, want %v", result, tt.expected)
			}
		})
	}
}
