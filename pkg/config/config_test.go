package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := Config{
		Gemini: GeminiConfig{
			APIKey: "test-key",
			Model:  "gemini-1.5-flash",
		},
		Database: DatabaseConfig{
			Path: filepath.Join(tmpDir, "test.db"),
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Gemini.APIKey != testConfig.Gemini.APIKey {
		t.Errorf("Expected API key %s, got %s", testConfig.Gemini.APIKey, cfg.Gemini.APIKey)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Expected default listen address, got %s", cfg.Listen)
	}
	if cfg.LaTeX.Binary != "pdflatex" {
		t.Errorf("Expected default binary, got %s", cfg.LaTeX.Binary)
	}
	if cfg.LaTeX.TimeoutSeconds != 30 {
		t.Errorf("Expected default timeout, got %d", cfg.LaTeX.TimeoutSeconds)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := Config{
		Gemini:   GeminiConfig{APIKey: "file-key"},
		Database: DatabaseConfig{Path: filepath.Join(tmpDir, "test.db")},
	}
	data, err := json.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("Expected env override, got %s", cfg.Gemini.APIKey)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name: "valid config",
			config: Config{
				Database: DatabaseConfig{Path: "resumeforge.db"},
			},
			wantError: false,
		},
		{
			name:      "missing database path",
			config:    Config{},
			wantError: true,
		},
		{
			name: "nonexistent vocabulary file",
			config: Config{
				Database:       DatabaseConfig{Path: "resumeforge.db"},
				VocabularyPath: "/nonexistent/vocab.yaml",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Database.Path == "" {
		t.Error("Default database path was not set")
	}
	if cfg.LaTeX.Binary != "pdflatex" {
		t.Errorf("Expected pdflatex default, got %s", cfg.LaTeX.Binary)
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
