package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Gemini   GeminiConfig   `json:"gemini"`
	LaTeX    LaTeXConfig    `json:"latex"`
	Database DatabaseConfig `json:"database"`
	Listen   string         `json:"listen,omitempty"`
	// VocabularyPath optionally points at a YAML file replacing the
	// built-in extraction vocabulary.
	VocabularyPath string `json:"vocabulary_path,omitempty"`
}

// GeminiConfig holds the AI provider settings. An empty APIKey disables the
// model-backed extractor; the deterministic fallback still works.
type GeminiConfig struct {
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model,omitempty"`
}

// LaTeXConfig holds pdflatex-related configuration.
type LaTeXConfig struct {
	Binary         string `json:"binary,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// Load reads configuration from file with environment variable overrides. A
// local .env file, if present, is loaded first.
func Load(configPath string) (cfg Config, err error) {
	// Missing .env is fine; it only exists in development setups.
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path, err = defaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'resumeforge init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	// Environment overrides win over file values.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if dbPath := os.Getenv("RESUMEFORGE_DB"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if listen := os.Getenv("RESUMEFORGE_LISTEN"); listen != "" {
		cfg.Listen = listen
	}
	if binary := os.Getenv("PDFLATEX_PATH"); binary != "" {
		cfg.LaTeX.Binary = binary
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() (err error) {
	if c.Database.Path == "" {
		err = errors.New("database.path is required in config")
		return err
	}

	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LaTeX.Binary == "" {
		c.LaTeX.Binary = "pdflatex"
	}
	if c.LaTeX.TimeoutSeconds <= 0 {
		c.LaTeX.TimeoutSeconds = 30
	}

	if c.VocabularyPath != "" {
		_, err = os.Stat(c.VocabularyPath)
		if os.IsNotExist(err) {
			err = errors.Errorf("vocabulary file not found: %s", c.VocabularyPath)
			return err
		}
		err = nil
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = defaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		Gemini: GeminiConfig{
			APIKey: "",
			Model:  "gemini-1.5-flash",
		},
		LaTeX: LaTeXConfig{
			Binary:         "pdflatex",
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "resumeforge.db"),
		},
		Listen: ":8080",
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}

func defaultPath() (path string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resumeforge", "config.json")
	return path, err
}
