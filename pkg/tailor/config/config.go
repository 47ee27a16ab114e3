// Package config loads pipeline configuration from YAML files and the
// environment. The OpenAI credential always comes from the environment
// (a .env file is honored), never from the config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the OpenAI credential.
const APIKeyEnv = "OPENAI_API_KEY"

// Config is the full pipeline configuration.
type Config struct {
	// Model is the chat model identifier.
	Model string `yaml:"model"`

	// ResumeTemperature is the sampling temperature for resume generation.
	ResumeTemperature float64 `yaml:"resume_temperature"`

	// CoverLetterTemperature is the sampling temperature for cover letters.
	CoverLetterTemperature float64 `yaml:"cover_letter_temperature"`

	// RequestTimeout bounds each generation call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CheckpointDir holds the run checkpoint database.
	CheckpointDir string `yaml:"checkpoint_dir"`

	// MetricsDir holds the historical metrics records.
	MetricsDir string `yaml:"metrics_dir"`

	// ResumePath points at the baseline LaTeX resume.
	ResumePath string `yaml:"resume_path"`

	// ProfilePath points at the serialized candidate profile.
	ProfilePath string `yaml:"profile_path"`

	// APIKey is populated from the environment, not the file.
	APIKey string `yaml:"-"`
}

// Default returns the configuration matching the production tuning.
func Default() Config {
	return Config{
		Model:                  "gpt-4o-mini",
		ResumeTemperature:      0.25,
		CoverLetterTemperature: 0.3,
		RequestTimeout:         2 * time.Minute,
		CheckpointDir:          "./checkpoints",
		MetricsDir:             "./metrics",
		ResumePath:             "./data/current_resume.tex",
		ProfilePath:            "./data/profile.json",
	}
}

// Load reads a YAML config file over the defaults, then overlays the
// environment. Pass an empty path to use defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnv overlays environment values. A .env file in the working
// directory is loaded first when present; real environment variables
// win over it.
func (c *Config) loadEnv() {
	_ = godotenv.Load()

	c.APIKey = os.Getenv(APIKeyEnv)
	if model := os.Getenv("TAILORFLOW_MODEL"); model != "" {
		c.Model = model
	}
	if dir := os.Getenv("TAILORFLOW_CHECKPOINT_DIR"); dir != "" {
		c.CheckpointDir = dir
	}
	if dir := os.Getenv("TAILORFLOW_METRICS_DIR"); dir != "" {
		c.MetricsDir = dir
	}
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	var errs []error

	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if c.ResumeTemperature < 0 || c.ResumeTemperature > 2 {
		errs = append(errs, fmt.Errorf("resume_temperature out of range: %v", c.ResumeTemperature))
	}
	if c.CoverLetterTemperature < 0 || c.CoverLetterTemperature > 2 {
		errs = append(errs, fmt.Errorf("cover_letter_temperature out of range: %v", c.CoverLetterTemperature))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.CheckpointDir == "" {
		errs = append(errs, errors.New("checkpoint_dir must not be empty"))
	}
	if c.MetricsDir == "" {
		errs = append(errs, errors.New("metrics_dir must not be empty"))
	}

	return errors.Join(errs...)
}
