// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logging"
	"github.com/jonathan/resume-screener/internal/retry"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults.
type Config struct {
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Retry      RetryConfig      `json:"retry" yaml:"retry"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Logger     logging.Config   `json:"logger" yaml:"logger"`

	// Concurrency bounds how many documents are evaluated at once
	Concurrency int  `json:"concurrency,omitempty" yaml:"concurrency" validate:"omitempty,min=1,max=64"`
	Verbose     bool `json:"verbose,omitempty" yaml:"verbose"` // Print human-readable results
}

// LLMConfig selects the model used by the classifier's model stage
type LLMConfig struct {
	Disabled  bool   `json:"disabled,omitempty" yaml:"disabled"` // Skip the model stage entirely
	Provider  string `json:"provider,omitempty" yaml:"provider" validate:"omitempty,oneof=gemini"`
	ModelTier string `json:"model_tier,omitempty" yaml:"model_tier" validate:"omitempty,oneof=lite standard advanced"`
	Model     string `json:"model,omitempty" yaml:"model"` // Overrides the model name of ModelTier
	APIKey    string `json:"api_key,omitempty" yaml:"api_key"`
}

// RetryConfig tunes retries of model calls. Delays are in milliseconds.
type RetryConfig struct {
	MaxAttempts int  `json:"max_attempts,omitempty" yaml:"max_attempts" validate:"omitempty,min=1,max=10"`
	BaseDelayMS int  `json:"base_delay_ms,omitempty" yaml:"base_delay_ms" validate:"omitempty,min=1"`
	MaxDelayMS  int  `json:"max_delay_ms,omitempty" yaml:"max_delay_ms" validate:"omitempty,min=1"`
	JitterMS    *int `json:"jitter_ms,omitempty" yaml:"jitter_ms" validate:"omitempty,min=0"` // Unset keeps the policy jitter, 0 disables it
}

// ExtractionConfig configures text extraction
type ExtractionConfig struct {
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir"` // Scratch directory for legacy .doc files
}

// Defaults returns the configuration used when no file is given
func Defaults() Config {
	return Config{
		LLM: LLMConfig{
			Provider:  string(llm.ProviderGemini),
			ModelTier: string(llm.TierLite),
		},
		Logger:      logging.DefaultConfig(),
		Concurrency: 4,
	}
}

// LoadConfig loads configuration from a .json, .yaml or .yml file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (use .json, .yaml or .yml)", ext)
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their config-file names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (value %v)", configPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Retry.MaxDelayMS > 0 && c.Retry.MaxDelayMS < c.Retry.BaseDelayMS {
		return fmt.Errorf("config error: 'retry.max_delay_ms' must not be less than 'retry.base_delay_ms'")
	}

	if c.Extraction.TempDir != "" {
		info, err := os.Stat(c.Extraction.TempDir)
		if err != nil {
			return fmt.Errorf("config error: temp dir not found: %s", c.Extraction.TempDir)
		}
		if !info.IsDir() {
			return fmt.Errorf("config error: temp dir is not a directory: %s", c.Extraction.TempDir)
		}
	}

	return nil
}

// configPath turns a validator namespace such as "Config.retry.max_attempts"
// into "retry.max_attempts"
func configPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.ModelTier == "" {
		result.LLM.ModelTier = defaults.LLM.ModelTier
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.Extraction.TempDir == "" {
		result.Extraction.TempDir = defaults.Extraction.TempDir
	}
	if result.Logger.Level == "" {
		result.Logger.Level = defaults.Logger.Level
	}
	if result.Logger.Format == "" {
		result.Logger.Format = defaults.Logger.Format
	}
	if result.Logger.TimeFormat == "" {
		result.Logger.TimeFormat = defaults.Logger.TimeFormat
	}

	// Int fields: use default if zero
	if result.Retry.MaxAttempts == 0 {
		result.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	}
	if result.Retry.BaseDelayMS == 0 {
		result.Retry.BaseDelayMS = defaults.Retry.BaseDelayMS
	}
	if result.Retry.MaxDelayMS == 0 {
		result.Retry.MaxDelayMS = defaults.Retry.MaxDelayMS
	}
	if result.Retry.JitterMS == nil {
		result.Retry.JitterMS = defaults.Retry.JitterMS
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RetryOptions returns the model retry policy with any configured values
// replacing the defaults
func (c *Config) RetryOptions() retry.Options {
	opts := retry.ModelPolicy()
	if c.Retry.MaxAttempts > 0 {
		opts.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.BaseDelayMS > 0 {
		opts.BaseDelay = time.Duration(c.Retry.BaseDelayMS) * time.Millisecond
	}
	if c.Retry.MaxDelayMS > 0 {
		opts.MaxDelay = time.Duration(c.Retry.MaxDelayMS) * time.Millisecond
	}
	if c.Retry.JitterMS != nil {
		opts.Jitter = time.Duration(*c.Retry.JitterMS) * time.Millisecond
	}
	return opts
}

// ModelConfig returns the llm configuration and the tier the classifier
// should call
func (c *Config) ModelConfig() (*llm.Config, llm.ModelTier, error) {
	tier, err := llm.ParseTier(c.LLM.ModelTier)
	if err != nil {
		return nil, "", fmt.Errorf("config error: %w", err)
	}

	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = llm.Provider(c.LLM.Provider)
	}
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(tier, c.LLM.Model)
	}
	return cfg, tier, nil
}
