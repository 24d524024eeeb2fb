package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override file configuration
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvLogLevel    = "RESUME_SCREEN_LOG_LEVEL"
	EnvConcurrency = "RESUME_SCREEN_CONCURRENCY"
	EnvTempDir     = "RESUME_SCREEN_TEMP_DIR"
)

// ApplyEnv overrides c with values from the process environment
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.LLM.APIKey = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logger.Level = v
	}
	if v, ok := lookup(EnvTempDir); ok && v != "" {
		c.Extraction.TempDir = v
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	return nil
}
