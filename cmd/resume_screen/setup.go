package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-screener/internal/classification"
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logging"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/types"
)

// app bundles what every subcommand needs
type app struct {
	cfg        config.Config
	logger     zerolog.Logger
	extractor  *extraction.Extractor
	classifier *classification.Classifier
	closers    []io.Closer
}

// loadSettings resolves the effective configuration: defaults, then the
// config file, then the environment, then command-line flags
func loadSettings() (config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp wires the extractor and the classifier from configuration. The
// model stage is enabled only when an API key is available.
func newApp(ctx context.Context, withModel bool) (*app, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Logger, os.Stderr)
	a := &app{
		cfg:    cfg,
		logger: logger,
		extractor: extraction.New(
			extraction.WithTempDir(cfg.Extraction.TempDir),
			extraction.WithLogger(logger),
		),
	}

	classifierOpts := []classification.Option{
		classification.WithLogger(logger),
		classification.WithRetryOptions(cfg.RetryOptions()),
	}
	if withModel && !cfg.LLM.Disabled {
		client, tier, err := newModelClient(ctx, cfg)
		switch {
		case errors.Is(err, llm.ErrMissingAPIKey):
			logger.Warn().Msg("no API key configured, classifying with heuristics only")
		case err != nil:
			return nil, err
		default:
			a.closers = append(a.closers, client)
			classifierOpts = append(classifierOpts, classification.WithModel(client, tier))
			logger.Debug().Str("model", client.GetModel(tier)).Msg("model stage enabled")
		}
	}
	a.classifier = classification.New(classifierOpts...)

	return a, nil
}

func newModelClient(ctx context.Context, cfg config.Config) (llm.Client, llm.ModelTier, error) {
	llmCfg, tier, err := cfg.ModelConfig()
	if err != nil {
		return nil, "", err
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, "", err
	}
	return client, tier, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close client")
		}
	}
}

// readDocument loads an upload from disk
func readDocument(path string) (types.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("failed to read document: %w", err)
	}
	return types.RawDocument{
		Data:     data,
		Filename: filepath.Base(path),
	}, nil
}

// readText returns the normalized text of a document. Plain-text files are
// read as is; anything else goes through the extractor.
func (a *app) readText(ctx context.Context, path string) (string, error) {
	doc, err := readDocument(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return extraction.Normalize(string(doc.Data)), nil
	}
	return a.extractor.Extract(ctx, doc)
}

// loadJobContext reads a job context from a JSON or YAML file and checks it
// against the job context schema. An empty path yields an empty context.
func loadJobContext(path string) (types.JobContext, error) {
	var job types.JobContext
	if path == "" {
		return job, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("failed to read job file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &job); err != nil {
			return job, fmt.Errorf("failed to parse job YAML: %w", err)
		}
		if err := schemas.Validate(schemas.JobContext, job); err != nil {
			return job, fmt.Errorf("invalid job file: %w", err)
		}
	default:
		if err := schemas.ValidateBytes(schemas.JobContext, data); err != nil {
			return job, fmt.Errorf("invalid job file: %w", err)
		}
		if err := json.Unmarshal(data, &job); err != nil {
			return job, fmt.Errorf("failed to parse job JSON: %w", err)
		}
	}

	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("invalid job file: %w", err)
	}
	return job, nil
}

// writeOutput writes v as indented JSON to --out or stdout
func writeOutput(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(outputPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// userError reports err with the text an uploader would see, keeping the
// original error in the chain
type userError struct {
	err error
}

func newUserError(err error) error {
	return &userError{err: err}
}

func (e *userError) Error() string {
	return userMessage(e.err)
}

func (e *userError) Unwrap() error {
	return e.err
}

// userMessage is the text an uploader would see for err
func userMessage(err error) string {
	var extErr *extraction.Error
	if errors.As(err, &extErr) {
		return extErr.UserMessage()
	}
	return err.Error()
}
