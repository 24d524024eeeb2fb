// Package logging builds the structured zerolog logger shared by the CLI and the screening pipeline.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction
type Config struct {
	Level        string `json:"level,omitempty" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format       string `json:"format,omitempty" yaml:"format" validate:"omitempty,oneof=json pretty"`
	TimeFormat   string `json:"time_format,omitempty" yaml:"time_format"`
	ReportCaller bool   `json:"report_caller,omitempty" yaml:"report_caller"`
}

// DefaultConfig returns info-level JSON logging
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
	}
}

// New creates a logger writing to out. A nil out writes to stderr so that
// stdout stays reserved for command output.
func New(cfg Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	// zerolog reads the JSON timestamp layout from a package-level setting
	zerolog.TimeFieldFormat = timeFormat(cfg.TimeFormat)

	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat(cfg.TimeFormat),
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func timeFormat(format string) string {
	if format == "" {
		return time.RFC3339
	}
	return format
}
