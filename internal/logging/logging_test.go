package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json"}, &buf)

	logger.Debug().Str("stage", "vocabulary").Msg("classified")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "vocabulary", entry["stage"])
	assert.Equal(t, "classified", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_JSONTimeFormat(t *testing.T) {
	tests := []struct {
		name       string
		timeFormat string
		pattern    string
	}{
		{name: "custom layout", timeFormat: "2006-01-02", pattern: `^\d{4}-\d{2}-\d{2}$`},
		{name: "default RFC3339", timeFormat: "", pattern: `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(Z|[+-]\d{2}:\d{2})$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Format: "json", TimeFormat: tt.timeFormat}, &buf)

			logger.Info().Msg("stamped")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.IsType(t, "", entry["time"])
			assert.Regexp(t, tt.pattern, entry["time"])
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn"}, &buf)

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "loud"}, &buf)

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "pretty"}, &buf)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNop_DiscardsOutput(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Error().Msg("nothing")
	})
}
