package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.InDelta(t, 0.1, config.Temperature, 1e-6)
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		models   map[ModelTier]string
		tier     ModelTier
		expected string
	}{
		{name: "exact tier", models: map[ModelTier]string{TierAdvanced: "pro"}, tier: TierAdvanced, expected: "pro"},
		{name: "falls back to standard", models: map[ModelTier]string{TierStandard: "flash", TierLite: "lite"}, tier: TierAdvanced, expected: "flash"},
		{name: "falls back to lite", models: map[ModelTier]string{TierLite: "lite"}, tier: "unknown", expected: "lite"},
		{name: "blank entries are skipped", models: map[ModelTier]string{TierAdvanced: "", TierLite: "lite"}, tier: TierAdvanced, expected: "lite"},
		{name: "nothing configured", models: map[ModelTier]string{}, tier: TierAdvanced, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.expected, config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	updated := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced), "original must be unchanged")
	assert.Equal(t, "custom-model", updated.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", updated.GetModel(TierLite))
	assert.Equal(t, config.Temperature, updated.Temperature)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierLite, tier)

	tier, err = ParseTier("advanced")
	require.NoError(t, err)
	assert.Equal(t, TierAdvanced, tier)

	_, err = ParseTier("turbo")
	assert.Error(t, err)
}
