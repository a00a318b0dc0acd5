package llm_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/relevit/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := llm.DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresChatRoute(t *testing.T) {
	cfg := llm.DefaultConfig()
	delete(cfg.Routes, llm.TaskChat)
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsIncompleteRoute(t *testing.T) {
	cfg := llm.NewConfig(llm.WithRoute("broken", llm.Route{Provider: "openai"}))
	assert.Error(t, cfg.Validate())
}

func TestPriceFor(t *testing.T) {
	cfg := llm.DefaultConfig()

	t.Run("known model", func(t *testing.T) {
		price, ok := cfg.PriceFor("openai", "gpt-4o-mini")
		assert.True(t, ok)
		assert.Greater(t, price.InputPer1K, 0.0)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, ok := cfg.PriceFor("openai", "gpt-9")
		assert.False(t, ok)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, ok := cfg.PriceFor("acme", "gpt-4o-mini")
		assert.False(t, ok)
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := llm.NewConfig(
		llm.WithMonthlyBudget(12.5),
		llm.WithRetryBaseDelay(50*time.Millisecond),
		llm.WithPrice("acme", "acme-1", llm.Price{InputPer1K: 0.01, OutputPer1K: 0.02}),
	)

	assert.Equal(t, 12.5, cfg.Budget.MonthlyUSD)
	assert.Equal(t, 50*time.Millisecond, cfg.RetryBaseDelay)

	price, ok := cfg.PriceFor("acme", "acme-1")
	require.True(t, ok)
	assert.Equal(t, 0.01, price.InputPer1K)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm.toml")
	doc := `
[budget]
monthly_usd = 7.5

[routes.chat]
provider = "anthropic"
model = "claude-3-5-haiku-20241022"
temperature = 0.4
max_tokens = 1500

[pricing.acme.acme-1]
input_per_1k = 0.005
output_per_1k = 0.015
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := llm.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7.5, cfg.Budget.MonthlyUSD)

	chat := cfg.Routes[llm.TaskChat]
	assert.Equal(t, "anthropic", chat.Provider)
	assert.Equal(t, 1500, chat.MaxTokens)

	// Routes absent from the file keep their defaults.
	hypothesis, ok := cfg.Routes[llm.TaskHypothesis]
	require.True(t, ok)
	assert.Equal(t, "openai", hypothesis.Provider)

	price, ok := cfg.PriceFor("acme", "acme-1")
	require.True(t, ok)
	assert.Equal(t, 0.005, price.InputPer1K)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := llm.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
