package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMRouter(t *testing.T) {
	router := NewLLMRouter(config.LLMConfig{
		DefaultProvider: "ollama",
		Timeout:         time.Second,
		Ollama:          config.OllamaConfig{Host: "http://localhost:11434"},
		OpenAI:          config.OpenAIConfig{APIKey: "sk-test", BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	})

	assert.ElementsMatch(t, []string{"ollama", "openai"}, router.ListProviders())
	assert.Equal(t, "ollama", router.DefaultProvider())

	_, err := router.GetProvider("gemini")
	assert.Error(t, err)
}

func TestDefaultModel(t *testing.T) {
	cfg := config.LLMConfig{
		Gemini: config.GeminiConfig{Model: "gemini-2.5-flash"},
		OpenAI: config.OpenAIConfig{Model: "gpt-4o-mini"},
		Ollama: config.OllamaConfig{DefaultModel: "llama3.1"},
	}

	cfg.DefaultProvider = "gemini"
	assert.Equal(t, "gemini-2.5-flash", defaultModel(cfg))
	cfg.DefaultProvider = "openai"
	assert.Equal(t, "gpt-4o-mini", defaultModel(cfg))
	cfg.DefaultProvider = "ollama"
	assert.Equal(t, "llama3.1", defaultModel(cfg))
	cfg.DefaultProvider = "other"
	assert.Empty(t, defaultModel(cfg))
}

func TestNewWithMemoryStore(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "memory", Key: "docs"},
		LLM:     config.LLMConfig{DefaultProvider: "gemini"},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	rt, err := New(context.Background(), cfg, "252525")
	require.NoError(t, err)
	require.NotNil(t, rt.Metrics)

	rt.App.Start(context.Background())
	assert.Len(t, rt.App.Documents(), 3)
	assert.NoError(t, rt.App.Login("252525"))

	require.NoError(t, rt.Close())
}

func TestNewUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "cassandra"}}

	_, err := New(context.Background(), cfg, "252525")
	assert.ErrorContains(t, err, "failed to open storage")
}
