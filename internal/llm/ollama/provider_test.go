package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"message":{"role":"assistant","content":"{\"suggestions\":[\"¿Qué?\"]}"},"done":true,"eval_count":7,"prompt_eval_count":3}`))
	}))
	defer srv.Close()

	p := NewProvider(config.OllamaConfig{Host: srv.URL}, time.Second)
	resp, err := p.Generate(context.Background(), llm.Request{
		SystemInstruction: "reglas",
		Turns:             []llm.Turn{{Role: domain.RoleUser, Text: "sugerencias"}},
		Temperature:       llm.Float32(0.5),
		ResponseSchema:    llm.SuggestionSchema(),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "llama3.1", resp.Model)
	assert.Equal(t, 10, resp.TokensUsed)
	assert.JSONEq(t, `{"suggestions":["¿Qué?"]}`, resp.Text)

	assert.Equal(t, false, got["stream"])
	format, ok := got["format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", format["type"])

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestProvider_GenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'llama9' not found"}`))
	}))
	defer srv.Close()

	p := NewProvider(config.OllamaConfig{Host: srv.URL}, time.Second)
	_, err := p.Generate(context.Background(), llm.Request{
		Turns: []llm.Turn{{Role: domain.RoleUser, Text: "hola"}},
	}, "llama9")

	var llmErr *llm.Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, http.StatusNotFound, llmErr.StatusCode)
	assert.Equal(t, "model 'llama9' not found", llmErr.Details)
}

func TestProvider_NotConfigured(t *testing.T) {
	p := NewProvider(config.OllamaConfig{}, 0)
	_, err := p.Generate(context.Background(), llm.Request{}, "")
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}
