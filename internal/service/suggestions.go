package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/metrics"
	"github.com/rs/zerolog/log"
)

var errMalformedSuggestions = errors.New("malformed suggestions payload")

// SuggestionGenerator derives candidate questions from document summaries
type SuggestionGenerator struct {
	router   *llm.Router
	provider string
	model    string
	sampling config.SamplingConfig
	metrics  *metrics.Metrics
}

func NewSuggestionGenerator(router *llm.Router, provider, model string, sampling config.SamplingConfig, m *metrics.Metrics) *SuggestionGenerator {
	return &SuggestionGenerator{
		router:   router,
		provider: provider,
		model:    model,
		sampling: sampling,
		metrics:  m,
	}
}

// Recompute returns the suggestions for docs. Failures are logged and yield
// an empty result; no inference call is made for an empty document set.
func (g *SuggestionGenerator) Recompute(ctx context.Context, docs []domain.LegalDocument) []string {
	if len(docs) == 0 {
		return []string{}
	}

	suggestions, err := g.generate(ctx, docs)
	if err != nil {
		log.Warn().Err(err).Msg("Suggestion generation failed")
		g.metrics.SuggestionRun("failure")
		return []string{}
	}

	g.metrics.SuggestionRun("success")
	return suggestions
}

func (g *SuggestionGenerator) generate(ctx context.Context, docs []domain.LegalDocument) ([]string, error) {
	provider, err := g.router.GetProvider(g.provider)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Turns:          []llm.Turn{{Role: domain.RoleUser, Text: llm.BuildSuggestionPrompt(docs)}},
		Temperature:    llm.Float32(g.sampling.Temperature),
		ResponseSchema: llm.SuggestionSchema(),
	}
	if g.sampling.TopP > 0 {
		req.TopP = llm.Float32(g.sampling.TopP)
	}
	if g.sampling.TopK > 0 {
		req.TopK = llm.Int32(g.sampling.TopK)
	}

	start := time.Now()
	resp, err := provider.Generate(ctx, req, g.model)
	g.metrics.ObserveInference("suggestions", provider.Name(), time.Since(start))
	if err != nil {
		return nil, err
	}

	return ParseSuggestions(resp.Text)
}

// ParseSuggestions validates a `{"suggestions": [string...]}` payload
func ParseSuggestions(text string) ([]string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(llm.ExtractJSON(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedSuggestions, err)
	}

	raw, ok := payload["suggestions"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: missing suggestions field", errMalformedSuggestions)
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: suggestions is not an array", errMalformedSuggestions)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not a string", errMalformedSuggestions, i)
		}
		out = append(out, s)
	}
	return out, nil
}
