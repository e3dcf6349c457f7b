// Package bootstrap wires configuration into a running controller. Both the
// HTTP server and the CLI start from here.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/llm/gemini"
	"github.com/Rrens/legal-assistant/internal/llm/ollama"
	"github.com/Rrens/legal-assistant/internal/llm/openai"
	"github.com/Rrens/legal-assistant/internal/metrics"
	"github.com/Rrens/legal-assistant/internal/repository"
	"github.com/Rrens/legal-assistant/internal/service"
	"github.com/rs/zerolog/log"
)

// Runtime holds the long-lived collaborators of one process
type Runtime struct {
	Store   domain.SlotStore
	LLM     *llm.Router
	Metrics *metrics.Metrics
	App     *service.App
}

// NewLLMRouter registers every provider that has enough configuration to be used
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama, cfg.Timeout))
	}
	if cfg.OpenAI.APIKey != "" {
		log.Info().Str("base_url", cfg.OpenAI.BaseURL).Msg("Registering OpenAI provider")
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI, cfg.Timeout))
	}
	if cfg.Gemini.APIKey != "" {
		log.Info().Int("key_len", len(cfg.Gemini.APIKey)).Msg("Registering Gemini provider")
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}

	return router
}

// Option adjusts the controller options derived from configuration
type Option func(*service.Options)

// ManualSuggestions keeps the controller from asking for suggestions on its
// own. Clients that want them call App.RefreshSuggestions.
func ManualSuggestions() Option {
	return func(o *service.Options) { o.ManualSuggestions = true }
}

// New opens the configured store and builds the controller on top of it.
// The controller is not started.
func New(ctx context.Context, cfg *config.Config, passphrase string, opts ...Option) (*Runtime, error) {
	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	router := NewLLMRouter(cfg.LLM)

	appOpts := service.Options{
		Provider:          cfg.LLM.DefaultProvider,
		Model:             defaultModel(cfg.LLM),
		Timeout:           cfg.LLM.Timeout,
		Chat:              cfg.LLM.Chat,
		Suggestions:       cfg.LLM.Suggestions,
		IngestConcurrency: cfg.Ingest.Concurrency,
	}
	for _, opt := range opts {
		opt(&appOpts)
	}

	app := service.NewApp(
		service.NewDocumentRepository(store, cfg.Storage.Key),
		service.NewAdminGate(service.StaticPassphrase(passphrase)),
		router,
		appOpts,
		m,
	)

	return &Runtime{Store: store, LLM: router, Metrics: m, App: app}, nil
}

// Close waits for background work and releases the store
func (r *Runtime) Close() error {
	r.App.Wait()
	return r.Store.Close()
}

// defaultModel is the configured model of the default provider. An empty
// result lets the provider pick its own default.
func defaultModel(cfg config.LLMConfig) string {
	switch cfg.DefaultProvider {
	case "gemini":
		return cfg.Gemini.Model
	case "openai":
		return cfg.OpenAI.Model
	case "ollama":
		return cfg.Ollama.DefaultModel
	}
	return ""
}
