package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Send rejections. A rejected send changes nothing and issues no request.
var (
	ErrSendBusy    = errors.New("a message is already being sent")
	ErrNoDocuments = errors.New("no documents loaded")
	ErrBlankInput  = errors.New("message is empty")
)

const unknownErrorMessage = "Ocurrió un error desconocido."

// Options configures the inference side of the App
type Options struct {
	Provider    string
	Model       string
	Timeout     time.Duration
	Chat        config.SamplingConfig
	Suggestions config.SamplingConfig
	// IngestConcurrency bounds parallel file extraction.
	IngestConcurrency int
	// ManualSuggestions disables the recompute on Start and on document
	// changes. Suggestions are then only computed by RefreshSuggestions.
	ManualSuggestions bool
}

// ChatState is a snapshot of the session. While a send is in flight Turns
// ends with a pending assistant turn that is not part of the stored conversation.
type ChatState struct {
	Turns        []domain.Turn `json:"turns"`
	IsSending    bool          `json:"is_sending"`
	LastError    string        `json:"last_error,omitempty"`
	IsReady      bool          `json:"is_ready"`
	HasDocuments bool          `json:"has_documents"`
}

// SendResult describes what one accepted send appended
type SendResult struct {
	UserTurn domain.Turn  `json:"user_turn"`
	Reply    *domain.Turn `json:"reply,omitempty"`
	Error    string       `json:"error,omitempty"`
	// Discarded is set when the conversation was reset while the call was in flight.
	Discarded bool `json:"discarded,omitempty"`
}

// SuggestionState is the current suggestion list
type SuggestionState struct {
	Suggestions []string `json:"suggestions"`
	Loading     bool     `json:"loading"`
}

// AdminStatus mirrors the admin gate
type AdminStatus struct {
	IsAdmin         bool `json:"is_admin"`
	LoginPromptOpen bool `json:"login_prompt_open"`
}

// App owns the document repository, the conversation, the suggestions and the admin gate
type App struct {
	docs      *DocumentRepository
	gate      *AdminGate
	router    *llm.Router
	suggester *SuggestionGenerator
	metrics   *metrics.Metrics
	opts      Options

	mu           sync.Mutex
	conv         *Conversation
	ready        bool
	hasDocuments bool
	sending      bool
	pending      domain.Turn
	lastError    string

	suggestions        []string
	suggestionsLoading bool
	generation         uint64

	wg sync.WaitGroup
}

// NewApp wires the controller. m may be nil.
func NewApp(docs *DocumentRepository, gate *AdminGate, router *llm.Router, opts Options, m *metrics.Metrics) *App {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &App{
		docs:        docs,
		gate:        gate,
		router:      router,
		suggester:   NewSuggestionGenerator(router, opts.Provider, opts.Model, opts.Suggestions, m),
		metrics:     m,
		opts:        opts,
		conv:        NewConversation(),
		suggestions: []string{},
	}
}

// Start loads the repository, resets the conversation and, unless
// Options.ManualSuggestions is set, kicks off the first suggestion recompute.
func (a *App) Start(ctx context.Context) {
	a.docs.Load(ctx)
	docs := a.docs.List()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.ready = true
	a.hasDocuments = len(docs) > 0
	a.conv.Reset(a.hasDocuments)
	a.metrics.SetDocuments(len(docs))
	a.suggestionsChanged(docs)
}

// Wait blocks until background suggestion work has finished
func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) State() ChatState {
	a.mu.Lock()
	defer a.mu.Unlock()

	turns := a.conv.Turns()
	if a.sending {
		turns = append(turns, a.pending)
	}

	return ChatState{
		Turns:        turns,
		IsSending:    a.sending,
		LastError:    a.lastError,
		IsReady:      a.ready,
		HasDocuments: a.hasDocuments,
	}
}

// SendMessage appends the user turn, asks the model once, and appends either
// the answer or the apology turn. The call outlives ctx cancellation and is
// bounded by Options.Timeout instead.
func (a *App) SendMessage(ctx context.Context, input string) (*SendResult, error) {
	a.mu.Lock()
	switch {
	case a.sending:
		a.mu.Unlock()
		a.metrics.ChatSend("rejected")
		return nil, ErrSendBusy
	case !a.hasDocuments:
		a.mu.Unlock()
		a.metrics.ChatSend("rejected")
		return nil, ErrNoDocuments
	case strings.TrimSpace(input) == "":
		a.mu.Unlock()
		a.metrics.ChatSend("rejected")
		return nil, ErrBlankInput
	}

	userTurn := domain.NewTurn(domain.RoleUser, input, domain.TurnResolved)
	a.conv.Append(userTurn)
	a.lastError = ""
	a.sending = true
	a.pending = domain.NewTurn(domain.RoleAssistant, "", domain.TurnPending)

	epoch := a.conv.Epoch()
	req := a.chatRequest(a.docs.List(), a.conv.Turns())
	a.mu.Unlock()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.opts.Timeout)
	defer cancel()

	resp, err := a.generate(callCtx, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.sending = false

	result := &SendResult{UserTurn: userTurn}

	if a.conv.Epoch() != epoch {
		log.Warn().Msg("Conversation was reset while a message was in flight, discarding reply")
		a.metrics.ChatSend("discarded")
		result.Discarded = true
		return result, nil
	}

	if err != nil {
		a.lastError = describeError(err)
		reply := domain.NewTurn(domain.RoleAssistant, ApologyMessage, domain.TurnFailed)
		a.conv.Append(reply)
		a.metrics.ChatSend("failure")
		log.Error().Err(err).Msg("Chat request failed")

		result.Reply = &reply
		result.Error = a.lastError
		return result, nil
	}

	reply := domain.NewTurn(domain.RoleAssistant, resp.Text, domain.TurnResolved)
	a.conv.Append(reply)
	a.metrics.ChatSend("success")
	log.Info().
		Str("model", resp.Model).
		Int("tokens_used", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Chat reply received")

	result.Reply = &reply
	return result, nil
}

func (a *App) chatRequest(docs []domain.LegalDocument, turns []domain.Turn) llm.Request {
	req := llm.Request{
		SystemInstruction: llm.BuildSystemInstruction(docs),
		Turns:             llm.Transcript(turns),
		Temperature:       llm.Float32(a.opts.Chat.Temperature),
	}
	if a.opts.Chat.TopP > 0 {
		req.TopP = llm.Float32(a.opts.Chat.TopP)
	}
	if a.opts.Chat.TopK > 0 {
		req.TopK = llm.Int32(a.opts.Chat.TopK)
	}
	return req
}

func (a *App) generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	provider, err := a.router.GetProvider(a.opts.Provider)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := provider.Generate(ctx, req, a.opts.Model)
	a.metrics.ObserveInference("chat", provider.Name(), time.Since(start))
	return resp, err
}

// describeError renders the user-visible diagnostic for a failed send
func describeError(err error) string {
	message := err.Error()
	details := ""

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		message = llmErr.Message
		if llmErr.Details != "" {
			details = fmt.Sprintf(" Details: %s.", llmErr.Details)
		}
	}
	if message == "" {
		message = unknownErrorMessage
	}

	return fmt.Sprintf("Error al comunicarse con la IA: %s%s", message, details)
}

// Documents returns the repository in insertion order
func (a *App) Documents() []domain.LegalDocument {
	return a.docs.List()
}

// AddDocuments appends a batch. Requires an admin session.
func (a *App) AddDocuments(ctx context.Context, inputs []domain.DocumentInput) ([]domain.LegalDocument, error) {
	if !a.gate.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return a.ImportDocuments(ctx, inputs)
}

// ImportDocuments appends a batch without the admin check. It serves trusted
// local sources such as the inbox watcher.
func (a *App) ImportDocuments(ctx context.Context, inputs []domain.DocumentInput) ([]domain.LegalDocument, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added, err := a.docs.AddBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}

	log.Info().Int("added", len(added)).Msg("Documents added")
	a.documentsChanged()
	return added, nil
}

// UploadDocuments parses files and adds the readable ones. Requires an admin session.
func (a *App) UploadDocuments(ctx context.Context, files []ingest.File) (*ingest.Result, error) {
	if !a.gate.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return a.ImportFiles(ctx, files)
}

// ImportFiles parses files and adds the readable ones without the admin check
func (a *App) ImportFiles(ctx context.Context, files []ingest.File) (*ingest.Result, error) {
	result := ingest.ParseBatch(ctx, files, a.opts.IngestConcurrency)
	if len(result.Documents) > 0 {
		if _, err := a.ImportDocuments(ctx, result.Documents); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// DeleteDocument removes a document by id. Requires an admin session;
// an unknown id is not an error.
func (a *App) DeleteDocument(ctx context.Context, id string) (bool, error) {
	if !a.gate.IsAdmin() {
		return false, ErrAdminRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	removed, err := a.docs.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if removed {
		log.Info().Str("document_id", id).Msg("Document deleted")
		a.documentsChanged()
	}
	return removed, nil
}

// documentsChanged resets the conversation when the repository's emptiness
// flips and recomputes suggestions. Caller holds mu.
func (a *App) documentsChanged() {
	docs := a.docs.List()
	a.metrics.SetDocuments(len(docs))

	has := len(docs) > 0
	if has != a.hasDocuments {
		a.hasDocuments = has
		a.conv.Reset(has)
	}

	a.suggestionsChanged(docs)
}

// suggestionsChanged recomputes suggestions for docs, or in manual mode drops
// the ones computed for an older document set. Caller holds mu.
func (a *App) suggestionsChanged(docs []domain.LegalDocument) {
	if !a.opts.ManualSuggestions {
		a.scheduleSuggestions(docs)
		return
	}

	a.generation++
	a.suggestions = []string{}
	a.suggestionsLoading = false
}

// RefreshSuggestions recomputes suggestions for the current documents in the
// background. Use Wait to block until the result is applied.
func (a *App) RefreshSuggestions() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scheduleSuggestions(a.docs.List())
}

// scheduleSuggestions stamps a new generation and recomputes in the
// background. Only the result of the latest generation is applied. Caller holds mu.
func (a *App) scheduleSuggestions(docs []domain.LegalDocument) {
	a.generation++
	gen := a.generation

	if len(docs) == 0 {
		a.suggestions = []string{}
		a.suggestionsLoading = false
		return
	}

	a.suggestionsLoading = true
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
		defer cancel()

		suggestions := a.suggester.Recompute(ctx, docs)

		a.mu.Lock()
		defer a.mu.Unlock()
		if gen != a.generation {
			log.Debug().Uint64("generation", gen).Msg("Discarding stale suggestions")
			a.metrics.SuggestionRun("stale")
			return
		}
		a.suggestions = suggestions
		a.suggestionsLoading = false
	}()
}

func (a *App) Suggestions() SuggestionState {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(a.suggestions))
	copy(out, a.suggestions)
	return SuggestionState{Suggestions: out, Loading: a.suggestionsLoading}
}

// Login opens the admin session
func (a *App) Login(passphrase string) error {
	if err := a.gate.Login(passphrase); err != nil {
		log.Warn().Msg("Admin login rejected")
		return err
	}
	log.Info().Msg("Admin logged in")
	return nil
}

func (a *App) Logout() {
	a.gate.Logout()
}

func (a *App) IsAdmin() bool {
	return a.gate.IsAdmin()
}

func (a *App) OpenLoginPrompt() {
	a.gate.OpenPrompt()
}

func (a *App) CloseLoginPrompt() {
	a.gate.ClosePrompt()
}

func (a *App) AdminStatus() AdminStatus {
	return AdminStatus{IsAdmin: a.gate.IsAdmin(), LoginPromptOpen: a.gate.PromptOpen()}
}

// Providers lists the registered inference providers
func (a *App) Providers() []llm.ProviderInfo {
	return a.router.GetProvidersInfo()
}
