package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/repository/memory"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string              { return "mock" }
func (m *MockProvider) AvailableModels() []string { return []string{"mock-1"} }
func (m *MockProvider) DefaultModel() string      { return "mock-1" }
func (m *MockProvider) IsConfigured() bool        { return true }

func (m *MockProvider) Generate(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	resp, _ := args.Get(0).(*llm.Response)
	return resp, args.Error(1)
}

// funcProvider answers with fn, for tests that need to control timing
type funcProvider struct {
	fn func(ctx context.Context, req llm.Request) (*llm.Response, error)
}

func (p *funcProvider) Name() string              { return "func" }
func (p *funcProvider) AvailableModels() []string { return nil }
func (p *funcProvider) DefaultModel() string      { return "" }
func (p *funcProvider) IsConfigured() bool        { return true }

func (p *funcProvider) Generate(ctx context.Context, req llm.Request, _ string) (*llm.Response, error) {
	return p.fn(ctx, req)
}

// flakyStore is a memory store whose writes can be made to fail
type flakyStore struct {
	*memory.Store

	mu      sync.Mutex
	failSet bool
}

var errStoreDown = errors.New("store unavailable")

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return s.Store.Set(ctx, key, value)
}

func (s *flakyStore) failWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

func isSuggestionRequest(req llm.Request) bool { return req.ResponseSchema != nil }

func isChatRequest(req llm.Request) bool { return req.ResponseSchema == nil }

func testOptions(provider string) Options {
	return Options{
		Provider:    provider,
		Chat:        config.SamplingConfig{Temperature: 0.2, TopP: 0.9, TopK: 32},
		Suggestions: config.SamplingConfig{Temperature: 0.5},
	}
}

// newTestApp builds an App over an in-memory store with p registered as the only provider
func newTestApp(t *testing.T, p llm.Provider, store domain.SlotStore) *App {
	t.Helper()

	if store == nil {
		store = memory.NewStore()
	}
	router := llm.NewRouter(p.Name())
	router.RegisterProvider(p)

	return NewApp(
		NewDocumentRepository(store, ""),
		NewAdminGate(StaticPassphrase("252525")),
		router,
		testOptions(p.Name()),
		nil,
	)
}
