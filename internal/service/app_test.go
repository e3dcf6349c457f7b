package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// startApp starts an App whose suggestion call answers with an empty list
func startApp(t *testing.T, provider *MockProvider) *App {
	t.Helper()

	provider.On("Generate", mock.Anything, mock.MatchedBy(isSuggestionRequest), mock.Anything).
		Return(&llm.Response{Text: `{"suggestions":[]}`}, nil).Maybe()

	app := newTestApp(t, provider, nil)
	app.Start(context.Background())
	app.Wait()
	return app
}

func TestApp_Start(t *testing.T) {
	app := startApp(t, new(MockProvider))

	state := app.State()
	assert.True(t, state.IsReady)
	assert.True(t, state.HasDocuments)
	assert.False(t, state.IsSending)
	require.Len(t, state.Turns, 1)
	assert.Equal(t, domain.RoleAssistant, state.Turns[0].Role)
	assert.Equal(t, GreetingWelcome, state.Turns[0].Content)
	assert.Len(t, app.Documents(), 3)
}

func TestApp_SendMessageSuccess(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	question := "¿Quién es el quejoso en la Sentencia de Amparo?"
	var captured llm.Request
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), "").
		Run(func(args mock.Arguments) { captured = args.Get(1).(llm.Request) }).
		Return(&llm.Response{Text: "El quejoso es Juan Pérez."}, nil).Once()

	before := len(app.State().Turns)
	result, err := app.SendMessage(context.Background(), question)
	require.NoError(t, err)

	state := app.State()
	assert.Len(t, state.Turns, before+2)
	assert.Empty(t, state.LastError)

	last := state.Turns[len(state.Turns)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, domain.TurnResolved, last.Status)
	assert.Equal(t, "El quejoso es Juan Pérez.", last.Content)
	assert.Equal(t, question, state.Turns[len(state.Turns)-2].Content)

	require.NotNil(t, result.Reply)
	assert.Equal(t, last.ID, result.Reply.ID)

	// Greeting is not replayed; every document is in the system instruction
	require.Len(t, captured.Turns, 1)
	assert.Equal(t, domain.RoleUser, captured.Turns[0].Role)
	assert.Equal(t, question, captured.Turns[0].Text)
	assert.Contains(t, captured.SystemInstruction, `--- INICIO DOCUMENTO 3: "Laudo Laboral 45/2024" ---`)
	assert.InDelta(t, 0.2, *captured.Temperature, 1e-6)
	assert.InDelta(t, 0.9, *captured.TopP, 1e-6)
	assert.Equal(t, int32(32), *captured.TopK)
}

func TestApp_SendMessageFailure(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Return(nil, &llm.Error{Provider: "mock", Message: "Resource has been exhausted", Details: "quota"}).Once()

	before := len(app.State().Turns)
	result, err := app.SendMessage(context.Background(), "¿Cuál es la renta?")
	require.NoError(t, err)

	state := app.State()
	assert.Len(t, state.Turns, before+2)
	assert.Equal(t, "Error al comunicarse con la IA: Resource has been exhausted Details: quota.", state.LastError)
	assert.Equal(t, state.LastError, result.Error)

	last := state.Turns[len(state.Turns)-1]
	assert.Equal(t, ApologyMessage, last.Content)
	assert.Equal(t, domain.TurnFailed, last.Status)

	// The next send clears the error
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Return(&llm.Response{Text: "$10,000.00"}, nil).Once()

	_, err = app.SendMessage(context.Background(), "¿Cuál es la renta?")
	require.NoError(t, err)
	assert.Empty(t, app.State().LastError)
}

func TestApp_SendMessageTranscriptKeepsHistory(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	var calls []llm.Request
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Run(func(args mock.Arguments) { calls = append(calls, args.Get(1).(llm.Request)) }).
		Return(&llm.Response{Text: "respuesta"}, nil)

	_, err := app.SendMessage(context.Background(), "uno")
	require.NoError(t, err)
	_, err = app.SendMessage(context.Background(), "dos")
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, []llm.Turn{
		{Role: domain.RoleUser, Text: "uno"},
		{Role: domain.RoleAssistant, Text: "respuesta"},
		{Role: domain.RoleUser, Text: "dos"},
	}, calls[1].Turns)
}

func TestApp_SendMessageBusy(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	started := make(chan struct{})
	release := make(chan struct{})
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&llm.Response{Text: "ok"}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := app.SendMessage(context.Background(), "primera")
		assert.NoError(t, err)
	}()

	<-started

	state := app.State()
	assert.True(t, state.IsSending)
	// user turn plus the pending overlay
	require.Len(t, state.Turns, 3)
	assert.Equal(t, domain.TurnPending, state.Turns[2].Status)
	assert.Empty(t, state.Turns[2].Content)

	_, err := app.SendMessage(context.Background(), "segunda")
	assert.ErrorIs(t, err, ErrSendBusy)
	assert.Len(t, app.State().Turns, 3)

	close(release)
	wg.Wait()

	state = app.State()
	assert.False(t, state.IsSending)
	assert.Len(t, state.Turns, 3)
	provider.AssertNumberOfCalls(t, "Generate", 2) // one suggestion run, one chat
}

func TestApp_SendMessageDetachedFromCaller(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	var callErr error
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Run(func(args mock.Arguments) { callErr = args.Get(0).(context.Context).Err() }).
		Return(&llm.Response{Text: "ok"}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := app.SendMessage(ctx, "hola")
	require.NoError(t, err)
	assert.NoError(t, callErr)
	assert.Equal(t, "ok", result.Reply.Content)
}

func TestApp_SendMessageRejections(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := app.SendMessage(context.Background(), input)
		assert.ErrorIs(t, err, ErrBlankInput)
	}
	assert.Len(t, app.State().Turns, 1)

	require.NoError(t, app.Login("252525"))
	for _, d := range app.Documents() {
		_, err := app.DeleteDocument(context.Background(), d.ID)
		require.NoError(t, err)
	}
	app.Wait()

	_, err := app.SendMessage(context.Background(), "hola")
	assert.ErrorIs(t, err, ErrNoDocuments)

	state := app.State()
	require.Len(t, state.Turns, 1)
	assert.Equal(t, GreetingNoDocuments, state.Turns[0].Content)
	provider.AssertNotCalled(t, "Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything)
}

func TestApp_EmptinessFlipResetsConversation(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)
	require.NoError(t, app.Login("252525"))

	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Return(&llm.Response{Text: "ok"}, nil)
	_, err := app.SendMessage(context.Background(), "hola")
	require.NoError(t, err)
	require.Len(t, app.State().Turns, 3)

	// Adding to a non-empty repository keeps the conversation
	_, err = app.AddDocuments(context.Background(), []domain.DocumentInput{{Title: "Nuevo", Summary: "n...", Content: "n"}})
	require.NoError(t, err)
	assert.Len(t, app.State().Turns, 3)

	for _, d := range app.Documents() {
		_, err := app.DeleteDocument(context.Background(), d.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{GreetingNoDocuments}, contents(app.State().Turns))
	assert.Empty(t, app.Suggestions().Suggestions)

	_, err = app.AddDocuments(context.Background(), []domain.DocumentInput{{Title: "Otro", Summary: "o...", Content: "o"}})
	require.NoError(t, err)
	app.Wait()
	assert.Equal(t, []string{GreetingWelcome}, contents(app.State().Turns))
}

func TestApp_ResetDuringSendDiscardsReply(t *testing.T) {
	provider := new(MockProvider)
	app := startApp(t, provider)
	require.NoError(t, app.Login("252525"))

	started := make(chan struct{})
	release := make(chan struct{})
	provider.On("Generate", mock.Anything, mock.MatchedBy(isChatRequest), mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&llm.Response{Text: "tarde"}, nil).Once()

	done := make(chan *SendResult)
	go func() {
		result, _ := app.SendMessage(context.Background(), "hola")
		done <- result
	}()
	<-started

	for _, d := range app.Documents() {
		_, err := app.DeleteDocument(context.Background(), d.ID)
		require.NoError(t, err)
	}
	close(release)

	result := <-done
	assert.True(t, result.Discarded)

	state := app.State()
	assert.False(t, state.IsSending)
	assert.Equal(t, []string{GreetingNoDocuments}, contents(state.Turns))
}

func TestApp_AdminRequired(t *testing.T) {
	app := startApp(t, new(MockProvider))
	ctx := context.Background()

	_, err := app.AddDocuments(ctx, []domain.DocumentInput{{Title: "A", Content: "a"}})
	assert.ErrorIs(t, err, ErrAdminRequired)

	_, err = app.DeleteDocument(ctx, "sentencia_1")
	assert.ErrorIs(t, err, ErrAdminRequired)

	_, err = app.UploadDocuments(ctx, []ingest.File{{Name: "a.txt", Data: []byte("a")}})
	assert.ErrorIs(t, err, ErrAdminRequired)

	assert.Len(t, app.Documents(), 3)
}

func TestApp_LoginScenario(t *testing.T) {
	app := startApp(t, new(MockProvider))

	app.OpenLoginPrompt()
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, app.Login("000000"), ErrInvalidPassphrase)
		assert.False(t, app.IsAdmin())
	}
	assert.True(t, app.AdminStatus().LoginPromptOpen)

	require.NoError(t, app.Login("252525"))
	assert.Equal(t, AdminStatus{IsAdmin: true, LoginPromptOpen: false}, app.AdminStatus())

	app.Logout()
	assert.False(t, app.IsAdmin())
}

func TestApp_UploadDocuments(t *testing.T) {
	app := startApp(t, new(MockProvider))
	require.NoError(t, app.Login("252525"))

	result, err := app.UploadDocuments(context.Background(), []ingest.File{
		{Name: "vacio.txt", ContentType: "text/plain"},
		{Name: "fallo.md", Data: []byte("Se concede el amparo.")},
	})
	require.NoError(t, err)
	app.Wait()

	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "vacio.txt")

	docs := app.Documents()
	require.Len(t, docs, 4)
	assert.Equal(t, "fallo", docs[3].Title)
	assert.Equal(t, "Se concede el amparo....", docs[3].Summary)
	assert.True(t, strings.HasPrefix(docs[3].ID, "doc_"))
}

func TestApp_StaleSuggestionsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	provider := &funcProvider{fn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		if strings.Contains(req.Turns[0].Text, "Documento nuevo") {
			return &llm.Response{Text: `{"suggestions":["nueva"]}`}, nil
		}
		once.Do(func() { close(firstStarted) })
		<-releaseFirst
		return &llm.Response{Text: `{"suggestions":["vieja"]}`}, nil
	}}

	app := newTestApp(t, provider, memory.NewStore())
	app.Start(context.Background())
	<-firstStarted
	assert.True(t, app.Suggestions().Loading)

	require.NoError(t, app.Login("252525"))
	_, err := app.AddDocuments(context.Background(), []domain.DocumentInput{
		{Title: "Extra", Summary: "Documento nuevo", Content: "contenido"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s := app.Suggestions()
		return !s.Loading && len(s.Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	close(releaseFirst)
	app.Wait()

	assert.Equal(t, SuggestionState{Suggestions: []string{"nueva"}, Loading: false}, app.Suggestions())
}

func TestApp_ManualSuggestionsOnlyOnRefresh(t *testing.T) {
	var calls atomic.Int32
	provider := &funcProvider{fn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		calls.Add(1)
		return &llm.Response{Text: `{"suggestions":["¿Quién es el quejoso?"]}`}, nil
	}}

	router := llm.NewRouter(provider.Name())
	router.RegisterProvider(provider)
	opts := testOptions(provider.Name())
	opts.ManualSuggestions = true

	app := NewApp(
		NewDocumentRepository(memory.NewStore(), ""),
		NewAdminGate(StaticPassphrase("252525")),
		router,
		opts,
		nil,
	)

	app.Start(context.Background())
	assert.Len(t, app.Documents(), 3)

	require.NoError(t, app.Login("252525"))
	_, err := app.AddDocuments(context.Background(), []domain.DocumentInput{
		{Title: "Extra", Summary: "Documento nuevo", Content: "contenido"},
	})
	require.NoError(t, err)
	_, err = app.DeleteDocument(context.Background(), "sentencia_1")
	require.NoError(t, err)
	app.Wait()

	assert.Zero(t, calls.Load())
	assert.Equal(t, SuggestionState{Suggestions: []string{}, Loading: false}, app.Suggestions())

	app.RefreshSuggestions()
	app.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []string{"¿Quién es el quejoso?"}, app.Suggestions().Suggestions)
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t,
		"Error al comunicarse con la IA: boom",
		describeError(errors.New("boom")))
	assert.Equal(t,
		"Error al comunicarse con la IA: Ocurrió un error desconocido.",
		describeError(&llm.Error{Provider: "gemini"}))
}

func contents(turns []domain.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Content
	}
	return out
}
