package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Rrens/legal-assistant/internal/api/response"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/render"
	"github.com/Rrens/legal-assistant/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatHandler serves the conversation
type ChatHandler struct {
	app *service.App
	md  *render.Markdown
}

func NewChatHandler(app *service.App, md *render.Markdown) *ChatHandler {
	return &ChatHandler{app: app, md: md}
}

type sendRequest struct {
	Content string `json:"content"`
}

// turnView is a turn plus its rendered HTML
type turnView struct {
	ID        uuid.UUID          `json:"id"`
	Role      domain.MessageRole `json:"role"`
	Content   string             `json:"content"`
	HTML      string             `json:"html,omitempty"`
	Status    domain.TurnStatus  `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

type chatView struct {
	Turns        []turnView `json:"turns"`
	IsSending    bool       `json:"is_sending"`
	LastError    string     `json:"last_error,omitempty"`
	IsReady      bool       `json:"is_ready"`
	HasDocuments bool       `json:"has_documents"`
}

type sendView struct {
	UserTurn  turnView  `json:"user_turn"`
	Reply     *turnView `json:"reply,omitempty"`
	Error     string    `json:"error,omitempty"`
	Discarded bool      `json:"discarded,omitempty"`
}

// State returns the conversation, including the pending turn while a send is in flight
func (h *ChatHandler) State(w http.ResponseWriter, r *http.Request) {
	state := h.app.State()

	turns := make([]turnView, len(state.Turns))
	for i, t := range state.Turns {
		turns[i] = h.view(t)
	}

	response.OK(w, chatView{
		Turns:        turns,
		IsSending:    state.IsSending,
		LastError:    state.LastError,
		IsReady:      state.IsReady,
		HasDocuments: state.HasDocuments,
	})
}

// Send posts a user message and waits for the reply
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input sendRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.app.SendMessage(r.Context(), input.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSendBusy):
			response.Conflict(w, response.ErrorBody{Code: "busy", Message: err.Error()})
		case errors.Is(err, service.ErrNoDocuments):
			response.Conflict(w, response.ErrorBody{Code: "no_documents", Message: err.Error()})
		case errors.Is(err, service.ErrBlankInput):
			response.BadRequest(w, response.ErrorBody{Code: "blank_input", Message: err.Error()})
		default:
			response.InternalError(w, err.Error())
		}
		return
	}

	out := sendView{
		UserTurn:  h.view(result.UserTurn),
		Error:     result.Error,
		Discarded: result.Discarded,
	}
	if result.Reply != nil {
		reply := h.view(*result.Reply)
		out.Reply = &reply
	}

	response.OK(w, out)
}

func (h *ChatHandler) view(t domain.Turn) turnView {
	v := turnView{
		ID:        t.ID,
		Role:      t.Role,
		Content:   t.Content,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}

	if t.Role == domain.RoleAssistant && t.Content != "" && h.md != nil {
		html, err := h.md.Render(t.Content)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to render turn")
		} else {
			v.HTML = html
		}
	}
	return v
}
