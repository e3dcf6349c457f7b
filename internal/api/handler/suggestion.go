package handler

import (
	"net/http"

	"github.com/Rrens/legal-assistant/internal/api/response"
	"github.com/Rrens/legal-assistant/internal/service"
)

type SuggestionHandler struct {
	app *service.App
}

func NewSuggestionHandler(app *service.App) *SuggestionHandler {
	return &SuggestionHandler{app: app}
}

// GetSuggestions returns the suggested questions for the current documents
func (h *SuggestionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.app.Suggestions())
}
