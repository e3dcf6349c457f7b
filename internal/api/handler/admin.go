package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/legal-assistant/internal/api/response"
	"github.com/Rrens/legal-assistant/internal/service"
)

// AdminHandler handles the admin gate
type AdminHandler struct {
	app *service.App
}

func NewAdminHandler(app *service.App) *AdminHandler {
	return &AdminHandler{app: app}
}

type loginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.app.AdminStatus())
}

// Login opens the admin session on a matching passphrase
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	if err := h.app.Login(input.Passphrase); err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	response.OK(w, h.app.AdminStatus())
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.app.Logout()
	response.OK(w, h.app.AdminStatus())
}

func (h *AdminHandler) OpenPrompt(w http.ResponseWriter, r *http.Request) {
	h.app.OpenLoginPrompt()
	response.OK(w, h.app.AdminStatus())
}

func (h *AdminHandler) ClosePrompt(w http.ResponseWriter, r *http.Request) {
	h.app.CloseLoginPrompt()
	response.OK(w, h.app.AdminStatus())
}
