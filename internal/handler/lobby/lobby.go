package lobby

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plottwist/yngo/backend/internal/model/lobby"
	"github.com/plottwist/yngo/backend/pkg/utils"
)

// Handler serves the lobby registry.
type Handler struct {
	lobbies lobby.Store
}

// New creates the lobby handler.
func New(lobbies lobby.Store) *Handler {
	return &Handler{lobbies: lobbies}
}

// RegisterRoutes registers lobby routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/lobbies", h.handleList)
	r.Get("/lobbies/{lobbyID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.lobbies.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lobbyID")
	l, ok := h.lobbies.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "lobby not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, l)
}
