package conversation

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	conversationService "github.com/plottwist/yngo/backend/internal/service/conversation"
	"github.com/plottwist/yngo/backend/pkg/utils"
)

// Handler exposes conversation sessions over REST plus an SSE stream for the
// round-trip itself.
type Handler struct {
	manager *conversationService.Manager
}

// New creates the conversation handler.
func New(manager *conversationService.Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleCreate)
	r.Get("/conversations/{sessionID}", h.handleGet)
	r.Get("/conversations/{sessionID}/stream", h.handleStream)
	r.Post("/conversations/{sessionID}/clear", h.handleClear)
	r.Delete("/conversations/{sessionID}", h.handleDispose)
}

type createRequest struct {
	Owner  string      `json:"owner"`
	Target chat.Target `json:"target"`
}

type sessionResponse struct {
	ID     string      `json:"id"`
	Target chat.Target `json:"target"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.manager.StartChat(payload.Owner, payload.Target)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sessionResponse{
		ID:     session.ID(),
		Target: session.Target(),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.manager.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"id":      session.ID(),
		"target":  session.Target(),
		"history": session.HistorySnapshot(),
	})
}

// streamResponse is one SSE frame of the conversation stream.
type streamResponse struct {
	Event     string       `json:"event"`
	Content   string       `json:"content,omitempty"`
	SessionID string       `json:"sessionId,omitempty"`
	Result    *chat.Result `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	session, ok := h.manager.Get(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, streamResponse{Event: "start", SessionID: sessionID})

	result, err := session.Send(r.Context(), userMessage, func(partial string) {
		utils.SendSSEChunk(w, flusher, streamResponse{Event: "delta", Content: partial})
	})
	if err != nil {
		switch {
		case errors.Is(err, conversationService.ErrBusy):
			utils.SendSSEChunk(w, flusher, streamResponse{Event: "error", Error: "a message is already streaming"})
		case errors.Is(err, conversationService.ErrAborted):
			utils.SendSSEChunk(w, flusher, streamResponse{Event: "aborted"})
		default:
			log.Printf("[stream] send failed for session=%s: %v", sessionID, err)
			utils.SendSSEChunk(w, flusher, streamResponse{Event: "error", Error: "message failed"})
		}
		utils.SendSSEChunk(w, flusher, streamResponse{Event: "end", SessionID: sessionID})
		return
	}

	utils.SendSSEChunk(w, flusher, streamResponse{Event: "result", Result: &result})
	utils.SendSSEChunk(w, flusher, streamResponse{Event: "end", SessionID: sessionID})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	session, ok := h.manager.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	session.ClearHistory()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleDispose(w http.ResponseWriter, r *http.Request) {
	h.manager.Dispose(chi.URLParam(r, "sessionID"))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "disposed"})
}
