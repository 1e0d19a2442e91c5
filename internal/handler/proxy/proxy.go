package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/service/provider"
	"github.com/plottwist/yngo/backend/pkg/utils"
)

// Handler exposes the chat completion proxy. It keeps model credentials
// server-side and re-emits whatever provider is configured as a uniform
// OpenAI-style SSE stream.
type Handler struct {
	provider provider.Provider
}

// New creates the proxy handler.
func New(p provider.Provider) *Handler {
	return &Handler{provider: p}
}

// RegisterRoutes registers the completion endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleCompletion)
}

type completionRequest struct {
	Messages  []chat.Message `json:"messages"`
	MaxTokens int            `json:"max_tokens"`
	Stream    bool           `json:"stream"`
}

// chunk mirrors the OpenAI streaming chunk shape the frontend decoder expects.
type chunk struct {
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Content string `json:"content,omitempty"`
}

func (h *Handler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var payload completionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Messages) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "messages are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	stream, err := h.provider.Stream(r.Context(), payload.Messages, payload.MaxTokens)
	if err != nil {
		log.Printf("[proxy] %s stream failed: %v", h.provider.Name(), err)
		utils.RespondError(w, http.StatusInternalServerError, "completion failed")
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)

	for {
		token, err := stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("[proxy] %s stream interrupted: %v", h.provider.Name(), err)
			}
			break
		}
		if token == "" {
			continue
		}
		utils.SendSSEChunk(w, flusher, chunk{
			Choices: []chunkChoice{{Delta: chunkDelta{Content: token}}},
		})
	}

	stop := "stop"
	utils.SendSSEChunk(w, flusher, chunk{
		Choices: []chunkChoice{{FinishReason: &stop}},
	})
	utils.SendSSERaw(w, flusher, "[DONE]")
}
