package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	conversationService "github.com/plottwist/yngo/backend/internal/service/conversation"
)

// Handler bridges conversation sessions over a websocket so the 3D client can
// hold one connection per conversation instead of re-opening SSE streams.
type Handler struct {
	manager  *conversationService.Manager
	upgrader websocket.Upgrader
}

// New creates the websocket bridge.
func New(manager *conversationService.Manager) *Handler {
	return &Handler{
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/conversations/{sessionID}", h.handleConnection)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type outgoingMessage struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId,omitempty"`
	Content   string       `json:"content,omitempty"`
	Result    *chat.Result `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// wsConn serializes writes: deltas arrive from Send's callback while the ping
// loop writes from its own goroutine.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) sendJSON(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = time.Now().UnixMilli()
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (h *Handler) handleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, ok := h.manager.Get(sessionID)
	if !ok {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer raw.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	conn := &wsConn{conn: raw}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	raw.SetReadDeadline(time.Now().Add(60 * time.Second))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn, sessionID)

	conn.sendJSON(outgoingMessage{Type: "connected", SessionID: sessionID})

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(60 * time.Second))

		h.handleMessage(ctx, conn, session, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *wsConn, session *conversationService.Session, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		h.handleChatMessage(ctx, conn, session, msg.Text)
	case "clear":
		session.ClearHistory()
		conn.sendJSON(outgoingMessage{Type: "cleared", SessionID: session.ID()})
	default:
		conn.sendJSON(outgoingMessage{Type: "error", Error: "unsupported message type: " + msg.Type})
	}
}

func (h *Handler) handleChatMessage(ctx context.Context, conn *wsConn, session *conversationService.Session, text string) {
	if text == "" {
		conn.sendJSON(outgoingMessage{Type: "error", Error: "text is required"})
		return
	}

	result, err := session.Send(ctx, text, func(partial string) {
		conn.sendJSON(outgoingMessage{Type: "delta", Content: partial})
	})
	if err != nil {
		switch {
		case errors.Is(err, conversationService.ErrBusy):
			conn.sendJSON(outgoingMessage{Type: "error", Error: "a message is already streaming"})
		case errors.Is(err, conversationService.ErrAborted):
			conn.sendJSON(outgoingMessage{Type: "aborted", SessionID: session.ID()})
		default:
			log.Printf("[websocket] send failed for session=%s: %v", session.ID(), err)
			conn.sendJSON(outgoingMessage{Type: "error", Error: "message failed"})
		}
		return
	}

	conn.sendJSON(outgoingMessage{Type: "result", SessionID: session.ID(), Result: &result})
}

func (h *Handler) pingLoop(ctx context.Context, conn *wsConn, sessionID string) {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				log.Printf("[websocket] ping failed for session=%s: %v", sessionID, err)
				return
			}
		}
	}
}
