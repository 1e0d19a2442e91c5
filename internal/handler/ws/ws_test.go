package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	conversationService "github.com/plottwist/yngo/backend/internal/service/conversation"
	"github.com/plottwist/yngo/backend/internal/service/emotion"
)

func proxyStub(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
}

func deltaFrame(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"delta": map[string]string{"content": content}, "finish_reason": nil}},
	})
	return "data: " + string(payload) + "\n\n"
}

func setup(t *testing.T, proxyURL string) (*httptest.Server, *conversationService.Manager) {
	t.Helper()
	client := conversationService.NewClient(proxyURL, 100, 5*time.Second)
	manager := conversationService.NewManager(client, emotion.NewService(), nil)

	r := chi.NewRouter()
	New(manager).RegisterRoutes(r)
	return httptest.NewServer(r), manager
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/conversations/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) outgoingMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg outgoingMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestWebSocketChatRoundTrip(t *testing.T) {
	proxy := proxyStub(deltaFrame("Hel") + deltaFrame("lo") + "data: [DONE]\n\n")
	defer proxy.Close()

	srv, manager := setup(t, proxy.URL)
	defer srv.Close()

	session, err := manager.StartChat("owner", chat.Target{
		Kind: chat.TargetNPC,
		NPC:  &chat.NPCTarget{LobbyID: "hack-nation", HostName: "Linn", Persona: "You are Linn."},
	})
	if err != nil {
		t.Fatalf("start chat failed: %v", err)
	}

	conn := dial(t, srv, session.ID())
	defer conn.Close()

	if msg := readMessage(t, conn); msg.Type != "connected" {
		t.Fatalf("expected connected frame first, got %q", msg.Type)
	}

	if err := conn.WriteJSON(inboundMessage{Type: "message", Text: "hi"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	first := readMessage(t, conn)
	if first.Type != "delta" || first.Content != "Hel" {
		t.Fatalf("expected first cumulative delta, got %+v", first)
	}
	second := readMessage(t, conn)
	if second.Type != "delta" || second.Content != "Hello" {
		t.Fatalf("expected second cumulative delta, got %+v", second)
	}

	final := readMessage(t, conn)
	if final.Type != "result" || final.Result == nil || final.Result.Message != "Hello" {
		t.Fatalf("expected result frame, got %+v", final)
	}
}

func TestWebSocketClear(t *testing.T) {
	srv, manager := setup(t, "http://127.0.0.1:0")
	defer srv.Close()

	session, _ := manager.StartChat("owner", chat.Target{})
	conn := dial(t, srv, session.ID())
	defer conn.Close()

	readMessage(t, conn) // connected

	if err := conn.WriteJSON(inboundMessage{Type: "clear"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != "cleared" {
		t.Fatalf("expected cleared frame, got %q", msg.Type)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t, "http://127.0.0.1:0")
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/conversations/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on upgrade, got %+v", resp)
	}
}

func TestWebSocketRejectsUnknownMessageType(t *testing.T) {
	srv, manager := setup(t, "http://127.0.0.1:0")
	defer srv.Close()

	session, _ := manager.StartChat("owner", chat.Target{})
	conn := dial(t, srv, session.ID())
	defer conn.Close()

	readMessage(t, conn) // connected

	conn.WriteJSON(inboundMessage{Type: "dance"})
	if msg := readMessage(t, conn); msg.Type != "error" {
		t.Fatalf("expected error frame, got %q", msg.Type)
	}
}
