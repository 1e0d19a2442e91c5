package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plottwist/yngo/backend/internal/model/chat"
)

func TestClientSendsFullHistoryWithFixedParameters(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 100, time.Second)
	history := []chat.Message{
		{Role: chat.RoleSystem, Content: "seed"},
		{Role: chat.RoleUser, Content: "hi"},
	}

	body, err := client.Send(context.Background(), history)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	io.Copy(io.Discard, body)
	body.Close()

	if len(got.Messages) != 2 {
		t.Fatalf("expected full history in request, got %d messages", len(got.Messages))
	}
	if got.MaxTokens != 100 {
		t.Fatalf("expected max_tokens 100, got %d", got.MaxTokens)
	}
	if !got.Stream {
		t.Fatal("stream must always be requested")
	}
}

func TestClientReportsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 100, time.Second)
	_, err := client.Send(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "hi"}})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", transportErr.Status)
	}
}

func TestClientDefaultsGenerationParameters(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 0, 0)
	if client.maxTokens != 5000 {
		t.Fatalf("expected default max tokens 5000, got %d", client.maxTokens)
	}
	if client.httpClient.Timeout != 120*time.Second {
		t.Fatalf("expected default timeout 120s, got %v", client.httpClient.Timeout)
	}
}
