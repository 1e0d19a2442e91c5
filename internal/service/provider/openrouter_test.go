package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plottwist/yngo/backend/internal/config"
	"github.com/plottwist/yngo/backend/internal/model/chat"
)

func openRouterForTest(url string) *OpenRouter {
	return NewOpenRouter(config.AIConfig{
		OpenRouterKey:   "test-key",
		OpenRouterURL:   url,
		OpenRouterModel: "test/model",
	})
}

func TestOpenRouterStreamsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var req openRouterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "test/model" || !req.Stream {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"Hel"},"finish_reason":null}]}` + "\n\n"))
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"lo"},"finish_reason":null}]}` + "\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	stream, err := openRouterForTest(srv.URL).Stream(context.Background(),
		[]chat.Message{{Role: chat.RoleUser, Content: "hi"}}, 100)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		b.WriteString(token)
	}

	if b.String() != "Hello" {
		t.Fatalf("expected Hello, got %q", b.String())
	}
}

func TestOpenRouterRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := openRouterForTest(srv.URL).Stream(context.Background(), nil, 100)
	if err == nil {
		t.Fatal("expected an error for non-success status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry the status, got %v", err)
	}
}

func TestOpenRouterTimeoutIsBounded(t *testing.T) {
	o := openRouterForTest("http://127.0.0.1:0")
	if o.httpClient.Timeout != 120*time.Second {
		t.Fatalf("expected 120s timeout, got %v", o.httpClient.Timeout)
	}
}
