package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plottwist/yngo/backend/internal/config"
	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/service/conversation"
)

// OpenRouter streams completions from the OpenRouter chat-completions API.
type OpenRouter struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

// NewOpenRouter builds the OpenRouter provider from configuration.
func NewOpenRouter(cfg config.AIConfig) *OpenRouter {
	return &OpenRouter{
		apiKey:     cfg.OpenRouterKey,
		url:        cfg.OpenRouterURL,
		model:      cfg.OpenRouterModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Name identifies the provider in logs.
func (o *OpenRouter) Name() string { return "openrouter" }

type openRouterRequest struct {
	Model     string         `json:"model"`
	Messages  []chat.Message `json:"messages"`
	MaxTokens int            `json:"max_tokens"`
	Stream    bool           `json:"stream"`
}

// Stream opens a streaming completion request upstream and decodes its SSE
// body into tokens.
func (o *OpenRouter) Stream(ctx context.Context, messages []chat.Message, maxTokens int) (TokenStream, error) {
	payload, err := json.Marshal(openRouterRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: maxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal openrouter request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create openrouter request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	return &sseTokenStream{body: resp.Body, dec: conversation.NewDecoder()}, nil
}

// sseTokenStream adapts an upstream SSE body into a TokenStream.
type sseTokenStream struct {
	body    io.ReadCloser
	dec     *conversation.Decoder
	pending []chat.Delta
	buf     [4096]byte
}

func (s *sseTokenStream) Recv() (string, error) {
	for {
		if len(s.pending) > 0 {
			delta := s.pending[0]
			s.pending = s.pending[1:]
			return delta.Text, nil
		}
		if s.dec.Done() {
			return "", io.EOF
		}

		n, err := s.body.Read(s.buf[:])
		if n > 0 {
			s.pending = s.dec.Feed(s.buf[:n])
		}
		if err != nil {
			if len(s.pending) > 0 {
				continue
			}
			if err == io.EOF {
				return "", io.EOF
			}
			return "", fmt.Errorf("read openrouter stream: %w", err)
		}
	}
}

func (s *sseTokenStream) Close() {
	s.body.Close()
}
