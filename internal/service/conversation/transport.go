package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plottwist/yngo/backend/internal/model/chat"
)

// TransportError reports a non-success HTTP status from the proxy endpoint.
type TransportError struct {
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat proxy returned status %d", e.Status)
}

// Client issues completion requests to the backend proxy endpoint and hands
// back the live response body for incremental reading. It never touches the
// message history; that is the session's job.
type Client struct {
	endpoint   string
	maxTokens  int
	httpClient *http.Client
}

// NewClient builds a transport client for the given proxy endpoint. The
// timeout is defensive: the upstream proxy may hang, and there is no retry.
func NewClient(endpoint string, maxTokens int, timeout time.Duration) *Client {
	if maxTokens <= 0 {
		maxTokens = 5000
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Messages  []chat.Message `json:"messages"`
	MaxTokens int            `json:"max_tokens"`
	Stream    bool           `json:"stream"`
}

// Send posts the full history snapshot with fixed generation parameters and
// returns the raw byte stream. Callers own closing the returned body.
func (c *Client) Send(ctx context.Context, history []chat.Message) (io.ReadCloser, error) {
	payload, err := json.Marshal(completionRequest{
		Messages:  history,
		MaxTokens: c.maxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &TransportError{Status: resp.StatusCode}
	}

	return resp.Body, nil
}
