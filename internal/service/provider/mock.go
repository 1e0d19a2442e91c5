package provider

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/plottwist/yngo/backend/internal/model/chat"
)

const demoReply = "Hello! I'm currently in demo mode since the API key isn't configured. " +
	"In a real deployment, I would be powered by AI to have dynamic conversations!"

// Mock simulates a streaming completion when no real provider is configured.
// It emits a fixed reply word by word with a small delay so the frontend's
// streaming path can be exercised without credentials.
type Mock struct {
	reply string
	delay time.Duration
}

// NewMock returns the demo provider.
func NewMock() *Mock {
	return &Mock{reply: demoReply, delay: 100 * time.Millisecond}
}

// Name identifies the provider in logs.
func (m *Mock) Name() string { return "mock" }

// Stream emits the canned reply one word at a time.
func (m *Mock) Stream(ctx context.Context, _ []chat.Message, _ int) (TokenStream, error) {
	return &mockStream{
		ctx:   ctx,
		words: strings.Fields(m.reply),
		delay: m.delay,
	}, nil
}

type mockStream struct {
	ctx   context.Context
	words []string
	pos   int
	delay time.Duration
}

func (s *mockStream) Recv() (string, error) {
	if s.pos >= len(s.words) {
		return "", io.EOF
	}

	select {
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	case <-time.After(s.delay):
	}

	word := s.words[s.pos]
	s.pos++
	if s.pos < len(s.words) {
		word += " "
	}
	return word, nil
}

func (s *mockStream) Close() {}
