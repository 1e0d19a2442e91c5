// Package provider implements the model backends behind the chat proxy
// endpoint: Volcengine Ark via eino, OpenRouter over plain HTTP, and a
// simulated stream for credential-less deployments.
package provider

import (
	"context"
	"log"

	"github.com/plottwist/yngo/backend/internal/config"
	"github.com/plottwist/yngo/backend/internal/model/chat"
)

// TokenStream yields incremental text fragments of one completion. Recv
// returns io.EOF when the stream is exhausted.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// Provider turns a message history into a completion token stream.
type Provider interface {
	Name() string
	Stream(ctx context.Context, messages []chat.Message, maxTokens int) (TokenStream, error)
}

// FromConfig selects the provider: an explicit AI_PROVIDER wins, otherwise
// the first configured credential, otherwise the demo stream.
func FromConfig(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "ark":
		return NewArk(ctx, cfg)
	case "openrouter":
		return NewOpenRouter(cfg), nil
	case "mock":
		return NewMock(), nil
	case "":
		// auto-select below
	default:
		log.Printf("[provider] unknown AI_PROVIDER %q, falling back to auto-select", cfg.Provider)
	}

	if cfg.ArkEnabled() {
		return NewArk(ctx, cfg)
	}
	if cfg.OpenRouterEnabled() {
		return NewOpenRouter(cfg), nil
	}
	log.Println("[provider] no model credentials configured, serving simulated streams")
	return NewMock(), nil
}
