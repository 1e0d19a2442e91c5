package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/plottwist/yngo/backend/internal/config"
	"github.com/plottwist/yngo/backend/internal/model/chat"
)

// Ark streams completions from a Volcengine Ark chat model.
type Ark struct {
	chatModel model.ChatModel
}

// NewArk builds the Ark provider from configuration.
func NewArk(ctx context.Context, cfg config.AIConfig) (*Ark, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}
	return &Ark{chatModel: chatModel}, nil
}

// Name identifies the provider in logs.
func (a *Ark) Name() string { return "ark" }

// Stream opens a streaming completion for the message history. Generation
// limits are fixed at model construction; maxTokens is accepted for interface
// symmetry.
func (a *Ark) Stream(ctx context.Context, messages []chat.Message, _ int) (TokenStream, error) {
	reader, err := a.chatModel.Stream(ctx, toSchemaMessages(messages))
	if err != nil {
		return nil, fmt.Errorf("stream ark completion: %w", err)
	}
	return &arkStream{reader: reader}, nil
}

func toSchemaMessages(messages []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return out
}

type arkStream struct {
	reader *schema.StreamReader[*schema.Message]
}

func (s *arkStream) Recv() (string, error) {
	for {
		chunk, err := s.reader.Recv()
		if err != nil {
			return "", err
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		return chunk.Content, nil
	}
}

func (s *arkStream) Close() {
	s.reader.Close()
}
