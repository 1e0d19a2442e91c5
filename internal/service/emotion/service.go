// Package emotion resolves the emotion marker and animation hint attached to
// a committed chat result.
package emotion

import (
	analysis "github.com/plottwist/yngo/backend/internal/analysis/emotion"
	"github.com/plottwist/yngo/backend/internal/model/chat"
)

// Service maps an exchange onto the result's emotion and animation fields.
type Service struct{}

// NewService returns the heuristic resolver.
func NewService() *Service {
	return &Service{}
}

// Resolve picks the emotion and animation for a successfully committed
// response. A neutral read defaults to happy: hosts and twins greet the
// world cheerfully unless the text says otherwise.
func (s *Service) Resolve(userText, assistantText string) (string, string) {
	decision := analysis.Analyze(userText, assistantText)

	label := decision.Emotion
	if label == analysis.Neutral {
		label = analysis.Happy
	}

	animation := chat.AnimationTalk
	if label == analysis.Confused {
		animation = chat.AnimationIdle
	}
	return string(label), animation
}
