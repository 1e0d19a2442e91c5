// Package conversation implements the streaming chat core: message history,
// the transport to the chat proxy, SSE decoding, and the session state
// machine that ties them together.
package conversation

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	analysis "github.com/plottwist/yngo/backend/internal/analysis/emotion"
	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/service/emotion"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
	"github.com/plottwist/yngo/backend/internal/service/prompt"
)

var (
	// ErrBusy rejects a Send while a previous one is still streaming. One
	// in-flight request per session; concurrent sessions for different
	// targets are independent.
	ErrBusy = errors.New("conversation already has a request in flight")
	// ErrAborted reports that the session was cleared, closed, or superseded
	// while the request was in flight; no callbacks fired after the cutoff
	// and no history was mutated.
	ErrAborted = errors.New("conversation superseded before completion")
)

// ProgressFunc receives the cumulative accumulated text after every delta.
// The UI renders the full partial message, not a diff, so the argument is the
// whole text so far.
type ProgressFunc func(partial string)

// Session drives one conversation with one chat target. It owns its history
// exclusively; nothing else writes to it. Transport and decode failures are
// absorbed into a canned fallback result; Send only errors for lifecycle
// conditions (ErrBusy, ErrAborted).
type Session struct {
	id       string
	target   chat.Target
	client   *Client
	emotions *emotion.Service
	recorder interaction.Recorder

	mu       sync.Mutex
	history  *History
	epoch    uint64
	inFlight bool
}

// NewSession seeds a session for the given target. The target must be a valid
// variant; a zero Kind is allowed and falls back to the generic persona.
func NewSession(target chat.Target, client *Client, emotions *emotion.Service, recorder interaction.Recorder) (*Session, error) {
	if target.Kind != "" {
		if err := target.Validate(); err != nil {
			return nil, err
		}
	}
	return &Session{
		id:       uuid.NewString(),
		target:   target,
		client:   client,
		emotions: emotions,
		recorder: recorder,
		history:  NewHistory(prompt.BuildSystemPrompt(target)),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Target returns the session's chat target descriptor.
func (s *Session) Target() chat.Target { return s.target }

// HistorySnapshot returns a copy of the current history.
func (s *Session) HistorySnapshot() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Snapshot()
}

// ClearHistory truncates the history to the system prompt. It is safe to call
// mid-stream: the epoch bump makes any in-flight request abort before it can
// commit into (or call back about) the cleared conversation.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.history.Reset()
}

// Close abandons the session. Any in-flight stream stops invoking callbacks
// and never commits.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// Send appends the user turn, streams the assistant response, and commits it.
// onProgress fires synchronously, in delta arrival order, with the cumulative
// text. On transport or fatal decode failure the user turn is rolled back and
// a target-specific fallback result is returned with a nil error, and the
// session stays usable for the next Send.
func (s *Session) Send(ctx context.Context, userText string, onProgress ProgressFunc) (chat.Result, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return chat.Result{}, ErrBusy
	}
	s.inFlight = true
	epoch := s.epoch
	lenBefore := s.history.Len()
	s.history.Append(chat.RoleUser, userText)
	snapshot := s.history.Snapshot()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	body, err := s.client.Send(ctx, snapshot)
	if err != nil {
		log.Printf("[conversation] transport failed for session=%s: %v", s.id, err)
		return s.recover(epoch, lenBefore)
	}
	defer body.Close()

	var acc strings.Builder
	dec := NewDecoder()
	buf := make([]byte, 4096)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, delta := range dec.Feed(buf[:n]) {
				if !s.epochAlive(epoch) {
					return chat.Result{}, ErrAborted
				}
				acc.WriteString(delta.Text)
				if onProgress != nil {
					onProgress(acc.String())
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if !s.epochAlive(epoch) {
				return chat.Result{}, ErrAborted
			}
			log.Printf("[conversation] stream read failed for session=%s: %v", s.id, readErr)
			return s.recover(epoch, lenBefore)
		}
		if dec.Done() {
			break
		}
	}

	message := acc.String()

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return chat.Result{}, ErrAborted
	}
	s.history.Append(chat.RoleAssistant, message)
	s.mu.Unlock()

	emotionLabel, animation := s.emotions.Resolve(userText, message)
	result := chat.Result{
		Message:   message,
		Emotion:   emotionLabel,
		Animation: animation,
		Target:    s.target.Ref(),
	}

	if s.target.Kind == chat.TargetDigitalTwin && s.recorder != nil {
		go s.recordInteraction(userText, message)
	}

	return result, nil
}

func (s *Session) epochAlive(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return epoch == s.epoch
}

// recover rolls the history back to its pre-Send length and produces the
// fallback result. Failed is not sticky: nothing else changes.
func (s *Session) recover(epoch uint64, lenBefore int) (chat.Result, error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return chat.Result{}, ErrAborted
	}
	s.history.truncate(lenBefore)
	s.mu.Unlock()

	return chat.Result{
		Message:   fallbackMessage(s.target),
		Emotion:   string(analysis.Confused),
		Animation: chat.AnimationIdle,
		Target:    s.target.Ref(),
	}, nil
}

// recordInteraction writes the exchange for the twin's owner to review.
// Fire-and-forget: failures are logged and swallowed.
func (s *Session) recordInteraction(userText, twinResponse string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := interaction.Record{
		ProfileID:      s.target.Twin.ProfileID,
		LobbyID:        s.target.Twin.LobbyID,
		VisitorMessage: userText,
		TwinResponse:   twinResponse,
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		log.Printf("[conversation] failed to record twin interaction for profile=%s: %v", rec.ProfileID, err)
	}
}

// fallbackMessage picks the canned reply for a failed round-trip, distinct
// per target category.
func fallbackMessage(target chat.Target) string {
	switch target.Kind {
	case chat.TargetNPC:
		switch target.NPC.LobbyID {
		case "hack-nation":
			return "Sorry, my connection to the hackathon servers is having issues. Try again in a moment!"
		case "english-professor":
			return "My apologies, but I seem to be having difficulty with my communication channels at the moment."
		}
		return "Apologies, I seem to be having trouble communicating right now."
	case chat.TargetDigitalTwin:
		return target.Twin.Username + " seems to be daydreaming right now. Give them a moment and try again!"
	}
	return "Apologies, I seem to be having trouble communicating right now."
}
