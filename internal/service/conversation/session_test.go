package conversation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/service/emotion"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
)

func npcTarget() chat.Target {
	return chat.Target{
		Kind: chat.TargetNPC,
		NPC: &chat.NPCTarget{
			LobbyID:  "hack-nation",
			HostName: "Linn Bieske",
			Persona:  "You are Linn Bieske, host of the HackNation lobby.",
		},
	}
}

func twinTarget() chat.Target {
	return chat.Target{
		Kind: chat.TargetDigitalTwin,
		Twin: &chat.TwinTarget{
			ProfileID: "profile-1",
			Username:  "ada",
			LobbyID:   "hack-nation",
		},
	}
}

// sseServer serves the given pre-rendered SSE body for every request.
func sseServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
}

func newTestSession(t *testing.T, endpoint string, target chat.Target, recorder interaction.Recorder) *Session {
	t.Helper()
	client := NewClient(endpoint, 100, 5*time.Second)
	session, err := NewSession(target, client, emotion.NewService(), recorder)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TestSendStreamsCumulativePartials(t *testing.T) {
	srv := sseServer(t, deltaFrame("Hel")+deltaFrame("lo")+"data: [DONE]\n\n")
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)

	var partials []string
	result, err := session.Send(context.Background(), "hi there", func(partial string) {
		partials = append(partials, partial)
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(partials) != 2 || partials[0] != "Hel" || partials[1] != "Hello" {
		t.Fatalf("expected cumulative partials [Hel Hello], got %v", partials)
	}
	if result.Message != "Hello" {
		t.Fatalf("expected final message Hello, got %q", result.Message)
	}
	if result.Animation != chat.AnimationTalk {
		t.Fatalf("expected Talk animation, got %q", result.Animation)
	}

	// System prompt + user turn + assistant turn.
	if got := len(session.HistorySnapshot()); got != 3 {
		t.Fatalf("expected 3 history turns after a round-trip, got %d", got)
	}
}

func TestSendCoercesNeutralToHappy(t *testing.T) {
	srv := sseServer(t, deltaFrame("The venue opens at nine.")+"data: [DONE]\n\n")
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)
	result, err := session.Send(context.Background(), "when does it open", nil)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if result.Emotion != "happy" {
		t.Fatalf("expected neutral text to resolve as happy, got %q", result.Emotion)
	}
}

func TestSendSurvivesMalformedFrames(t *testing.T) {
	body := deltaFrame("Hello ") + "data: {broken\n\n" + deltaFrame("world") + "data: [DONE]\n\n"
	srv := sseServer(t, body)
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)

	var partials []string
	result, err := session.Send(context.Background(), "hi", func(partial string) {
		partials = append(partials, partial)
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if result.Message != "Hello world" {
		t.Fatalf("expected valid fragments to be kept, got %q", result.Message)
	}
	if len(partials) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(partials))
	}
}

func TestSendTransportFailureYieldsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)
	lenBefore := len(session.HistorySnapshot())

	result, err := session.Send(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("transport failure should not surface as an error, got %v", err)
	}
	if result.Emotion != "confused" || result.Animation != chat.AnimationIdle {
		t.Fatalf("expected confused/Idle fallback, got %s/%s", result.Emotion, result.Animation)
	}
	if result.Message == "" {
		t.Fatal("fallback result should carry a message")
	}

	if got := len(session.HistorySnapshot()); got != lenBefore {
		t.Fatalf("failed round-trip must not grow history: had %d, got %d", lenBefore, got)
	}

	// The session stays usable afterwards.
	if _, err := session.Send(context.Background(), "retry", nil); err != nil {
		t.Fatalf("session should accept a new send after a failure: %v", err)
	}
}

func TestSendRejectsConcurrentRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(deltaFrame("late") + "data: [DONE]\n\n"))
	}))
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := session.Send(context.Background(), "first", nil)
		done <- err
	}()

	<-entered
	if _, err := session.Send(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for concurrent send, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send should complete: %v", err)
	}
}

func TestClearHistoryMidStreamAborts(t *testing.T) {
	srv := sseServer(t, deltaFrame("first")+deltaFrame("second")+"data: [DONE]\n\n")
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)

	var callbacks int
	_, err := session.Send(context.Background(), "hi", func(partial string) {
		callbacks++
		session.ClearHistory()
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted after mid-stream clear, got %v", err)
	}
	if callbacks != 1 {
		t.Fatalf("no callbacks may fire after the clear, got %d", callbacks)
	}
	if got := len(session.HistorySnapshot()); got != 1 {
		t.Fatalf("cleared history should hold only the system prompt, got %d turns", got)
	}
}

func TestCloseMidStreamSuppressesCommit(t *testing.T) {
	srv := sseServer(t, deltaFrame("first")+deltaFrame("second")+"data: [DONE]\n\n")
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)

	_, err := session.Send(context.Background(), "hi", func(partial string) {
		session.Close()
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted after close, got %v", err)
	}
}

func TestClearHistoryResetsToSystemPrompt(t *testing.T) {
	srv := sseServer(t, deltaFrame("hello")+"data: [DONE]\n\n")
	defer srv.Close()

	session := newTestSession(t, srv.URL, npcTarget(), nil)
	if _, err := session.Send(context.Background(), "hi", nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	session.ClearHistory()

	snapshot := session.HistorySnapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected only the system prompt after clear, got %d turns", len(snapshot))
	}
	if snapshot[0].Role != chat.RoleSystem {
		t.Fatalf("surviving turn must be the system prompt, got role %q", snapshot[0].Role)
	}
}

func TestTwinSendRecordsInteraction(t *testing.T) {
	srv := sseServer(t, deltaFrame("I'm off exploring!")+"data: [DONE]\n\n")
	defer srv.Close()

	recorder := interaction.NewMemoryRecorder()
	session := newTestSession(t, srv.URL, twinTarget(), recorder)

	result, err := session.Send(context.Background(), "where are you?", nil)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if result.Target.Kind != chat.TargetDigitalTwin || result.Target.ProfileID != "profile-1" {
		t.Fatalf("result should carry the twin target ref, got %+v", result.Target)
	}

	// Recording is fire-and-forget; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		records, err := recorder.Recent(context.Background(), "profile-1", 10)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(records) == 1 {
			if records[0].VisitorMessage != "where are you?" || records[0].TwinResponse != "I'm off exploring!" {
				t.Fatalf("unexpected record: %+v", records[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("twin interaction was never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewSessionRejectsInvalidTarget(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 100, time.Second)
	bad := chat.Target{Kind: chat.TargetNPC} // tag without variant

	if _, err := NewSession(bad, client, emotion.NewService(), nil); !errors.Is(err, chat.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}
