package conversation

import (
	"errors"
	"sync"

	"github.com/plottwist/yngo/backend/internal/model/chat"
	"github.com/plottwist/yngo/backend/internal/service/emotion"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
)

var ErrSessionNotFound = errors.New("conversation session not found")

// Manager owns the live sessions, one per active chat target. There is no
// process-wide chat singleton: each owner (browser client) gets its own
// session value, created on target switch and disposed explicitly.
type Manager struct {
	client   *Client
	emotions *emotion.Service
	recorder interaction.Recorder

	mu       sync.Mutex
	sessions map[string]*Session
	byOwner  map[string]string
}

// NewManager wires the shared collaborators for all sessions.
func NewManager(client *Client, emotions *emotion.Service, recorder interaction.Recorder) *Manager {
	return &Manager{
		client:   client,
		emotions: emotions,
		recorder: recorder,
		sessions: make(map[string]*Session),
		byOwner:  make(map[string]string),
	}
}

// StartChat creates a fresh session for the owner and target. Any previous
// session belonging to the same owner is closed first, so a stream still in
// flight for the abandoned target can neither call back nor commit.
func (m *Manager) StartChat(owner string, target chat.Target) (*Session, error) {
	session, err := NewSession(target, m.client, m.emotions, m.recorder)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prevID, ok := m.byOwner[owner]; ok {
		if prev, ok := m.sessions[prevID]; ok {
			prev.Close()
			delete(m.sessions, prevID)
		}
	}

	m.sessions[session.ID()] = session
	if owner != "" {
		m.byOwner[owner] = session.ID()
	}
	return session, nil
}

// Get returns a live session by identifier.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Dispose closes and removes a session.
func (m *Manager) Dispose(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return
	}
	session.Close()
	delete(m.sessions, id)
	for owner, sid := range m.byOwner {
		if sid == id {
			delete(m.byOwner, owner)
		}
	}
}
