package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrProfileNotFound = errors.New("profile not found")
)

// Store persists profiles and their avatar state.
type Store interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	FindByID(ctx context.Context, id string) (Profile, bool)
	FindByUsername(ctx context.Context, username string) (Profile, bool)
	List(ctx context.Context) []Profile
	SetAvatarState(ctx context.Context, state AvatarState) error
	AvatarState(ctx context.Context, profileID string) (AvatarState, bool)
	MarkOffline(ctx context.Context, profileID, behavior string) error
}

// MemoryStore is the in-memory Store used when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	states   map[string]AvatarState
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		states:   make(map[string]AvatarState),
	}
}

// Create stores a new profile, filling in id, timestamps, and the synthesized
// personality prompt when absent.
func (s *MemoryStore) Create(_ context.Context, p Profile) (Profile, error) {
	if strings.TrimSpace(p.Username) == "" {
		return Profile{}, errors.New("username is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Username, p.Username) {
			return Profile{}, ErrUsernameTaken
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.LastSeen = now
	if p.PersonalityPrompt == "" {
		p.PersonalityPrompt = SynthesizePersonalityPrompt(p.Username, "", p.Bio, p.Interests, p.PreferredGreeting)
	}

	s.profiles[p.ID] = p
	s.states[p.ID] = AvatarState{
		ProfileID:    p.ID,
		Animation:    "Idle",
		IsOnline:     true,
		Behavior:     BehaviorIdle,
		LastActivity: now,
	}
	return p, nil
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(_ context.Context, id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// FindByUsername looks up a profile by username, case-insensitively.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if strings.EqualFold(p.Username, username) {
			return p, true
		}
	}
	return Profile{}, false
}

// List returns all stored profiles.
func (s *MemoryStore) List(_ context.Context) []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out
}

// SetAvatarState replaces the avatar state for a profile.
func (s *MemoryStore) SetAvatarState(_ context.Context, state AvatarState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[state.ProfileID]; !ok {
		return ErrProfileNotFound
	}
	if state.LastActivity.IsZero() {
		state.LastActivity = time.Now().UTC()
	}
	s.states[state.ProfileID] = state
	return nil
}

// AvatarState returns the current avatar state for a profile.
func (s *MemoryStore) AvatarState(_ context.Context, profileID string) (AvatarState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[profileID]
	return state, ok
}

// MarkOffline flips a profile's avatar to offline and hands it to the twin
// behavior given (default idle). The profile's last seen timestamp is bumped
// so "last online" renders correctly while the twin is answering.
func (s *MemoryStore) MarkOffline(_ context.Context, profileID, behavior string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return ErrProfileNotFound
	}
	p.LastSeen = time.Now().UTC()
	s.profiles[profileID] = p

	state := s.states[profileID]
	state.ProfileID = profileID
	state.IsOnline = false
	if behavior == "" {
		behavior = BehaviorIdle
	}
	state.Behavior = behavior
	state.LastActivity = p.LastSeen
	s.states[profileID] = state
	return nil
}
