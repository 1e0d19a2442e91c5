package lobby

// Store exposes lobby retrieval for HTTP handlers and prompt construction.
type Store interface {
	List() []Lobby
	FindByID(id string) (Lobby, bool)
}

// MemoryStore implements Store with an in-memory slice; lobby configs are
// fixed at boot.
type MemoryStore struct {
	items []Lobby
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied lobbies.
func NewMemoryStore(items []Lobby) *MemoryStore {
	return &MemoryStore{items: append([]Lobby(nil), items...)}
}

// List returns the configured lobbies.
func (s *MemoryStore) List() []Lobby {
	return append([]Lobby(nil), s.items...)
}

// FindByID looks up a lobby by identifier.
func (s *MemoryStore) FindByID(id string) (Lobby, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Lobby{}, false
}
