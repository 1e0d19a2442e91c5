package lobby

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	lobbyModel "github.com/plottwist/yngo/backend/internal/model/lobby"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(lobbyModel.NewMemoryStore(lobbyModel.Seed())).RegisterRoutes(r)
	return r
}

func TestListLobbies(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/lobbies", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var lobbies []lobbyModel.Lobby
	if err := json.NewDecoder(resp.Body).Decode(&lobbies); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(lobbies) != 2 {
		t.Fatalf("expected 2 seeded lobbies, got %d", len(lobbies))
	}
}

func TestGetLobbyByID(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/lobbies/hack-nation", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var l lobbyModel.Lobby
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if l.Host.Name != "Linn Bieske" {
		t.Fatalf("unexpected host: %q", l.Host.Name)
	}
}

func TestGetUnknownLobby(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/lobbies/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
