package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plottwist/yngo/backend/internal/model/profile"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
	"github.com/plottwist/yngo/backend/pkg/utils"
)

// Handler serves user profiles, their avatar state, and the twin interaction
// log.
type Handler struct {
	profiles     profile.Store
	interactions interaction.Recorder
}

// New creates the profile handler.
func New(profiles profile.Store, interactions interaction.Recorder) *Handler {
	return &Handler{profiles: profiles, interactions: interactions}
}

// RegisterRoutes registers profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/profiles", h.handleCreate)
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/{profileID}", h.handleGet)
	r.Get("/profiles/{profileID}/state", h.handleAvatarState)
	r.Put("/profiles/{profileID}/state", h.handleSetAvatarState)
	r.Post("/profiles/{profileID}/offline", h.handleMarkOffline)
	r.Get("/profiles/{profileID}/interactions", h.handleInteractions)
}

type createRequest struct {
	Username          string   `json:"username"`
	SelectedAvatar    string   `json:"selectedAvatarModel"`
	Personality       string   `json:"personality"`
	Bio               string   `json:"bio"`
	Interests         []string `json:"interests"`
	PreferredGreeting string   `json:"preferredGreeting"`
	FavoriteLobby     string   `json:"favoriteLobby"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" {
		utils.RespondError(w, http.StatusBadRequest, "username is required")
		return
	}

	p := profile.Profile{
		Username:          payload.Username,
		SelectedAvatar:    payload.SelectedAvatar,
		Bio:               payload.Bio,
		Interests:         payload.Interests,
		PreferredGreeting: payload.PreferredGreeting,
		FavoriteLobby:     payload.FavoriteLobby,
	}
	if payload.Personality != "" {
		p.PersonalityPrompt = profile.SynthesizePersonalityPrompt(
			payload.Username, payload.Personality, payload.Bio, payload.Interests, payload.PreferredGreeting)
	}

	created, err := h.profiles.Create(r.Context(), p)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, profile.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	p, ok := h.profiles.FindByID(r.Context(), id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleAvatarState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	state, ok := h.profiles.AvatarState(r.Context(), id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleSetAvatarState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")

	var state profile.AvatarState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state.ProfileID = id

	if err := h.profiles.SetAvatarState(r.Context(), state); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, profile.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleMarkOffline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")

	var payload struct {
		Behavior string `json:"aiBehavior"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.profiles.MarkOffline(r.Context(), id, payload.Behavior); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, profile.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "offline"})
}

func (h *Handler) handleInteractions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	if _, ok := h.profiles.FindByID(r.Context(), id); !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.interactions.Recent(r.Context(), id, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load interactions")
		return
	}
	if records == nil {
		records = []interaction.Record{}
	}
	utils.RespondJSON(w, http.StatusOK, records)
}
