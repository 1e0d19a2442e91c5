package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	conversationHandler "github.com/plottwist/yngo/backend/internal/handler/conversation"
	lobbyHandler "github.com/plottwist/yngo/backend/internal/handler/lobby"
	profileHandler "github.com/plottwist/yngo/backend/internal/handler/profile"
	proxyHandler "github.com/plottwist/yngo/backend/internal/handler/proxy"
	wsHandler "github.com/plottwist/yngo/backend/internal/handler/ws"
	middlewarePkg "github.com/plottwist/yngo/backend/internal/middleware"
	lobbyModel "github.com/plottwist/yngo/backend/internal/model/lobby"
	profileModel "github.com/plottwist/yngo/backend/internal/model/profile"
	conversationService "github.com/plottwist/yngo/backend/internal/service/conversation"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
	"github.com/plottwist/yngo/backend/internal/service/provider"
	"github.com/plottwist/yngo/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	lobbies lobbyModel.Store,
	profiles profileModel.Store,
	interactions interaction.Recorder,
	manager *conversationService.Manager,
	aiProvider provider.Provider,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		proxyHandler.New(aiProvider).RegisterRoutes(api)
		lobbyHandler.New(lobbies).RegisterRoutes(api)
		profileHandler.New(profiles, interactions).RegisterRoutes(api)
		conversationHandler.New(manager).RegisterRoutes(api)
	})

	wsHandler.New(manager).RegisterRoutes(r)

	return r
}
