package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/plottwist/yngo/backend/internal/config"
	"github.com/plottwist/yngo/backend/internal/handler"
	"github.com/plottwist/yngo/backend/internal/model/lobby"
	"github.com/plottwist/yngo/backend/internal/model/profile"
	"github.com/plottwist/yngo/backend/internal/repository"
	conversationService "github.com/plottwist/yngo/backend/internal/service/conversation"
	emotionservice "github.com/plottwist/yngo/backend/internal/service/emotion"
	"github.com/plottwist/yngo/backend/internal/service/interaction"
	"github.com/plottwist/yngo/backend/internal/service/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Stores for the world registry and profiles
	lobbyStore := lobby.NewMemoryStore(lobby.Seed())
	profileStore := profile.NewMemoryStore()

	// Twin interaction log: postgres when configured, in-memory otherwise
	var recorder interaction.Recorder
	if cfg.Database.Enabled() {
		if err := repository.RunMigrations(cfg.Database.URL); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		pool, err := repository.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()
		recorder = interaction.NewPostgresRecorder(pool)
		log.Println("twin interaction log backed by postgres")
	} else {
		recorder = interaction.NewMemoryRecorder()
		log.Println("DATABASE_URL not set, twin interaction log kept in memory")
	}

	// Completion provider behind the chat proxy
	aiProvider, err := provider.FromConfig(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize completion provider: %v", err)
	}
	log.Printf("completion provider: %s", aiProvider.Name())

	// Conversation core: every session talks to the proxy endpoint, which
	// keeps provider credentials out of the session path.
	client := conversationService.NewClient(
		cfg.Chat.ProxyURL,
		cfg.Chat.MaxTokens,
		time.Duration(cfg.Chat.RequestTimeout)*time.Second,
	)
	manager := conversationService.NewManager(client, emotionservice.NewService(), recorder)

	router := handler.NewRouter(lobbyStore, profileStore, recorder, manager, aiProvider)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("YNGO backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
