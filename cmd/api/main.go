package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := crypto.NewGenerator(nil)
	genHandler := handler.NewGeneratorHandler(service.NewGeneratorService(gen))

	routes := handler.RouterConfig{
		Generator:      genHandler,
		SessionSecret:  cfg.SessionSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}

	// Sessions are disabled rather than fatal if the configured backend is unreachable.
	store, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		slog.Warn("session store unavailable, session routes disabled", "store", cfg.SessionStore, "error", err)
	} else {
		defer closer.Close()
		sessionService := service.NewSessionService(store, gen, cfg.SessionSecret, cfg.SessionTTL)
		routes.Sessions = handler.NewSessionHandler(sessionService)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func openSessionStore(ctx context.Context, cfg config.Config) (service.SessionStore, io.Closer, error) {
	switch cfg.SessionStore {
	case config.StoreMySQL:
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSessionRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		go purgeExpired(ctx, repo, time.Minute)
		return repo, db, nil

	case config.StoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSessionStore(client), client, nil

	default:
		store := repository.NewMemorySessionStore(time.Minute)
		return store, store, nil
	}
}

func purgeExpired(ctx context.Context, repo *repository.SessionRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				slog.Warn("purging expired sessions failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("purged expired sessions", "count", n)
			}
		}
	}
}
