package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/hzhao-dev/triagecare/backend/internal/config"
	"github.com/hzhao-dev/triagecare/backend/internal/handler"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
	"github.com/hzhao-dev/triagecare/backend/internal/service/messaging"
	"github.com/hzhao-dev/triagecare/backend/internal/service/question"
	sessionservice "github.com/hzhao-dev/triagecare/backend/internal/service/session"
	"github.com/hzhao-dev/triagecare/backend/internal/service/triage"
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

	generator := buildGenerator(ctx, cfg.AI)
	store := buildStore(ctx, cfg.Store)

	questionSvc := question.NewService(generator)
	engine := triage.NewEngine(generator)
	messagingSvc := messaging.NewService(generator)
	sessions := sessionservice.NewService(store, questionSvc, engine, messagingSvc)

	router := handler.NewRouter(sessions, generator)

	startServer(ctx, cfg.Server, router)
}

// buildGenerator creates the configured generation backend wrapped in the
// retry policy. A nil return means the engine runs deterministic-only, which
// is a supported degraded mode, not an error.
func buildGenerator(ctx context.Context, cfg config.AIConfig) ai.Generator {
	if !cfg.Enabled() {
		log.Println("generation credentials not configured, running deterministic fallbacks only")
		return nil
	}

	policy := ai.RetryPolicy{
		Attempts:       cfg.Attempts,
		AttemptTimeout: cfg.AttemptTimeout,
		BackoffBase:    200 * time.Millisecond,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		log.Println("generation backend: openai")
		return ai.WithRetry(ai.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel), policy)
	default:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize ark chat model: %v", err)
			log.Println("continuing with deterministic fallbacks only")
			return nil
		}
		gen, err := ai.NewChainGenerator(ctx, chatModel)
		if err != nil {
			log.Printf("warning: failed to build generation chain: %v", err)
			return nil
		}
		log.Println("generation backend: ark")
		return ai.WithRetry(gen, policy)
	}
}

func buildStore(ctx context.Context, cfg config.StoreConfig) sessionservice.Store {
	if cfg.Backend == config.BackendPostgres {
		if cfg.DatabaseURL == "" {
			log.Fatal("SESSION_STORE=postgres requires DATABASE_URL")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("failed to reach database: %v", err)
		}

		store := sessionservice.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate session schema: %v", err)
		}
		log.Println("session store: postgres")
		return store
	}

	log.Println("session store: memory")
	return sessionservice.NewMemoryStore()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("TriageCare backend listening on %s", addr)
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
