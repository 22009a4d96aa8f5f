package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"togaftutor.app/tutor/common/id"
	"togaftutor.app/tutor/common/llm"
	"togaftutor.app/tutor/common/logger"
	"togaftutor.app/tutor/common/otel"
	"togaftutor.app/tutor/core/config"
	"togaftutor.app/tutor/internal/embedding"
	"togaftutor.app/tutor/internal/http/middleware"
	httprouter "togaftutor.app/tutor/internal/http/router"
	"togaftutor.app/tutor/internal/queue"
	"togaftutor.app/tutor/internal/search"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
	"togaftutor.app/tutor/internal/tutor"
	"togaftutor.app/tutor/internal/vectorstore"
)

const sessionCleanupInterval = 15 * time.Minute

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "tutor starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

	ingestProducer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	defer ingestProducer.Close()

	stores, err := store.NewLocalStores(cfg.DataDir)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open profile stores", "error", err)
		os.Exit(1)
	}
	services := service.NewServices(stores)

	embedder := embedding.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.EmbeddingModel)

	var vectors vectorstore.Store
	if cfg.Typesense.Enabled() {
		vectors = vectorstore.NewTypesenseStore(cfg.Typesense.URL, cfg.Typesense.APIKey)
		slog.InfoContext(ctx, "typesense vector store configured", "url", cfg.Typesense.URL)
	} else {
		vectors = vectorstore.NewMemoryStore()
		slog.InfoContext(ctx, "typesense not configured, using in-memory vector store")
	}

	searchService := search.New(embedder, vectors)

	llmClient, err := llm.New(llm.Config{
		Provider: cfg.TutorLLM.Provider,
		APIKey:   cfg.TutorLLM.APIKey,
		BaseURL:  cfg.TutorLLM.BaseURL,
		Model:    cfg.TutorLLM.Model,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize llm client", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "llm client initialized", "provider", cfg.TutorLLM.Provider, "model", llmClient.Model())

	agent := tutor.New(llmClient, searchService, stores.Profiles(), services.Sessions(), services.Progress())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, httprouter.Dependencies{
		Services: services,
		Search:   searchService,
		Agent:    agent,
		Producer: ingestProducer,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	go runSessionCleanup(cleanupCtx, services.Sessions())

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stopCleanup()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, deps httprouter.Dependencies) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, deps, httprouter.RouterConfig{
		AdminAPIKey: cfg.AdminAPIKey,
		CorpusRoot:  cfg.Corpus.SourceDir,
	})

	return router
}

// runSessionCleanup expires idle sessions so abandoned conversations
// still get recorded into learning history.
func runSessionCleanup(ctx context.Context, sessions service.SessionService) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := sessions.CleanupExpired(ctx)
			if err != nil {
				slog.WarnContext(ctx, "session cleanup failed", "error", err)
				continue
			}
			if expired > 0 {
				slog.InfoContext(ctx, "expired sessions cleaned up", "count", expired)
			}
		}
	}
}

const banner = `
████████╗ ██████╗  ██████╗  █████╗ ███████╗    ████████╗██╗   ██╗████████╗ ██████╗ ██████╗
╚══██╔══╝██╔═══██╗██╔════╝ ██╔══██╗██╔════╝    ╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
   ██║   ██║   ██║██║  ███╗███████║█████╗         ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
   ██║   ██║   ██║██║   ██║██╔══██║██╔══╝         ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
   ██║   ╚██████╔╝╚██████╔╝██║  ██║██║            ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
   ╚═╝    ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝            ╚═╝    ╚═════╝    ╚═╝    ╚═════╝ ╚═╝  ╚═╝
`
