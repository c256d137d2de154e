// UIForge - AI component generator server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/uiforge/internal/api"
	"github.com/ashureev/uiforge/internal/config"
	"github.com/ashureev/uiforge/internal/generator"
	"github.com/ashureev/uiforge/internal/health"
	"github.com/ashureev/uiforge/internal/identity"
	"github.com/ashureev/uiforge/internal/llm"
	"github.com/ashureev/uiforge/internal/metrics"
	"github.com/ashureev/uiforge/internal/middleware"
	"github.com/ashureev/uiforge/internal/socket"
	"github.com/ashureev/uiforge/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "model", cfg.LLM.Model)
	if cfg.LLM.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, every request will use fallback components")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// History store (optional).
	var repo store.Repository
	if cfg.History.Enabled {
		sqlite, err := store.NewSQLite(cfg.History.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := sqlite.Close(); closeErr != nil {
				slog.Error("Failed to close repository", "error", closeErr)
			}
		}()

		if err := sqlite.Ping(ctx); err != nil {
			slog.Error("Database health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database connected", "path", cfg.History.DBPath)

		repo = sqlite
		store.StartRetentionWorker(ctx, repo, cfg.History.TTL, cfg.History.PruneInterval)
	} else {
		slog.Info("Generation history disabled")
	}

	var grpcSrv *health.GRPCServer
	if cfg.GRPCPort != "" {
		grpcSrv = health.NewGRPCServer()
	}

	// LLM client behind the circuit breaker.
	client := llm.NewClient(cfg.LLM.APIKey,
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithModel(cfg.LLM.Model),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
	)
	breaker := llm.NewBreaker(client, llm.BreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		Timeout:          cfg.Breaker.Timeout,
		OnStateChange: func(from, to llm.State) {
			slog.Warn("LLM circuit breaker state changed", "from", from.String(), "to", to.String())
			m.BreakerState(int(to))
			if grpcSrv != nil {
				grpcSrv.SetBreakerState(to)
			}
		},
	})
	m.BreakerState(int(llm.StateClosed))

	genCfg := generator.DefaultConfig()
	genCfg.Model = cfg.LLM.Model
	genCfg.Temperature = cfg.LLM.Temperature
	genCfg.MaxTokens = cfg.LLM.MaxTokens

	genOpts := []generator.Option{generator.WithMetrics(m), generator.WithLogger(logger)}
	if repo != nil {
		genOpts = append(genOpts, generator.WithHistory(repo))
	}
	svc := generator.NewService(breaker, genCfg, genOpts...)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer limiter.Close()

	// Initialize handlers.
	apiOpts := []api.Option{
		api.WithMaxBodyBytes(cfg.MaxRequestBody),
		api.WithRateLimit(middleware.RateLimit(limiter, rateLimitKey, m.RateLimited)),
	}
	if repo != nil {
		apiOpts = append(apiOpts, api.WithHistory(repo))
	}
	apiHandler := api.NewHandler(svc, apiOpts...)
	healthHandler := health.NewHandler(repo, breaker)

	hub := socket.NewHub()
	wsHandler := socket.NewHandler(svc, hub, cfg.AllowedOrigins()[0], cfg.IsDevelopment())
	wsHandler.SetLimiter(limiter)
	wsHandler.SetMetrics(m)
	healthHandler.SetConnections(hub)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	// Public routes.
	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", m.Handler())

	// Client-scoped routes.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		r.Route("/api", apiHandler.RegisterRoutes)
		r.Get("/ws", wsHandler.ServeHTTP)
	})

	// No read/write timeout: generation may take the full LLM timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if grpcSrv != nil {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			slog.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			os.Exit(1)
		}
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				slog.Error("gRPC server failed", "error", err)
			}
		}()
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if grpcSrv != nil {
		grpcSrv.Stop()
	}
	svc.Close()

	slog.Info("Server stopped successfully")
}

// rateLimitKey keys HTTP rate limiting by client ID, falling back to the
// remote address.
func rateLimitKey(r *http.Request) string {
	if id := identity.ClientIDFromContext(r.Context()); id != "" {
		return id
	}
	return identity.IPFromRequest(r)
}
