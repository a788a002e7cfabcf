// Package main is the entry point for the chat API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ai-messenger/chat-platform/internal/config"
	"github.com/ai-messenger/chat-platform/internal/handler"
	"github.com/ai-messenger/chat-platform/internal/middleware"
	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/internal/store"
	"github.com/ai-messenger/chat-platform/internal/suggest"
	"github.com/ai-messenger/chat-platform/pkg/logger"
	"github.com/ai-messenger/chat-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chat API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "chat-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Set up the state store
	var stateStore store.Store
	ready := func() bool { return true }
	if cfg.StateStore == "nats" {
		natsStore, err := store.ConnectNATS(ctx, store.NATSConfig{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsStore.Close()
		stateStore = natsStore
		ready = natsStore.IsConnected
	} else {
		stateStore = store.NewMemoryStore()
	}

	// Build the suggestion generator
	generator, err := suggest.New(suggest.Config{
		Backend: suggest.Backend(cfg.AIBackend),
		APIKey:  cfg.BackendAPIKey(),
		Model:   cfg.AIModel,
		BaseURL: cfg.OllamaURL,
		Timeout: cfg.SuggestionTimeout,
	})
	if err != nil {
		log.Error("failed to create suggestion generator", zap.Error(err))
		os.Exit(1)
	}
	if err := generator.Initialize(ctx); err != nil {
		log.Warn("AI backend not ready, suggestions degrade to empty",
			zap.String("backend", generator.Name()),
			zap.Error(err),
		)
	}

	// Initialize the chat service and restore prior state
	chatService := service.New(generator, stateStore, log)
	chatService.EnableAutoReply(cfg.AutoReply)
	if restored, err := chatService.LoadState(ctx); err != nil {
		log.Warn("failed to load chat state", zap.Error(err))
	} else if restored {
		log.Info("chat state restored")
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(ready)
	roomHandler := handler.NewRoomHandler(chatService, log)
	messageHandler := handler.NewMessageHandler(chatService, log)
	suggestionHandler := handler.NewSuggestionHandler(chatService, log)
	stateHandler := handler.NewStateHandler(chatService, log)
	streamHandler := handler.NewStreamHandler(chatService, log)
	thinkingHandler := handler.NewThinkingHandler(log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Rooms
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", roomHandler.Create)
			r.Get("/", roomHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", roomHandler.Get)
				r.Post("/activate", roomHandler.Activate)

				r.Get("/messages", messageHandler.List)
				r.Get("/messages/by-date", messageHandler.ByDate)

				r.Get("/stream", streamHandler.Stream)
			})
		})

		// Messages go to the current room
		r.Post("/messages", messageHandler.Send)

		// AI suggestions
		r.Post("/suggestions", suggestionHandler.Generate)
		r.Get("/ai", suggestionHandler.Status)
		r.Post("/ai/toggle", suggestionHandler.Toggle)
		r.Put("/ai/config", suggestionHandler.Configure)

		// Session persistence
		r.Post("/state/save", stateHandler.Save)
		r.Post("/state/load", stateHandler.Load)

		// Thinking visualizer
		r.Route("/thinking", func(r chi.Router) {
			r.Post("/{scenario}", thinkingHandler.Start)
			r.Route("/trackers/{id}", func(r chi.Router) {
				r.Get("/", thinkingHandler.Get)
				r.Post("/complete", thinkingHandler.Complete)
				r.Post("/next", thinkingHandler.Next)
				r.Post("/prev", thinkingHandler.Prev)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Persist state before exit; a failed save only costs the session.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 5*time.Second)
	if err := chatService.SaveState(saveCtx); err != nil {
		log.Warn("failed to save chat state on shutdown", zap.Error(err))
	}
	cancelSave()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
