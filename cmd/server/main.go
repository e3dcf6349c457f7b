package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/legal-assistant/internal/api"
	"github.com/Rrens/legal-assistant/internal/bootstrap"
	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/logging"
	"github.com/Rrens/legal-assistant/internal/watcher"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// adminPassphrase is replaced at build time with
// -ldflags "-X main.adminPassphrase=..."
var adminPassphrase = "252525"

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting legal assistant server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, adminPassphrase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	rt.App.Start(ctx)

	if cfg.Ingest.WatchDir != "" {
		inbox, err := watcher.New(cfg.Ingest.WatchDir, cfg.Ingest.Debounce, rt.App)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Ingest.WatchDir).Msg("Failed to watch inbox")
		}
		defer inbox.Close()

		go func() {
			if err := inbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Inbox watcher stopped")
			}
		}()
		log.Info().Str("dir", cfg.Ingest.WatchDir).Msg("Watching inbox")
	}

	router := api.NewRouter(cfg, api.Dependencies{
		App:     rt.App,
		Store:   rt.Store,
		LLM:     rt.LLM,
		Metrics: rt.Metrics,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
