package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vishal25102002/planify/internal/answer"
	"github.com/Vishal25102002/planify/internal/api"
	"github.com/Vishal25102002/planify/internal/chat"
	"github.com/Vishal25102002/planify/internal/config"
	"github.com/Vishal25102002/planify/internal/handlers"
	"github.com/Vishal25102002/planify/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Wire up the core: store, answering service client, controller
	conversations := store.New()
	answers := answer.NewClient(cfg.AnswerURL, cfg.AnswerTimeout, logger)
	controller := chat.NewController(conversations, answers, logger)

	// Create router
	h := handlers.NewHandler(conversations, controller, answers)
	router := api.NewRouter(logger, h, cfg.CORSOrigins)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("answer_url", cfg.AnswerURL).
			Msg("starting Planify server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Let an in-flight chat turn finish so its answer is not lost mid-append
	controller.Wait()

	logger.Info().Msg("server stopped")
}
