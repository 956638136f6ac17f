package main

import (
	"chat-relay/contract"
	"chat-relay/infrastructure/websocket"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle and is the single exit point,
// so that every deferred cleanup runs before the process ends.
func run() error {
	// 1. Configuration & Logger
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. History Log
	history, closeHistory, err := openHistory(config, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	// 3. Optional moderation
	var moderator *moderation.Moderator
	if words := config.Words(); len(words) > 0 {
		char, err := config.ReplacementRune()
		if err != nil {
			return err
		}
		if moderator, err = moderation.NewModerator(words, char, log); err != nil {
			return fmt.Errorf("moderator: %w", err)
		}
	}

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), history,
		moderator, config.MetricInterval)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator stopped", "error", err)
		}
	}()

	// 6. HTTP & WebSocket server
	address := fmt.Sprintf(":%d", Port)
	server := &http.Server{
		Addr:              address,
		Handler:           websocket.NewHandler(log, orchestrator, internal.Page()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Chat server running", "url", fmt.Sprintf("http://localhost:%d", Port),
			"history", config.HistoryBackend, "moderation", moderator != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		orchestrator.Stop()
		return err
	}

	// 8. Final Cleanup
	// Shutdown does not wait for hijacked WebSocket connections.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	log.Info("Program stopped cleanly")
	return nil
}

func openHistory(config Config, log *slog.Logger) (contract.IHistory, func(), error) {
	if config.HistoryBackend != BadgerBackend {
		return repositories.NewMemoryHistory(), func() {}, nil
	}
	db, err := repositories.OpenInMemory()
	if err != nil {
		return nil, nil, fmt.Errorf("database opening failed: %w", err)
	}
	return repositories.NewBadgerHistory(db, log), func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}, nil
}
